package coordinator

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ringstore-platform/ringstore/cluster/model"
)

// ReadRequest is the body of a READ message: one key of one table, either
// as full data or as a digest.
type ReadRequest struct {
	Table      string
	Key        string
	DigestOnly bool
}

// Marshal serializes the request.
func (r ReadRequest) Marshal() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint16(len(r.Table)))
	buf.WriteString(r.Table)
	binary.Write(&buf, binary.BigEndian, uint16(len(r.Key)))
	buf.WriteString(r.Key)
	if r.DigestOnly {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// UnmarshalReadRequest restores a serialized read request.
func UnmarshalReadRequest(data []byte) (ReadRequest, error) {
	r := bytes.NewReader(data)

	table, err := readLengthPrefixed(r)
	if err != nil {
		return ReadRequest{}, fmt.Errorf("failed to read table: %w", err)
	}
	key, err := readLengthPrefixed(r)
	if err != nil {
		return ReadRequest{}, fmt.Errorf("failed to read key: %w", err)
	}
	flag, err := r.ReadByte()
	if err != nil {
		return ReadRequest{}, fmt.Errorf("failed to read digest flag: %w", err)
	}

	return ReadRequest{Table: table, Key: key, DigestOnly: flag == 1}, nil
}

func readLengthPrefixed(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if r.Len() < int(n) {
		return "", fmt.Errorf("field of %d bytes is truncated", n)
	}
	buf := make([]byte, n)
	r.Read(buf)
	return string(buf), nil
}

// ReadResponse is the body of a READ_RESPONSE message: either the replica's
// full row version or only its digest.
type ReadResponse struct {
	IsDigest bool
	Digest   []byte
	Row      model.Row
}

const (
	responseFlagData   = 0
	responseFlagDigest = 1
)

// MarshalDataResponse serializes a full-data response.
func MarshalDataResponse(table string, row model.Row) ([]byte, error) {
	body, err := model.RepairMutation(table, row).Marshal()
	if err != nil {
		return nil, err
	}
	return append([]byte{responseFlagData}, body...), nil
}

// MarshalDigestResponse serializes a digest-only response.
func MarshalDigestResponse(digest []byte) []byte {
	return append([]byte{responseFlagDigest}, digest...)
}

// UnmarshalReadResponse restores a serialized read response.
func UnmarshalReadResponse(data []byte) (ReadResponse, error) {
	if len(data) == 0 {
		return ReadResponse{}, fmt.Errorf("empty read response")
	}
	switch data[0] {
	case responseFlagDigest:
		return ReadResponse{IsDigest: true, Digest: data[1:]}, nil
	case responseFlagData:
		m, err := model.Unmarshal(data[1:])
		if err != nil {
			return ReadResponse{}, fmt.Errorf("failed to decode data response: %w", err)
		}
		return ReadResponse{Row: m.Row()}, nil
	default:
		return ReadResponse{}, fmt.Errorf("unknown read response flag %d", data[0])
	}
}
