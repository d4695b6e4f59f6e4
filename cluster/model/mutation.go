package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
)

// Mutation is a column update bound to one key of one table. Its serialized
// form is what travels to replicas and what the hint log persists; it is
// produced once per write and reused for both.
type Mutation struct {
	Table   string
	Key     string
	Columns map[string]Column
}

// NewMutation constructs an empty mutation for the key.
func NewMutation(table, key string) Mutation {
	return Mutation{Table: table, Key: key, Columns: map[string]Column{}}
}

// Add records a column update.
func (m *Mutation) Add(name string, value []byte, timestamp int64) {
	m.Columns[name] = Column{Name: name, Value: value, Timestamp: timestamp}
}

// Delete records a column tombstone.
func (m *Mutation) Delete(name string, timestamp int64) {
	m.Columns[name] = Column{Name: name, Timestamp: timestamp, Tombstone: true}
}

// Row returns the mutation content as a row version.
func (m Mutation) Row() Row {
	return Row{Key: m.Key, Columns: m.Columns}
}

// RepairMutation wraps a diff row as a mutation for the table.
func RepairMutation(table string, diff Row) Mutation {
	return Mutation{Table: table, Key: diff.Key, Columns: diff.Columns}
}

// Marshal serializes the mutation deterministically: big-endian,
// length-prefixed strings, columns in name order.
func (m Mutation) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	if err := writeString(&buf, m.Table); err != nil {
		return nil, fmt.Errorf("failed to write table: %w", err)
	}
	if err := writeString(&buf, m.Key); err != nil {
		return nil, fmt.Errorf("failed to write key: %w", err)
	}

	names := make([]string, 0, len(m.Columns))
	for name := range m.Columns {
		names = append(names, name)
	}
	slices.Sort(names)

	binary.Write(&buf, binary.BigEndian, uint32(len(names)))
	for _, name := range names {
		col := m.Columns[name]
		if err := writeString(&buf, name); err != nil {
			return nil, fmt.Errorf("failed to write column name: %w", err)
		}
		if len(col.Value) > math.MaxUint32 {
			return nil, fmt.Errorf("column %q value is too large", name)
		}
		binary.Write(&buf, binary.BigEndian, uint32(len(col.Value)))
		buf.Write(col.Value)
		binary.Write(&buf, binary.BigEndian, col.Timestamp)
		if col.Tombstone {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}

	return buf.Bytes(), nil
}

// Unmarshal restores a mutation serialized by Marshal.
func Unmarshal(data []byte) (Mutation, error) {
	r := bytes.NewReader(data)

	table, err := readString(r)
	if err != nil {
		return Mutation{}, fmt.Errorf("failed to read table: %w", err)
	}
	key, err := readString(r)
	if err != nil {
		return Mutation{}, fmt.Errorf("failed to read key: %w", err)
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return Mutation{}, fmt.Errorf("failed to read column count: %w", err)
	}

	m := NewMutation(table, key)
	for i := uint32(0); i < count; i++ {
		name, err := readString(r)
		if err != nil {
			return Mutation{}, fmt.Errorf("failed to read column %d name: %w", i, err)
		}

		var valueLen uint32
		if err := binary.Read(r, binary.BigEndian, &valueLen); err != nil {
			return Mutation{}, fmt.Errorf("failed to read column %q value length: %w", name, err)
		}
		if uint64(r.Len()) < uint64(valueLen) {
			return Mutation{}, fmt.Errorf("column %q value is truncated", name)
		}
		var value []byte
		if valueLen > 0 {
			value = make([]byte, valueLen)
			if _, err := r.Read(value); err != nil {
				return Mutation{}, fmt.Errorf("failed to read column %q value: %w", name, err)
			}
		}

		var timestamp int64
		if err := binary.Read(r, binary.BigEndian, &timestamp); err != nil {
			return Mutation{}, fmt.Errorf("failed to read column %q timestamp: %w", name, err)
		}
		tombstone, err := r.ReadByte()
		if err != nil {
			return Mutation{}, fmt.Errorf("failed to read column %q tombstone flag: %w", name, err)
		}

		m.Columns[name] = Column{
			Name:      name,
			Value:     value,
			Timestamp: timestamp,
			Tombstone: tombstone == 1,
		}
	}

	return m, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string of %d bytes exceeds the 64KiB frame limit", len(s))
	}
	binary.Write(buf, binary.BigEndian, uint16(len(s)))
	buf.WriteString(s)
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if r.Len() < int(n) {
		return "", fmt.Errorf("string of %d bytes is truncated", n)
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := r.Read(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
