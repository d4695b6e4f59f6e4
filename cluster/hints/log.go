// Package hints persists mutations addressed to unreachable replicas and
// replays them when the replica returns to service.
package hints

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"
)

const (
	logSuffix    = ".hintlog"
	cursorSuffix = ".cursor"
	headerSize   = 8 // u32 payload length, u32 crc
)

// Log is the durable hint store: one append-only, CRC-framed file family
// per destination endpoint, plus a cursor recording how far replay got.
// Hints are removed only after successful replay, by truncating a fully
// replayed file.
type Log struct {
	dir      string
	maxQueue datasize.ByteSize
	mu       sync.Mutex
	log      *zap.SugaredLogger
}

// NewLog opens (creating if needed) the hint spool directory. A non-zero
// maxQueue bounds the on-disk size of any single endpoint's queue; further
// hints are rejected until replay drains it.
func NewLog(dir string, maxQueue datasize.ByteSize, log *zap.SugaredLogger) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create hint directory: %w", err)
	}
	return &Log{dir: dir, maxQueue: maxQueue, log: log}, nil
}

func (l *Log) logPath(ep netip.Addr) string {
	return filepath.Join(l.dir, ep.String()+logSuffix)
}

func (l *Log) cursorPath(ep netip.Addr) string {
	return filepath.Join(l.dir, ep.String()+cursorSuffix)
}

// Record appends a serialized mutation to the endpoint's queue and syncs it
// to disk before returning.
func (l *Log) Record(target netip.Addr, mutation []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxQueue > 0 {
		if info, err := os.Stat(l.logPath(target)); err == nil &&
			uint64(info.Size())+headerSize+uint64(len(mutation)) > l.maxQueue.Bytes() {
			return fmt.Errorf("hint queue for %s exceeds %s", target, l.maxQueue.HumanReadable())
		}
	}

	f, err := os.OpenFile(l.logPath(target), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open hint log: %w", err)
	}
	defer f.Close()

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header[0:4], uint32(len(mutation)))
	binary.BigEndian.PutUint32(header[4:8], crc32.ChecksumIEEE(mutation))

	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("failed to append hint header: %w", err)
	}
	if _, err := f.Write(mutation); err != nil {
		return fmt.Errorf("failed to append hint: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync hint log: %w", err)
	}
	return nil
}

// Endpoints lists the destinations with hints still pending replay.
func (l *Log) Endpoints() ([]netip.Addr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list hint directory: %w", err)
	}

	var out []netip.Addr
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, logSuffix) {
			continue
		}
		ep, err := netip.ParseAddr(strings.TrimSuffix(name, logSuffix))
		if err != nil {
			l.log.Warnw("ignoring alien file in hint directory", zap.String("name", name))
			continue
		}
		pending, err := l.hasPendingLocked(ep)
		if err != nil {
			return nil, err
		}
		if pending {
			out = append(out, ep)
		}
	}
	return out, nil
}

func (l *Log) hasPendingLocked(ep netip.Addr) (bool, error) {
	info, err := os.Stat(l.logPath(ep))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	cursor, err := l.readCursorLocked(ep)
	if err != nil {
		return false, err
	}
	return cursor < uint64(info.Size()), nil
}

// Next returns the first unreplayed hint of the endpoint along with the
// cursor value that acknowledges it. ok is false when the queue is drained.
func (l *Log) Next(target netip.Addr) (mutation []byte, nextCursor uint64, ok bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.logPath(target))
	if os.IsNotExist(err) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to open hint log: %w", err)
	}
	defer f.Close()

	cursor, err := l.readCursorLocked(target)
	if err != nil {
		return nil, 0, false, err
	}
	if _, err := f.Seek(int64(cursor), io.SeekStart); err != nil {
		return nil, 0, false, fmt.Errorf("failed to seek hint log: %w", err)
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(f, header); err != nil {
		if err == io.EOF {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("failed to read hint header: %w", err)
	}

	length := binary.BigEndian.Uint32(header[0:4])
	sum := binary.BigEndian.Uint32(header[4:8])

	payload := make([]byte, length)
	if _, err := io.ReadFull(f, payload); err != nil {
		return nil, 0, false, fmt.Errorf("hint log is truncated: %w", err)
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return nil, 0, false, fmt.Errorf("hint at offset %d is corrupt", cursor)
	}

	return payload, cursor + headerSize + uint64(length), true, nil
}

// Advance persists the replay cursor after a hint was acknowledged. A fully
// replayed file is removed together with its cursor.
func (l *Log) Advance(target netip.Addr, cursor uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.logPath(target))
	if err != nil {
		return fmt.Errorf("failed to stat hint log: %w", err)
	}
	if cursor >= uint64(info.Size()) {
		if err := os.Remove(l.logPath(target)); err != nil {
			return fmt.Errorf("failed to remove drained hint log: %w", err)
		}
		if err := os.Remove(l.cursorPath(target)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove hint cursor: %w", err)
		}
		l.log.Infow("hint queue drained", zap.Stringer("endpoint", target))
		return nil
	}
	return l.writeCursorLocked(target, cursor)
}

func (l *Log) readCursorLocked(ep netip.Addr) (uint64, error) {
	data, err := os.ReadFile(l.cursorPath(ep))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read hint cursor: %w", err)
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("hint cursor of %d bytes is corrupt", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func (l *Log) writeCursorLocked(ep netip.Addr, cursor uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, cursor)

	tmp := l.cursorPath(ep) + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write hint cursor: %w", err)
	}
	if err := os.Rename(tmp, l.cursorPath(ep)); err != nil {
		return fmt.Errorf("failed to publish hint cursor: %w", err)
	}
	return nil
}
