package hints

import (
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/model"
	"github.com/ringstore-platform/ringstore/cluster/transport"
)

var (
	epB = netip.MustParseAddr("10.0.0.2")
	epC = netip.MustParseAddr("10.0.0.3")
)

func testLog(t *testing.T) *Log {
	t.Helper()
	l, err := NewLog(t.TempDir(), 0, zap.NewNop().Sugar())
	require.NoError(t, err)
	return l
}

func hintBody(t *testing.T, key string) []byte {
	t.Helper()
	m := model.NewMutation("users", key)
	m.Add("c1", []byte("v1"), 10)
	body, err := m.Marshal()
	require.NoError(t, err)
	return body
}

func TestLogRecordAndDrain(t *testing.T) {
	l := testLog(t)

	first := hintBody(t, "k1")
	second := hintBody(t, "k2")
	require.NoError(t, l.Record(epC, first))
	require.NoError(t, l.Record(epC, second))

	eps, err := l.Endpoints()
	require.NoError(t, err)
	require.Equal(t, []netip.Addr{epC}, eps)

	// Hints come back in append order.
	payload, cursor, ok, err := l.Next(epC)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first, payload)

	require.NoError(t, l.Advance(epC, cursor))

	payload, cursor, ok, err = l.Next(epC)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, second, payload)

	// Acknowledging the last hint removes the file family.
	require.NoError(t, l.Advance(epC, cursor))
	_, _, ok, err = l.Next(epC)
	require.NoError(t, err)
	require.False(t, ok)

	eps, err = l.Endpoints()
	require.NoError(t, err)
	require.Empty(t, eps)
}

func TestLogCursorSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLog(dir, 0, zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, l.Record(epC, hintBody(t, "k1")))
	require.NoError(t, l.Record(epC, hintBody(t, "k2")))

	_, cursor, ok, err := l.Next(epC)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.Advance(epC, cursor))

	reopened, err := NewLog(dir, 0, zap.NewNop().Sugar())
	require.NoError(t, err)

	payload, _, ok, err := reopened.Next(epC)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, hintBody(t, "k2"), payload)
}

func TestLogSeparateQueues(t *testing.T) {
	l := testLog(t)

	require.NoError(t, l.Record(epB, hintBody(t, "b")))
	require.NoError(t, l.Record(epC, hintBody(t, "c")))

	eps, err := l.Endpoints()
	require.NoError(t, err)
	require.ElementsMatch(t, []netip.Addr{epB, epC}, eps)
}

// ackingTransport acknowledges every mutation and remembers what arrived.
type ackingTransport struct {
	mu       sync.Mutex
	received map[netip.Addr][][]byte
	silent   bool
}

func newAckingTransport() *ackingTransport {
	return &ackingTransport{received: map[netip.Addr][][]byte{}}
}

func (t *ackingTransport) SendOneWay(msg transport.Message, to netip.Addr) error {
	return t.SendRR(msg, to, nil)
}

func (t *ackingTransport) SendRR(msg transport.Message, to netip.Addr, handler transport.ResponseHandler) error {
	t.mu.Lock()
	t.received[to] = append(t.received[to], msg.Body)
	silent := t.silent
	t.mu.Unlock()

	if handler != nil && !silent {
		go handler(transport.Message{Verb: msg.Verb, From: to})
	}
	return nil
}

func (t *ackingTransport) deliveries(to netip.Addr) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.received[to])
}

func TestReplayerDeliversOnAlive(t *testing.T) {
	l := testLog(t)
	require.NoError(t, l.Record(epC, hintBody(t, "k1")))
	require.NoError(t, l.Record(epC, hintBody(t, "k2")))

	tp := newAckingTransport()
	detector := transport.NewSettableDetector()
	gossiper := transport.NewStaticGossiper(netip.MustParseAddr("10.0.0.1"), []netip.Addr{epC})

	r := NewReplayer(l, tp, detector, gossiper, netip.MustParseAddr("10.0.0.1"),
		100*time.Millisecond, 0, zap.NewNop().Sugar())

	r.OnAlive(epC)

	require.Eventually(t, func() bool {
		return tp.deliveries(epC) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		eps, err := l.Endpoints()
		return err == nil && len(eps) == 0
	}, 2*time.Second, 10*time.Millisecond, "queue must be empty after replay")
}

func TestReplayerConvergesRecoveredReplica(t *testing.T) {
	// End to end: a hint parked for a dead replica reaches its store once
	// the replica comes back, and a local read there sees the write.
	l := testLog(t)

	m := model.NewMutation("users", "k1")
	m.Add("c1", []byte("v1"), 10)
	body, err := m.Marshal()
	require.NoError(t, err)
	require.NoError(t, l.Record(epC, body))

	logger := zap.NewNop().Sugar()
	store := transport.NewMemStore(transport.NewLogStatsSink(logger), logger)
	tp := transport.NewMemTransport()
	tp.Register(epC, func(msg transport.Message) *transport.Message {
		m, err := model.Unmarshal(msg.Body)
		if err != nil {
			return nil
		}
		if err := store.Apply(m); err != nil {
			return nil
		}
		return &transport.Message{Verb: msg.Verb, From: epC}
	})

	detector := transport.NewSettableDetector()
	gossiper := transport.NewStaticGossiper(netip.MustParseAddr("10.0.0.1"), []netip.Addr{epC})

	r := NewReplayer(l, tp, detector, gossiper, netip.MustParseAddr("10.0.0.1"),
		100*time.Millisecond, 0, logger)
	r.OnAlive(epC)

	require.Eventually(t, func() bool {
		row, err := store.Read("users", "k1")
		return err == nil && string(row.Columns["c1"].Value) == "v1"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReplayerParksWhenEndpointDies(t *testing.T) {
	l := testLog(t)
	require.NoError(t, l.Record(epC, hintBody(t, "k1")))

	tp := newAckingTransport()
	detector := transport.NewSettableDetector()
	detector.SetAlive(epC, false)
	gossiper := transport.NewStaticGossiper(netip.MustParseAddr("10.0.0.1"), []netip.Addr{epC})

	r := NewReplayer(l, tp, detector, gossiper, netip.MustParseAddr("10.0.0.1"),
		50*time.Millisecond, 0, zap.NewNop().Sugar())

	r.OnAlive(epC)
	time.Sleep(200 * time.Millisecond)
	require.Zero(t, tp.deliveries(epC), "dead endpoint must not receive hints")

	eps, err := l.Endpoints()
	require.NoError(t, err)
	require.Equal(t, []netip.Addr{epC}, eps, "hint must stay queued")
}
