package coordinator

import (
	"context"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/locator"
	"github.com/ringstore-platform/ringstore/cluster/model"
	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
	"github.com/ringstore-platform/ringstore/cluster/transport"
)

var (
	epA = netip.MustParseAddr("10.0.0.1")
	epB = netip.MustParseAddr("10.0.0.2")
	epC = netip.MustParseAddr("10.0.0.3")
)

// testCluster is a three-replica in-process ring around one coordinator
// node (epA).
type testCluster struct {
	tp       *transport.MemTransport
	detector *transport.SettableDetector
	stores   map[netip.Addr]*transport.MemStore
	env      Env
}

func newTestCluster(t *testing.T) *testCluster {
	t.Helper()
	logger := zap.NewNop().Sugar()

	meta := ring.NewMetadata()
	meta.UpdateNormalToken("40", epA)
	meta.UpdateNormalToken("80", epB)
	meta.UpdateNormalToken("c0", epC)

	strat, err := locator.NewSimpleStrategy(meta, locator.Options{DefaultRF: 3})
	require.NoError(t, err)

	tp := transport.NewMemTransport()
	detector := transport.NewSettableDetector()
	stores := map[netip.Addr]*transport.MemStore{}
	stats := transport.NewLogStatsSink(logger)

	for _, ep := range []netip.Addr{epA, epB, epC} {
		store := transport.NewMemStore(stats, logger)
		stores[ep] = store
		tp.Register(ep, replicaHandler(ep, store))
	}

	return &testCluster{
		tp:       tp,
		detector: detector,
		stores:   stores,
		env: Env{
			Local:       epA,
			Partitioner: partitioner.NewOrderPreserving(),
			StrategyFor: func(string) locator.Strategy { return strat },
			Metadata:    meta,
			Snitch:      locator.SimpleSnitch{},
			Detector:    detector,
			Transport:   tp,
			RPCTimeout:  200 * time.Millisecond,
		},
	}
}

// replicaHandler answers READ, MUTATION and READ_REPAIR the way a node
// does.
func replicaHandler(self netip.Addr, store *transport.MemStore) transport.Handler {
	return func(msg transport.Message) *transport.Message {
		switch msg.Verb {
		case transport.VerbRead:
			req, err := UnmarshalReadRequest(msg.Body)
			if err != nil {
				return nil
			}
			row, err := store.Read(req.Table, req.Key)
			if err != nil {
				return nil
			}
			var body []byte
			if req.DigestOnly {
				body = MarshalDigestResponse(row.Digest())
			} else {
				body, err = MarshalDataResponse(req.Table, row)
				if err != nil {
					return nil
				}
			}
			return &transport.Message{Verb: transport.VerbReadResponse, From: self, Body: body}

		case transport.VerbMutation:
			m, err := model.Unmarshal(msg.Body)
			if err != nil {
				return nil
			}
			if err := store.Apply(m); err != nil {
				return nil
			}
			return &transport.Message{Verb: transport.VerbMutation, From: self}

		case transport.VerbReadRepair:
			if m, err := model.Unmarshal(msg.Body); err == nil {
				store.Apply(m)
			}
			return nil
		}
		return nil
	}
}

func (c *testCluster) seed(t *testing.T, ep netip.Addr, m model.Mutation) {
	t.Helper()
	require.NoError(t, c.stores[ep].Apply(m))
}

func (c *testCluster) takeDown(ep netip.Addr) {
	c.detector.SetAlive(ep, false)
	c.tp.SetDown(ep)
}

func mutationOf(key string, cols ...model.Column) model.Mutation {
	m := model.NewMutation("users", key)
	for _, col := range cols {
		m.Columns[col.Name] = col
	}
	return m
}

func column(name, value string, ts int64) model.Column {
	return model.Column{Name: name, Value: []byte(value), Timestamp: ts}
}

func TestStrongReadQuorum(t *testing.T) {
	c := newTestCluster(t)
	for _, ep := range []netip.Addr{epA, epB, epC} {
		c.seed(t, ep, mutationOf("50key", column("c1", "v1", 10)))
	}

	rc := NewReadCoordinator(c.env, nil, zap.NewNop().Sugar())
	row, err := rc.StrongRead(context.Background(), "users", "50key", Quorum)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), row.Columns["c1"].Value)
}

func TestStrongReadUnavailable(t *testing.T) {
	c := newTestCluster(t)
	c.takeDown(epB)
	c.takeDown(epC)

	rc := NewReadCoordinator(c.env, nil, zap.NewNop().Sugar())
	_, err := rc.StrongRead(context.Background(), "users", "50key", Quorum)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, 2, unavailable.Required)
	require.Equal(t, 1, unavailable.Alive)
}

func TestStrongReadQuorumSurvivesOneDeadReplica(t *testing.T) {
	c := newTestCluster(t)
	for _, ep := range []netip.Addr{epA, epB} {
		c.seed(t, ep, mutationOf("50key", column("c1", "v1", 10)))
	}
	c.takeDown(epC)

	rc := NewReadCoordinator(c.env, nil, zap.NewNop().Sugar())
	row, err := rc.StrongRead(context.Background(), "users", "50key", Quorum)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), row.Columns["c1"].Value)
}

func TestDigestMismatchRecovery(t *testing.T) {
	c := newTestCluster(t)
	// One replica has an extra, newer column; digests will disagree.
	c.seed(t, epA, mutationOf("50key", column("c1", "v1", 10)))
	c.seed(t, epB, mutationOf("50key", column("c1", "v1", 10), column("c2", "v2", 5)))
	c.seed(t, epC, mutationOf("50key", column("c1", "v1", 10)))

	rc := NewReadCoordinator(c.env, nil, zap.NewNop().Sugar())
	row, err := rc.StrongRead(context.Background(), "users", "50key", All)
	require.NoError(t, err, "mismatch must be recovered by the second pass")
	require.Equal(t, []byte("v1"), row.Columns["c1"].Value)
	require.Equal(t, []byte("v2"), row.Columns["c2"].Value)

	// The stale replicas receive repair mutations.
	require.Eventually(t, func() bool {
		for _, ep := range []netip.Addr{epA, epC} {
			row, err := c.stores[ep].Read("users", "50key")
			if err != nil || !row.Columns["c2"].Equal(column("c2", "v2", 5)) {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond, "read repair must converge stale replicas")
}

func TestWeakReadSchedulesConsistencyCheck(t *testing.T) {
	c := newTestCluster(t)
	c.seed(t, epA, mutationOf("50key", column("c1", "v1", 10)))
	c.seed(t, epB, mutationOf("50key", column("c1", "v1", 10), column("c2", "v2", 5)))
	c.seed(t, epC, mutationOf("50key", column("c1", "v1", 10)))

	logger := zap.NewNop().Sugar()
	manager := NewConsistencyManager(2, 16, logger)
	defer manager.Close()

	rc := NewReadCoordinator(c.env, manager, logger)
	row, err := rc.WeakRead(context.Background(), "users", "50key")
	require.NoError(t, err)
	require.NotEmpty(t, row.Columns)

	// The async check runs a quorum read, detects the mismatch and
	// repairs the stale replicas.
	require.Eventually(t, func() bool {
		row, err := c.stores[epA].Read("users", "50key")
		return err == nil && row.Columns["c2"].Equal(column("c2", "v2", 5))
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWriteQuorum(t *testing.T) {
	c := newTestCluster(t)
	wc := NewWriteCoordinator(c.env, nil, zap.NewNop().Sugar())

	err := wc.Mutate(context.Background(), mutationOf("50key", column("c1", "v1", 10)), Quorum)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, ep := range []netip.Addr{epA, epB, epC} {
			row, err := c.stores[ep].Read("users", "50key")
			if err != nil || !row.Columns["c1"].Equal(column("c1", "v1", 10)) {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

type recordingHints struct {
	mu    sync.Mutex
	hints map[netip.Addr][][]byte
}

func newRecordingHints() *recordingHints {
	return &recordingHints{hints: map[netip.Addr][][]byte{}}
}

func (h *recordingHints) Record(target netip.Addr, mutation []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hints[target] = append(h.hints[target], mutation)
	return nil
}

func (h *recordingHints) recorded(target netip.Addr) [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hints[target]
}

func TestWriteHintsDeadReplica(t *testing.T) {
	c := newTestCluster(t)
	c.takeDown(epC)

	hints := newRecordingHints()
	wc := NewWriteCoordinator(c.env, hints, zap.NewNop().Sugar())

	m := mutationOf("e0key", column("c1", "v1", 10)) // primary is epC's range
	require.NoError(t, wc.Mutate(context.Background(), m, Quorum))

	recorded := hints.recorded(epC)
	require.Len(t, recorded, 1)

	restored, err := model.Unmarshal(recorded[0])
	require.NoError(t, err)
	require.Equal(t, "e0key", restored.Key)

	// The live replicas got the write.
	require.Eventually(t, func() bool {
		for _, ep := range []netip.Addr{epA, epB} {
			row, err := c.stores[ep].Read("users", "e0key")
			if err != nil || row.IsEmpty() {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWriteUnavailable(t *testing.T) {
	c := newTestCluster(t)
	c.takeDown(epB)
	c.takeDown(epC)

	wc := NewWriteCoordinator(c.env, newRecordingHints(), zap.NewNop().Sugar())
	err := wc.Mutate(context.Background(), mutationOf("50key", column("c1", "v1", 10)), Quorum)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestWriteTimeout(t *testing.T) {
	c := newTestCluster(t)
	// Drop epB and epC on the floor without telling the failure detector:
	// dispatch happens, acknowledgements never arrive.
	c.tp.SetDown(epB)
	c.tp.SetDown(epC)

	wc := NewWriteCoordinator(c.env, nil, zap.NewNop().Sugar())
	err := wc.Mutate(context.Background(), mutationOf("50key", column("c1", "v1", 10)), All)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	require.Equal(t, 3, timeout.Required)
}

func TestWriteQuiesced(t *testing.T) {
	c := newTestCluster(t)
	wc := NewWriteCoordinator(c.env, nil, zap.NewNop().Sugar())
	wc.Quiesce()

	err := wc.Mutate(context.Background(), mutationOf("50key", column("c1", "v1", 10)), One)
	require.Error(t, err)
}

func TestWritePendingEndpointsReceiveWrites(t *testing.T) {
	c := newTestCluster(t)

	// A joining node is pending for the arc covering the key.
	epD := netip.MustParseAddr("10.0.0.4")
	storeD := transport.NewMemStore(transport.NewLogStatsSink(zap.NewNop().Sugar()), zap.NewNop().Sugar())
	c.tp.Register(epD, replicaHandler(epD, storeD))
	c.env.Metadata.SetPendingRanges("users", map[ring.Range][]netip.Addr{
		{Left: "40", Right: "80"}: {epD},
	})

	wc := NewWriteCoordinator(c.env, nil, zap.NewNop().Sugar())
	require.NoError(t, wc.Mutate(context.Background(), mutationOf("50key", column("c1", "v1", 10)), Quorum))

	require.Eventually(t, func() bool {
		row, err := storeD.Read("users", "50key")
		return err == nil && !row.IsEmpty()
	}, 2*time.Second, 10*time.Millisecond, "pending endpoint must also receive the write")
}
