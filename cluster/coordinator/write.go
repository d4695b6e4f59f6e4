package coordinator

import (
	"context"
	"net/netip"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/model"
	"github.com/ringstore-platform/ringstore/cluster/transport"
)

// HintRecorder persists a serialized mutation addressed to a replica that
// could not be reached.
type HintRecorder interface {
	Record(target netip.Addr, mutation []byte) error
}

// WriteCoordinator drives the per-key write path: fan-out to natural plus
// pending endpoints, quorum accounting, and hints for dead replicas.
type WriteCoordinator struct {
	env      Env
	hints    HintRecorder
	quiesced atomic.Bool
	log      *zap.SugaredLogger
}

// NewWriteCoordinator constructs a write coordinator.
func NewWriteCoordinator(env Env, hints HintRecorder, log *zap.SugaredLogger) *WriteCoordinator {
	return &WriteCoordinator{env: env, hints: hints, log: log}
}

// Quiesce stops the coordinator from accepting mutations; used by drain.
func (c *WriteCoordinator) Quiesce() {
	c.quiesced.Store(true)
}

// Mutate applies the mutation at the requested consistency level. The
// mutation is serialized once; the same bytes go to every replica and to
// the hint log for the dead ones. A timeout after dispatch is not rolled
// back: hinted handoff and read repair converge the stragglers.
func (c *WriteCoordinator) Mutate(ctx context.Context, m model.Mutation, cl ConsistencyLevel) error {
	if c.quiesced.Load() {
		return &UnavailableError{Required: cl.BlockFor(1), Alive: 0}
	}

	body, err := m.Marshal()
	if err != nil {
		return err
	}

	token := c.env.Partitioner.Token(m.Key)
	natural := c.env.StrategyFor(m.Table).NaturalEndpoints(token, m.Table)
	pending := c.env.Metadata.PendingEndpointsFor(token, m.Table)

	targets := slices.Clone(natural)
	for _, ep := range pending {
		if !slices.Contains(targets, ep) {
			targets = append(targets, ep)
		}
	}

	blockFor := cl.BlockFor(len(natural))
	if blockFor < 1 {
		blockFor = 1
	}

	liveCount := 0
	for _, ep := range targets {
		if c.env.Detector.IsAlive(ep) {
			liveCount++
		}
	}
	if liveCount < blockFor {
		return &UnavailableError{Required: blockFor, Alive: liveCount}
	}

	cb := newWriteCallback(blockFor)
	msg := transport.Message{Verb: transport.VerbMutation, From: c.env.Local, Body: body}

	for _, ep := range targets {
		if !c.env.Detector.IsAlive(ep) {
			c.recordHint(ep, body)
			continue
		}
		if err := c.env.Transport.SendRR(msg, ep, func(reply transport.Message) {
			cb.ack(reply.From)
		}); err != nil {
			c.log.Warnw("mutation dispatch failed, storing hint",
				zap.Stringer("endpoint", ep),
				zap.Error(err),
			)
			c.recordHint(ep, body)
		}
	}

	if !cb.await(ctx, c.env.RPCTimeout) {
		return &TimeoutError{Required: blockFor, Received: cb.received()}
	}
	return nil
}

func (c *WriteCoordinator) recordHint(ep netip.Addr, body []byte) {
	if c.hints == nil {
		return
	}
	if err := c.hints.Record(ep, body); err != nil {
		c.log.Errorw("failed to store hint",
			zap.Stringer("endpoint", ep),
			zap.Error(err),
		)
	}
}

// writeCallback counts distinct replica acknowledgements.
type writeCallback struct {
	mu     sync.Mutex
	needed int
	acked  map[netip.Addr]struct{}
	done   chan struct{}
	closed bool
}

func newWriteCallback(needed int) *writeCallback {
	return &writeCallback{
		needed: needed,
		acked:  map[netip.Addr]struct{}{},
		done:   make(chan struct{}),
	}
}

func (cb *writeCallback) ack(from netip.Addr) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.acked[from] = struct{}{}
	if !cb.closed && len(cb.acked) >= cb.needed {
		cb.closed = true
		close(cb.done)
	}
}

func (cb *writeCallback) received() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return len(cb.acked)
}

func (cb *writeCallback) await(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-cb.done:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
