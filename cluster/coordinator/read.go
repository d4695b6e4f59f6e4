package coordinator

import (
	"bytes"
	"context"
	"errors"
	"net/netip"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/locator"
	"github.com/ringstore-platform/ringstore/cluster/model"
	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
	"github.com/ringstore-platform/ringstore/cluster/transport"
)

// StrategyProvider resolves the replication strategy serving a table.
type StrategyProvider func(table string) locator.Strategy

// Env bundles the cluster collaborators both coordinators work against. It
// is constructed once at node startup and passed explicitly; there are no
// process-wide singletons.
type Env struct {
	Local       netip.Addr
	Partitioner partitioner.Partitioner
	StrategyFor StrategyProvider
	Metadata    *ring.Metadata
	Snitch      locator.Snitch
	Detector    transport.FailureDetector
	Transport   transport.Transport
	RPCTimeout  time.Duration
}

// ReadCoordinator drives the per-key read path.
type ReadCoordinator struct {
	env     Env
	manager *ConsistencyManager
	cycle   atomic.Int64
	log     *zap.SugaredLogger
}

// NewReadCoordinator constructs a read coordinator. The consistency manager
// may be nil, which disables async checks after weak reads.
func NewReadCoordinator(env Env, manager *ConsistencyManager, log *zap.SugaredLogger) *ReadCoordinator {
	return &ReadCoordinator{env: env, manager: manager, log: log}
}

// StrongRead returns the key's row resolved across blockFor replicas: the
// closest replica ships full data, the others ship digests, and any
// disagreement triggers a second full-data pass plus read repair.
func (c *ReadCoordinator) StrongRead(ctx context.Context, table, key string, cl ConsistencyLevel) (model.Row, error) {
	token := c.env.Partitioner.Token(key)
	natural := c.env.StrategyFor(table).NaturalEndpoints(token, table)

	live := make([]netip.Addr, 0, len(natural))
	for _, ep := range natural {
		if c.env.Detector.IsAlive(ep) {
			live = append(live, ep)
		}
	}

	blockFor := cl.BlockFor(len(natural))
	if blockFor < 1 {
		blockFor = 1
	}
	if len(live) < blockFor {
		return model.Row{}, &UnavailableError{Required: blockFor, Alive: len(live)}
	}

	targets := c.env.Snitch.SortByProximity(c.env.Local, live)[:blockFor]
	c.applyFailoverPick(token, natural, targets)

	row, err := c.readRound(ctx, table, key, targets, true)
	var mismatch *DigestMismatchError
	if errors.As(err, &mismatch) {
		c.log.Debugw("digest mismatch, retrying with full data",
			zap.String("table", table),
			zap.String("key", key),
		)
		return c.readRound(ctx, table, key, targets, false)
	}
	return row, err
}

// WeakRead returns the closest live replica's version and hands the key to
// the consistency manager for an asynchronous quorum check.
func (c *ReadCoordinator) WeakRead(ctx context.Context, table, key string) (model.Row, error) {
	token := c.env.Partitioner.Token(key)
	natural := c.env.StrategyFor(table).NaturalEndpoints(token, table)

	live := make([]netip.Addr, 0, len(natural))
	for _, ep := range natural {
		if c.env.Detector.IsAlive(ep) {
			live = append(live, ep)
		}
	}
	if len(live) == 0 {
		return model.Row{}, &UnavailableError{Required: 1, Alive: 0}
	}

	target := c.env.Snitch.SortByProximity(c.env.Local, live)[0]
	row, err := c.readRound(ctx, table, key, []netip.Addr{target}, false)
	if err != nil {
		return model.Row{}, err
	}

	if c.manager != nil {
		c.manager.Submit(func() {
			if _, err := c.StrongRead(context.Background(), table, key, Quorum); err != nil {
				c.log.Debugw("async consistency check failed",
					zap.String("table", table),
					zap.String("key", key),
					zap.Error(err),
				)
			}
		})
	}

	return row, nil
}

// applyFailoverPick moves the deterministic failover secondary to the
// front of the target list when the natural primary is down, so the full
// data read lands on a replica picked by the domain shuffle instead of
// always hammering the nearest survivor.
func (c *ReadCoordinator) applyFailoverPick(token partitioner.Token, natural, targets []netip.Addr) {
	if len(natural) < 2 || len(targets) < 2 || c.env.Detector.IsAlive(natural[0]) {
		return
	}
	domain, err := partitioner.DomainOf(token)
	if err != nil {
		return
	}

	pick := locator.FailoverIndex(domain, int(c.cycle.Add(1)), 0, len(natural))
	secondary := natural[1+pick]
	if i := slices.Index(targets, secondary); i > 0 {
		targets[0], targets[i] = targets[i], targets[0]
	}
}

// readRound performs one fan-out pass over the targets. With digests
// enabled, only the first target ships data; the rest return digests that
// are verified against it. Without, every target ships data and stale
// replicas are repaired.
func (c *ReadCoordinator) readRound(ctx context.Context, table, key string, targets []netip.Addr, digests bool) (model.Row, error) {
	cb := newReadCallback(len(targets))

	for i, ep := range targets {
		req := ReadRequest{Table: table, Key: key, DigestOnly: digests && i != 0}
		msg := transport.Message{Verb: transport.VerbRead, From: c.env.Local, Body: req.Marshal()}

		if err := c.env.Transport.SendRR(msg, ep, func(reply transport.Message) {
			resp, err := UnmarshalReadResponse(reply.Body)
			if err != nil {
				c.log.Warnw("dropping malformed read response",
					zap.Stringer("from", reply.From),
					zap.Error(err),
				)
				return
			}
			cb.add(reply.From, resp)
		}); err != nil {
			// The replica will miss the deadline; the error taxonomy
			// surfaces this as a timeout if quorum cannot be met without
			// it.
			c.log.Warnw("read dispatch failed",
				zap.Stringer("endpoint", ep),
				zap.Error(err),
			)
		}
	}

	if !cb.await(ctx, c.env.RPCTimeout) {
		received, _ := cb.snapshot()
		return model.Row{}, &TimeoutError{Required: len(targets), Received: len(received)}
	}

	responses, _ := cb.snapshot()

	versions := map[netip.Addr]model.Row{}
	dataRows := make([]model.Row, 0, len(responses))
	for from, resp := range responses {
		if !resp.IsDigest {
			versions[from] = resp.Row
			dataRows = append(dataRows, resp.Row)
		}
	}

	resolved := Resolve(dataRows)
	resolved.Key = key
	digest := resolved.Digest()

	for from, resp := range responses {
		if resp.IsDigest && !bytes.Equal(resp.Digest, digest) {
			c.log.Infow("replica digest disagrees",
				zap.String("key", key),
				zap.Stringer("replica", from),
			)
			return model.Row{}, &DigestMismatchError{Key: key}
		}
	}

	c.scheduleRepairs(table, resolved, versions)
	return resolved, nil
}

// scheduleRepairs sends diff mutations, fire and forget, to every
// responding replica whose version is behind the resolved row.
func (c *ReadCoordinator) scheduleRepairs(table string, resolved model.Row, versions map[netip.Addr]model.Row) {
	for ep, m := range RepairsFor(table, resolved, versions) {
		body, err := m.Marshal()
		if err != nil {
			c.log.Errorw("failed to serialize repair mutation", zap.Error(err))
			continue
		}
		msg := transport.Message{Verb: transport.VerbReadRepair, From: c.env.Local, Body: body}
		if err := c.env.Transport.SendOneWay(msg, ep); err != nil {
			c.log.Debugw("read repair send failed",
				zap.Stringer("endpoint", ep),
				zap.Error(err),
			)
		}
	}
}

// readCallback gathers replica responses keyed by responder. Inserts are
// idempotent; responses arriving after the round completed are dropped.
type readCallback struct {
	mu        sync.Mutex
	needed    int
	responses map[netip.Addr]ReadResponse
	hasData   bool
	completed bool
	done      chan struct{}
}

func newReadCallback(needed int) *readCallback {
	return &readCallback{
		needed:    needed,
		responses: map[netip.Addr]ReadResponse{},
		done:      make(chan struct{}),
	}
}

func (cb *readCallback) add(from netip.Addr, resp ReadResponse) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.completed {
		return
	}
	if _, dup := cb.responses[from]; dup {
		return
	}

	cb.responses[from] = resp
	if !resp.IsDigest {
		cb.hasData = true
	}
	// A round resolves only once it has the data response; digests alone
	// cannot produce a row.
	if len(cb.responses) >= cb.needed && cb.hasData {
		cb.completed = true
		close(cb.done)
	}
}

// await blocks until the round completes or the deadline expires, and
// reports whether it completed. After await returns, late responses cause
// no external effect.
func (cb *readCallback) await(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	completed := false
	select {
	case <-cb.done:
		completed = true
	case <-timer.C:
	case <-ctx.Done():
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if !cb.completed {
		cb.completed = true
		close(cb.done)
		return false
	}
	return completed
}

func (cb *readCallback) snapshot() (map[netip.Addr]ReadResponse, bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	out := make(map[netip.Addr]ReadResponse, len(cb.responses))
	for ep, resp := range cb.responses {
		out[ep] = resp
	}
	return out, cb.hasData
}
