package controller

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
)

// StartNormal announces an already-bootstrapped node's token and starts
// serving.
func (c *RingController) StartNormal(token partitioner.Token) error {
	if err := c.deps.Partitioner.ValidateToken(token); err != nil {
		return err
	}

	c.deps.Metadata.UpdateNormalToken(token, c.deps.Local)
	c.afterRingChange()

	c.mu.Lock()
	c.localToken = token
	c.mu.Unlock()

	c.deps.Gossiper.AddLocalState(StateKey, stateNormal+delimiter+string(token))
	c.setMode(ModeNormal)
	return nil
}

// Bootstrap joins the ring at the given token: announce, let the
// announcement settle for a ring delay, stream the joining ranges from
// their current owners, then flip to normal.
func (c *RingController) Bootstrap(ctx context.Context, token partitioner.Token) error {
	if err := c.deps.Partitioner.ValidateToken(token); err != nil {
		return err
	}
	if mode := c.Mode(); mode != ModeStarting {
		return fmt.Errorf("cannot bootstrap in mode %s", mode)
	}

	c.setMode(ModeJoining)
	if err := c.deps.Metadata.AddBootstrapToken(token, c.deps.Local); err != nil {
		return err
	}
	c.afterRingChange()
	c.deps.Gossiper.AddLocalState(StateKey, stateBootstrapping+delimiter+string(token))

	c.deps.Log.Infow("bootstrap announced, waiting for ring delay",
		zap.String("token", string(token)),
		zap.Duration("ring_delay", c.deps.RingDelay),
	)
	if err := sleepCtx(ctx, c.deps.RingDelay); err != nil {
		return err
	}

	if err := c.streamJoiningRanges(ctx, token); err != nil {
		return fmt.Errorf("bootstrap streaming failed: %w", err)
	}

	c.deps.Metadata.RemoveBootstrapToken(token)
	c.deps.Metadata.UpdateNormalToken(token, c.deps.Local)
	c.afterRingChange()

	c.mu.Lock()
	c.localToken = token
	c.mu.Unlock()

	c.deps.Gossiper.AddLocalState(StateKey, stateNormal+delimiter+string(token))
	c.setMode(ModeNormal)
	c.deps.Log.Infow("bootstrap complete", zap.String("token", string(token)))
	return nil
}

// streamJoiningRanges pulls every range the local node will own from the
// nearest live current replica.
func (c *RingController) streamJoiningRanges(ctx context.Context, token partitioner.Token) error {
	for _, table := range c.deps.Tables {
		strat := c.deps.StrategyFor(table)

		projected := c.deps.Metadata.CloneAfterAllLeft()
		projected.UpdateNormalToken(token, c.deps.Local)

		current := c.deps.Metadata.CloneOnlyTokenMap()
		if len(current.Snapshot().SortedTokens()) == 0 {
			// First node of the cluster; nothing to pull.
			continue
		}
		rangeAddresses := strat.RangeAddresses(current.Snapshot(), table)

		for _, r := range strat.AddressRanges(projected.Snapshot(), table)[c.deps.Local] {
			source, ok := c.pickSource(r, rangeAddresses)
			if !ok {
				c.deps.Log.Warnw("no live source for range, skipping",
					zap.String("table", table),
					zap.Stringer("range", r),
				)
				continue
			}
			if err := c.requestStream(ctx, source, table, []ring.Range{r}); err != nil {
				return err
			}
		}
	}
	return nil
}

// pickSource returns the nearest live endpoint currently replicating a
// range that covers r.
func (c *RingController) pickSource(r ring.Range, rangeAddresses map[ring.Range][]netip.Addr) (netip.Addr, bool) {
	var candidates []netip.Addr
	for owned, eps := range rangeAddresses {
		if !owned.ContainsRange(r) && !owned.Intersects(r) {
			continue
		}
		for _, ep := range eps {
			if ep != c.deps.Local && c.deps.Detector.IsAlive(ep) && !slices.Contains(candidates, ep) {
				candidates = append(candidates, ep)
			}
		}
	}
	if len(candidates) == 0 {
		return netip.Addr{}, false
	}
	return c.deps.Snitch.SortByProximity(c.deps.Local, candidates)[0], true
}

// Decommission removes the local node from the ring, handing its ranges to
// the replicas that take over.
func (c *RingController) Decommission(ctx context.Context) error {
	if mode := c.Mode(); mode != ModeNormal {
		return fmt.Errorf("cannot decommission in mode %s", mode)
	}
	token := c.LocalToken()

	if err := c.leaveRing(ctx, token); err != nil {
		return err
	}

	c.deps.Gossiper.AddLocalState(StateKey, stateLeft+delimiter+string(token))
	c.deps.Metadata.RemoveEndpoint(c.deps.Local)
	c.afterRingChange()
	c.setMode(ModeDecommissioned)
	c.deps.Log.Info("decommission complete")
	return nil
}

// leaveRing announces LEAVING, waits out the ring delay and pushes the
// local ranges to their future owners.
func (c *RingController) leaveRing(ctx context.Context, token partitioner.Token) error {
	c.setMode(ModeLeaving)
	c.deps.Metadata.AddLeavingEndpoint(c.deps.Local)
	c.afterRingChange()
	c.deps.Gossiper.AddLocalState(StateKey, stateLeaving+delimiter+string(token))

	c.deps.Log.Infow("leaving announced, waiting for ring delay",
		zap.Duration("ring_delay", c.deps.RingDelay),
	)
	if err := sleepCtx(ctx, c.deps.RingDelay); err != nil {
		return err
	}

	current := c.deps.Metadata.CloneOnlyTokenMap()
	future := c.deps.Metadata.CloneAfterAllLeft()

	for _, table := range c.deps.Tables {
		strat := c.deps.StrategyFor(table)
		for _, r := range strat.AddressRanges(current.Snapshot(), table)[c.deps.Local] {
			currentReplicas := strat.CalculateNaturalEndpoints(r.Right, current.Snapshot(), table)
			for _, ep := range strat.CalculateNaturalEndpoints(r.Right, future.Snapshot(), table) {
				if slices.Contains(currentReplicas, ep) {
					continue
				}
				if err := c.deps.Streams.TransferRanges(ctx, ep, table, []ring.Range{r}); err != nil {
					return fmt.Errorf("failed to transfer %s of %q to %s: %w", r, table, ep, err)
				}
			}
		}
	}
	return nil
}

// Move relocates the local node to a new token: an orderly leave followed
// by a fresh bootstrap. A nil token picks the midpoint of the most loaded
// node's primary range.
func (c *RingController) Move(ctx context.Context, token *partitioner.Token) error {
	if mode := c.Mode(); mode != ModeNormal {
		return fmt.Errorf("cannot move in mode %s", mode)
	}

	var target partitioner.Token
	if token != nil {
		target = *token
	} else {
		picked, err := c.loadBalanceTarget()
		if err != nil {
			return err
		}
		target = picked
	}
	if err := c.deps.Partitioner.ValidateToken(target); err != nil {
		return err
	}

	oldToken := c.LocalToken()
	if err := c.leaveRing(ctx, oldToken); err != nil {
		return err
	}
	c.deps.Gossiper.AddLocalState(StateKey, stateLeft+delimiter+string(oldToken))
	c.deps.Metadata.RemoveEndpoint(c.deps.Local)
	c.afterRingChange()
	c.setMode(ModeStarting)

	return c.Bootstrap(ctx, target)
}

// loadBalanceTarget picks the midpoint of the most loaded node's primary
// range.
func (c *RingController) loadBalanceTarget() (partitioner.Token, error) {
	if c.deps.Load == nil {
		return "", fmt.Errorf("no load information available for load balancing")
	}
	loads := c.deps.Load()

	snap := c.deps.Metadata.Snapshot()
	var (
		busiest    netip.Addr
		maxLoad    float64
		haveTarget bool
	)
	for ep, load := range loads {
		if ep == c.deps.Local || !snap.IsMember(ep) {
			continue
		}
		if !haveTarget || load > maxLoad {
			busiest, maxLoad, haveTarget = ep, load, true
		}
	}
	if !haveTarget {
		return "", fmt.Errorf("no loaded peer to balance against")
	}

	token, _ := snap.TokenOf(busiest)
	r := snap.PrimaryRange(token)
	return c.deps.Partitioner.Midpoint(r.Left, r.Right), nil
}

// RemoveToken evicts a dead node by its token and restores the replica
// count of the ranges it held.
func (c *RingController) RemoveToken(token partitioner.Token) error {
	before := c.deps.Metadata.Snapshot()

	owner, ok := before.Endpoint(token)
	if !ok {
		return fmt.Errorf("token %q is not on the ring", token)
	}
	if owner == c.deps.Local {
		return fmt.Errorf("cannot remove the local token; decommission instead")
	}
	if c.deps.Detector.IsAlive(owner) {
		return fmt.Errorf("endpoint %s owning token %q is alive; decommission it instead", owner, token)
	}

	c.deps.Metadata.RemoveEndpoint(owner)
	c.afterRingChange()
	c.deps.Gossiper.AddLocalState(StateKey,
		stateNormal+delimiter+string(c.LocalToken())+delimiter+extraRemove+delimiter+string(token))

	go c.restoreReplicaCount(owner, before)
	return nil
}

// Drain quiesces the mutation stage, flushes the memtables and rolls a
// fresh commit-log segment. A drained node serves no further writes.
func (c *RingController) Drain() error {
	switch mode := c.Mode(); mode {
	case ModeDrained:
		return nil
	case ModeDraining:
		return fmt.Errorf("drain already in progress")
	}

	c.setMode(ModeDraining)
	c.deps.Writes.Quiesce()
	if err := c.deps.Store.Drain(); err != nil {
		return fmt.Errorf("drain failed: %w", err)
	}
	c.setMode(ModeDrained)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
