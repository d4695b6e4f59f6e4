package controller

import (
	"net/netip"
	"slices"

	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/ring"
)

// recomputePendingRanges rebuilds the table's pending-range map from the
// current bootstrap and leaving sets. Writes to a pending range go to the
// future owner as well, so topology changes never lose acknowledged data.
//
// Bootstrapping endpoints are projected one at a time onto the post-leave
// ring; concurrent bootstraps therefore over-approximate, which errs on the
// side of extra writes.
func (c *RingController) recomputePendingRanges(table string) {
	strat := c.deps.StrategyFor(table)
	snap := c.deps.Metadata.Snapshot()

	bootstrapTokens := snap.BootstrapTokens()
	leaving := snap.LeavingEndpoints()
	if len(bootstrapTokens) == 0 && len(leaving) == 0 {
		c.deps.Metadata.SetPendingRanges(table, nil)
		return
	}

	pending := map[ring.Range][]netip.Addr{}
	current := c.deps.Metadata.CloneOnlyTokenMap()
	allLeft := c.deps.Metadata.CloneAfterAllLeft()

	// Ranges replicated by a leaving endpoint gain the replicas that take
	// over once it is gone.
	if len(leaving) > 0 {
		addressRanges := strat.AddressRanges(current.Snapshot(), table)
		for _, ep := range leaving {
			for _, r := range addressRanges[ep] {
				currentReplicas := strat.CalculateNaturalEndpoints(r.Right, current.Snapshot(), table)
				futureReplicas := strat.CalculateNaturalEndpoints(r.Right, allLeft.Snapshot(), table)
				for _, future := range futureReplicas {
					if !slices.Contains(currentReplicas, future) {
						pending[r] = appendUnique(pending[r], future)
					}
				}
			}
		}
	}

	// Each bootstrapping endpoint becomes pending for the ranges it will
	// own on the post-leave ring.
	for token, ep := range bootstrapTokens {
		allLeft.UpdateNormalToken(token, ep)
		for _, r := range strat.AddressRanges(allLeft.Snapshot(), table)[ep] {
			pending[r] = appendUnique(pending[r], ep)
		}
		allLeft.RemoveEndpoint(ep)
	}

	c.deps.Metadata.SetPendingRanges(table, pending)
	c.deps.Log.Debugw("pending ranges recomputed",
		zap.String("table", table),
		zap.Int("ranges", len(pending)),
	)
}

func appendUnique(eps []netip.Addr, ep netip.Addr) []netip.Addr {
	if slices.Contains(eps, ep) {
		return eps
	}
	return append(eps, ep)
}
