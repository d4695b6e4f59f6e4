package controller

import (
	"context"
	"net/netip"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/ring"
)

// restoreReplicaCount runs after an unexpected removal: for every range the
// removed endpoint replicated, the local node checks whether it became a
// new replica and, if so, pulls the data from the nearest surviving
// replica.
func (c *RingController) restoreReplicaCount(removed netip.Addr, before *ring.Snapshot) {
	current := c.deps.Metadata.Snapshot()

	for _, table := range c.deps.Tables {
		strat := c.deps.StrategyFor(table)

		for _, r := range strat.AddressRanges(before, table)[removed] {
			oldReplicas := strat.CalculateNaturalEndpoints(r.Right, before, table)
			newReplicas := strat.CalculateNaturalEndpoints(r.Right, current, table)
			if !slices.Contains(newReplicas, c.deps.Local) || slices.Contains(oldReplicas, c.deps.Local) {
				continue
			}

			var sources []netip.Addr
			for _, ep := range oldReplicas {
				if ep != removed && ep != c.deps.Local && c.deps.Detector.IsAlive(ep) {
					sources = append(sources, ep)
				}
			}
			if len(sources) == 0 {
				c.deps.Log.Errorw("no live source to restore range from",
					zap.String("table", table),
					zap.Stringer("range", r),
				)
				continue
			}

			source := c.deps.Snitch.SortByProximity(c.deps.Local, sources)[0]
			if err := c.requestStream(context.Background(), source, table, []ring.Range{r}); err != nil {
				c.deps.Log.Errorw("failed to restore range",
					zap.String("table", table),
					zap.Stringer("range", r),
					zap.Stringer("source", source),
					zap.Error(err),
				)
			}
		}
	}
}

// requestStream asks a source to stream ranges here, retrying transient
// failures with exponential backoff.
func (c *RingController) requestStream(ctx context.Context, source netip.Addr, table string, ranges []ring.Range) error {
	streamBackoff := backoff.ExponentialBackOff{
		InitialInterval:     backoff.DefaultInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         time.Minute,
	}
	streamBackoff.Reset()

	const maxAttempts = 5
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = c.deps.Streams.RequestRanges(ctx, source, table, ranges)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.deps.Log.Warnw("stream request failed, backing off",
			zap.Stringer("source", source),
			zap.String("table", table),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if sleepErr := sleepCtx(ctx, streamBackoff.NextBackOff()); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}
