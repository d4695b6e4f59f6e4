package hints

import (
	"context"
	"net/netip"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/transport"
)

// throttleEnvVar optionally slows replay down: a sleep in milliseconds
// applied between consecutive hints.
const throttleEnvVar = "hinted_handoff_throttle"

// Replayer drains hint queues back to their destinations. At most one
// delivery task runs per endpoint; each hint is sent as a regular mutation
// and removed only after the destination acknowledged it.
type Replayer struct {
	hints      *Log
	transport  transport.Transport
	detector   transport.FailureDetector
	gossiper   transport.Gossiper
	local      netip.Addr
	rpcTimeout time.Duration
	throttle   time.Duration

	mu               sync.Mutex
	queuedDeliveries map[netip.Addr]struct{}

	log *zap.SugaredLogger
}

// NewReplayer constructs a replayer over the given hint log.
func NewReplayer(
	hints *Log,
	tp transport.Transport,
	detector transport.FailureDetector,
	gossiper transport.Gossiper,
	local netip.Addr,
	rpcTimeout time.Duration,
	throttle time.Duration,
	log *zap.SugaredLogger,
) *Replayer {
	if raw := os.Getenv(throttleEnvVar); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil {
			throttle = time.Duration(ms) * time.Millisecond
		} else {
			log.Warnw("ignoring malformed throttle override", zap.String("value", raw))
		}
	}

	return &Replayer{
		hints:            hints,
		transport:        tp,
		detector:         detector,
		gossiper:         gossiper,
		local:            local,
		rpcTimeout:       rpcTimeout,
		throttle:         throttle,
		queuedDeliveries: map[netip.Addr]struct{}{},
		log:              log,
	}
}

// Run periodically sweeps the spool and schedules deliveries for endpoints
// that are back among the living.
func (r *Replayer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.rpcTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		endpoints, err := r.hints.Endpoints()
		if err != nil {
			r.log.Errorw("failed to scan hint spool", zap.Error(err))
			continue
		}
		for _, ep := range endpoints {
			if r.detector.IsAlive(ep) {
				r.OnAlive(ep)
			}
		}
	}
}

// OnAlive schedules a delivery task for the endpoint unless one is already
// running.
func (r *Replayer) OnAlive(ep netip.Addr) {
	r.mu.Lock()
	if _, queued := r.queuedDeliveries[ep]; queued {
		r.mu.Unlock()
		return
	}
	r.queuedDeliveries[ep] = struct{}{}
	r.mu.Unlock()

	go r.deliver(ep)
}

func (r *Replayer) deliver(ep netip.Addr) {
	defer func() {
		r.mu.Lock()
		delete(r.queuedDeliveries, ep)
		r.mu.Unlock()
	}()

	delivered := 0
	for {
		if !r.detector.IsAlive(ep) {
			r.log.Debugw("endpoint died mid-replay, parking its hints",
				zap.Stringer("endpoint", ep),
			)
			return
		}

		payload, nextCursor, ok, err := r.hints.Next(ep)
		if err != nil {
			r.log.Errorw("failed to read hint queue",
				zap.Stringer("endpoint", ep),
				zap.Error(err),
			)
			return
		}
		if !ok {
			if delivered > 0 {
				r.log.Infow("hint replay finished",
					zap.Stringer("endpoint", ep),
					zap.Int("delivered", delivered),
				)
			}
			return
		}

		if !r.sendAndAwait(ep, payload) {
			// The replica vanished again or is overloaded; back off one
			// timeout and re-check liveness before retrying the same hint.
			time.Sleep(r.rpcTimeout)
			continue
		}

		if err := r.hints.Advance(ep, nextCursor); err != nil {
			r.log.Errorw("failed to advance hint cursor",
				zap.Stringer("endpoint", ep),
				zap.Error(err),
			)
			return
		}
		r.gossiper.UpdateTimestamp(ep)
		delivered++

		if r.throttle > 0 {
			time.Sleep(r.throttle)
		}
	}
}

// sendAndAwait ships one hint and waits for its acknowledgement.
func (r *Replayer) sendAndAwait(ep netip.Addr, payload []byte) bool {
	acked := make(chan struct{}, 1)

	msg := transport.Message{Verb: transport.VerbMutation, From: r.local, Body: payload}
	if err := r.transport.SendRR(msg, ep, func(transport.Message) {
		select {
		case acked <- struct{}{}:
		default:
		}
	}); err != nil {
		return false
	}

	timer := time.NewTimer(r.rpcTimeout)
	defer timer.Stop()
	select {
	case <-acked:
		return true
	case <-timer.C:
		return false
	}
}
