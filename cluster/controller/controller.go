// Package controller drives the ring state machine: it turns gossip
// membership events into token-metadata mutations, keeps pending ranges
// current while the topology is in motion, and runs the local node's own
// lifecycle operations.
package controller

import (
	"net/netip"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/locator"
	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
	"github.com/ringstore-platform/ringstore/cluster/transport"
)

// StateKey is the gossip application-state key carrying ring transitions.
const StateKey = "MOVE"

// Move states. The delimiter must never occur inside a token.
const (
	stateBootstrapping = "BOOT"
	stateNormal        = "NORMAL"
	stateLeaving       = "LEAVING"
	stateLeft          = "LEFT"
	stateHibernate     = "hibernate"
	extraRemove        = "remove"
	delimiter          = ","
)

// Mode is the local node's operation mode.
type Mode string

const (
	ModeStarting       Mode = "STARTING"
	ModeNormal         Mode = "NORMAL"
	ModeJoining        Mode = "JOINING"
	ModeLeaving        Mode = "LEAVING"
	ModeDecommissioned Mode = "DECOMMISSIONED"
	ModeDraining       Mode = "DRAINING"
	ModeDrained        Mode = "DRAINED"
)

// Quiescer shuts the mutation stage during drain.
type Quiescer interface {
	Quiesce()
}

// Deps are the collaborators the controller works against.
type Deps struct {
	Local       netip.Addr
	Partitioner partitioner.Partitioner
	Metadata    *ring.Metadata
	StrategyFor func(table string) locator.Strategy
	Tables      []string
	Snitch      locator.Snitch
	Gossiper    transport.Gossiper
	Detector    transport.FailureDetector
	Streams     transport.StreamManager
	Store       transport.LocalStore
	Writes      Quiescer
	// Load reports the cluster's per-endpoint load for load balancing;
	// may be nil when no load feed is wired.
	Load func() map[netip.Addr]float64
	// RingDelay is how long topology announcements settle before data
	// moves; the production default is 30s.
	RingDelay time.Duration
	Log       *zap.SugaredLogger
}

// RingController is the ring state machine driver.
type RingController struct {
	deps Deps

	mu          sync.Mutex
	mode        Mode
	localToken  partitioner.Token
	hibernating map[netip.Addr]struct{}
	replaced    map[netip.Addr]struct{}
}

// New constructs a controller; Start must be called to begin consuming
// gossip.
func New(deps Deps) *RingController {
	return &RingController{
		deps:        deps,
		mode:        ModeStarting,
		hibernating: map[netip.Addr]struct{}{},
		replaced:    map[netip.Addr]struct{}{},
	}
}

// Start subscribes the controller to gossip state changes.
func (c *RingController) Start() {
	c.deps.Gossiper.Subscribe(c.OnStateChange)
}

// Mode returns the local operation mode.
func (c *RingController) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// LocalToken returns the token the local node serves, if any.
func (c *RingController) LocalToken() partitioner.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localToken
}

func (c *RingController) setMode(mode Mode) {
	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
	c.deps.Log.Infow("operation mode changed", zap.String("mode", string(mode)))
}

// OnStateChange consumes one gossip application-state event. Events are
// processed in delivery order; per-endpoint errors are logged and swallowed
// because liveness is re-asserted by the next gossip round.
func (c *RingController) OnStateChange(ep netip.Addr, key, value string) {
	if key != StateKey {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	parts := strings.Split(value, delimiter)
	state := parts[0]

	if state != stateHibernate && len(parts) < 2 {
		c.deps.Log.Warnw("malformed move state",
			zap.Stringer("endpoint", ep),
			zap.String("value", value),
		)
		return
	}

	switch state {
	case stateBootstrapping:
		c.handleBootstrap(ep, partitioner.Token(parts[1]))
	case stateNormal:
		c.handleNormal(ep, partitioner.Token(parts[1]), parts[2:])
	case stateLeaving:
		c.handleLeaving(ep, partitioner.Token(parts[1]))
	case stateLeft:
		c.handleLeft(ep, partitioner.Token(parts[1]))
	case stateHibernate:
		c.handleHibernate(ep)
	default:
		c.deps.Log.Warnw("unknown move state",
			zap.Stringer("endpoint", ep),
			zap.String("state", state),
		)
	}
}

func (c *RingController) handleBootstrap(ep netip.Addr, token partitioner.Token) {
	if err := c.deps.Metadata.AddBootstrapToken(token, ep); err != nil {
		c.deps.Log.Warnw("rejecting bootstrap claim",
			zap.Stringer("endpoint", ep),
			zap.String("token", string(token)),
			zap.Error(err),
		)
		return
	}
	c.deps.Log.Infow("endpoint is bootstrapping",
		zap.Stringer("endpoint", ep),
		zap.String("token", string(token)),
	)
	c.afterRingChange()
}

func (c *RingController) handleNormal(ep netip.Addr, token partitioner.Token, extras []string) {
	snap := c.deps.Metadata.Snapshot()

	if owner, ok := snap.Endpoint(token); ok && owner != ep {
		// Two endpoints advertise the same token: the larger gossip
		// startup generation wins, the loser is marked replaced.
		if c.deps.Gossiper.Generation(ep) <= c.deps.Gossiper.Generation(owner) {
			c.deps.Log.Warnw("ignoring token claim from older generation",
				zap.Stringer("claimer", ep),
				zap.Stringer("owner", owner),
				zap.String("token", string(token)),
			)
			return
		}
		c.replaced[owner] = struct{}{}
		c.deps.Log.Warnw("endpoint replaced by newer generation",
			zap.Stringer("replaced", owner),
			zap.Stringer("by", ep),
			zap.String("token", string(token)),
		)
	}

	if _, wasBootstrapping := snap.BootstrapEndpoint(token); !wasBootstrapping && !snap.IsMember(ep) {
		c.deps.Log.Infow("state jump to normal",
			zap.Stringer("endpoint", ep),
			zap.String("token", string(token)),
		)
	}

	c.deps.Metadata.RemoveBootstrapToken(token)
	c.deps.Metadata.UpdateNormalToken(token, ep)
	delete(c.hibernating, ep)

	before := snap
	if len(extras) >= 2 && extras[0] == extraRemove {
		c.handleRemoveExtra(before, partitioner.Token(extras[1]))
	}

	c.afterRingChange()
}

// handleRemoveExtra evicts the owner of a token removed via
// "NORMAL,t,remove,t2" and kicks off replica restoration for the ranges it
// held.
func (c *RingController) handleRemoveExtra(before *ring.Snapshot, removed partitioner.Token) {
	owner, ok := before.Endpoint(removed)
	if !ok {
		c.deps.Log.Debugw("removed token is not on the ring", zap.String("token", string(removed)))
		return
	}
	if owner == c.deps.Local {
		c.deps.Log.Errorw("refusing to remove the local token", zap.String("token", string(removed)))
		return
	}

	c.deps.Log.Infow("removing dead endpoint",
		zap.Stringer("endpoint", owner),
		zap.String("token", string(removed)),
	)
	c.deps.Metadata.RemoveEndpoint(owner)
	go c.restoreReplicaCount(owner, before)
}

func (c *RingController) handleLeaving(ep netip.Addr, token partitioner.Token) {
	snap := c.deps.Metadata.Snapshot()
	if !snap.IsMember(ep) {
		// A node can start leaving before we ever saw it normal.
		c.deps.Metadata.UpdateNormalToken(token, ep)
	}
	c.deps.Metadata.AddLeavingEndpoint(ep)
	c.deps.Log.Infow("endpoint is leaving",
		zap.Stringer("endpoint", ep),
		zap.String("token", string(token)),
	)
	c.afterRingChange()
}

func (c *RingController) handleLeft(ep netip.Addr, token partitioner.Token) {
	c.deps.Metadata.RemoveEndpoint(ep)
	delete(c.hibernating, ep)
	c.deps.Log.Infow("endpoint left the ring",
		zap.Stringer("endpoint", ep),
		zap.String("token", string(token)),
	)
	c.afterRingChange()
}

func (c *RingController) handleHibernate(ep netip.Addr) {
	// The endpoint holds its tokens while a replacement boots with the
	// same position; nothing moves yet.
	c.hibernating[ep] = struct{}{}
	c.deps.Log.Infow("endpoint hibernating for replacement", zap.Stringer("endpoint", ep))
}

// afterRingChange invalidates placement caches and recomputes pending
// ranges for every table. It must run after every membership mutation.
func (c *RingController) afterRingChange() {
	for _, table := range c.deps.Tables {
		c.deps.StrategyFor(table).ClearEndpointCache()
	}
	for _, table := range c.deps.Tables {
		c.recomputePendingRanges(table)
	}
}
