package transport

import (
	"fmt"
	"net/netip"
	"slices"
	"sync"
)

// Handler consumes an inbound message on a node and optionally produces a
// reply.
type Handler func(msg Message) *Message

// MemTransport is an in-process Transport: every registered endpoint gets a
// FIFO delivery queue drained by its own goroutine, which preserves the
// per-destination ordering the coordinators rely on. Endpoints can be taken
// down to simulate partitions.
type MemTransport struct {
	mu     sync.RWMutex
	queues map[netip.Addr]chan envelope
	down   map[netip.Addr]bool
}

type envelope struct {
	msg     Message
	handler ResponseHandler
}

// NewMemTransport constructs an empty in-process transport.
func NewMemTransport() *MemTransport {
	return &MemTransport{
		queues: map[netip.Addr]chan envelope{},
		down:   map[netip.Addr]bool{},
	}
}

// Register attaches a node's inbound handler to the transport.
func (t *MemTransport) Register(ep netip.Addr, h Handler) {
	queue := make(chan envelope, 1024)

	t.mu.Lock()
	t.queues[ep] = queue
	t.mu.Unlock()

	go func() {
		for env := range queue {
			reply := h(env.msg)
			if env.handler != nil && reply != nil {
				env.handler(*reply)
			}
		}
	}()
}

// SetDown makes an endpoint unreachable.
func (t *MemTransport) SetDown(ep netip.Addr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.down[ep] = true
}

// SetUp makes an endpoint reachable again.
func (t *MemTransport) SetUp(ep netip.Addr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.down, ep)
}

func (t *MemTransport) enqueue(msg Message, to netip.Addr, handler ResponseHandler) error {
	t.mu.RLock()
	queue, known := t.queues[to]
	unreachable := t.down[to]
	t.mu.RUnlock()

	if !known || unreachable {
		return fmt.Errorf("endpoint %s is unreachable", to)
	}

	select {
	case queue <- envelope{msg: msg, handler: handler}:
		return nil
	default:
		return fmt.Errorf("delivery queue of %s is full", to)
	}
}

func (t *MemTransport) SendOneWay(msg Message, to netip.Addr) error {
	return t.enqueue(msg, to, nil)
}

func (t *MemTransport) SendRR(msg Message, to netip.Addr, handler ResponseHandler) error {
	return t.enqueue(msg, to, handler)
}

// StaticGossiper is a Gossiper over an explicit member list. Liveness is
// toggled by tests or by the wiring code; state changes published locally
// fan out to every subscriber in the process.
type StaticGossiper struct {
	mu          sync.RWMutex
	local       netip.Addr
	generations map[netip.Addr]int64
	dead        map[netip.Addr]bool
	subscribers []StateChangeHandler
}

// NewStaticGossiper constructs a gossiper over a fixed member list, all
// initially alive with generation 1.
func NewStaticGossiper(local netip.Addr, members []netip.Addr) *StaticGossiper {
	g := &StaticGossiper{
		local:       local,
		generations: map[netip.Addr]int64{},
		dead:        map[netip.Addr]bool{},
	}
	for _, ep := range members {
		g.generations[ep] = 1
	}
	g.generations[local] = 1
	return g
}

// SetGeneration overrides the startup generation of an endpoint.
func (g *StaticGossiper) SetGeneration(ep netip.Addr, gen int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generations[ep] = gen
}

// MarkDead declares an endpoint dead.
func (g *StaticGossiper) MarkDead(ep netip.Addr) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dead[ep] = true
}

// MarkAlive declares an endpoint alive again.
func (g *StaticGossiper) MarkAlive(ep netip.Addr) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.dead, ep)
}

func (g *StaticGossiper) Live() []netip.Addr {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []netip.Addr
	for ep := range g.generations {
		if !g.dead[ep] {
			out = append(out, ep)
		}
	}
	slices.SortFunc(out, netip.Addr.Compare)
	return out
}

func (g *StaticGossiper) Dead() []netip.Addr {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []netip.Addr
	for ep := range g.dead {
		out = append(out, ep)
	}
	slices.SortFunc(out, netip.Addr.Compare)
	return out
}

func (g *StaticGossiper) UpdateTimestamp(netip.Addr) {}

func (g *StaticGossiper) Generation(ep netip.Addr) int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generations[ep]
}

// AddLocalState publishes an application state of the local node to every
// subscriber in the process.
func (g *StaticGossiper) AddLocalState(key, value string) {
	g.Deliver(g.local, key, value)
}

// Deliver injects a state change as if gossip had propagated it.
func (g *StaticGossiper) Deliver(ep netip.Addr, key, value string) {
	g.mu.RLock()
	subscribers := slices.Clone(g.subscribers)
	g.mu.RUnlock()

	for _, fn := range subscribers {
		fn(ep, key, value)
	}
}

func (g *StaticGossiper) Subscribe(fn StateChangeHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

// SettableDetector is a FailureDetector whose verdicts are set explicitly.
// Unknown endpoints are considered alive.
type SettableDetector struct {
	mu   sync.RWMutex
	dead map[netip.Addr]bool
}

// NewSettableDetector constructs a detector with every endpoint alive.
func NewSettableDetector() *SettableDetector {
	return &SettableDetector{dead: map[netip.Addr]bool{}}
}

// SetAlive records an endpoint's liveness verdict.
func (d *SettableDetector) SetAlive(ep netip.Addr, alive bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if alive {
		delete(d.dead, ep)
	} else {
		d.dead[ep] = true
	}
}

func (d *SettableDetector) IsAlive(ep netip.Addr) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.dead[ep]
}
