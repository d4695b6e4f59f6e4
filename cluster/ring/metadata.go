package ring

import (
	"fmt"
	"iter"
	"net/netip"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
)

// Snapshot is an immutable view of the ring membership. Readers obtain one
// from Metadata and may keep it for the duration of a request; it never
// changes underneath them.
type Snapshot struct {
	sorted          []partitioner.Token
	tokenToEndpoint map[partitioner.Token]netip.Addr
	endpointToToken map[netip.Addr]partitioner.Token
	bootstrapTokens map[partitioner.Token]netip.Addr
	leaving         map[netip.Addr]struct{}
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		tokenToEndpoint: map[partitioner.Token]netip.Addr{},
		endpointToToken: map[netip.Addr]partitioner.Token{},
		bootstrapTokens: map[partitioner.Token]netip.Addr{},
		leaving:         map[netip.Addr]struct{}{},
	}
}

func (s *Snapshot) clone() *Snapshot {
	out := &Snapshot{
		tokenToEndpoint: make(map[partitioner.Token]netip.Addr, len(s.tokenToEndpoint)),
		endpointToToken: make(map[netip.Addr]partitioner.Token, len(s.endpointToToken)),
		bootstrapTokens: make(map[partitioner.Token]netip.Addr, len(s.bootstrapTokens)),
		leaving:         make(map[netip.Addr]struct{}, len(s.leaving)),
	}
	for t, ep := range s.tokenToEndpoint {
		out.tokenToEndpoint[t] = ep
	}
	for ep, t := range s.endpointToToken {
		out.endpointToToken[ep] = t
	}
	for t, ep := range s.bootstrapTokens {
		out.bootstrapTokens[t] = ep
	}
	for ep := range s.leaving {
		out.leaving[ep] = struct{}{}
	}
	out.resort()
	return out
}

func (s *Snapshot) resort() {
	s.sorted = make([]partitioner.Token, 0, len(s.tokenToEndpoint))
	for t := range s.tokenToEndpoint {
		s.sorted = append(s.sorted, t)
	}
	slices.SortFunc(s.sorted, partitioner.Token.Compare)
}

// SortedTokens returns the sorted token vector. The slice is shared and must
// not be mutated.
func (s *Snapshot) SortedTokens() []partitioner.Token { return s.sorted }

// Endpoint returns the endpoint owning the given normal token.
func (s *Snapshot) Endpoint(t partitioner.Token) (netip.Addr, bool) {
	ep, ok := s.tokenToEndpoint[t]
	return ep, ok
}

// TokenOf returns the normal token of the given endpoint.
func (s *Snapshot) TokenOf(ep netip.Addr) (partitioner.Token, bool) {
	t, ok := s.endpointToToken[ep]
	return t, ok
}

// IsMember reports whether the endpoint owns a normal token.
func (s *Snapshot) IsMember(ep netip.Addr) bool {
	_, ok := s.endpointToToken[ep]
	return ok
}

// IsLeaving reports whether the endpoint is departing the ring.
func (s *Snapshot) IsLeaving(ep netip.Addr) bool {
	_, ok := s.leaving[ep]
	return ok
}

// LeavingEndpoints returns the endpoints currently departing.
func (s *Snapshot) LeavingEndpoints() []netip.Addr {
	out := make([]netip.Addr, 0, len(s.leaving))
	for ep := range s.leaving {
		out = append(out, ep)
	}
	return out
}

// BootstrapTokens returns a copy of the token -> endpoint map of joining
// nodes.
func (s *Snapshot) BootstrapTokens() map[partitioner.Token]netip.Addr {
	out := make(map[partitioner.Token]netip.Addr, len(s.bootstrapTokens))
	for t, ep := range s.bootstrapTokens {
		out[t] = ep
	}
	return out
}

// BootstrapEndpoint returns the joining endpoint advertising the token.
func (s *Snapshot) BootstrapEndpoint(t partitioner.Token) (netip.Addr, bool) {
	ep, ok := s.bootstrapTokens[t]
	return ep, ok
}

// Endpoints returns every endpoint owning a normal token.
func (s *Snapshot) Endpoints() []netip.Addr {
	out := make([]netip.Addr, 0, len(s.endpointToToken))
	for ep := range s.endpointToToken {
		out = append(out, ep)
	}
	return out
}

// FirstTokenIndex returns the index of the smallest token >= key, wrapping
// to zero past the end of the vector.
func (s *Snapshot) FirstTokenIndex(key partitioner.Token) int {
	i, found := slices.BinarySearchFunc(s.sorted, key, partitioner.Token.Compare)
	if found {
		return i
	}
	if i == len(s.sorted) {
		return 0
	}
	return i
}

// FirstToken returns the smallest token >= key, wrapping at the end.
func (s *Snapshot) FirstToken(key partitioner.Token) partitioner.Token {
	return s.sorted[s.FirstTokenIndex(key)]
}

// FloorTokenIndex returns the index of the greatest token <= key, wrapping
// to the last token when key precedes the whole vector.
func (s *Snapshot) FloorTokenIndex(key partitioner.Token) int {
	i, found := slices.BinarySearchFunc(s.sorted, key, partitioner.Token.Compare)
	if found {
		return i
	}
	if i == 0 {
		return len(s.sorted) - 1
	}
	return i - 1
}

// Predecessor returns the token preceding t on the ring.
func (s *Snapshot) Predecessor(t partitioner.Token) partitioner.Token {
	i, _ := slices.BinarySearchFunc(s.sorted, t, partitioner.Token.Compare)
	if i == 0 {
		return s.sorted[len(s.sorted)-1]
	}
	return s.sorted[i-1]
}

// Successor returns the token following t on the ring.
func (s *Snapshot) Successor(t partitioner.Token) partitioner.Token {
	i, _ := slices.BinarySearchFunc(s.sorted, t, partitioner.Token.Compare)
	return s.sorted[(i+1)%len(s.sorted)]
}

// PrimaryRange returns the arc (predecessor(t), t].
func (s *Snapshot) PrimaryRange(t partitioner.Token) Range {
	return Range{Left: s.Predecessor(t), Right: t}
}

// RingIter yields the sorted tokens cyclically, starting from the first
// token >= start, visiting every token exactly once.
func (s *Snapshot) RingIter(start partitioner.Token) iter.Seq[partitioner.Token] {
	return func(yield func(partitioner.Token) bool) {
		n := len(s.sorted)
		if n == 0 {
			return
		}
		begin := s.FirstTokenIndex(start)
		for i := range n {
			if !yield(s.sorted[(begin+i)%n]) {
				return
			}
		}
	}
}

// Metadata is the mutable ring state. All mutations are serialized by a
// single write lock; readers load an immutable snapshot and never block
// writers.
type Metadata struct {
	mu      sync.Mutex
	snap    atomic.Pointer[Snapshot]
	pending atomic.Pointer[pendingState]
}

type pendingState struct {
	// table -> range -> endpoints that must additionally receive writes.
	tables map[string]map[Range][]netip.Addr
}

// NewMetadata constructs empty ring metadata.
func NewMetadata() *Metadata {
	m := &Metadata{}
	m.snap.Store(emptySnapshot())
	m.pending.Store(&pendingState{tables: map[string]map[Range][]netip.Addr{}})
	return m
}

// Snapshot returns the current immutable view.
func (m *Metadata) Snapshot() *Snapshot { return m.snap.Load() }

func (m *Metadata) mutate(fn func(s *Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.snap.Load().clone()
	fn(next)
	next.resort()
	m.snap.Store(next)
}

// UpdateNormalToken binds the token to the endpoint as a normal ring
// member. Any previous binding of either the token or the endpoint is
// removed atomically, as is any bootstrap or leaving state they held.
func (m *Metadata) UpdateNormalToken(t partitioner.Token, ep netip.Addr) {
	m.mutate(func(s *Snapshot) {
		if old, ok := s.endpointToToken[ep]; ok {
			delete(s.tokenToEndpoint, old)
		}
		if old, ok := s.tokenToEndpoint[t]; ok {
			delete(s.endpointToToken, old)
			delete(s.leaving, old)
		}
		delete(s.bootstrapTokens, t)
		delete(s.leaving, ep)
		s.tokenToEndpoint[t] = ep
		s.endpointToToken[ep] = t
	})
}

// AddBootstrapToken records a joining endpoint's claimed token. Claiming a
// token already owned by a normal member, or already claimed by a different
// joining endpoint, is an error.
func (m *Metadata) AddBootstrapToken(t partitioner.Token, ep netip.Addr) error {
	var conflict error
	m.mutate(func(s *Snapshot) {
		if owner, ok := s.tokenToEndpoint[t]; ok && owner != ep {
			conflict = fmt.Errorf("token %q is already owned by %s", t, owner)
			return
		}
		if claimer, ok := s.bootstrapTokens[t]; ok && claimer != ep {
			conflict = fmt.Errorf("token %q is already claimed by bootstrapping %s", t, claimer)
			return
		}
		// A node restarting its bootstrap may have advertised another
		// token before; drop it.
		for old, claimer := range s.bootstrapTokens {
			if claimer == ep {
				delete(s.bootstrapTokens, old)
			}
		}
		s.bootstrapTokens[t] = ep
	})
	return conflict
}

// RemoveBootstrapToken drops a joining endpoint's token claim.
func (m *Metadata) RemoveBootstrapToken(t partitioner.Token) {
	m.mutate(func(s *Snapshot) {
		delete(s.bootstrapTokens, t)
	})
}

// AddLeavingEndpoint marks a normal member as departing.
func (m *Metadata) AddLeavingEndpoint(ep netip.Addr) {
	m.mutate(func(s *Snapshot) {
		if _, ok := s.endpointToToken[ep]; ok {
			s.leaving[ep] = struct{}{}
		}
	})
}

// RemoveEndpoint erases every trace of the endpoint from the ring.
func (m *Metadata) RemoveEndpoint(ep netip.Addr) {
	m.mutate(func(s *Snapshot) {
		if t, ok := s.endpointToToken[ep]; ok {
			delete(s.tokenToEndpoint, t)
			delete(s.endpointToToken, ep)
		}
		delete(s.leaving, ep)
		for t, claimer := range s.bootstrapTokens {
			if claimer == ep {
				delete(s.bootstrapTokens, t)
			}
		}
	})
}

// CloneOnlyTokenMap returns an independent Metadata carrying only the
// normal token bindings.
func (m *Metadata) CloneOnlyTokenMap() *Metadata {
	s := m.Snapshot()
	out := NewMetadata()
	for t, ep := range s.tokenToEndpoint {
		out.UpdateNormalToken(t, ep)
	}
	return out
}

// CloneAfterAllLeft returns a projection of the ring as it will look once
// every leaving endpoint has departed.
func (m *Metadata) CloneAfterAllLeft() *Metadata {
	s := m.Snapshot()
	out := m.CloneOnlyTokenMap()
	for ep := range s.leaving {
		out.RemoveEndpoint(ep)
	}
	return out
}

// SetPendingRanges replaces the pending ranges of one table.
func (m *Metadata) SetPendingRanges(table string, ranges map[Range][]netip.Addr) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.pending.Load()
	next := &pendingState{tables: make(map[string]map[Range][]netip.Addr, len(old.tables))}
	for tbl, rs := range old.tables {
		next.tables[tbl] = rs
	}
	if len(ranges) == 0 {
		delete(next.tables, table)
	} else {
		next.tables[table] = ranges
	}
	m.pending.Store(next)
}

// PendingRanges returns the ranges of the table for which the endpoint is a
// pending write target.
func (m *Metadata) PendingRanges(table string, ep netip.Addr) []Range {
	var out []Range
	for r, eps := range m.pending.Load().tables[table] {
		if slices.Contains(eps, ep) {
			out = append(out, r)
		}
	}
	return out
}

// AllPendingRanges returns the pending range map of the table. The result
// is shared and must not be mutated.
func (m *Metadata) AllPendingRanges(table string) map[Range][]netip.Addr {
	return m.pending.Load().tables[table]
}

// PendingEndpointsFor returns the endpoints that must additionally receive
// writes for the token while the topology is in motion.
func (m *Metadata) PendingEndpointsFor(t partitioner.Token, table string) []netip.Addr {
	var out []netip.Addr
	for r, eps := range m.pending.Load().tables[table] {
		if r.Contains(t) {
			for _, ep := range eps {
				if !slices.Contains(out, ep) {
					out = append(out, ep)
				}
			}
		}
	}
	return out
}
