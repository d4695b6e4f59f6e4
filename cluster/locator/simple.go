package locator

import (
	"net/netip"
	"slices"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
)

// SimpleStrategy places replicas on consecutive ring positions, rack
// oblivious: the owner of the arc covering the key token, then its distinct
// successors.
type SimpleStrategy struct {
	meta  *ring.Metadata
	opts  Options
	cache *endpointCache
}

// NewSimpleStrategy constructs the rack-oblivious strategy.
func NewSimpleStrategy(meta *ring.Metadata, opts Options) (*SimpleStrategy, error) {
	if opts.DefaultRF < 1 {
		return nil, &ErrConfiguration{Reason: "replication factor must be at least 1"}
	}
	return &SimpleStrategy{meta: meta, opts: opts, cache: newEndpointCache()}, nil
}

func (m *SimpleStrategy) NaturalEndpoints(t partitioner.Token, table string) []netip.Addr {
	key := cacheKey{token: t, table: table}
	if eps, ok := m.cache.get(key); ok {
		return eps
	}
	eps := m.CalculateNaturalEndpoints(t, m.meta.Snapshot(), table)
	m.cache.put(key, eps)
	return eps
}

// CalculateNaturalEndpoints walks the ring from the endpoint owning the
// greatest token <= t, collecting distinct endpoints up to the replication
// factor. An exact ring token resolves to its own endpoint.
func (m *SimpleStrategy) CalculateNaturalEndpoints(t partitioner.Token, s *ring.Snapshot, table string) []netip.Addr {
	sorted := s.SortedTokens()
	if len(sorted) == 0 {
		return nil
	}

	rf := m.opts.RF(table)
	out := make([]netip.Addr, 0, rf)

	start := s.FloorTokenIndex(t)
	for i := 0; i < len(sorted) && len(out) < rf; i++ {
		ep, ok := s.Endpoint(sorted[(start+i)%len(sorted)])
		if ok && !slices.Contains(out, ep) {
			out = append(out, ep)
		}
	}
	return out
}

func (m *SimpleStrategy) AddressRanges(s *ring.Snapshot, table string) map[netip.Addr][]ring.Range {
	byEndpoint, _ := rangeViews(s, table, m.CalculateNaturalEndpoints)
	return byEndpoint
}

func (m *SimpleStrategy) RangeAddresses(s *ring.Snapshot, table string) map[ring.Range][]netip.Addr {
	_, byRange := rangeViews(s, table, m.CalculateNaturalEndpoints)
	return byRange
}

func (m *SimpleStrategy) ClearEndpointCache() { m.cache.clear() }
