package locator

import (
	"fmt"
	"net/netip"
	"slices"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
)

// ShuffleDomain is the deterministic bit permutation over domain bytes used
// to spread the non-primary replicas of a domain across the ring: a
// rotate-right-by-1 with four hard-coded swaps replacing the rotation's
// degenerate orbits. The table is load-bearing for placement and on-wire
// compatibility; do not touch it.
func ShuffleDomain(d byte) byte {
	switch d {
	case 0x00:
		return 0x55
	case 0x55:
		return 0xFF
	case 0xFF:
		return 0xAA
	case 0xAA:
		return 0x00
	}
	return d>>1 | d<<7
}

// FailoverIndex picks a deterministic secondary replica index when the
// preferred replica of a partition is down or latency-excluded. Successive
// try values yield distinct replicas, and the double shuffle de-correlates
// partitions sharing a rack.
func FailoverIndex(domain byte, cycle, try, replicaCount int) int {
	if replicaCount < 2 {
		return 0
	}
	return (cycle + try + int(ShuffleDomain(ShuffleDomain(domain)))) % (replicaCount - 1)
}

// RackAwareOdklEven is the rack-aware placement strategy for domain-sharded
// tables. It requires exactly RF distinct racks and returns one replica per
// rack: the ring successor of the key token first, then one endpoint from
// each remaining rack's sub-ring, located with a domain-shuffled search
// token so that the secondary replicas of a domain do not pile up behind
// its primary.
type RackAwareOdklEven struct {
	meta   *ring.Metadata
	snitch Snitch
	opts   Options
	cache  *endpointCache
}

// NewRackAwareOdklEven constructs the rack-aware strategy. The configured
// rack count must equal the replication factor of every table the strategy
// serves.
func NewRackAwareOdklEven(meta *ring.Metadata, snitch Snitch, racks []string, opts Options) (*RackAwareOdklEven, error) {
	distinct := map[string]struct{}{}
	for _, rack := range racks {
		distinct[rack] = struct{}{}
	}

	check := func(table string, rf int) error {
		if rf != len(distinct) {
			return &ErrConfiguration{Reason: fmt.Sprintf(
				"table %q has replication factor %d but %d racks are configured",
				table, rf, len(distinct),
			)}
		}
		return nil
	}
	if err := check("(default)", opts.DefaultRF); err != nil {
		return nil, err
	}
	for table, rf := range opts.ReplicationFactor {
		if err := check(table, rf); err != nil {
			return nil, err
		}
	}

	return &RackAwareOdklEven{meta: meta, snitch: snitch, opts: opts, cache: newEndpointCache()}, nil
}

func (m *RackAwareOdklEven) NaturalEndpoints(t partitioner.Token, table string) []netip.Addr {
	key := cacheKey{token: t, table: table}
	if eps, ok := m.cache.get(key); ok {
		return eps
	}
	eps := m.CalculateNaturalEndpoints(t, m.meta.Snapshot(), table)
	m.cache.put(key, eps)
	return eps
}

func (m *RackAwareOdklEven) CalculateNaturalEndpoints(t partitioner.Token, s *ring.Snapshot, table string) []netip.Addr {
	sorted := s.SortedTokens()
	if len(sorted) == 0 {
		return nil
	}

	rf := m.opts.RF(table)
	out := make([]netip.Addr, 0, rf)
	usedRacks := map[string]struct{}{}

	// Replica 0: the successor of the key token on the full ring.
	primary, _ := s.Endpoint(s.FirstToken(t))
	out = append(out, primary)
	usedRacks[m.snitch.Rack(primary)] = struct{}{}

	// The remaining replicas are located with the domain-shuffled token so
	// that a domain's secondaries land away from its primary arc.
	search := shuffleTokenDomain(t)
	for len(out) < rf {
		next, ok := m.firstInRemainingRacks(s, search, usedRacks)
		if !ok {
			break
		}
		out = append(out, next)
		usedRacks[m.snitch.Rack(next)] = struct{}{}
	}

	// Degraded mode: fewer live racks than the replication factor. Fill
	// with distinct ring successors so reads and writes keep their quorum.
	for i, n := 0, len(sorted); i < n && len(out) < rf; i++ {
		ep, ok := s.Endpoint(sorted[(s.FirstTokenIndex(t)+i)%n])
		if ok && !slices.Contains(out, ep) {
			out = append(out, ep)
		}
	}

	return out
}

// firstInRemainingRacks returns the endpoint owning the first token >= key
// on the combined sub-ring of all racks not yet holding a replica.
func (m *RackAwareOdklEven) firstInRemainingRacks(
	s *ring.Snapshot,
	key partitioner.Token,
	usedRacks map[string]struct{},
) (netip.Addr, bool) {
	for t := range s.RingIter(key) {
		ep, ok := s.Endpoint(t)
		if !ok {
			continue
		}
		if _, used := usedRacks[m.snitch.Rack(ep)]; !used {
			return ep, true
		}
	}
	return netip.Addr{}, false
}

// shuffleTokenDomain rebuilds the token with its domain byte shuffled.
// Tokens without a parseable domain prefix shuffle from domain zero.
func shuffleTokenDomain(t partitioner.Token) partitioner.Token {
	domain, err := partitioner.DomainOf(t)
	rest := ""
	if err == nil {
		rest = string(t)[2:]
	}
	return partitioner.StringToken(ShuffleDomain(domain), rest)
}

func (m *RackAwareOdklEven) AddressRanges(s *ring.Snapshot, table string) map[netip.Addr][]ring.Range {
	byEndpoint, _ := rangeViews(s, table, m.CalculateNaturalEndpoints)
	return byEndpoint
}

func (m *RackAwareOdklEven) RangeAddresses(s *ring.Snapshot, table string) map[ring.Range][]netip.Addr {
	_, byRange := rangeViews(s, table, m.CalculateNaturalEndpoints)
	return byRange
}

func (m *RackAwareOdklEven) ClearEndpointCache() { m.cache.clear() }
