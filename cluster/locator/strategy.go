package locator

import (
	"fmt"
	"net/netip"
	"sync"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
)

// ErrConfiguration marks replica-placement configuration errors detected at
// strategy construction; the affected table cannot participate.
type ErrConfiguration struct {
	Reason string
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("replication configuration error: %s", e.Reason)
}

// Options carries per-table replication settings.
type Options struct {
	// ReplicationFactor overrides the replica count per table.
	ReplicationFactor map[string]int
	// DefaultRF applies to tables without an override.
	DefaultRF int
}

// RF returns the replication factor of the table.
func (o Options) RF(table string) int {
	if rf, ok := o.ReplicationFactor[table]; ok {
		return rf
	}
	return o.DefaultRF
}

// Strategy computes the ordered natural endpoint list for a token.
type Strategy interface {
	// NaturalEndpoints returns the replicas for the token on the current
	// ring, memoized until the ring changes.
	NaturalEndpoints(t partitioner.Token, table string) []netip.Addr
	// CalculateNaturalEndpoints is the pure placement function over an
	// explicit ring snapshot.
	CalculateNaturalEndpoints(t partitioner.Token, s *ring.Snapshot, table string) []netip.Addr
	// AddressRanges maps each endpoint of the snapshot to the ranges it
	// replicates.
	AddressRanges(s *ring.Snapshot, table string) map[netip.Addr][]ring.Range
	// RangeAddresses maps each range of the snapshot to its replicas.
	RangeAddresses(s *ring.Snapshot, table string) map[ring.Range][]netip.Addr
	// ClearEndpointCache drops the memoized placements. It must be called
	// after every ring mutation.
	ClearEndpointCache()
}

type cacheKey struct {
	token partitioner.Token
	table string
}

// endpointCache memoizes token placements between ring mutations.
type endpointCache struct {
	mu      sync.RWMutex
	entries map[cacheKey][]netip.Addr
}

func newEndpointCache() *endpointCache {
	return &endpointCache{entries: map[cacheKey][]netip.Addr{}}
}

func (c *endpointCache) get(key cacheKey) ([]netip.Addr, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	eps, ok := c.entries[key]
	return eps, ok
}

func (c *endpointCache) put(key cacheKey, eps []netip.Addr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = eps
}

func (c *endpointCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[cacheKey][]netip.Addr{}
}

// rangeViews derives both inverse placement views from per-token
// calculation: each arc (pred, token] is replicated by the natural
// endpoints of its right bound.
func rangeViews(
	s *ring.Snapshot,
	table string,
	calc func(partitioner.Token, *ring.Snapshot, string) []netip.Addr,
) (map[netip.Addr][]ring.Range, map[ring.Range][]netip.Addr) {
	byEndpoint := map[netip.Addr][]ring.Range{}
	byRange := map[ring.Range][]netip.Addr{}

	for _, t := range s.SortedTokens() {
		r := s.PrimaryRange(t)
		replicas := calc(t, s, table)
		byRange[r] = replicas
		for _, ep := range replicas {
			byEndpoint[ep] = append(byEndpoint[ep], r)
		}
	}
	return byEndpoint, byRange
}
