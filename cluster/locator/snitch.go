// Package locator decides where replicas of a token live: which endpoints,
// in which order, across which racks.
package locator

import (
	"net/netip"
	"slices"
)

// Snitch reports the network topology of endpoints.
type Snitch interface {
	// Rack returns the rack the endpoint lives in.
	Rack(ep netip.Addr) string
	// Datacenter returns the datacenter the endpoint lives in.
	Datacenter(ep netip.Addr) string
	// SortByProximity orders the endpoints from nearest to farthest
	// relative to the given address.
	SortByProximity(from netip.Addr, eps []netip.Addr) []netip.Addr
}

// SimpleSnitch places every endpoint in one flat rack and sorts only the
// local endpoint ahead of the rest.
type SimpleSnitch struct{}

func (SimpleSnitch) Rack(netip.Addr) string       { return "rack1" }
func (SimpleSnitch) Datacenter(netip.Addr) string { return "datacenter1" }

func (SimpleSnitch) SortByProximity(from netip.Addr, eps []netip.Addr) []netip.Addr {
	out := slices.Clone(eps)
	slices.SortStableFunc(out, func(a, b netip.Addr) int {
		switch {
		case a == from && b != from:
			return -1
		case b == from && a != from:
			return 1
		default:
			return 0
		}
	})
	return out
}

// ConfigSnitch reads rack and datacenter assignments from configuration.
type ConfigSnitch struct {
	racks       map[netip.Addr]string
	datacenters map[netip.Addr]string
	defaultRack string
	defaultDC   string
}

// NewConfigSnitch builds a snitch from explicit per-endpoint placement.
// Endpoints missing from the maps land in the default rack and datacenter.
func NewConfigSnitch(racks, datacenters map[netip.Addr]string) *ConfigSnitch {
	return &ConfigSnitch{
		racks:       racks,
		datacenters: datacenters,
		defaultRack: "rack1",
		defaultDC:   "datacenter1",
	}
}

func (m *ConfigSnitch) Rack(ep netip.Addr) string {
	if rack, ok := m.racks[ep]; ok {
		return rack
	}
	return m.defaultRack
}

func (m *ConfigSnitch) Datacenter(ep netip.Addr) string {
	if dc, ok := m.datacenters[ep]; ok {
		return dc
	}
	return m.defaultDC
}

// SortByProximity prefers, in order: the address itself, endpoints sharing
// its rack, endpoints sharing its datacenter, everything else.
func (m *ConfigSnitch) SortByProximity(from netip.Addr, eps []netip.Addr) []netip.Addr {
	score := func(ep netip.Addr) int {
		switch {
		case ep == from:
			return 0
		case m.Rack(ep) == m.Rack(from):
			return 1
		case m.Datacenter(ep) == m.Datacenter(from):
			return 2
		default:
			return 3
		}
	}
	out := slices.Clone(eps)
	slices.SortStableFunc(out, func(a, b netip.Addr) int {
		return score(a) - score(b)
	})
	return out
}
