package controller

import (
	"net/netip"
	"slices"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
)

// RingEntry describes one ring position for the operator surface.
type RingEntry struct {
	Token    partitioner.Token
	Endpoint netip.Addr
	Rack     string
	State    string
	Alive    bool
}

// RingInfo returns the ring in token order, joining nodes included.
func (c *RingController) RingInfo() []RingEntry {
	snap := c.deps.Metadata.Snapshot()

	out := make([]RingEntry, 0, len(snap.SortedTokens()))
	for _, token := range snap.SortedTokens() {
		ep, _ := snap.Endpoint(token)
		state := "Normal"
		if snap.IsLeaving(ep) {
			state = "Leaving"
		}
		out = append(out, RingEntry{
			Token:    token,
			Endpoint: ep,
			Rack:     c.deps.Snitch.Rack(ep),
			State:    state,
			Alive:    c.deps.Detector.IsAlive(ep),
		})
	}
	for token, ep := range snap.BootstrapTokens() {
		out = append(out, RingEntry{
			Token:    token,
			Endpoint: ep,
			Rack:     c.deps.Snitch.Rack(ep),
			State:    "Joining",
			Alive:    c.deps.Detector.IsAlive(ep),
		})
	}
	slices.SortFunc(out, func(a, b RingEntry) int {
		return a.Token.Compare(b.Token)
	})
	return out
}
