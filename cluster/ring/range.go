// Package ring holds the authoritative in-memory view of the token ring:
// who owns which token, who is joining or leaving, and which ranges carry
// extra write targets while the topology is in motion.
package ring

import (
	"fmt"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
)

// Range is the half-open arc (Left, Right] on the ring, wrapping at the
// minimum token. A range whose bounds are equal covers the entire ring.
type Range struct {
	Left  partitioner.Token
	Right partitioner.Token
}

// IsWrapAround reports whether the range crosses the minimum token.
func (r Range) IsWrapAround() bool {
	return r.Right.Less(r.Left)
}

// IsFullRing reports whether the range covers the whole ring.
func (r Range) IsFullRing() bool {
	return r.Left.Compare(r.Right) == 0
}

// Contains reports whether the token lies on the arc.
func (r Range) Contains(t partitioner.Token) bool {
	switch c := r.Left.Compare(r.Right); {
	case c == 0:
		return true
	case c < 0:
		return r.Left.Less(t) && !r.Right.Less(t)
	default:
		return r.Left.Less(t) || !r.Right.Less(t)
	}
}

// ContainsRange reports whether the whole of that lies on this arc.
func (r Range) ContainsRange(that Range) bool {
	if r.IsFullRing() {
		return true
	}
	if that.IsFullRing() {
		return false
	}

	switch {
	case r.IsWrapAround() == that.IsWrapAround():
		return !that.Left.Less(r.Left) && !r.Right.Less(that.Right)
	case r.IsWrapAround():
		return !that.Left.Less(r.Left) || !r.Right.Less(that.Right)
	default:
		return false
	}
}

// Intersects reports whether the two arcs share at least one token. Since
// both arcs are right-closed, any overlap must cover one of the two right
// endpoints.
func (r Range) Intersects(that Range) bool {
	if r.IsFullRing() || that.IsFullRing() {
		return true
	}
	return r.Contains(that.Right) || that.Contains(r.Right)
}

func (r Range) String() string {
	return fmt.Sprintf("(%s,%s]", r.Left, r.Right)
}
