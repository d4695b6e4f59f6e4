package ring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
)

func rng(l, r string) Range {
	return Range{Left: partitioner.Token(l), Right: partitioner.Token(r)}
}

func TestRangeContains(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		r := rng("20", "80")
		require.False(t, r.Contains("20"), "left bound is exclusive")
		require.True(t, r.Contains("21"))
		require.True(t, r.Contains("80"), "right bound is inclusive")
		require.False(t, r.Contains("81"))
		require.False(t, r.Contains(""))
	})

	t.Run("wrap around", func(t *testing.T) {
		r := rng("c0", "20")
		require.True(t, r.IsWrapAround())
		require.True(t, r.Contains("ff"))
		require.True(t, r.Contains(""))
		require.True(t, r.Contains("20"))
		require.False(t, r.Contains("21"))
		require.False(t, r.Contains("c0"))
	})

	t.Run("wrap to minimum", func(t *testing.T) {
		r := rng("c0", "")
		require.True(t, r.Contains("ff"))
		require.True(t, r.Contains(""))
		require.False(t, r.Contains("c0"))
		require.False(t, r.Contains("00"))
	})

	t.Run("full ring", func(t *testing.T) {
		r := rng("40", "40")
		require.True(t, r.Contains("40"))
		require.True(t, r.Contains("00"))
		require.True(t, r.Contains(""))
	})
}

func TestRangeContainsRange(t *testing.T) {
	require.True(t, rng("00", "80").ContainsRange(rng("10", "20")))
	require.True(t, rng("00", "80").ContainsRange(rng("00", "80")))
	require.False(t, rng("00", "80").ContainsRange(rng("10", "90")))
	require.True(t, rng("c0", "40").ContainsRange(rng("d0", "20")))
	require.True(t, rng("c0", "40").ContainsRange(rng("d0", "ff")))
	require.True(t, rng("c0", "40").ContainsRange(rng("00", "30")))
	require.False(t, rng("10", "20").ContainsRange(rng("c0", "40")))
	require.True(t, rng("40", "40").ContainsRange(rng("c0", "40")))
	require.False(t, rng("c0", "40").ContainsRange(rng("40", "40")))
}

func TestRangeIntersects(t *testing.T) {
	require.True(t, rng("00", "80").Intersects(rng("40", "c0")))
	require.True(t, rng("40", "c0").Intersects(rng("00", "80")))
	require.False(t, rng("00", "40").Intersects(rng("40", "80")), "touching arcs share no token")
	require.True(t, rng("00", "41").Intersects(rng("40", "80")))
	require.True(t, rng("c0", "20").Intersects(rng("10", "30")))
	require.True(t, rng("c0", "20").Intersects(rng("d0", "e0")))
	require.False(t, rng("c0", "20").Intersects(rng("30", "40")))
	require.True(t, rng("00", "00").Intersects(rng("30", "40")))
}
