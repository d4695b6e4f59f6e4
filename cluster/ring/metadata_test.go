package ring

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
)

var (
	epA = netip.MustParseAddr("10.0.0.1")
	epB = netip.MustParseAddr("10.0.0.2")
	epC = netip.MustParseAddr("10.0.0.3")
)

func TestMetadataNormalTokens(t *testing.T) {
	m := NewMetadata()
	m.UpdateNormalToken("40", epA)
	m.UpdateNormalToken("80", epB)

	s := m.Snapshot()
	require.Equal(t, []partitioner.Token{"40", "80"}, s.SortedTokens())

	ep, ok := s.Endpoint("40")
	require.True(t, ok)
	require.Equal(t, epA, ep)

	tok, ok := s.TokenOf(epB)
	require.True(t, ok)
	require.Equal(t, partitioner.Token("80"), tok)
}

func TestMetadataMoveRebinds(t *testing.T) {
	m := NewMetadata()
	m.UpdateNormalToken("40", epA)

	// The endpoint moves to a new token; the old binding must vanish.
	m.UpdateNormalToken("c0", epA)
	s := m.Snapshot()
	require.Equal(t, []partitioner.Token{"c0"}, s.SortedTokens())

	// Another endpoint takes over a token; the loser is unbound.
	m.UpdateNormalToken("c0", epB)
	s = m.Snapshot()
	require.False(t, s.IsMember(epA))
	require.True(t, s.IsMember(epB))
	require.Len(t, s.SortedTokens(), 1)
}

func TestMetadataSnapshotIsolation(t *testing.T) {
	m := NewMetadata()
	m.UpdateNormalToken("40", epA)

	before := m.Snapshot()
	m.UpdateNormalToken("80", epB)

	require.Len(t, before.SortedTokens(), 1, "older snapshot must not observe the mutation")
	require.Len(t, m.Snapshot().SortedTokens(), 2)
}

func TestMetadataBootstrap(t *testing.T) {
	m := NewMetadata()
	m.UpdateNormalToken("40", epA)

	require.NoError(t, m.AddBootstrapToken("80", epB))
	require.Error(t, m.AddBootstrapToken("40", epB), "normal tokens cannot be claimed")
	require.Error(t, m.AddBootstrapToken("80", epC), "claimed tokens cannot be re-claimed")

	// Re-claiming a new token drops the endpoint's previous claim.
	require.NoError(t, m.AddBootstrapToken("c0", epB))
	s := m.Snapshot()
	_, ok := s.BootstrapEndpoint("80")
	require.False(t, ok)
	ep, ok := s.BootstrapEndpoint("c0")
	require.True(t, ok)
	require.Equal(t, epB, ep)

	m.RemoveBootstrapToken("c0")
	require.Empty(t, m.Snapshot().BootstrapTokens())
}

func TestMetadataLeavingAndRemove(t *testing.T) {
	m := NewMetadata()
	m.UpdateNormalToken("40", epA)
	m.UpdateNormalToken("80", epB)

	m.AddLeavingEndpoint(epC)
	require.Empty(t, m.Snapshot().LeavingEndpoints(), "only members can leave")

	m.AddLeavingEndpoint(epB)
	require.True(t, m.Snapshot().IsLeaving(epB))

	m.RemoveEndpoint(epB)
	s := m.Snapshot()
	require.False(t, s.IsMember(epB))
	require.False(t, s.IsLeaving(epB))
	require.Equal(t, []partitioner.Token{"40"}, s.SortedTokens())
}

func TestMetadataCloneAfterAllLeft(t *testing.T) {
	m := NewMetadata()
	m.UpdateNormalToken("40", epA)
	m.UpdateNormalToken("80", epB)
	m.UpdateNormalToken("c0", epC)
	m.AddLeavingEndpoint(epB)

	left := m.CloneAfterAllLeft()
	require.Equal(t, []partitioner.Token{"40", "c0"}, left.Snapshot().SortedTokens())

	// The projection is independent of the source.
	left.RemoveEndpoint(epA)
	require.True(t, m.Snapshot().IsMember(epA))
}

func TestSnapshotRingWalk(t *testing.T) {
	m := NewMetadata()
	m.UpdateNormalToken("40", epA)
	m.UpdateNormalToken("80", epB)
	m.UpdateNormalToken("c0", epC)
	s := m.Snapshot()

	require.Equal(t, partitioner.Token("40"), s.FirstToken("00"))
	require.Equal(t, partitioner.Token("40"), s.FirstToken("40"))
	require.Equal(t, partitioner.Token("80"), s.FirstToken("41"))
	require.Equal(t, partitioner.Token("40"), s.FirstToken("d0"), "wraps past the last token")

	require.Equal(t, partitioner.Token("c0"), s.Predecessor("40"))
	require.Equal(t, partitioner.Token("40"), s.Successor("c0"))

	require.Equal(t, Range{Left: "c0", Right: "40"}, s.PrimaryRange("40"))

	var walk []partitioner.Token
	for tok := range s.RingIter("81") {
		walk = append(walk, tok)
	}
	require.Equal(t, []partitioner.Token{"c0", "40", "80"}, walk)
}

func TestPendingRanges(t *testing.T) {
	m := NewMetadata()

	m.SetPendingRanges("users", map[Range][]netip.Addr{
		{Left: "40", Right: "80"}: {epC},
		{Left: "c0", Right: "20"}: {epA, epC},
	})

	require.ElementsMatch(t, []netip.Addr{epC}, m.PendingEndpointsFor("50", "users"))
	require.ElementsMatch(t, []netip.Addr{epA, epC}, m.PendingEndpointsFor("d0", "users"))
	require.Empty(t, m.PendingEndpointsFor("90", "users"))
	require.Empty(t, m.PendingEndpointsFor("50", "other"))

	require.Len(t, m.PendingRanges("users", epC), 2)
	require.Len(t, m.PendingRanges("users", epA), 1)

	m.SetPendingRanges("users", nil)
	require.Empty(t, m.AllPendingRanges("users"))
}
