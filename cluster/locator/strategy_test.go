package locator

import (
	"fmt"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
)

var (
	epA = netip.MustParseAddr("10.0.0.1")
	epB = netip.MustParseAddr("10.0.0.2")
	epX = netip.MustParseAddr("10.0.1.1")
	epY = netip.MustParseAddr("10.0.1.2")
	epZ = netip.MustParseAddr("10.0.1.3")
)

func TestSimpleStrategyTwoTokens(t *testing.T) {
	meta := ring.NewMetadata()
	meta.UpdateNormalToken("0000", epA)
	meta.UpdateNormalToken("8000", epB)

	st, err := NewSimpleStrategy(meta, Options{DefaultRF: 2})
	require.NoError(t, err)

	// A key just past an endpoint's token belongs to that endpoint.
	require.Equal(t, []netip.Addr{epA, epB}, st.NaturalEndpoints("0001", "users"))
	require.Equal(t, []netip.Addr{epB, epA}, st.NaturalEndpoints("8001", "users"))
	require.Equal(t, []netip.Addr{epA, epB}, st.NaturalEndpoints("0000", "users"))
	require.Equal(t, []netip.Addr{epB, epA}, st.NaturalEndpoints("", "users"), "min token wraps to the last owner")
}

func TestSimpleStrategyInvariants(t *testing.T) {
	meta := ring.NewMetadata()
	for i := range 8 {
		meta.UpdateNormalToken(
			partitioner.Token(fmt.Sprintf("%02x", i*32)),
			netip.MustParseAddr(fmt.Sprintf("10.1.0.%d", i+1)),
		)
	}

	st, err := NewSimpleStrategy(meta, Options{DefaultRF: 3})
	require.NoError(t, err)

	p := partitioner.NewOrderPreserving()
	for range 50 {
		eps := st.CalculateNaturalEndpoints(p.RandomToken(), meta.Snapshot(), "users")
		require.Len(t, eps, 3)
		seen := map[netip.Addr]struct{}{}
		for _, ep := range eps {
			seen[ep] = struct{}{}
		}
		require.Len(t, seen, 3, "replicas must be distinct")
	}
}

func TestSimpleStrategyCacheInvalidation(t *testing.T) {
	meta := ring.NewMetadata()
	meta.UpdateNormalToken("40", epA)

	st, err := NewSimpleStrategy(meta, Options{DefaultRF: 1})
	require.NoError(t, err)

	require.Equal(t, []netip.Addr{epA}, st.NaturalEndpoints("50", "users"))

	meta.UpdateNormalToken("45", epB)
	// Stale until the cache is invalidated, as after any ring mutation.
	require.Equal(t, []netip.Addr{epA}, st.NaturalEndpoints("50", "users"))
	st.ClearEndpointCache()
	require.Equal(t, []netip.Addr{epB}, st.NaturalEndpoints("50", "users"))
}

func rackRing(t *testing.T) (*ring.Metadata, Snitch) {
	t.Helper()

	meta := ring.NewMetadata()
	meta.UpdateNormalToken("00", epX)
	meta.UpdateNormalToken("2a", epY)
	meta.UpdateNormalToken("55", epZ)
	meta.UpdateNormalToken("80", netip.MustParseAddr("10.0.2.1"))
	meta.UpdateNormalToken("aa", netip.MustParseAddr("10.0.2.2"))
	meta.UpdateNormalToken("d5", netip.MustParseAddr("10.0.2.3"))

	snitch := NewConfigSnitch(map[netip.Addr]string{
		epX: "RACK1",
		epY: "RACK2",
		epZ: "RACK3",
		netip.MustParseAddr("10.0.2.1"): "RACK1",
		netip.MustParseAddr("10.0.2.2"): "RACK2",
		netip.MustParseAddr("10.0.2.3"): "RACK3",
	}, nil)

	return meta, snitch
}

func TestRackAwarePlacement(t *testing.T) {
	meta, snitch := rackRing(t)

	st, err := NewRackAwareOdklEven(meta, snitch, []string{"RACK1", "RACK2", "RACK3"}, Options{DefaultRF: 3})
	require.NoError(t, err)

	eps := st.NaturalEndpoints("16", "users")
	require.Equal(t, []netip.Addr{
		epY,                              // 2a, RACK2: successor of the key token
		epZ,                              // 55, RACK3
		netip.MustParseAddr("10.0.2.1"), // 80, RACK1
	}, eps)

	racks := map[string]struct{}{}
	for _, ep := range eps {
		racks[snitch.Rack(ep)] = struct{}{}
	}
	require.Len(t, racks, 3, "one replica per rack")
}

func TestRackAwareRackDiversity(t *testing.T) {
	meta, snitch := rackRing(t)

	st, err := NewRackAwareOdklEven(meta, snitch, []string{"RACK1", "RACK2", "RACK3"}, Options{DefaultRF: 3})
	require.NoError(t, err)

	for d := range 256 {
		tok := partitioner.StringToken(byte(d), "suffix")
		eps := st.CalculateNaturalEndpoints(tok, meta.Snapshot(), "users")
		require.Len(t, eps, 3, "token %s", tok)

		racks := map[string]struct{}{}
		for _, ep := range eps {
			racks[snitch.Rack(ep)] = struct{}{}
		}
		require.Len(t, racks, 3, "token %s must span all racks", tok)
	}
}

func TestRackAwareConfigValidation(t *testing.T) {
	meta, snitch := rackRing(t)

	_, err := NewRackAwareOdklEven(meta, snitch, []string{"RACK1", "RACK2"}, Options{DefaultRF: 3})
	var cfgErr *ErrConfiguration
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewRackAwareOdklEven(meta, snitch, []string{"RACK1", "RACK2", "RACK3"},
		Options{DefaultRF: 3, ReplicationFactor: map[string]int{"events": 2}})
	require.ErrorAs(t, err, &cfgErr)
}

func TestShuffleDomain(t *testing.T) {
	// The four hard-coded points form one cycle replacing the rotation's
	// degenerate orbits.
	require.Equal(t, byte(0x55), ShuffleDomain(0x00))
	require.Equal(t, byte(0xFF), ShuffleDomain(0x55))
	require.Equal(t, byte(0xAA), ShuffleDomain(0xFF))
	require.Equal(t, byte(0x00), ShuffleDomain(0xAA))

	// Everything else is a plain rotate right.
	require.Equal(t, byte(0x0b), ShuffleDomain(0x16))
	require.Equal(t, byte(0x80), ShuffleDomain(0x01))

	// The transform is a permutation.
	seen := map[byte]struct{}{}
	for d := range 256 {
		seen[ShuffleDomain(byte(d))] = struct{}{}
	}
	require.Len(t, seen, 256)
}

func TestFailoverIndex(t *testing.T) {
	const replicas = 3

	for d := range 256 {
		first := FailoverIndex(byte(d), 7, 0, replicas)
		second := FailoverIndex(byte(d), 7, 1, replicas)
		require.NotEqual(t, first, second, "successive tries must pick distinct replicas")
		require.GreaterOrEqual(t, first, 0)
		require.Less(t, first, replicas-1)
	}

	require.Equal(t, 0, FailoverIndex(0x10, 3, 1, 1))
}
