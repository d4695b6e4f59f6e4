package coordinator

import (
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ringstore-platform/ringstore/cluster/model"
)

func version(key string, cols ...model.Column) model.Row {
	r := model.NewRow(key)
	for _, c := range cols {
		r.Columns[c.Name] = c
	}
	return r
}

func TestResolveAlgebra(t *testing.T) {
	v1 := version("k", column("c1", "v1", 10))
	v2 := version("k", column("c1", "v1", 10), column("c2", "v2", 5))

	t.Run("identity", func(t *testing.T) {
		require.Empty(t, cmp.Diff(v1, Resolve([]model.Row{v1})))
	})

	t.Run("order insensitive", func(t *testing.T) {
		ab := Resolve([]model.Row{v1, v2})
		ba := Resolve([]model.Row{v2, v1})
		require.Empty(t, cmp.Diff(ab, ba))
	})

	t.Run("absorbs its own result", func(t *testing.T) {
		resolved := Resolve([]model.Row{v1, v2})
		again := Resolve([]model.Row{v1, v2, resolved})
		require.Empty(t, cmp.Diff(resolved, again))
	})

	t.Run("empty input", func(t *testing.T) {
		require.True(t, Resolve(nil).IsEmpty())
	})

	t.Run("conflicting columns pick the newest", func(t *testing.T) {
		old := version("k", column("c1", "old", 1))
		new_ := version("k", column("c1", "new", 2))
		resolved := Resolve([]model.Row{old, new_})
		require.Equal(t, []byte("new"), resolved.Columns["c1"].Value)
	})
}

func TestRepairsForReadRepairScenario(t *testing.T) {
	// Three replicas; one holds an extra column. Only the two stale
	// replicas get a repair, carrying exactly the missing column.
	r1 := version("k", column("c1", "v1", 10))
	r2 := version("k", column("c1", "v1", 10), column("c2", "v2", 5))
	r3 := version("k", column("c1", "v1", 10))

	versions := map[netip.Addr]model.Row{epA: r1, epB: r2, epC: r3}
	resolved := Resolve([]model.Row{r1, r2, r3})
	require.Len(t, resolved.Columns, 2)

	repairs := RepairsFor("users", resolved, versions)
	require.Len(t, repairs, 2)
	require.NotContains(t, repairs, epB, "the up-to-date replica needs no repair")

	for _, ep := range []netip.Addr{epA, epC} {
		repair := repairs[ep]
		require.Equal(t, "users", repair.Table)
		require.Equal(t, "k", repair.Key)
		require.Len(t, repair.Columns, 1)
		require.Equal(t, []byte("v2"), repair.Columns["c2"].Value)
	}
}

func TestBlockFor(t *testing.T) {
	require.Equal(t, 1, One.BlockFor(3))
	require.Equal(t, 2, Quorum.BlockFor(3))
	require.Equal(t, 3, Quorum.BlockFor(5))
	require.Equal(t, 2, Quorum.BlockFor(2))
	require.Equal(t, 3, All.BlockFor(3))
}

func TestParseConsistencyLevel(t *testing.T) {
	for _, level := range []ConsistencyLevel{One, Quorum, All} {
		parsed, err := ParseConsistencyLevel(level.String())
		require.NoError(t, err)
		require.Equal(t, level, parsed)
	}

	_, err := ParseConsistencyLevel("TWO")
	require.Error(t, err)
}
