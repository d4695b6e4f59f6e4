package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func col(name, value string, ts int64) Column {
	return Column{Name: name, Value: []byte(value), Timestamp: ts}
}

func tombstone(name string, ts int64) Column {
	return Column{Name: name, Timestamp: ts, Tombstone: true}
}

func rowOf(key string, cols ...Column) Row {
	r := NewRow(key)
	for _, c := range cols {
		r.Columns[c.Name] = c
	}
	return r
}

func TestColumnReconcile(t *testing.T) {
	t.Run("higher timestamp wins", func(t *testing.T) {
		winner := col("c", "new", 20).Reconcile(col("c", "old", 10))
		require.Equal(t, []byte("new"), winner.Value)
		winner = col("c", "old", 10).Reconcile(col("c", "new", 20))
		require.Equal(t, []byte("new"), winner.Value)
	})

	t.Run("tombstone wins a timestamp tie", func(t *testing.T) {
		winner := col("c", "live", 10).Reconcile(tombstone("c", 10))
		require.True(t, winner.Tombstone)
		winner = tombstone("c", 10).Reconcile(col("c", "live", 10))
		require.True(t, winner.Tombstone)
	})

	t.Run("value breaks a full tie deterministically", func(t *testing.T) {
		a, b := col("c", "aa", 10), col("c", "zz", 10)
		require.Equal(t, a.Reconcile(b), b.Reconcile(a))
	})
}

func TestRowMerge(t *testing.T) {
	a := rowOf("k", col("c1", "v1", 10))
	b := rowOf("k", col("c1", "v1", 10), col("c2", "v2", 5))

	merged := a.Merge(b)
	require.Len(t, merged.Columns, 2)
	require.Equal(t, []byte("v1"), merged.Columns["c1"].Value)
	require.Equal(t, []byte("v2"), merged.Columns["c2"].Value)

	// Inputs are untouched.
	require.Len(t, a.Columns, 1)
}

func TestRowDiff(t *testing.T) {
	resolved := rowOf("k", col("c1", "v1", 10), col("c2", "v2", 5))

	t.Run("missing column", func(t *testing.T) {
		diff := resolved.Diff(rowOf("k", col("c1", "v1", 10)))
		require.Len(t, diff.Columns, 1)
		require.Equal(t, []byte("v2"), diff.Columns["c2"].Value)
	})

	t.Run("stale column", func(t *testing.T) {
		diff := resolved.Diff(rowOf("k", col("c1", "v0", 1), col("c2", "v2", 5)))
		require.Len(t, diff.Columns, 1)
		require.Equal(t, []byte("v1"), diff.Columns["c1"].Value)
	})

	t.Run("up to date", func(t *testing.T) {
		require.True(t, resolved.Diff(resolved.Clone()).IsEmpty())
	})
}

func TestRowDigest(t *testing.T) {
	a := rowOf("k", col("c1", "v1", 10), col("c2", "v2", 5))
	b := rowOf("k", col("c2", "v2", 5), col("c1", "v1", 10))

	require.Equal(t, a.Digest(), b.Digest(), "digest must be independent of column order")
	require.NotEqual(t, a.Digest(), rowOf("k", col("c1", "v1", 10)).Digest())
	require.NotEqual(t, a.Digest(), rowOf("k2", col("c1", "v1", 10), col("c2", "v2", 5)).Digest())

	withTombstone := rowOf("k", tombstone("c1", 10))
	withLive := rowOf("k", Column{Name: "c1", Timestamp: 10})
	require.NotEqual(t, withTombstone.Digest(), withLive.Digest())
}

func TestMutationRoundTrip(t *testing.T) {
	m := NewMutation("users", "00user:1")
	m.Add("name", []byte("alice"), 100)
	m.Add("empty", nil, 101)
	m.Delete("gone", 102)

	data, err := m.Marshal()
	require.NoError(t, err)

	restored, err := Unmarshal(data)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(m, restored))
}

func TestMutationDeterministicEncoding(t *testing.T) {
	build := func() Mutation {
		m := NewMutation("users", "k")
		m.Add("b", []byte("2"), 2)
		m.Add("a", []byte("1"), 1)
		m.Add("c", []byte("3"), 3)
		return m
	}

	first, err := build().Marshal()
	require.NoError(t, err)
	second, err := build().Marshal()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestMutationUnmarshalTruncated(t *testing.T) {
	m := NewMutation("users", "k")
	m.Add("name", []byte("value"), 1)
	data, err := m.Marshal()
	require.NoError(t, err)

	for _, cut := range []int{1, 5, len(data) - 1} {
		_, err := Unmarshal(data[:cut])
		require.Error(t, err, "cut at %d must fail", cut)
	}
}
