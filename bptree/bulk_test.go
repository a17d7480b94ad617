package bptree

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/dacapoday/bplus"
	"github.com/stretchr/testify/require"
)

func TestBulkLoadEmpty(t *testing.T) {
	tree := newTree(t, 4)
	require.NoError(t, tree.BulkLoad(nil))
	require.True(t, tree.IsEmpty())
	require.NoError(t, tree.Check())
}

func TestBulkLoadShapes(t *testing.T) {
	for order := 3; order <= 12; order++ {
		for n := 1; n <= 60; n++ {
			pairs := make([]bplus.Pair, n)
			for i := range pairs {
				pairs[i] = bplus.Pair{Key: KeyType(n - i), Value: ValueType(i)}
			}
			tree := newTree(t, order)
			require.NoError(t, tree.BulkLoad(pairs))
			require.NoError(t, tree.Check(), "order %d n %d", order, n)

			stats := tree.Stats()
			require.Equal(t, n, stats.Keys)
			leaves, err := tree.Leaves()
			require.NoError(t, err)
			require.Equal(t, stats.Leaves, len(leaves))
		}
	}
}

func TestBulkLoadPacksLeaves(t *testing.T) {
	tree := newTree(t, 4)
	pairs := make([]bplus.Pair, 10)
	for i := range pairs {
		pairs[i] = bplus.Pair{Key: KeyType(i), Value: ValueType(i)}
	}
	require.NoError(t, tree.BulkLoad(pairs))
	require.NoError(t, tree.Check())
	// 10 keys in leaves of 3: the trailing single key is merged and re-split
	require.Equal(t, [][]KeyType{{0, 1, 2}, {3, 4, 5}, {6, 7}, {8, 9}}, leafKeys(t, tree))
}

func TestBulkLoadDuplicates(t *testing.T) {
	tree := newTree(t, 3)
	pairs := []bplus.Pair{{5, 1}, {3, 2}, {5, 3}, {3, 4}, {1, 5}, {5, 6}}
	require.NoError(t, tree.BulkLoad(pairs))
	require.NoError(t, tree.Check())

	bucket, err := tree.Lookup(5)
	require.NoError(t, err)
	require.Equal(t, []ValueType{1, 3, 6}, bucket)
	require.Equal(t, 3, tree.Stats().Keys)
}

func TestBulkLoadEquivalence(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pairs := make([]bplus.Pair, 500)
	for i := range pairs {
		pairs[i] = bplus.Pair{Key: KeyType(rng.IntN(400)), Value: ValueType(i)}
	}

	for _, order := range []int{3, 4, 7, 20} {
		bulk := newTree(t, order)
		require.NoError(t, bulk.BulkLoad(pairs))
		require.NoError(t, bulk.Check())

		single := newTree(t, order)
		require.NoError(t, single.InsertAll(pairs))
		require.NoError(t, single.Check())

		a, err := bulk.Range(math.MinInt64, math.MaxInt64)
		require.NoError(t, err)
		b, err := single.Range(math.MinInt64, math.MaxInt64)
		require.NoError(t, err)
		require.Equal(t, withoutLeaf(b), withoutLeaf(a), "order %d", order)
	}
}

func TestBulkLoadUnion(t *testing.T) {
	tree := newTree(t, 4)
	for k := range KeyType(10) {
		require.NoError(t, tree.Insert(k, 100+k))
	}
	require.NoError(t, tree.BulkLoad([]bplus.Pair{{3, 1}, {20, 2}, {-1, 3}}))
	require.NoError(t, tree.Check())

	bucket, err := tree.Lookup(3)
	require.NoError(t, err)
	require.Equal(t, []ValueType{103, 1}, bucket)
	require.Equal(t, 12, tree.Stats().Keys)

	// the rebuilt tree keeps working
	require.NoError(t, tree.Insert(15, 15))
	require.NoError(t, tree.Remove(0))
	require.NoError(t, tree.Check())
}

func TestBulkLoadKeepsTreeOnError(t *testing.T) {
	tree := newTree(t, 4)
	for k := range KeyType(20) {
		require.NoError(t, tree.Insert(k, k))
	}
	root, height := tree.Root(), tree.Height()
	require.Greater(t, height, 1)
	tree.height = 1

	err := tree.BulkLoad([]bplus.Pair{{Key: 100, Value: 100}})
	require.ErrorIs(t, err, bplus.ErrCorrupted)
	require.Same(t, root, tree.Root())
	require.Equal(t, 1, tree.Height())

	tree.height = height
	require.NoError(t, tree.Check())
	require.Equal(t, 20, tree.Stats().Keys)
}
