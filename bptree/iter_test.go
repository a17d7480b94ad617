package bptree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIter(t *testing.T) {
	tree := newTree(t, 4)
	it := tree.Iter()
	require.False(t, it.SeekFirst())
	require.False(t, it.SeekLast())
	require.False(t, it.Seek(0))
	require.Nil(t, it.Bucket())

	var keys []KeyType
	for k := KeyType(0); k < 100; k += 3 {
		keys = append(keys, k)
		require.NoError(t, tree.Insert(k, k))
	}

	var forward []KeyType
	for ok := it.SeekFirst(); ok; ok = it.Next() {
		forward = append(forward, it.Key())
		require.Equal(t, []ValueType{it.Key()}, it.Bucket())
		require.NotNil(t, it.Leaf())
	}
	require.NoError(t, it.Err())
	require.Equal(t, keys, forward)

	var backward []KeyType
	for ok := it.SeekLast(); ok; ok = it.Prev() {
		backward = append(backward, it.Key())
	}
	require.NoError(t, it.Err())
	require.Len(t, backward, len(keys))
	for i, k := range backward {
		require.Equal(t, keys[len(keys)-1-i], k)
	}
}

func TestIterSeek(t *testing.T) {
	tree := newTree(t, 3)
	for k := KeyType(10); k <= 200; k += 10 {
		require.NoError(t, tree.Insert(k, k))
	}
	it := tree.Iter()

	require.True(t, it.Seek(55))
	require.EqualValues(t, 60, it.Key())
	require.True(t, it.Prev())
	require.EqualValues(t, 50, it.Key())

	require.True(t, it.Seek(70))
	require.EqualValues(t, 70, it.Key())

	require.True(t, it.Seek(-5))
	require.EqualValues(t, 10, it.Key())
	require.False(t, it.Prev())

	require.False(t, it.Seek(201))
	require.False(t, it.Next())
}

func TestIterAfterRemovals(t *testing.T) {
	tree := newTree(t, 5)
	for k := range KeyType(200) {
		require.NoError(t, tree.Insert(k, k))
	}
	for k := KeyType(0); k < 200; k += 3 {
		require.NoError(t, tree.Remove(k))
	}
	require.NoError(t, tree.Check())

	// stale separators must not confuse Prev
	it := tree.Iter()
	var prev KeyType = 200
	count := 0
	for ok := it.SeekLast(); ok; ok = it.Prev() {
		require.Less(t, it.Key(), prev)
		require.NotZero(t, it.Key()%3)
		prev = it.Key()
		count++
	}
	require.Equal(t, 200-67, count)
}

func TestAll(t *testing.T) {
	tree := newTree(t, 4)
	for i := range 10 {
		require.NoError(t, tree.Insert(KeyType(i/2), ValueType(i)))
	}
	var values []ValueType
	for k, v := range tree.All() {
		require.EqualValues(t, v/2, k)
		values = append(values, v)
	}
	require.Equal(t, []ValueType{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, values)

	n := 0
	for range tree.All() {
		if n++; n == 3 {
			break
		}
	}
	require.Equal(t, 3, n)
}
