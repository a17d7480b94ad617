package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/snapshot"
	"github.com/stretchr/testify/require"
)

func savedTree(t *testing.T, n int) (plain, packed string) {
	t.Helper()
	tree, err := bptree.New(5)
	require.NoError(t, err)
	for k := range n {
		require.NoError(t, tree.Insert(bptree.KeyType(k*10), bptree.ValueType(k)))
	}
	dir := t.TempDir()
	plain = filepath.Join(dir, "tree.bpt")
	packed = filepath.Join(dir, "tree.bpz")
	require.NoError(t, tree.SaveToDisk(plain))
	require.NoError(t, snapshot.ExportFile(packed, tree))
	return
}

func TestOpen(t *testing.T) {
	plain, packed := savedTree(t, 40)

	tree, err := open(plain, 5, false)
	require.NoError(t, err)
	require.Equal(t, 40, tree.Stats().Keys)

	tree, err = open(packed, 5, true)
	require.NoError(t, err)
	require.Equal(t, 40, tree.Stats().Keys)

	_, err = open(plain, 20, false)
	require.Error(t, err)
}

func TestViewerScroll(t *testing.T) {
	plain, _ := savedTree(t, 30)
	tree, err := open(plain, 5, false)
	require.NoError(t, err)

	iter := tree.Iter()
	iter.SeekFirst()
	v := &viewer{iter: iter, width: 80, height: 14}
	v.load()
	require.Len(t, v.items, 10)
	require.True(t, v.atStart)
	require.False(t, v.atEnd)

	v.down()
	require.EqualValues(t, 10, v.items[0].key)
	require.False(t, v.atStart)

	v.up()
	require.EqualValues(t, 0, v.items[0].key)
	require.True(t, v.atStart)

	v.last()
	require.EqualValues(t, 290, v.items[len(v.items)-1].key)
	require.True(t, v.atEnd)

	v.first()
	require.EqualValues(t, 0, v.items[0].key)
}

func TestFormat(t *testing.T) {
	line := format(item{key: 42, bucket: []bptree.ValueType{1, 2}, leaf: 3}, 80)
	require.True(t, strings.HasSuffix(line, "#3      1, 2"))
	require.Len(t, format(item{key: 1, bucket: make([]bptree.ValueType, 100)}, 40), 40)
}
