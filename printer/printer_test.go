package printer

import (
	"bytes"
	"testing"

	"github.com/dacapoday/bplus/bptree"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func scenario(t *testing.T) *bptree.BPTree {
	t.Helper()
	tree, err := bptree.New(4)
	require.NoError(t, err)
	for _, k := range []bptree.KeyType{10, 20, 5, 6, 12, 30, 7, 17} {
		require.NoError(t, tree.Insert(k, k))
	}
	return tree
}

func newPrinter(t *testing.T) (*Printer, *bytes.Buffer) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	return New(&buf), &buf
}

func TestTree(t *testing.T) {
	p, buf := newPrinter(t)
	empty, err := bptree.New(4)
	require.NoError(t, err)
	p.Tree(empty)
	require.Equal(t, "Empty tree.\n", buf.String())

	buf.Reset()
	p.Tree(scenario(t))
	require.Equal(t, "[10 20]\n[5 6 7]  [10 12 17]  [20 30]\n", buf.String())
}

func TestLeavesVerbose(t *testing.T) {
	p, buf := newPrinter(t)
	tree := scenario(t)

	require.NoError(t, p.Leaves(tree))
	require.Equal(t, "[5 6 7] [10 12 17] [20 30]\n", buf.String())

	p.Verbose = true
	leaves, err := tree.Leaves()
	require.NoError(t, err)
	require.Contains(t, p.Node(leaves[0]), "-> #")
	require.Contains(t, p.Node(tree.Root()), "<")
}

func TestPathAndValue(t *testing.T) {
	p, buf := newPrinter(t)
	tree := scenario(t)

	require.NoError(t, p.PathTo(tree, 12))
	require.Equal(t, "Root: [10 20]\n\tLeaf: [10 12 17]\nKey: 12   Values: 12\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Value(tree, 11))
	require.Equal(t, "Record not found with key 11.\n", buf.String())
}

func TestRange(t *testing.T) {
	p, buf := newPrinter(t)
	tree := scenario(t)

	require.NoError(t, p.Range(tree, 100, 200))
	require.Equal(t, "None found in [100, 200].\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Range(tree, 6, 7))
	require.Contains(t, buf.String(), "Key: 6    Value: 6")
	require.Contains(t, buf.String(), "Key: 7    Value: 7")
}

func TestInfo(t *testing.T) {
	p, buf := newPrinter(t)
	p.Info(scenario(t))
	require.Contains(t, buf.String(), "Total Levels: 2\n")
	require.Contains(t, buf.String(), "Total Nodes: 4 (1 internal, 3 leaves)\n")
	require.Contains(t, buf.String(), "Root: [10 20]\n")
}
