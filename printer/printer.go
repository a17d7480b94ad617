// Package printer renders a B+ tree as text: rank by rank, the leaf
// chain, the path to a key, range results, and summary figures.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dacapoday/bplus/bptree"
	"github.com/fatih/color"
)

// Printer writes renderings to an io.Writer. Colors follow
// color.NoColor, which is set when stdout is not a terminal.
type Printer struct {
	w       io.Writer
	Verbose bool

	internal *color.Color
	leaf     *color.Color
	faint    *color.Color
}

func New(w io.Writer) *Printer {
	return &Printer{
		w:        w,
		internal: color.New(color.FgCyan, color.Bold),
		leaf:     color.New(color.FgGreen),
		faint:    color.New(color.Faint),
	}
}

// Node describes one node: its keys, and in verbose mode its ID and the
// IDs it links to.
func (p *Printer) Node(n bptree.Node) string {
	var b strings.Builder
	if p.Verbose {
		b.WriteString(p.faint.Sprintf("#%d", n.ID()))
	}
	b.WriteByte('[')
	switch n := n.(type) {
	case *bptree.Internal:
		if p.Verbose {
			children := n.Children()
			b.WriteString(p.faint.Sprintf("<%d>", children[0].ID()))
			for i, k := range n.Keys() {
				fmt.Fprintf(&b, " %s %s", p.internal.Sprint(k), p.faint.Sprintf("<%d>", children[i+1].ID()))
			}
		} else {
			b.WriteString(p.internal.Sprint(n.String()))
		}
	case *bptree.Leaf:
		b.WriteString(p.leaf.Sprint(n.String()))
		if p.Verbose && n.Next() != nil {
			b.WriteString(p.faint.Sprintf(" -> #%d", n.Next().ID()))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Tree prints every rank on its own line, the root first.
func (p *Printer) Tree(tree *bptree.BPTree) {
	levels := tree.Levels()
	if len(levels) == 0 {
		fmt.Fprintln(p.w, "Empty tree.")
		return
	}
	for _, level := range levels {
		parts := make([]string, len(level))
		for i, n := range level {
			parts[i] = p.Node(n)
		}
		fmt.Fprintln(p.w, strings.Join(parts, "  "))
	}
}

// Leaves prints the leaf chain on one line.
func (p *Printer) Leaves(tree *bptree.BPTree) error {
	leaves, err := tree.Leaves()
	if err != nil {
		return err
	}
	if len(leaves) == 0 {
		fmt.Fprintln(p.w, "Empty tree.")
		return nil
	}
	parts := make([]string, len(leaves))
	for i, leaf := range leaves {
		parts[i] = p.Node(leaf)
	}
	fmt.Fprintln(p.w, strings.Join(parts, " "))
	return nil
}

// PathTo prints the nodes from the root to the leaf covering key,
// indenting one step per level, followed by the key's values.
func (p *Printer) PathTo(tree *bptree.BPTree, key bptree.KeyType) error {
	path, err := tree.PathTo(key)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		fmt.Fprintln(p.w, "Not found: empty tree.")
		return nil
	}
	for depth, n := range path {
		label := "Internal"
		if n.IsLeaf() {
			label = "Leaf"
		}
		if depth == 0 {
			label = "Root"
		}
		fmt.Fprintf(p.w, "%s%s: %s\n", strings.Repeat("\t", depth), label, p.Node(n))
	}
	return p.Value(tree, key)
}

// Value prints the bucket of key.
func (p *Printer) Value(tree *bptree.BPTree, key bptree.KeyType) error {
	bucket, err := tree.Lookup(key)
	if err != nil {
		return err
	}
	if len(bucket) == 0 {
		fmt.Fprintf(p.w, "Record not found with key %d.\n", key)
		return nil
	}
	fmt.Fprintf(p.w, "Key: %d   Values: %s\n", key, joinValues(bucket))
	return nil
}

// Range prints one line per (key, value) in [start, end].
func (p *Printer) Range(tree *bptree.BPTree, start, end bptree.KeyType) error {
	entries, err := tree.Range(start, end)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(p.w, "None found in [%d, %d].\n", start, end)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(p.w, "Key: %d    Value: %d    Leaf: #%d\n", e.Key, e.Value, e.LeafID)
	}
	return nil
}

// Info prints the shape of the tree and the content of its root.
func (p *Printer) Info(tree *bptree.BPTree) {
	if tree.IsEmpty() {
		fmt.Fprintln(p.w, "Empty tree.")
		return
	}
	stats := tree.Stats()
	fmt.Fprintf(p.w, "Order: %d\n", stats.Order)
	fmt.Fprintf(p.w, "Total Levels: %d\n", stats.Height)
	fmt.Fprintf(p.w, "Total Nodes: %d (%d internal, %d leaves)\n", stats.Nodes, stats.Internals, stats.Leaves)
	fmt.Fprintf(p.w, "Keys: %d  Values: %d\n", stats.Keys, stats.Values)
	fmt.Fprintf(p.w, "Root: %s\n", p.Node(tree.Root()))
}

func joinValues(bucket []bptree.ValueType) string {
	parts := make([]string, len(bucket))
	for i, v := range bucket {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
