package bptree

import (
	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
)

// Stats summarises the shape of a tree.
type Stats struct {
	Order     int
	Height    int
	Nodes     int
	Internals int
	Leaves    int
	Keys      int
	Values    int
}

func (tree *BPTree) Stats() (stats Stats) {
	stats.Order = tree.order
	stats.Height = tree.height
	for _, level := range tree.Levels() {
		for _, n := range level {
			stats.Nodes++
			switch n := n.(type) {
			case *Leaf:
				stats.Leaves++
				stats.Keys += n.Size()
				for _, m := range n.entries {
					stats.Values += len(m.bucket)
				}
			case *Internal:
				stats.Internals++
			}
		}
	}
	return
}

// Levels returns the nodes of each rank from the root down, left to right.
func (tree *BPTree) Levels() (levels [][]Node) {
	if tree.root == nil {
		return nil
	}
	level := []Node{tree.root}
	for len(level) > 0 && len(levels) < tree.height {
		levels = append(levels, level)
		var next []Node
		for _, n := range level {
			if n, ok := n.(*Internal); ok {
				next = append(next, n.Children()...)
			}
		}
		level = next
	}
	return
}

// Leaves follows the leaf chain from the leftmost leaf.
func (tree *BPTree) Leaves() ([]*Leaf, error) {
	leaf, err := tree.leftmostLeaf()
	if err != nil {
		return nil, err
	}
	var leaves []*Leaf
	for ; leaf != nil; leaf = leaf.next {
		if len(leaves) > tree.nextID {
			return nil, errors.Wrapf(bplus.ErrCorrupted, "leaf chain cycles through leaf(%d)", leaf.id)
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

// PathTo returns the nodes visited from the root down to the leaf that
// covers key.
func (tree *BPTree) PathTo(key KeyType) ([]Node, error) {
	if tree.root == nil {
		return nil, nil
	}
	path := []Node{tree.root}
	_, err := descendFrom(tree.root, tree.height, func(n *Internal) Node {
		child := n.lookup(key)
		path = append(path, child)
		return child
	})
	if err != nil {
		return nil, err
	}
	return path, nil
}
