// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
)

// Check walks the whole tree and reports the first broken invariant as an
// error wrapping bplus.ErrCorrupted:
//   - every non-root node holds between MinSize and MaxSize keys
//   - keys ascend strictly within each node and respect the separators above
//   - every child points back to its parent
//   - all leaves sit at depth Height
//   - the leaf chain visits exactly the leaves in key order
//   - no node is reachable twice
func (tree *BPTree) Check() error {
	if tree.root == nil {
		if tree.height != 0 {
			return errors.Wrapf(bplus.ErrCorrupted, "empty tree with height %d", tree.height)
		}
		return nil
	}
	if tree.root.Parent() != nil {
		return errors.Wrapf(bplus.ErrCorrupted, "root(%d) has parent(%d)", tree.root.ID(), tree.root.Parent().ID())
	}

	_, err := tree.check()
	return err
}

func (tree *BPTree) check() (*checker, error) {
	c := &checker{tree: tree, seen: roaring.New()}
	if err := c.walk(tree.root, nil, 1, math.MinInt64, math.MaxInt64, false); err != nil {
		return nil, err
	}
	return c, c.chain()
}

type checker struct {
	tree   *BPTree
	seen   *roaring.Bitmap
	leaves []*Leaf
}

// walk verifies the subtree n whose keys must lie in [lo, hi]; hiOpen
// excludes hi itself.
func (c *checker) walk(n Node, parent *Internal, depth int, lo, hi KeyType, hiOpen bool) error {
	if n == nil {
		return errors.Wrapf(bplus.ErrCorrupted, "internal(%d) has a missing child", parent.ID())
	}
	if n.ID() < 0 || uint64(n.ID()) > math.MaxUint32 || !c.seen.CheckedAdd(uint32(n.ID())) {
		return errors.Wrapf(bplus.ErrCorrupted, "node(%d) is reachable twice", n.ID())
	}
	if n.Parent() != parent {
		return errors.Wrapf(bplus.ErrCorrupted, "node(%d) does not point back to its parent", n.ID())
	}
	if n.MaxSize() != c.tree.order-1 {
		return errors.Wrapf(bplus.ErrCorrupted, "node(%d) has capacity %d in a tree of order %d", n.ID(), n.MaxSize(), c.tree.order)
	}

	size := n.Size()
	minSize := n.MinSize()
	if parent == nil {
		minSize = 1
	}
	if size < minSize || size > n.MaxSize() {
		return errors.Wrapf(bplus.ErrCorrupted, "node(%d) holds %d keys, want %d..%d", n.ID(), size, minSize, n.MaxSize())
	}

	var keys []KeyType
	switch node := n.(type) {
	case *Leaf:
		keys = node.Keys()
		for i := range node.entries {
			if len(node.entries[i].bucket) == 0 {
				return errors.Wrapf(bplus.ErrCorrupted, "leaf(%d) key %d has an empty bucket", node.id, node.entries[i].key)
			}
		}
	case *Internal:
		keys = node.Keys()
	}
	for i, k := range keys {
		if i > 0 && keys[i-1] >= k {
			return errors.Wrapf(bplus.ErrCorrupted, "node(%d) keys %d, %d out of order", n.ID(), keys[i-1], k)
		}
		if k < lo || k > hi || (hiOpen && k == hi) {
			return errors.Wrapf(bplus.ErrCorrupted, "node(%d) key %d outside its parent range", n.ID(), k)
		}
	}

	switch node := n.(type) {
	case *Leaf:
		if depth != c.tree.height {
			return errors.Wrapf(bplus.ErrCorrupted, "leaf(%d) at depth %d, height is %d", node.id, depth, c.tree.height)
		}
		c.leaves = append(c.leaves, node)
	case *Internal:
		if depth >= c.tree.height {
			return errors.Wrapf(bplus.ErrCorrupted, "internal(%d) at depth %d, height is %d", node.id, depth, c.tree.height)
		}
		if err := c.walk(node.left, node, depth+1, lo, node.pairs[0].key, true); err != nil {
			return err
		}
		for i, p := range node.pairs {
			childHi, childOpen := hi, hiOpen
			if i+1 < len(node.pairs) {
				childHi, childOpen = node.pairs[i+1].key, true
			}
			if err := c.walk(p.child, node, depth+1, p.key, childHi, childOpen); err != nil {
				return err
			}
		}
	}
	return nil
}

// chain compares the leaf chain with the leaves found by the walk.
func (c *checker) chain() error {
	leaf := c.leaves[0]
	for i, want := range c.leaves {
		if leaf != want {
			if leaf == nil {
				return errors.Wrapf(bplus.ErrCorrupted, "leaf chain ends before leaf(%d)", want.id)
			}
			return errors.Wrapf(bplus.ErrCorrupted, "leaf chain reaches leaf(%d) where leaf(%d) belongs", leaf.id, want.id)
		}
		if i > 0 && c.leaves[i-1].LastKey() >= leaf.FirstKey() {
			return errors.Wrapf(bplus.ErrCorrupted, "leaf(%d) does not follow leaf(%d) in key order", leaf.id, c.leaves[i-1].id)
		}
		leaf = leaf.next
	}
	if leaf != nil {
		return errors.Wrapf(bplus.ErrCorrupted, "leaf chain continues past the last leaf to leaf(%d)", leaf.id)
	}
	return nil
}
