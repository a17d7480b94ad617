package bptree

import (
	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
	"go.uber.org/zap"
)

// Remove deletes key and its whole bucket. Removing an absent key is a no-op.
func (tree *BPTree) Remove(key KeyType) error {
	leaf, err := tree.findLeaf(key)
	if leaf == nil {
		return err
	}
	if leaf.lookup(key) == nil {
		return nil
	}
	if _, err = leaf.remove(key); err != nil {
		return err
	}
	if Node(leaf) == tree.root {
		tree.adjustRoot()
		return nil
	}
	if leaf.Size() < leaf.MinSize() {
		return tree.coalesceOrRedistribute(leaf)
	}
	return nil
}

// coalesceOrRedistribute restores the occupancy of an underfull node by
// merging it with a sibling or borrowing one entry from that sibling.
// The sibling is the right one for a leftmost child, the left one otherwise.
func (tree *BPTree) coalesceOrRedistribute(n Node) error {
	if n == tree.root {
		tree.adjustRoot()
		return nil
	}
	parent := n.Parent()
	if parent == nil {
		return errors.Wrapf(bplus.ErrCorrupted, "node(%d) is detached from the tree", n.ID())
	}
	index, err := parent.nodeIndex(n)
	if err != nil {
		return err
	}
	neighborIndex := index - 1
	if index == 0 {
		neighborIndex = 1
	}
	neighbor := parent.Child(neighborIndex)
	if neighbor == nil {
		return errors.Wrapf(bplus.ErrCorrupted, "internal(%d) has no child at %d", parent.id, neighborIndex)
	}

	if canCoalesce(n, neighbor) {
		return tree.coalesce(parent, n, neighbor, index, neighborIndex)
	}
	tree.redistribute(parent, n, neighbor, index)
	return nil
}

func canCoalesce(n, neighbor Node) bool {
	size := n.Size() + neighbor.Size()
	if !n.IsLeaf() {
		// the parent separator comes down as well
		size++
	}
	return size <= n.MaxSize()
}

// coalesce merges the right node of the two into the left one and drops
// the right node from parent.
func (tree *BPTree) coalesce(parent *Internal, n, neighbor Node, index, neighborIndex int) error {
	left, right, rightIndex := neighbor, n, index
	if index < neighborIndex {
		left, right, rightIndex = n, neighbor, neighborIndex
	}

	switch r := right.(type) {
	case *Leaf:
		r.moveAllTo(left.(*Leaf))
	case *Internal:
		r.moveAllTo(left.(*Internal), parent.keyAt(rightIndex))
	}
	parent.removeAt(rightIndex)
	tree.log.Debug("coalesce",
		zap.Int("node", left.ID()),
		zap.Int("removed", right.ID()),
		zap.Int("size", left.Size()))

	if Node(parent) == tree.root {
		tree.adjustRoot()
		return nil
	}
	if parent.Size() < parent.MinSize() {
		return tree.coalesceOrRedistribute(parent)
	}
	return nil
}

// redistribute moves one entry from neighbor into n and refreshes the
// separator between them.
func (tree *BPTree) redistribute(parent *Internal, n, neighbor Node, index int) {
	switch n := n.(type) {
	case *Leaf:
		neighbor := neighbor.(*Leaf)
		if index == 0 {
			neighbor.moveFirstToEndOf(n)
			parent.setKeyAt(1, neighbor.FirstKey())
		} else {
			neighbor.moveLastToFrontOf(n)
			parent.setKeyAt(index, n.FirstKey())
		}
	case *Internal:
		neighbor := neighbor.(*Internal)
		if index == 0 {
			parent.setKeyAt(1, neighbor.moveFirstToEndOf(n, parent.keyAt(1)))
		} else {
			parent.setKeyAt(index, neighbor.moveLastToFrontOf(n, parent.keyAt(index)))
		}
	}
	tree.log.Debug("redistribute",
		zap.Int("node", n.ID()),
		zap.Int("neighbor", neighbor.ID()),
		zap.Int("size", n.Size()))
}

// adjustRoot collapses a root left without keys: an internal root hands
// over to its only child, an empty leaf root empties the tree.
func (tree *BPTree) adjustRoot() {
	switch root := tree.root.(type) {
	case *Internal:
		if root.Size() > 0 {
			return
		}
		child := root.removeAndReturnOnlyChild()
		child.setParent(nil)
		tree.root = child
		tree.height--
		tree.log.Debug("collapse root", zap.Int("node", root.id), zap.Int("root", child.ID()), zap.Int("height", tree.height))
	case *Leaf:
		if root.Size() > 0 {
			return
		}
		tree.root = nil
		tree.height = 0
		tree.log.Debug("tree emptied", zap.Int("node", root.id))
	}
}
