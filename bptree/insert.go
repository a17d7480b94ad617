package bptree

import (
	"github.com/dacapoday/bplus"
	"go.uber.org/zap"
)

// Insert adds value to the bucket of key. A key inserted twice keeps
// both values in insertion order.
func (tree *BPTree) Insert(key KeyType, value ValueType) error {
	if tree.root == nil {
		tree.startNewTree(key, value)
		return nil
	}
	return tree.insertIntoLeaf(key, value)
}

// InsertAll inserts the pairs one at a time, in order.
func (tree *BPTree) InsertAll(pairs []bplus.Pair) error {
	for _, p := range pairs {
		if err := tree.Insert(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func (tree *BPTree) startNewTree(key KeyType, value ValueType) {
	leaf := tree.newLeaf()
	leaf.insert(key, value)
	tree.root = leaf
	tree.height = 1
	tree.log.Debug("new tree", zap.Int("node", leaf.id), zap.Int64("key", key))
}

func (tree *BPTree) insertIntoLeaf(key KeyType, value ValueType) error {
	leaf, err := tree.findLeaf(key)
	if err != nil {
		return err
	}
	if leaf.insert(key, value) <= leaf.maxSize {
		return nil
	}
	sibling := tree.splitLeaf(leaf)
	return tree.insertIntoParent(leaf, sibling.FirstKey(), sibling)
}

func (tree *BPTree) splitLeaf(leaf *Leaf) *Leaf {
	sibling := tree.newLeaf()
	leaf.moveHalfTo(sibling)
	tree.log.Debug("split leaf",
		zap.Int("node", leaf.id),
		zap.Int("sibling", sibling.id),
		zap.Int64("key", sibling.FirstKey()))
	return sibling
}

// insertIntoParent links newNode, the right half of a split of oldNode,
// into the parent under key, splitting upward as long as parents overflow.
func (tree *BPTree) insertIntoParent(oldNode Node, key KeyType, newNode Node) error {
	parent := oldNode.Parent()
	if parent == nil {
		root := tree.newInternal()
		root.populateNewRoot(oldNode, key, newNode)
		tree.root = root
		tree.height++
		tree.log.Debug("new root", zap.Int("node", root.id), zap.Int64("key", key), zap.Int("height", tree.height))
		return nil
	}

	size, err := parent.insertAfter(oldNode, key, newNode)
	if err != nil || size <= parent.maxSize {
		return err
	}

	sibling := tree.newInternal()
	parent.moveHalfTo(sibling)
	promoted := sibling.promoteFirst()
	tree.log.Debug("split internal",
		zap.Int("node", parent.id),
		zap.Int("sibling", sibling.id),
		zap.Int64("key", promoted))
	return tree.insertIntoParent(parent, promoted, sibling)
}
