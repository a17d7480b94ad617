// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package bptree implements an in-memory B+ tree over int64 keys with
// value buckets, a linked leaf chain, and a block-per-node snapshot format.
//
// A BPTree is not safe for concurrent use.
package bptree

import (
	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
	"go.uber.org/zap"
)

// Entry is one (key, value) pair reported by Range, tagged with the
// identity of the leaf holding it.
type Entry struct {
	Key    KeyType
	Value  ValueType
	LeafID int
}

// BPTree is a B+ tree of a fixed order.
//
// The zero value is not usable; construct one with New.
type BPTree struct {
	log    *zap.Logger
	root   Node
	order  int
	height int
	nextID int
}

// New returns an empty tree. Every node holds at most order-1 keys.
func New(order int, opts ...Option) (*BPTree, error) {
	if order < bplus.MinOrder {
		return nil, errors.Wrapf(bplus.ErrInvalidOrder, "order %d is below %d", order, bplus.MinOrder)
	}
	tree := &BPTree{order: order, log: zap.NewNop()}
	for _, opt := range opts {
		opt(tree)
	}
	return tree, nil
}

func (tree *BPTree) Order() int {
	return tree.order
}

// Root returns the root node, or nil for an empty tree.
func (tree *BPTree) Root() Node {
	return tree.root
}

func (tree *BPTree) IsEmpty() bool {
	return tree.root == nil
}

// Height is the number of levels; 0 for an empty tree.
func (tree *BPTree) Height() int {
	return tree.height
}

// Destroy drops every node.
func (tree *BPTree) Destroy() {
	tree.root = nil
	tree.height = 0
}

func (tree *BPTree) newLeaf() *Leaf {
	tree.nextID++
	return newLeaf(tree.nextID, tree.order)
}

func (tree *BPTree) newInternal() *Internal {
	tree.nextID++
	return newInternal(tree.nextID, tree.order)
}

// findLeaf descends from the root to the leaf whose range covers key.
// The descent takes at most height-1 steps; anything longer means a cycle.
func (tree *BPTree) findLeaf(key KeyType) (*Leaf, error) {
	return tree.descend(func(n *Internal) Node { return n.lookup(key) })
}

func (tree *BPTree) leftmostLeaf() (*Leaf, error) {
	return tree.descend(func(n *Internal) Node { return n.left })
}

func (tree *BPTree) rightmostLeaf() (*Leaf, error) {
	return tree.descend(func(n *Internal) Node { return n.Child(len(n.pairs)) })
}

func (tree *BPTree) descend(next func(*Internal) Node) (*Leaf, error) {
	if tree.root == nil {
		return nil, nil
	}
	return descendFrom(tree.root, tree.height, next)
}

func descendFrom(n Node, levels int, next func(*Internal) Node) (*Leaf, error) {
	for depth := 1; ; depth++ {
		switch node := n.(type) {
		case *Leaf:
			return node, nil
		case *Internal:
			if depth >= levels {
				return nil, errors.Wrapf(bplus.ErrCorrupted, "descent passed internal(%d) at depth %d of %d", node.id, depth, levels)
			}
			if n = next(node); n == nil {
				return nil, errors.Wrapf(bplus.ErrCorrupted, "internal(%d) has a missing child", node.id)
			}
		default:
			return nil, errors.Wrapf(bplus.ErrCorrupted, "unexpected node %T", n)
		}
	}
}

// Lookup returns a copy of the bucket of key; nil when key is absent.
func (tree *BPTree) Lookup(key KeyType) ([]ValueType, error) {
	leaf, err := tree.findLeaf(key)
	if leaf == nil {
		return nil, err
	}
	bucket := leaf.lookup(key)
	if bucket == nil {
		return nil, nil
	}
	return append([]ValueType(nil), bucket...), nil
}
