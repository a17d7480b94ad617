// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import "github.com/dacapoday/bplus"

type (
	KeyType   = bplus.KeyType
	ValueType = bplus.ValueType
)

// Node is either a *Leaf or an *Internal.
type Node interface {
	// ID is the identity assigned by the owning tree.
	// It is used for encoding and display, never for ordering.
	ID() int
	IsLeaf() bool
	Size() int
	MinSize() int
	MaxSize() int
	// FirstKey is the smallest key of a leaf or the first separator of an
	// internal node. It panics on an empty node.
	FirstKey() KeyType
	// Parent is nil for the root.
	Parent() *Internal
	String() string

	setParent(parent *Internal)
}

// node holds the fields common to both node kinds.
type node struct {
	parent  *Internal
	id      int
	maxSize int
}

func (n *node) ID() int {
	return n.id
}

func (n *node) MaxSize() int {
	return n.maxSize
}

func (n *node) Parent() *Internal {
	return n.parent
}

func (n *node) setParent(parent *Internal) {
	n.parent = parent
}

var (
	_ Node = (*Leaf)(nil)
	_ Node = (*Internal)(nil)
)
