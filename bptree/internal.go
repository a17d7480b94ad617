// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
)

type pair struct {
	key   KeyType
	child Node
}

// Internal routes a key to one of its children. Keys below the first
// separator go to the leftmost child; any other key goes to the child
// paired with the greatest separator not above it.
type Internal struct {
	node
	left  Node
	pairs []pair
}

func newInternal(id, order int) *Internal {
	return &Internal{node: node{id: id, maxSize: order - 1}}
}

func (n *Internal) IsLeaf() bool {
	return false
}

// Size is the number of separator keys.
func (n *Internal) Size() int {
	return len(n.pairs)
}

func (n *Internal) MinSize() int {
	return n.maxSize / 2
}

func (n *Internal) FirstKey() KeyType {
	return n.pairs[0].key
}

func (n *Internal) Keys() []KeyType {
	keys := make([]KeyType, len(n.pairs))
	for i, p := range n.pairs {
		keys[i] = p.key
	}
	return keys
}

// Children returns the leftmost child followed by the child of every separator.
func (n *Internal) Children() []Node {
	children := make([]Node, 0, len(n.pairs)+1)
	children = append(children, n.left)
	for _, p := range n.pairs {
		children = append(children, p.child)
	}
	return children
}

// Child returns the child at ordinal i, 0 being the leftmost child.
func (n *Internal) Child(i int) Node {
	if i == 0 {
		return n.left
	}
	return n.pairs[i-1].child
}

// keyAt returns the separator in front of the child at ordinal i (i >= 1).
func (n *Internal) keyAt(i int) KeyType {
	return n.pairs[i-1].key
}

func (n *Internal) setKeyAt(i int, key KeyType) {
	n.pairs[i-1].key = key
}

func (n *Internal) String() string {
	var b strings.Builder
	for i, p := range n.pairs {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, p.key)
	}
	return b.String()
}

// lookup returns the child whose key range covers key.
func (n *Internal) lookup(key KeyType) Node {
	i := sort.Search(len(n.pairs), func(i int) bool { return n.pairs[i].key > key })
	return n.Child(i)
}

// nodeIndex returns the ordinal of child.
func (n *Internal) nodeIndex(child Node) (int, error) {
	if n.left == child {
		return 0, nil
	}
	for i, p := range n.pairs {
		if p.child == child {
			return i + 1, nil
		}
	}
	return -1, errors.Wrapf(bplus.ErrCorrupted, "node(%d) is not a child of internal(%d)", child.ID(), n.id)
}

// populateNewRoot makes n the parent of a freshly split pair of nodes.
func (n *Internal) populateNewRoot(oldChild Node, key KeyType, newChild Node) {
	n.left = oldChild
	n.pairs = append(n.pairs[:0], pair{key: key, child: newChild})
	oldChild.setParent(n)
	newChild.setParent(n)
}

// insertAfter inserts (key, newChild) right behind oldChild.
func (n *Internal) insertAfter(oldChild Node, key KeyType, newChild Node) (int, error) {
	i, err := n.nodeIndex(oldChild)
	if err != nil {
		return len(n.pairs), err
	}
	n.pairs = slices.Insert(n.pairs, i, pair{key: key, child: newChild})
	newChild.setParent(n)
	return len(n.pairs), nil
}

// removeAt drops the child at ordinal i (i >= 1) with its separator.
func (n *Internal) removeAt(i int) {
	n.pairs = slices.Delete(n.pairs, i-1, i)
}

// removeAndReturnOnlyChild detaches the leftmost child of a node that has
// no separators left.
func (n *Internal) removeAndReturnOnlyChild() Node {
	child := n.left
	n.left = nil
	n.pairs = nil
	return child
}

// moveHalfTo moves the upper pairs of an overflowing node into the empty
// recipient. The recipient has no leftmost child until promoteFirst.
func (n *Internal) moveHalfTo(recipient *Internal) {
	keep := len(n.pairs) / 2
	for _, p := range n.pairs[keep:] {
		p.child.setParent(recipient)
		recipient.pairs = append(recipient.pairs, p)
	}
	clear(n.pairs[keep:])
	n.pairs = n.pairs[:keep]
}

// promoteFirst turns the first pair into the leftmost child and returns
// its key, which moves up into the parent.
func (n *Internal) promoteFirst() KeyType {
	first := n.pairs[0]
	n.left = first.child
	n.pairs = slices.Delete(n.pairs, 0, 1)
	return first.key
}

// moveAllTo merges n into recipient, its left neighbour. middleKey is the
// parent separator between the two and comes down in front of n's leftmost child.
func (n *Internal) moveAllTo(recipient *Internal, middleKey KeyType) {
	n.left.setParent(recipient)
	recipient.pairs = append(recipient.pairs, pair{key: middleKey, child: n.left})
	for _, p := range n.pairs {
		p.child.setParent(recipient)
		recipient.pairs = append(recipient.pairs, p)
	}
	n.left = nil
	n.pairs = nil
}

// moveFirstToEndOf rotates n's leftmost child through the parent into
// recipient, the left neighbour. It returns the new parent separator.
func (n *Internal) moveFirstToEndOf(recipient *Internal, middleKey KeyType) KeyType {
	n.left.setParent(recipient)
	recipient.pairs = append(recipient.pairs, pair{key: middleKey, child: n.left})
	return n.promoteFirst()
}

// moveLastToFrontOf rotates n's last child through the parent into
// recipient, the right neighbour. It returns the new parent separator.
func (n *Internal) moveLastToFrontOf(recipient *Internal, middleKey KeyType) KeyType {
	last := n.pairs[len(n.pairs)-1]
	n.pairs = slices.Delete(n.pairs, len(n.pairs)-1, len(n.pairs))

	recipient.pairs = slices.Insert(recipient.pairs, 0, pair{key: middleKey, child: recipient.left})
	recipient.left = last.child
	last.child.setParent(recipient)
	return last.key
}
