// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/block"
	"github.com/swiftstack/cstruct"
)

// BlockFanOut is the number of key slots in an encoded node.
const BlockFanOut = 50

const noID = -1

// nodeBlock is the fixed layout of one node inside a block payload.
// Internal nodes keep their separators in Keys and the matching children in
// ChildIDs; leaves keep their keys in Keys and leave ChildIDs zeroed.
type nodeBlock struct {
	NodeID      int32
	IsLeaf      bool
	Size        int32
	ParentID    int32
	NextLeafID  int32
	LeftChildID int32
	Keys        [BlockFanOut]int64
	ChildIDs    [BlockFanOut]int32
}

var byteOrder = cstruct.LittleEndian

// numberNodes assigns block IDs breadth first from the root.
func numberNodes(root Node) (order []Node, ids map[Node]int32) {
	ids = map[Node]int32{root: 0}
	order = []Node{root}
	visit := func(n Node) {
		if n == nil {
			return
		}
		if _, ok := ids[n]; !ok {
			ids[n] = int32(len(order))
			order = append(order, n)
		}
	}
	for i := 0; i < len(order); i++ {
		switch n := order[i].(type) {
		case *Internal:
			visit(n.left)
			for _, p := range n.pairs {
				visit(p.child)
			}
		case *Leaf:
			if n.next != nil {
				visit(n.next)
			}
		}
	}
	return
}

func idOf(ids map[Node]int32, n Node) int32 {
	if n == nil {
		return noID
	}
	return ids[n]
}

func encodeNode(n Node, ids map[Node]int32) ([]byte, error) {
	if n.Size() > BlockFanOut {
		return nil, errors.Wrapf(bplus.ErrFanOut, "node(%d) holds %d keys, a block fits %d", n.ID(), n.Size(), BlockFanOut)
	}
	b := nodeBlock{
		NodeID:      ids[n],
		IsLeaf:      n.IsLeaf(),
		Size:        int32(n.Size()),
		ParentID:    noID,
		NextLeafID:  noID,
		LeftChildID: noID,
	}
	if parent := n.Parent(); parent != nil {
		b.ParentID = ids[parent]
	}
	switch n := n.(type) {
	case *Leaf:
		if n.next != nil {
			b.NextLeafID = idOf(ids, n.next)
		}
		for i, m := range n.entries {
			b.Keys[i] = m.key
		}
	case *Internal:
		b.LeftChildID = idOf(ids, n.left)
		for i, p := range n.pairs {
			b.Keys[i] = p.key
			b.ChildIDs[i] = idOf(ids, p.child)
		}
	}
	buf, err := cstruct.Pack(b, byteOrder)
	if err != nil {
		return nil, errors.Wrapf(err, "pack node(%d)", n.ID())
	}
	if len(buf) > block.PayloadSize {
		return nil, errors.Wrapf(bplus.ErrFanOut, "node(%d) encodes to %d bytes", n.ID(), len(buf))
	}
	return buf, nil
}

func decodeNode(payload []byte, blockID block.BlockID) (b nodeBlock, err error) {
	if _, err = cstruct.Unpack(payload, &b, byteOrder); err != nil {
		err = errors.Wrapf(bplus.ErrMalformed, "block(%d): %v", blockID, err)
		return
	}
	switch {
	case b.NodeID != blockID:
		err = errors.Wrapf(bplus.ErrMalformed, "block(%d) holds node(%d)", blockID, b.NodeID)
	case b.Size < 0:
		err = errors.Wrapf(bplus.ErrMalformed, "block(%d) has size %d", blockID, b.Size)
	case b.Size > BlockFanOut:
		err = errors.Wrapf(bplus.ErrFanOut, "block(%d) has size %d, a block fits %d", blockID, b.Size, BlockFanOut)
	}
	return
}

// buildNodes turns decoded blocks into linked nodes rooted at block 0.
// Every reference is range checked, and every node but the root must be
// referenced exactly once as a child, so the result is a tree.
func buildNodes(blocks []nodeBlock, order int) (Node, error) {
	count := int32(len(blocks))
	nodes := make([]Node, count)
	for i, b := range blocks {
		if b.IsLeaf {
			nodes[i] = newLeaf(i, order)
		} else {
			nodes[i] = newInternal(i, order)
		}
	}

	children := roaring.New()
	successors := roaring.New()
	ref := func(from int, id int32, seen *roaring.Bitmap, what string) (Node, error) {
		if id <= 0 || id >= count {
			return nil, errors.Wrapf(bplus.ErrMalformed, "node(%d) %s id %d out of range [1, %d)", from, what, id, count)
		}
		if !seen.CheckedAdd(uint32(id)) {
			return nil, errors.Wrapf(bplus.ErrMalformed, "node(%d) %s id %d referenced twice", from, what, id)
		}
		return nodes[id], nil
	}

	for i, b := range blocks {
		switch n := nodes[i].(type) {
		case *Leaf:
			for _, k := range b.Keys[:b.Size] {
				n.appendBucket(k, []ValueType{k})
			}
			if b.NextLeafID == noID {
				continue
			}
			next, err := ref(i, b.NextLeafID, successors, "next leaf")
			if err != nil {
				return nil, err
			}
			leaf, ok := next.(*Leaf)
			if !ok {
				return nil, errors.Wrapf(bplus.ErrMalformed, "leaf(%d) links to internal(%d)", i, b.NextLeafID)
			}
			n.next = leaf
		case *Internal:
			left, err := ref(i, b.LeftChildID, children, "left child")
			if err != nil {
				return nil, err
			}
			n.left = left
			left.setParent(n)
			for j := range b.Size {
				child, err := ref(i, b.ChildIDs[j], children, "child")
				if err != nil {
					return nil, err
				}
				n.pairs = append(n.pairs, pair{key: b.Keys[j], child: child})
				child.setParent(n)
			}
		}
	}

	if got := children.GetCardinality(); got != uint64(count-1) {
		return nil, errors.Wrapf(bplus.ErrMalformed, "%d of %d non-root nodes are attached", got, count-1)
	}
	for i, b := range blocks {
		want := int32(noID)
		if parent := nodes[i].Parent(); parent != nil {
			want = int32(parent.ID())
		}
		if b.ParentID != want {
			return nil, errors.Wrapf(bplus.ErrMalformed, "node(%d) records parent %d, attached under %d", i, b.ParentID, want)
		}
	}
	return nodes[0], nil
}
