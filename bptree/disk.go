// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/block"
	"go.uber.org/zap"
)

// Save writes one block per node, numbered breadth first from the root
// at block 0, and truncates f to the written blocks. An empty tree saves
// as an empty file.
//
// Every node is encoded before anything is written, so a tree that does
// not fit the block format leaves f untouched.
func (tree *BPTree) Save(f bplus.File) error {
	dev := block.Open(f)
	if tree.root == nil {
		if err := dev.Truncate(0); err != nil {
			return err
		}
		return dev.Sync()
	}

	nodes, ids := numberNodes(tree.root)
	payloads := make([][]byte, len(nodes))
	for i, n := range nodes {
		payload, err := encodeNode(n, ids)
		if err != nil {
			return err
		}
		payloads[i] = payload
	}

	buffer := dev.AllocateBuffer()
	defer dev.RecycleBuffer(buffer)
	for i, payload := range payloads {
		clear(buffer)
		copy(buffer, payload)
		if err := dev.WriteBlock(block.BlockID(i), buffer); err != nil {
			return err
		}
	}
	if err := dev.Truncate(len(payloads)); err != nil {
		return err
	}
	if err := dev.Sync(); err != nil {
		return errors.Wrap(err, "sync")
	}
	tree.log.Debug("save", zap.Int("blocks", len(payloads)))
	return nil
}

// Load replaces the tree with the snapshot in f. Blocks are read from
// block 0 until the end of the file. Snapshots carry keys only, so every
// loaded key gets a single value equal to itself.
//
// The tree is left unchanged when f cannot be read or does not hold a
// valid tree of this order.
func (tree *BPTree) Load(f bplus.File) error {
	dev := block.Open(f)
	buffer := dev.AllocateBuffer()
	defer dev.RecycleBuffer(buffer)

	var blocks []nodeBlock
	for id := block.BlockID(0); ; id++ {
		err := dev.ReadBlock(id, buffer)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		b, err := decodeNode(buffer[:block.PayloadSize], id)
		if err != nil {
			return err
		}
		blocks = append(blocks, b)
	}

	if len(blocks) == 0 {
		tree.Destroy()
		tree.log.Debug("load", zap.Int("blocks", 0))
		return nil
	}

	root, err := buildNodes(blocks, tree.order)
	if err != nil {
		return err
	}
	loaded := &BPTree{log: tree.log, root: root, order: tree.order, nextID: len(blocks)}
	for n := root; ; {
		loaded.height++
		internal, ok := n.(*Internal)
		if !ok {
			break
		}
		if loaded.height > len(blocks) {
			return errors.Wrap(bplus.ErrMalformed, "leftmost path does not end in a leaf")
		}
		n = internal.left
	}

	c, err := loaded.check()
	if err != nil {
		// the check failure describes the file, not this tree
		return errors.Wrapf(bplus.ErrMalformed, "loaded tree: %s", err.Error())
	}
	if reached := c.seen.GetCardinality(); reached != uint64(len(blocks)) {
		return errors.Wrapf(bplus.ErrMalformed, "%d of %d nodes reachable from the root", reached, len(blocks))
	}

	*tree = *loaded
	tree.log.Debug("load", zap.Int("blocks", len(blocks)), zap.Int("height", tree.height))
	return nil
}

// SaveToDisk saves the tree to the file at path, creating it if needed.
func (tree *BPTree) SaveToDisk(path string) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return tree.Save(f)
}

// LoadFromDisk loads the tree from the file at path.
func (tree *BPTree) LoadFromDisk(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return tree.Load(f)
}
