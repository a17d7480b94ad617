// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package snapshot moves a tree's block image through snappy framing, so
// a saved tree can be shipped or archived compressed.
//
// The image is the same one BPTree.Save writes; it is staged in memory
// on both ends.
package snapshot

import (
	"bufio"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
	"github.com/dacapoday/bplus/bptree"
	"github.com/dacapoday/bplus/mem"
	"github.com/golang/snappy"
)

// Export writes the compressed image of tree to w and returns the size of
// the uncompressed image.
func Export(w io.Writer, tree *bptree.BPTree) (int64, error) {
	var image mem.File
	if err := tree.Save(&image); err != nil {
		return 0, err
	}
	sw := snappy.NewBufferedWriter(w)
	n, err := image.WriteTo(sw)
	if err != nil {
		return n, errors.Wrap(err, "compress image")
	}
	if err = sw.Close(); err != nil {
		return n, errors.Wrap(err, "flush image")
	}
	return n, nil
}

// Import replaces tree with the image read from r. The tree is left
// unchanged when the stream or the image is invalid.
func Import(r io.Reader, tree *bptree.BPTree) error {
	var image mem.File
	if _, err := image.ReadFrom(snappy.NewReader(r)); err != nil {
		if errors.Is(err, snappy.ErrCorrupt) || errors.Is(err, snappy.ErrUnsupported) {
			return errors.Wrapf(bplus.ErrMalformed, "decompress image: %s", err.Error())
		}
		return errors.Wrap(err, "decompress image")
	}
	return tree.Load(&image)
}

// ExportFile writes the compressed image of tree to path.
func ExportFile(path string, tree *bptree.BPTree) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = Export(f, tree)
	return
}

// ImportFile replaces tree with the compressed image at path.
func ImportFile(path string, tree *bptree.BPTree) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return Import(bufio.NewReader(f), tree)
}
