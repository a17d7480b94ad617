// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package bplus defines the shared types of the B+ tree index:
// key and value types, order bounds, and the storage interface
// used by the block-oriented persistence layer.
package bplus

import "io"

// KeyType is the fixed-width numeric key indexed by the tree.
type KeyType = int64

// ValueType is the value stored in a key's bucket.
type ValueType = int64

const (
	// DefaultOrder gives a small fan-out that keeps every split and merge visible.
	DefaultOrder = 4
	// MinOrder is the smallest order a B+ tree can have.
	MinOrder = 3
	// MaxOrder is the largest order accepted by the interactive shell.
	MaxOrder = 20
)

// File provides access to a storage backend for tree snapshots.
// The File interface is the minimum implementation required.
//
// The *os.File type satisfies this interface.
type File interface {
	io.ReaderAt
	io.WriterAt
	io.Closer

	// Truncate changes the size of the file.
	Truncate(size int64) error

	// Sync commits the current contents of the file to stable storage.
	Sync() error
}

// Pair is one (key, value) input to bulk loading and batch insertion.
type Pair struct {
	Key   KeyType
	Value ValueType
}
