// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
)

type mapping struct {
	key    KeyType
	bucket []ValueType
}

// Leaf maps keys to buckets of values and links to the next leaf
// in key order.
type Leaf struct {
	node
	entries []mapping
	next    *Leaf
}

func newLeaf(id, order int) *Leaf {
	return &Leaf{node: node{id: id, maxSize: order - 1}}
}

func (leaf *Leaf) IsLeaf() bool {
	return true
}

func (leaf *Leaf) Size() int {
	return len(leaf.entries)
}

// MinSize is half of the leaf capacity, rounded up.
func (leaf *Leaf) MinSize() int {
	return (leaf.maxSize + 1) / 2
}

func (leaf *Leaf) FirstKey() KeyType {
	return leaf.entries[0].key
}

func (leaf *Leaf) LastKey() KeyType {
	return leaf.entries[len(leaf.entries)-1].key
}

// Next returns the right neighbour in the leaf chain, or nil.
func (leaf *Leaf) Next() *Leaf {
	return leaf.next
}

func (leaf *Leaf) Keys() []KeyType {
	keys := make([]KeyType, len(leaf.entries))
	for i, m := range leaf.entries {
		keys[i] = m.key
	}
	return keys
}

// KeyAt returns the i-th key.
func (leaf *Leaf) KeyAt(i int) KeyType {
	return leaf.entries[i].key
}

// BucketAt returns the values of the i-th key. The slice is owned by the leaf.
func (leaf *Leaf) BucketAt(i int) []ValueType {
	return leaf.entries[i].bucket
}

func (leaf *Leaf) String() string {
	var b strings.Builder
	for i, m := range leaf.entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, m.key)
	}
	return b.String()
}

func (leaf *Leaf) search(key KeyType) (int, bool) {
	return slices.BinarySearchFunc(leaf.entries, key, func(m mapping, k KeyType) int {
		return cmp.Compare(m.key, k)
	})
}

// lookup returns the bucket of key, or nil when absent.
func (leaf *Leaf) lookup(key KeyType) []ValueType {
	if i, ok := leaf.search(key); ok {
		return leaf.entries[i].bucket
	}
	return nil
}

// insert appends value to the bucket of key, creating the bucket if needed.
func (leaf *Leaf) insert(key KeyType, value ValueType) int {
	i, ok := leaf.search(key)
	if ok {
		leaf.entries[i].bucket = append(leaf.entries[i].bucket, value)
	} else {
		leaf.entries = slices.Insert(leaf.entries, i, mapping{key: key, bucket: []ValueType{value}})
	}
	return len(leaf.entries)
}

// appendBucket adds a whole bucket behind the last key. Used by bulk load
// and decoding, where keys arrive in ascending order.
func (leaf *Leaf) appendBucket(key KeyType, bucket []ValueType) {
	leaf.entries = append(leaf.entries, mapping{key: key, bucket: bucket})
}

func (leaf *Leaf) remove(key KeyType) (int, error) {
	i, ok := leaf.search(key)
	if !ok {
		return len(leaf.entries), errors.Wrapf(bplus.ErrCorrupted, "leaf(%d) has no key %d", leaf.id, key)
	}
	leaf.entries = slices.Delete(leaf.entries, i, i+1)
	return len(leaf.entries), nil
}

// moveHalfTo moves the entries from MinSize onward into the empty recipient
// and links the recipient right after leaf.
func (leaf *Leaf) moveHalfTo(recipient *Leaf) {
	half := leaf.MinSize()
	recipient.entries = append(recipient.entries, leaf.entries[half:]...)
	clear(leaf.entries[half:])
	leaf.entries = leaf.entries[:half]

	recipient.next = leaf.next
	leaf.next = recipient
}

// moveAllTo moves every entry into recipient, the left neighbour,
// and unlinks leaf from the chain.
func (leaf *Leaf) moveAllTo(recipient *Leaf) {
	recipient.entries = append(recipient.entries, leaf.entries...)
	recipient.next = leaf.next
	leaf.entries = nil
	leaf.next = nil
}

// moveFirstToEndOf moves leaf's first entry behind the last entry of
// recipient, the left neighbour.
func (leaf *Leaf) moveFirstToEndOf(recipient *Leaf) {
	recipient.entries = append(recipient.entries, leaf.entries[0])
	leaf.entries = slices.Delete(leaf.entries, 0, 1)
}

// moveLastToFrontOf moves leaf's last entry in front of the first entry of
// recipient, the right neighbour.
func (leaf *Leaf) moveLastToFrontOf(recipient *Leaf) {
	last := len(leaf.entries) - 1
	recipient.entries = slices.Insert(recipient.entries, 0, leaf.entries[last])
	leaf.entries = slices.Delete(leaf.entries, last, last+1)
}

func (leaf *Leaf) appendEntries(result []Entry, from, to int) []Entry {
	for _, m := range leaf.entries[from:to] {
		for _, v := range m.bucket {
			result = append(result, Entry{Key: m.key, Value: v, LeafID: leaf.id})
		}
	}
	return result
}

// copyFrom appends the entries with keys >= key.
func (leaf *Leaf) copyFrom(result []Entry, key KeyType) []Entry {
	i, _ := leaf.search(key)
	return leaf.appendEntries(result, i, len(leaf.entries))
}

// copyUntil appends the entries with keys <= key.
func (leaf *Leaf) copyUntil(result []Entry, key KeyType) []Entry {
	i, ok := leaf.search(key)
	if ok {
		i++
	}
	return leaf.appendEntries(result, 0, i)
}

func (leaf *Leaf) copyAll(result []Entry) []Entry {
	return leaf.appendEntries(result, 0, len(leaf.entries))
}

// copyBetween appends the entries with start <= key <= end.
func (leaf *Leaf) copyBetween(result []Entry, start, end KeyType) []Entry {
	from, _ := leaf.search(start)
	to, ok := leaf.search(end)
	if ok {
		to++
	}
	if from >= to {
		return result
	}
	return leaf.appendEntries(result, from, to)
}
