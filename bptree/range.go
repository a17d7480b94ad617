package bptree

import (
	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
)

// Range returns every (key, value) with start <= key <= end in ascending
// key order, values of a key in bucket order.
func (tree *BPTree) Range(start, end KeyType) ([]Entry, error) {
	if tree.root == nil || start > end {
		return nil, nil
	}
	startLeaf, err := tree.findLeaf(start)
	if err != nil {
		return nil, err
	}
	endLeaf, err := tree.findLeaf(end)
	if err != nil {
		return nil, err
	}

	if startLeaf == endLeaf {
		return startLeaf.copyBetween(nil, start, end), nil
	}

	result := startLeaf.copyFrom(nil, start)
	leaf := startLeaf.next
	for ; leaf != endLeaf; leaf = leaf.next {
		if leaf == nil {
			return nil, errors.Wrapf(bplus.ErrCorrupted, "leaf chain from leaf(%d) misses leaf(%d)", startLeaf.id, endLeaf.id)
		}
		result = leaf.copyAll(result)
	}
	return endLeaf.copyUntil(result, end), nil
}
