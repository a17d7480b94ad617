package bptree

import (
	"cmp"
	"slices"

	"github.com/dacapoday/bplus"
	"go.uber.org/zap"
)

// BulkLoad builds the tree bottom-up from pairs in any order.
//
// Leaves are packed full left to right; a short trailing leaf is merged
// into its predecessor and re-split evenly. Loading into a non-empty tree
// rebuilds it from the union, existing values first within a bucket.
// The tree is left unchanged when the build fails.
func (tree *BPTree) BulkLoad(pairs []bplus.Pair) error {
	var all []bplus.Pair
	it := tree.Iter()
	for ok := it.SeekFirst(); ok; ok = it.Next() {
		for _, v := range it.Bucket() {
			all = append(all, bplus.Pair{Key: it.Key(), Value: v})
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	existing := len(all)
	all = append(all, pairs...)
	slices.SortStableFunc(all, func(a, b bplus.Pair) int { return cmp.Compare(a.Key, b.Key) })

	built := &BPTree{log: tree.log, order: tree.order, nextID: tree.nextID}
	leaves := built.packLeaves(all)
	if len(leaves) > 0 {
		built.root = leaves[0]
		built.height = 1
	}
	for i := 1; i < len(leaves); i++ {
		if err := built.insertIntoParent(leaves[i-1], leaves[i].FirstKey(), leaves[i]); err != nil {
			return err
		}
	}

	*tree = *built
	tree.log.Debug("bulk load",
		zap.Int("existing", existing),
		zap.Int("pairs", len(pairs)),
		zap.Int("leaves", len(leaves)),
		zap.Int("height", tree.height))
	return nil
}

// packLeaves fills a chain of leaves from sorted pairs.
func (tree *BPTree) packLeaves(sorted []bplus.Pair) (leaves []*Leaf) {
	var leaf *Leaf
	for _, p := range sorted {
		if leaf != nil && leaf.Size() > 0 && leaf.LastKey() == p.Key {
			last := &leaf.entries[len(leaf.entries)-1]
			last.bucket = append(last.bucket, p.Value)
			continue
		}
		if leaf == nil || leaf.Size() == leaf.maxSize {
			next := tree.newLeaf()
			if leaf != nil {
				leaf.next = next
			}
			leaf = next
			leaves = append(leaves, leaf)
		}
		leaf.appendBucket(p.Key, []ValueType{p.Value})
	}

	if n := len(leaves); n > 1 && leaves[n-1].Size() < leaves[n-1].MinSize() {
		prev := leaves[n-2]
		leaves[n-1].moveAllTo(prev)
		leaves = leaves[:n-1]
		if prev.Size() > prev.maxSize {
			sibling := tree.newLeaf()
			prev.moveHalfTo(sibling)
			leaves = append(leaves, sibling)
		}
	}
	return
}
