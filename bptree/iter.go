package bptree

import "iter"

// Iter is a cursor over the leaf chain.
//
// Mutating the tree invalidates every cursor on it.
type Iter struct {
	tree  *BPTree
	leaf  *Leaf
	index int
	err   error
}

func (tree *BPTree) Iter() *Iter {
	return &Iter{tree: tree}
}

func (it *Iter) Valid() bool {
	return it.err == nil && it.leaf != nil && it.index < it.leaf.Size()
}

// Err reports the structural error that stopped the cursor, if any.
func (it *Iter) Err() error {
	return it.err
}

func (it *Iter) Key() (key KeyType) {
	if it.Valid() {
		key = it.leaf.KeyAt(it.index)
	}
	return
}

// Bucket returns the values of the current key. The slice is owned by the tree.
func (it *Iter) Bucket() []ValueType {
	if !it.Valid() {
		return nil
	}
	return it.leaf.BucketAt(it.index)
}

// Leaf returns the leaf holding the current key.
func (it *Iter) Leaf() *Leaf {
	if !it.Valid() {
		return nil
	}
	return it.leaf
}

func (it *Iter) SeekFirst() bool {
	it.leaf, it.err = it.tree.leftmostLeaf()
	it.index = 0
	return it.Valid()
}

func (it *Iter) SeekLast() bool {
	it.leaf, it.err = it.tree.rightmostLeaf()
	if it.leaf != nil {
		it.index = it.leaf.Size() - 1
	}
	return it.Valid()
}

// Seek moves to the smallest key >= key.
func (it *Iter) Seek(key KeyType) bool {
	it.leaf, it.err = it.tree.findLeaf(key)
	if it.leaf == nil {
		return false
	}
	it.index, _ = it.leaf.search(key)
	if it.index == it.leaf.Size() {
		it.leaf, it.index = it.leaf.next, 0
	}
	return it.Valid()
}

func (it *Iter) Next() bool {
	if !it.Valid() {
		return false
	}
	if it.index++; it.index == it.leaf.Size() {
		it.leaf, it.index = it.leaf.next, 0
	}
	return it.Valid()
}

// Prev moves to the previous key. The leaf chain only links forward,
// so crossing to the previous leaf climbs the parent references.
func (it *Iter) Prev() bool {
	if !it.Valid() {
		return false
	}
	if it.index > 0 {
		it.index--
		return true
	}
	it.leaf, it.err = previousLeaf(it.leaf)
	if it.leaf != nil {
		it.index = it.leaf.Size() - 1
	}
	return it.Valid()
}

func previousLeaf(leaf *Leaf) (*Leaf, error) {
	var n Node = leaf
	for levels := 1; ; levels++ {
		parent := n.Parent()
		if parent == nil {
			return nil, nil
		}
		index, err := parent.nodeIndex(n)
		if err != nil {
			return nil, err
		}
		if index > 0 {
			return descendFrom(parent.Child(index-1), levels, func(n *Internal) Node {
				return n.Child(len(n.pairs))
			})
		}
		n = parent
	}
}

// All yields every (key, value) in ascending key order.
func (tree *BPTree) All() iter.Seq2[KeyType, ValueType] {
	return func(yield func(KeyType, ValueType) bool) {
		it := tree.Iter()
		for ok := it.SeekFirst(); ok; ok = it.Next() {
			for _, v := range it.Bucket() {
				if !yield(it.Key(), v) {
					return
				}
			}
		}
	}
}
