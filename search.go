package fbptree

// upperBound returns the smallest index i in [0,count) such that
// keys[i] > target, or count if no such index exists.
func upperBound(keys [][]byte, count int, target []byte) int {
	lo, hi := 0, count
	for lo < hi {
		mid := (lo + hi) / 2
		if fixedCompare(keys[mid], target) > 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// lowerBound returns the smallest index i in [0,count) such that
// keys[i] >= target, or count if no such index exists.
func lowerBound(keys [][]byte, count int, target []byte) int {
	lo, hi := 0, count
	for lo < hi {
		mid := (lo + hi) / 2
		if fixedCompare(keys[mid], target) >= 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// locateLeaf descends from the root to the leaf that would contain key,
// using an upper-bound binary search at each interior level.
func (t *BPlusTree) locateLeaf(key []byte) uint64 {
	meta := Acquire[Meta](t.cache, MetaOffset)
	height := meta.Height
	cur := meta.RootOffset
	Release[Meta](t.cache, meta)

	for level := height; level > 1; level-- {
		node := Acquire[IndexNode](t.cache, cur)
		i := upperBound(node.Keys, int(node.Count), key)
		next := node.Children[i]
		Release[IndexNode](t.cache, node)
		cur = next
	}

	return cur
}

// indexInLeaf finds key's slot in leaf via lower-bound search, returning
// -1 if the key is not present.
func indexInLeaf(leaf *LeafNode, key []byte) int {
	i := lowerBound(leaf.Keys, int(leaf.Count), key)
	if i < int(leaf.Count) && fixedEqual(leaf.Keys[i], key) {
		return i
	}
	return -1
}

// indexOfChild returns the position of childOffset among node's Count+1
// live child slots. It aborts if the child is not found: every non-root
// node's parent is expected to list it, per the parent-pointer invariant.
func indexOfChild(node *IndexNode, childOffset uint64) int {
	for i := 0; i <= int(node.Count); i++ {
		if node.Children[i] == childOffset {
			return i
		}
	}
	assertInvariant(false, "child offset not found among parent's children")
	return -1
}
