package fbptree

import "bytes"

// walkState accumulates what the structural walker observes so tests can
// assert the tree's shape after every mutation.
type walkState struct {
	t           *BPlusTree
	keysInOrder [][]byte
}

// checkInvariants walks the whole tree from Meta, asserting occupancy
// bounds, key ordering, the separator contract, parent pointers and leaf
// back-links. It returns the leaves' keys in left-to-right tree order, so
// callers can separately check them against Meta.Size.
func checkInvariants(tr *BPlusTree) [][]byte {
	meta := Acquire[Meta](tr.cache, MetaOffset)
	height := meta.Height
	root := meta.RootOffset
	Release[Meta](tr.cache, meta)

	ws := &walkState{t: tr}
	ws.walk(root, 0, height, true, nil, nil)
	return ws.keysInOrder
}

// walk visits node at offset, currDepth levels below the root (0 at the
// root). lowInclusive/highExclusive bound
// the keys this subtree may contain: a separator is the first key of the
// subtree to its right, so child i covers [keys[i-1], keys[i]). nil means
// unbounded on that side.
func (ws *walkState) walk(offset uint64, currDepth int, height uint64, isRoot bool, lowInclusive, highExclusive []byte) {
	if height-uint64(currDepth) == 1 {
		leaf := Acquire[LeafNode](ws.t.cache, offset)
		count := int(leaf.Count)

		if !isRoot {
			if int(leaf.Count) < ws.t.cfg.MinKeys() || int(leaf.Count) > ws.t.cfg.MaxKeys() {
				panic("leaf occupancy out of bounds")
			}
		}

		for i := 0; i < count; i++ {
			if i > 0 && fixedCompare(leaf.Keys[i-1], leaf.Keys[i]) >= 0 {
				panic("leaf keys not strictly ascending")
			}
			if lowInclusive != nil && fixedCompare(leaf.Keys[i], lowInclusive) < 0 {
				panic("leaf key below lower separator bound")
			}
			if highExclusive != nil && fixedCompare(leaf.Keys[i], highExclusive) >= 0 {
				panic("leaf key at or above upper separator bound")
			}
			ws.keysInOrder = append(ws.keysInOrder, append([]byte(nil), leaf.Keys[i]...))
		}

		if leaf.RightOffset != 0 {
			right := Acquire[LeafNode](ws.t.cache, leaf.RightOffset)
			if right.LeftOffset != leaf.SelfOffset {
				panic("leaf.right.left != leaf.offset")
			}
			Release[LeafNode](ws.t.cache, right)
		}

		Release[LeafNode](ws.t.cache, leaf)
		return
	}

	node := Acquire[IndexNode](ws.t.cache, offset)
	count := int(node.Count)

	if !isRoot {
		if count < ws.t.cfg.MinKeys() || count > ws.t.cfg.MaxKeys() {
			panic("index occupancy out of bounds")
		}
	}

	for i := 0; i < count; i++ {
		if i > 0 && fixedCompare(node.Keys[i-1], node.Keys[i]) >= 0 {
			panic("index keys not strictly ascending")
		}
	}

	for i := 0; i <= count; i++ {
		childOffset := node.Children[i]

		var childLow, childHigh []byte
		if i > 0 {
			childLow = node.Keys[i-1]
		} else {
			childLow = lowInclusive
		}
		if i < count {
			childHigh = node.Keys[i]
		} else {
			childHigh = highExclusive
		}

		if height-uint64(currDepth)-1 == 1 {
			child := Acquire[LeafNode](ws.t.cache, childOffset)
			if child.ParentOffset != offset {
				panic("child parent_offset does not reference this node")
			}
			Release[LeafNode](ws.t.cache, child)
		} else {
			child := Acquire[IndexNode](ws.t.cache, childOffset)
			if child.ParentOffset != offset {
				panic("child parent_offset does not reference this node")
			}
			Release[IndexNode](ws.t.cache, child)
		}

		ws.walk(childOffset, currDepth+1, height, false, childLow, childHigh)
	}

	Release[IndexNode](ws.t.cache, node)
}

func isSorted(keys [][]byte) bool {
	for i := 1; i < len(keys); i++ {
		if bytes.Compare(keys[i-1], keys[i]) >= 0 {
			return false
		}
	}
	return true
}
