package fbptree

// Remove deletes key if present and reports whether it was found.
func (t *BPlusTree) Remove(key []byte) bool {
	fkey := fixedKey(key, &t.cfg)
	leafOffset := t.locateLeaf(fkey)
	leaf := Acquire[LeafNode](t.cache, leafOffset)

	idx := indexInLeaf(leaf, fkey)
	if idx < 0 {
		Release[LeafNode](t.cache, leaf)
		return false
	}

	count := int(leaf.Count)
	copy(leaf.Keys[idx:count-1], leaf.Keys[idx+1:count])
	copy(leaf.Values[idx:count-1], leaf.Values[idx+1:count])
	leaf.Count--

	meta := Acquire[Meta](t.cache, MetaOffset)
	meta.Size--
	Release[Meta](t.cache, meta)

	if leaf.ParentOffset == 0 {
		// The leaf is the root; it may be under-full, which is fine.
		Release[LeafNode](t.cache, leaf)
		return true
	}

	if int(leaf.Count) >= t.cfg.MinKeys() {
		Release[LeafNode](t.cache, leaf)
		return true
	}

	t.rebalanceLeaf(leaf)
	return true
}

// rebalanceLeaf restores leaf's minimum occupancy by borrowing from a
// same-parent sibling, or failing that, merging with one. leaf is
// consumed (released internally, regardless of path taken).
func (t *BPlusTree) rebalanceLeaf(leaf *LeafNode) {
	parent := Acquire[IndexNode](t.cache, leaf.ParentOffset)
	pos := indexOfChild(parent, leaf.SelfOffset)
	minKeys := t.cfg.MinKeys()

	if pos > 0 {
		leftSib := Acquire[LeafNode](t.cache, parent.Children[pos-1])
		if int(leftSib.Count) > minKeys {
			count := int(leaf.Count)
			copy(leaf.Keys[1:count+1], leaf.Keys[0:count])
			copy(leaf.Values[1:count+1], leaf.Values[0:count])
			leaf.Keys[0] = leftSib.Keys[leftSib.Count-1]
			leaf.Values[0] = leftSib.Values[leftSib.Count-1]
			leaf.Count++
			leftSib.Count--

			parent.Keys[pos-1] = append([]byte(nil), leaf.Keys[0]...)

			Release[LeafNode](t.cache, leftSib)
			Release[LeafNode](t.cache, leaf)
			Release[IndexNode](t.cache, parent)
			return
		}
		Release[LeafNode](t.cache, leftSib)
	}

	if pos < int(parent.Count) {
		rightSib := Acquire[LeafNode](t.cache, parent.Children[pos+1])
		if int(rightSib.Count) > minKeys {
			leaf.Keys[leaf.Count] = rightSib.Keys[0]
			leaf.Values[leaf.Count] = rightSib.Values[0]
			leaf.Count++

			rcount := int(rightSib.Count)
			copy(rightSib.Keys[0:rcount-1], rightSib.Keys[1:rcount])
			copy(rightSib.Values[0:rcount-1], rightSib.Values[1:rcount])
			rightSib.Count--

			parent.Keys[pos] = append([]byte(nil), rightSib.Keys[0]...)

			Release[LeafNode](t.cache, rightSib)
			Release[LeafNode](t.cache, leaf)
			Release[IndexNode](t.cache, parent)
			return
		}
		Release[LeafNode](t.cache, rightSib)
	}

	// No eligible donor: merge with a same-parent sibling. Prefer left.
	if pos > 0 {
		leftSib := Acquire[LeafNode](t.cache, parent.Children[pos-1])
		lcount := int(leftSib.Count)
		copy(leftSib.Keys[lcount:lcount+int(leaf.Count)], leaf.Keys[:leaf.Count])
		copy(leftSib.Values[lcount:lcount+int(leaf.Count)], leaf.Values[:leaf.Count])
		leftSib.Count += leaf.Count

		leftSib.RightOffset = leaf.RightOffset
		if leaf.RightOffset != 0 {
			rs := Acquire[LeafNode](t.cache, leaf.RightOffset)
			rs.LeftOffset = leftSib.SelfOffset
			Release[LeafNode](t.cache, rs)
		}

		Release[LeafNode](t.cache, leftSib)
		deallocLeaf(t, leaf)

		removeParentSlot(parent, pos-1, pos)
		parent.Count--
		t.rebalanceAfterChildRemoval(parent, 1)
		return
	}

	rightSib := Acquire[LeafNode](t.cache, parent.Children[pos+1])
	lcount := int(leaf.Count)
	copy(leaf.Keys[lcount:lcount+int(rightSib.Count)], rightSib.Keys[:rightSib.Count])
	copy(leaf.Values[lcount:lcount+int(rightSib.Count)], rightSib.Values[:rightSib.Count])
	leaf.Count += rightSib.Count

	leaf.RightOffset = rightSib.RightOffset
	if rightSib.RightOffset != 0 {
		rs := Acquire[LeafNode](t.cache, rightSib.RightOffset)
		rs.LeftOffset = leaf.SelfOffset
		Release[LeafNode](t.cache, rs)
	}

	Release[LeafNode](t.cache, leaf)
	deallocLeaf(t, rightSib)

	removeParentSlot(parent, pos, pos+1)
	parent.Count--
	t.rebalanceAfterChildRemoval(parent, 1)
}

// removeParentSlot drops separator key keyIdx and child childIdx from an
// IndexNode, shifting the remaining slots down. It does not touch Count;
// the caller decrements it afterward.
func removeParentSlot(parent *IndexNode, keyIdx, childIdx int) {
	count := int(parent.Count)
	copy(parent.Keys[keyIdx:count-1], parent.Keys[keyIdx+1:count])
	copy(parent.Children[childIdx:count], parent.Children[childIdx+1:count+1])
}

// rebalanceAfterChildRemoval restores node's minimum occupancy after one
// of its children was merged away, or collapses the root if it has been
// left with none. level is node's own level (its children sit at
// level-1); the function recurses upward on cascading merges.
func (t *BPlusTree) rebalanceAfterChildRemoval(node *IndexNode, level int) {
	if node.ParentOffset == 0 {
		if node.Count == 0 {
			childOffset := node.Children[0]

			meta := Acquire[Meta](t.cache, MetaOffset)
			newHeight := meta.Height - 1
			meta.RootOffset = childOffset
			meta.Height = newHeight
			Release[Meta](t.cache, meta)

			setChildParent(t, childOffset, 0, level-1)
			deallocIndex(t, node)
			return
		}
		Release[IndexNode](t.cache, node)
		return
	}

	minKeys := t.cfg.MinKeys()
	if int(node.Count) >= minKeys {
		Release[IndexNode](t.cache, node)
		return
	}

	parent := Acquire[IndexNode](t.cache, node.ParentOffset)
	pos := indexOfChild(parent, node.SelfOffset)
	childLevel := level - 1

	if pos > 0 {
		leftSib := Acquire[IndexNode](t.cache, parent.Children[pos-1])
		if int(leftSib.Count) > minKeys {
			count := int(node.Count)
			copy(node.Keys[1:count+1], node.Keys[0:count])
			copy(node.Children[1:count+2], node.Children[0:count+1])
			node.Keys[0] = append([]byte(nil), parent.Keys[pos-1]...)
			node.Children[0] = leftSib.Children[leftSib.Count]
			node.Count++

			setChildParent(t, node.Children[0], node.SelfOffset, childLevel)

			parent.Keys[pos-1] = append([]byte(nil), leftSib.Keys[leftSib.Count-1]...)
			leftSib.Count--

			Release[IndexNode](t.cache, leftSib)
			Release[IndexNode](t.cache, node)
			Release[IndexNode](t.cache, parent)
			return
		}
		Release[IndexNode](t.cache, leftSib)
	}

	if pos < int(parent.Count) {
		rightSib := Acquire[IndexNode](t.cache, parent.Children[pos+1])
		if int(rightSib.Count) > minKeys {
			node.Keys[node.Count] = append([]byte(nil), parent.Keys[pos]...)
			node.Children[node.Count+1] = rightSib.Children[0]
			node.Count++

			setChildParent(t, node.Children[node.Count], node.SelfOffset, childLevel)

			parent.Keys[pos] = append([]byte(nil), rightSib.Keys[0]...)

			rcount := int(rightSib.Count)
			copy(rightSib.Keys[0:rcount-1], rightSib.Keys[1:rcount])
			copy(rightSib.Children[0:rcount], rightSib.Children[1:rcount+1])
			rightSib.Count--

			Release[IndexNode](t.cache, rightSib)
			Release[IndexNode](t.cache, node)
			Release[IndexNode](t.cache, parent)
			return
		}
		Release[IndexNode](t.cache, rightSib)
	}

	// No eligible donor at this level either: merge with a same-parent
	// sibling, pulling the separating key down from parent. Prefer left.
	if pos > 0 {
		leftSib := Acquire[IndexNode](t.cache, parent.Children[pos-1])
		lcount := int(leftSib.Count)
		ncount := int(node.Count)

		leftSib.Keys[lcount] = append([]byte(nil), parent.Keys[pos-1]...)
		copy(leftSib.Keys[lcount+1:lcount+1+ncount], node.Keys[:ncount])
		copy(leftSib.Children[lcount+1:lcount+2+ncount], node.Children[:ncount+1])
		for i := 0; i <= ncount; i++ {
			setChildParent(t, leftSib.Children[lcount+1+i], leftSib.SelfOffset, childLevel)
		}
		leftSib.Count += node.Count + 1

		leftSib.RightOffset = node.RightOffset
		if node.RightOffset != 0 {
			rs := Acquire[IndexNode](t.cache, node.RightOffset)
			rs.LeftOffset = leftSib.SelfOffset
			Release[IndexNode](t.cache, rs)
		}

		Release[IndexNode](t.cache, leftSib)
		deallocIndex(t, node)

		removeParentSlot(parent, pos-1, pos)
		parent.Count--
		t.rebalanceAfterChildRemoval(parent, level+1)
		return
	}

	rightSib := Acquire[IndexNode](t.cache, parent.Children[pos+1])
	ncount := int(node.Count)
	rcount := int(rightSib.Count)

	node.Keys[ncount] = append([]byte(nil), parent.Keys[pos]...)
	copy(node.Keys[ncount+1:ncount+1+rcount], rightSib.Keys[:rcount])
	copy(node.Children[ncount+1:ncount+2+rcount], rightSib.Children[:rcount+1])
	for i := 0; i <= rcount; i++ {
		setChildParent(t, node.Children[ncount+1+i], node.SelfOffset, childLevel)
	}
	node.Count += rightSib.Count + 1

	node.RightOffset = rightSib.RightOffset
	if rightSib.RightOffset != 0 {
		rs := Acquire[IndexNode](t.cache, rightSib.RightOffset)
		rs.LeftOffset = node.SelfOffset
		Release[IndexNode](t.cache, rs)
	}

	Release[IndexNode](t.cache, node)
	deallocIndex(t, rightSib)

	removeParentSlot(parent, pos, pos+1)
	parent.Count--
	t.rebalanceAfterChildRemoval(parent, level+1)
}
