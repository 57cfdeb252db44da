package fbptree

// Upsert inserts key/value, or overwrites the value if key is already
// present. Keys longer than KMax-1 bytes and values longer than VMax-1
// bytes are silently truncated.
func (t *BPlusTree) Upsert(key, value []byte) {
	fkey := fixedKey(key, &t.cfg)
	fvalue := fixedValue(value, &t.cfg)

	leafOffset := t.locateLeaf(fkey)
	leaf := Acquire[LeafNode](t.cache, leafOffset)

	i := upperBound(leaf.Keys, int(leaf.Count), fkey)
	if i > 0 && fixedEqual(leaf.Keys[i-1], fkey) {
		leaf.Values[i-1] = fvalue
		Release[LeafNode](t.cache, leaf)
		return
	}

	count := int(leaf.Count)
	copy(leaf.Keys[i+1:count+1], leaf.Keys[i:count])
	copy(leaf.Values[i+1:count+1], leaf.Values[i:count])
	leaf.Keys[i] = fkey
	leaf.Values[i] = fvalue
	leaf.Count++

	meta := Acquire[Meta](t.cache, MetaOffset)
	meta.Size++
	Release[Meta](t.cache, meta)

	if int(leaf.Count) <= t.cfg.MaxKeys() {
		Release[LeafNode](t.cache, leaf)
		return
	}

	t.splitLeaf(leaf)
}

// splitLeaf splits an overfull leaf (Count == Order) at mid =
// (Order-1)/2: the left keeps [0,mid) records, the right takes
// [mid,Order). The new leaf's first key is promoted to the parent.
func (t *BPlusTree) splitLeaf(leaf *LeafNode) {
	order := t.cfg.Order
	mid := (order - 1) / 2
	rightCount := order - mid

	newLeaf := allocNode[LeafNode](t)
	copy(newLeaf.Keys[0:rightCount], leaf.Keys[mid:order])
	copy(newLeaf.Values[0:rightCount], leaf.Values[mid:order])
	newLeaf.Count = uint32(rightCount)
	leaf.Count = uint32(mid)

	newLeaf.RightOffset = leaf.RightOffset
	newLeaf.LeftOffset = leaf.SelfOffset
	if leaf.RightOffset != 0 {
		rightSibling := Acquire[LeafNode](t.cache, leaf.RightOffset)
		rightSibling.LeftOffset = newLeaf.SelfOffset
		Release[LeafNode](t.cache, rightSibling)
	}
	leaf.RightOffset = newLeaf.SelfOffset

	promotionKey := append([]byte(nil), newLeaf.Keys[0]...)
	parentOffset := leaf.ParentOffset
	leftOffset := leaf.SelfOffset
	rightOffset := newLeaf.SelfOffset

	Release[LeafNode](t.cache, newLeaf)
	Release[LeafNode](t.cache, leaf)

	t.insertIntoParentAfterSplit(parentOffset, leftOffset, rightOffset, promotionKey, 0)
}

// insertIntoParentAfterSplit links a freshly split (left,right) pair into
// their parent. childLevel is the level of left/right themselves (0 for
// leaves). If parentOffset is 0 the split node was the root: a new
// IndexNode root is created and the tree grows one level taller.
func (t *BPlusTree) insertIntoParentAfterSplit(parentOffset, leftOffset, rightOffset uint64, promotionKey []byte, childLevel int) {
	if parentOffset == 0 {
		root := allocNode[IndexNode](t)
		root.Keys[0] = promotionKey
		root.Children[0] = leftOffset
		root.Children[1] = rightOffset
		root.Count = 1
		rootOffset := root.SelfOffset
		Release[IndexNode](t.cache, root)

		setChildParent(t, leftOffset, rootOffset, childLevel)
		setChildParent(t, rightOffset, rootOffset, childLevel)

		meta := Acquire[Meta](t.cache, MetaOffset)
		meta.RootOffset = rootOffset
		meta.Height++
		Release[Meta](t.cache, meta)
		return
	}

	parent := Acquire[IndexNode](t.cache, parentOffset)
	pos := indexOfChild(parent, leftOffset)

	count := int(parent.Count)
	copy(parent.Keys[pos+1:count+1], parent.Keys[pos:count])
	copy(parent.Children[pos+2:count+2], parent.Children[pos+1:count+1])
	parent.Keys[pos] = promotionKey
	parent.Children[pos+1] = rightOffset
	parent.Count++

	setChildParent(t, rightOffset, parentOffset, childLevel)

	if int(parent.Count) <= t.cfg.MaxKeys() {
		Release[IndexNode](t.cache, parent)
		return
	}

	t.splitIndex(parent, childLevel+1)
}

// splitIndex splits an overfull IndexNode (Count == Order) at mid =
// (Order-1)/2. indexes[mid].key is the promotion key and is retained by
// neither side: the left keeps keys [0,mid) and children [0,mid]; the
// right takes keys (mid,Order) and children [mid+1,Order]. level is the
// node's own level (its children are at level-1) and is used both to
// reparent children moved to the new right sibling and to tell the next
// insertIntoParentAfterSplit call what level it is linking in.
func (t *BPlusTree) splitIndex(node *IndexNode, level int) {
	order := t.cfg.Order
	mid := (order - 1) / 2
	rightCount := order - mid - 1

	promotionKey := append([]byte(nil), node.Keys[mid]...)

	newNode := allocNode[IndexNode](t)
	copy(newNode.Keys[0:rightCount], node.Keys[mid+1:mid+1+rightCount])
	copy(newNode.Children[0:rightCount+1], node.Children[mid+1:mid+1+rightCount+1])
	newNode.Count = uint32(rightCount)
	node.Count = uint32(mid)

	childLevel := level - 1
	for i := 0; i <= rightCount; i++ {
		setChildParent(t, newNode.Children[i], newNode.SelfOffset, childLevel)
	}

	newNode.RightOffset = node.RightOffset
	newNode.LeftOffset = node.SelfOffset
	if node.RightOffset != 0 {
		rightSibling := Acquire[IndexNode](t.cache, node.RightOffset)
		rightSibling.LeftOffset = newNode.SelfOffset
		Release[IndexNode](t.cache, rightSibling)
	}
	node.RightOffset = newNode.SelfOffset

	parentOffset := node.ParentOffset
	leftOffset := node.SelfOffset
	rightOffset := newNode.SelfOffset

	Release[IndexNode](t.cache, newNode)
	Release[IndexNode](t.cache, node)

	t.insertIntoParentAfterSplit(parentOffset, leftOffset, rightOffset, promotionKey, level)
}
