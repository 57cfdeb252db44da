package fbptree

// allocNode carves a fresh node-sized region from the end of the file: it
// records the current Meta.NextBlockOffset as the new node's self offset,
// advances the watermark by the node's disk size, and returns the node via
// the cache. Space freed by a deallocated node is never reclaimed.
func allocNode[T any, PT interface {
	*T
	record
}](t *BPlusTree) PT {
	meta := Acquire[Meta](t.cache, MetaOffset)
	offset := meta.NextBlockOffset

	node := Acquire[T, PT](t.cache, offset)
	node.SetOffset(offset)

	meta.NextBlockOffset = offset + uint64(node.DiskSize(&t.cfg))
	Release[Meta](t.cache, meta)

	return node
}

// deallocLeaf and deallocIndex release a node's view back to the cache. Space is not
// reclaimed; a real free-list is explicitly out of scope.
func deallocLeaf(t *BPlusTree, node *LeafNode) {
	Release[LeafNode](t.cache, node)
}

func deallocIndex(t *BPlusTree, node *IndexNode) {
	Release[IndexNode](t.cache, node)
}
