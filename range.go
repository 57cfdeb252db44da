package fbptree

// GetRange returns all (key, value) pairs with left <= key <= right, in
// ascending key order. There is no requirement that left <= right; if the
// bounds are backwards the result is simply empty.
func (t *BPlusTree) GetRange(left, right []byte) []KeyValuePair {
	fleft := fixedKey(left, &t.cfg)
	fright := fixedKey(right, &t.cfg)

	var results []KeyValuePair

	leafOffset := t.locateLeaf(fleft)
	leaf := Acquire[LeafNode](t.cache, leafOffset)
	i := lowerBound(leaf.Keys, int(leaf.Count), fleft)

	for {
		count := int(leaf.Count)
		for ; i < count; i++ {
			if fixedCompare(leaf.Keys[i], fright) > 0 {
				Release[LeafNode](t.cache, leaf)
				return results
			}
			results = append(results, KeyValuePair{
				Key:   trimPadding(leaf.Keys[i]),
				Value: trimPadding(leaf.Values[i]),
			})
		}

		next := leaf.RightOffset
		Release[LeafNode](t.cache, leaf)
		if next == 0 {
			return results
		}
		leaf = Acquire[LeafNode](t.cache, next)
		i = 0
	}
}
