package fbptree

import (
	"fmt"
	"os"
)

// Dump writes a level-order rendering of the tree to stderr for
// diagnostics. It collects every level's keys first via a breadth-first
// walk, then renders the whole tree, rather than printing while it walks.
func (t *BPlusTree) Dump() {
	meta := Acquire[Meta](t.cache, MetaOffset)
	height := meta.Height
	root := meta.RootOffset
	size := meta.Size
	Release[Meta](t.cache, meta)

	fmt.Fprintf(os.Stderr, "height=%d size=%d\n", height, size)

	levels := make([][]string, 0, height)
	frontier := []uint64{root}

	for lvl := uint64(1); lvl <= height; lvl++ {
		var labels []string
		var next []uint64

		if lvl == height {
			for _, off := range frontier {
				leaf := Acquire[LeafNode](t.cache, off)
				labels = append(labels, leafLabel(leaf))
				Release[LeafNode](t.cache, leaf)
			}
		} else {
			for _, off := range frontier {
				node := Acquire[IndexNode](t.cache, off)
				labels = append(labels, indexLabel(node))
				for i := 0; i <= int(node.Count); i++ {
					next = append(next, node.Children[i])
				}
				Release[IndexNode](t.cache, node)
			}
		}

		levels = append(levels, labels)
		frontier = next
	}

	for lvl, labels := range levels {
		fmt.Fprintf(os.Stderr, "level %d: %v\n", lvl+1, labels)
	}
}

func leafLabel(leaf *LeafNode) string {
	s := "["
	for i := 0; i < int(leaf.Count); i++ {
		if i > 0 {
			s += ","
		}
		s += string(trimPadding(leaf.Keys[i]))
	}
	return s + "]"
}

func indexLabel(node *IndexNode) string {
	s := "["
	for i := 0; i < int(node.Count); i++ {
		if i > 0 {
			s += ","
		}
		s += string(trimPadding(node.Keys[i]))
	}
	return s + "]"
}
