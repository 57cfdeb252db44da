package fbptree

import (
	"fmt"
	"os"
)

// New opens path, creating it if it does not exist, and returns a ready
// B+ tree engine. A freshly created file gets a Meta header and an empty
// leaf root. Reopening an existing file checks that its stored Order,
// KMax and VMax match cfg; a mismatch is rejected rather than silently
// read with the wrong layout.
func New(path string, cfg Config) (*BPlusTree, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		fatalf("open", err)
	}

	info, err := file.Stat()
	if err != nil {
		fatalf("stat", err)
	}

	t := &BPlusTree{path: path, file: file, cfg: cfg}
	t.cache = newCache(file, &t.cfg)

	if info.Size() == 0 {
		t.initializeFile()
	} else if err := t.loadAndVerifyConfig(); err != nil {
		file.Close()
		return nil, err
	}

	return t, nil
}

// initializeFile writes a fresh Meta singleton and an empty leaf root,
// the starting shape of every new tree: height 1, size 0.
func (t *BPlusTree) initializeFile() {
	meta := Acquire[Meta](t.cache, MetaOffset)
	meta.Order = uint32(t.cfg.Order)
	meta.KMax = uint32(t.cfg.KMax)
	meta.VMax = uint32(t.cfg.VMax)
	meta.NextBlockOffset = metaSize
	meta.Height = 1
	meta.Size = 0
	Release[Meta](t.cache, meta)

	root := allocNode[LeafNode](t)
	meta2 := Acquire[Meta](t.cache, MetaOffset)
	meta2.RootOffset = root.SelfOffset
	Release[Meta](t.cache, meta2)
	Release[LeafNode](t.cache, root)
}

// loadAndVerifyConfig reads the stored Order/KMax/VMax from an existing
// file's Meta and adopts them, rejecting a caller-supplied Config that
// disagrees. Order/KMax/VMax are part of the on-disk format; mixing
// builds with different values corrupts the file.
func (t *BPlusTree) loadAndVerifyConfig() error {
	meta := Acquire[Meta](t.cache, MetaOffset)
	stored := Config{Order: int(meta.Order), KMax: int(meta.KMax), VMax: int(meta.VMax)}
	Release[Meta](t.cache, meta)

	if t.cfg.Order != 0 && (t.cfg.Order != stored.Order || t.cfg.KMax != stored.KMax || t.cfg.VMax != stored.VMax) {
		return fmt.Errorf("fbptree: file %s was created with Order=%d KMax=%d VMax=%d, cannot reopen with Order=%d KMax=%d VMax=%d",
			t.path, stored.Order, stored.KMax, stored.VMax, t.cfg.Order, t.cfg.KMax, t.cfg.VMax)
	}

	t.cfg.Order = stored.Order
	t.cfg.KMax = stored.KMax
	t.cfg.VMax = stored.VMax
	return nil
}

// Close flushes all pending mapped views and closes the file. Per the
// cache's destruction contract, every resident entry is unmapped
// regardless of outstanding reference count.
func (t *BPlusTree) Close() error {
	t.cache.closeAll()
	return t.file.Close()
}

// FileSize reports the current size in bytes of the backing file.
func (t *BPlusTree) FileSize() (int64, error) {
	info, err := t.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Get looks up key and reports whether it was present.
func (t *BPlusTree) Get(key []byte) ([]byte, bool) {
	fkey := fixedKey(key, &t.cfg)
	leafOffset := t.locateLeaf(fkey)

	leaf := Acquire[LeafNode](t.cache, leafOffset)
	defer Release[LeafNode](t.cache, leaf)

	idx := indexInLeaf(leaf, fkey)
	if idx < 0 {
		return nil, false
	}
	return trimPadding(leaf.Values[idx]), true
}

// Empty reports whether the tree holds no records.
func (t *BPlusTree) Empty() bool {
	return t.Size() == 0
}

// Size returns the number of records currently stored.
func (t *BPlusTree) Size() uint64 {
	meta := Acquire[Meta](t.cache, MetaOffset)
	defer Release[Meta](t.cache, meta)
	return meta.Size
}

// setChildParent rewrites a child's parent_offset. childLevel is 0 when
// the child is a leaf, and >0 when it is an IndexNode; the caller always
// knows this from its position in the recursive descent, so a two-way
// branch stands in for a generic "Node" header view.
func setChildParent(t *BPlusTree, childOffset, parentOffset uint64, childLevel int) {
	if childLevel == 0 {
		child := Acquire[LeafNode](t.cache, childOffset)
		child.ParentOffset = parentOffset
		Release[LeafNode](t.cache, child)
		return
	}
	child := Acquire[IndexNode](t.cache, childOffset)
	child.ParentOffset = parentOffset
	Release[IndexNode](t.cache, child)
}
