package fbptree

import (
	"fmt"
	"os"
)

// record is implemented by every on-disk node kind (Meta, IndexNode,
// LeafNode). The cache is generic over record so acquire/release share one
// implementation regardless of which kind is being mapped; the offset
// alone determines identity, so mixing kinds at the same offset is a
// caller error the cache does not detect.
type record interface {
	Offset() uint64
	SetOffset(uint64)
	DiskSize(cfg *Config) int
	Encode(buf []byte, cfg *Config)
	Decode(buf []byte, cfg *Config)
}

// entry is one resident mapping: a page-aligned mmap region and the
// sub-slice view of it a node actually occupies. refCount is the number of
// live acquires; an entry with refCount 0 sits in the eviction list.
type entry struct {
	offset   uint64
	mapping  []byte
	view     []byte
	refCount int

	prev, next *entry
}

// cache is a bounded LRU of mapped regions keyed by file offset. It is
// not synchronized: the engine is single-threaded, so no mutex guards
// entries or the LRU list.
type cache struct {
	file     *os.File
	cfg      *Config
	pageSize int

	entries  map[uint64]*entry
	resident int64

	// head/tail are sentinels of the intrusive doubly-linked eviction
	// list; only entries with refCount 0 are ever linked in.
	head, tail *entry
}

func newCache(file *os.File, cfg *Config) *cache {
	c := &cache{
		file:     file,
		cfg:      cfg,
		pageSize: DefaultPageSize,
		entries:  make(map[uint64]*entry),
	}
	c.head = &entry{}
	c.tail = &entry{}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

func (c *cache) linked(e *entry) bool { return e.prev != nil || e.next != nil }

func (c *cache) unlink(e *entry) {
	if !c.linked(e) {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
}

func (c *cache) pushFront(e *entry) {
	e.next = c.head.next
	e.prev = c.head
	c.head.next.prev = e
	c.head.next = e
}

// resetEntry clears an entry's bookkeeping before it leaves the cache on
// eviction.
func resetEntry(e *entry) {
	e.refCount = 0
	e.prev = nil
	e.next = nil
}

// ensureMapped returns the resident entry for offset, creating a mapping
// for it if none exists. size is the caller's required view length.
func (c *cache) ensureMapped(offset uint64, size int) *entry {
	if e, ok := c.entries[offset]; ok {
		return e
	}

	ensureFileSize(c.file, int64(offset)+int64(size))

	pageOffset := int64(offset) &^ int64(c.pageSize-1)
	delta := int(int64(offset) - pageOffset)
	mapLen := delta + size

	mapping := mmapRegion(c.file, pageOffset, mapLen)
	e := &entry{
		offset:  offset,
		mapping: mapping,
		view:    mapping[delta : delta+size],
	}
	c.entries[offset] = e
	c.resident += int64(len(mapping))
	return e
}

// evictOne unmaps and drops the least-recently-released entry, if any.
func (c *cache) evictOne() bool {
	victim := c.tail.prev
	if victim == c.head {
		return false
	}
	c.unlink(victim)
	munmapRegion(victim.mapping)
	c.resident -= int64(len(victim.mapping))
	delete(c.entries, victim.offset)
	resetEntry(victim)
	return true
}

func (c *cache) evictIfOverBudget() {
	for c.resident > c.cfg.CacheBudgetBytes {
		if !c.evictOne() {
			return
		}
	}
}

// closeAll unmaps every resident entry regardless of reference count and
// leaves the cache empty. The file descriptor itself is closed by the
// engine.
func (c *cache) closeAll() {
	for _, e := range c.entries {
		munmapRegion(e.mapping)
	}
	c.entries = make(map[uint64]*entry)
	c.resident = 0
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Acquire decodes the record at offset into a freshly allocated node,
// growing the file and creating a page-aligned mapping if needed, and
// increments the entry's reference count. The node is a copy: changes to
// it reach the mapped region only when Release encodes it back. The
// caller must balance this with exactly one Release.
func Acquire[T any, PT interface {
	*T
	record
}](c *cache, offset uint64) PT {
	var zero T
	node := PT(&zero)
	size := node.DiskSize(c.cfg)

	e := c.ensureMapped(offset, size)
	if e.refCount == 0 {
		c.unlink(e)
	}
	e.refCount++

	node.Decode(e.view[:size], c.cfg)
	node.SetOffset(offset)
	return node
}

// Release writes node's current in-memory state back to its mapped
// region and decrements the reference count. On transition to 0 the entry
// becomes evictable and the cache enforces its resident budget.
func Release[T any, PT interface {
	*T
	record
}](c *cache, node PT) {
	offset := node.Offset()
	e, ok := c.entries[offset]
	if !ok {
		fatalf("release", fmt.Errorf("no resident entry for offset %d", offset))
	}

	size := node.DiskSize(c.cfg)
	node.Encode(e.view[:size], c.cfg)

	e.refCount--
	assertInvariant(e.refCount >= 0, "cache entry reference count went negative")

	if e.refCount == 0 {
		c.pushFront(e)
		c.evictIfOverBudget()
	}
}
