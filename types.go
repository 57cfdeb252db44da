package fbptree

import "os"

// DefaultOrder is the suggested branching factor: max children of an
// IndexNode, max records of a LeafNode. Max keys per node is Order-1.
const DefaultOrder = 32

// KMax and VMax bound the fixed-width key/value buffers stored on disk.
// Inputs longer than KMax-1 / VMax-1 bytes are silently truncated.
const (
	KMax = 32
	VMax = 256
)

// DefaultCacheBudgetBytes is the resident byte budget for the block cache
// before it starts evicting released entries.
const DefaultCacheBudgetBytes = 5 * 1024 * 1024

// DefaultPageSize is used to page-align cache mappings. Usually 4KiB.
var DefaultPageSize = os.Getpagesize()

// Config carries the parameters that are baked into a tree's on-disk
// format at creation time. Order/KMax/VMax are stored in Meta so that
// reopening a file with a mismatched Config is detected instead of
// silently corrupting it.
type Config struct {
	Order            int
	KMax             int
	VMax             int
	CacheBudgetBytes int64
}

// DefaultConfig returns the parameter set used when a caller doesn't
// need to override anything.
func DefaultConfig() Config {
	return Config{
		Order:            DefaultOrder,
		KMax:             KMax,
		VMax:             VMax,
		CacheBudgetBytes: DefaultCacheBudgetBytes,
	}
}

// MaxKeys is ORDER-1, the highest key count a non-root node may hold.
func (c *Config) MaxKeys() int { return c.Order - 1 }

// MinKeys is (ORDER+1)/2-1 in integer division, the lowest key count a
// non-root node may hold before it must borrow or merge. It equals
// (ORDER-1)/2, the number of keys a split leaves in the left node.
func (c *Config) MinKeys() int { return (c.Order+1)/2 - 1 }

// KeyValuePair is one record returned from GetRange.
type KeyValuePair struct {
	Key   []byte
	Value []byte
}

// BPlusTree is the engine handle: one backing file, one block cache, one
// Meta header. It owns their lifecycle end to end.
type BPlusTree struct {
	path  string
	file  *os.File
	cfg   Config
	cache *cache
}
