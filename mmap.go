package fbptree

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapRegion maps length bytes of file starting at pageOffset, which must
// be page-aligned. Any OS failure here is fatal: the cache has no way to
// recover from a failed map.
func mmapRegion(file *os.File, pageOffset int64, length int) []byte {
	data, err := unix.Mmap(int(file.Fd()), pageOffset, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		fatalf("mmap", err)
	}
	return data
}

// munmapRegion unmaps a region previously returned by mmapRegion.
func munmapRegion(data []byte) {
	if len(data) == 0 {
		return
	}
	if err := unix.Munmap(data); err != nil {
		fatalf("munmap", err)
	}
}

// ensureFileSize grows the backing file with Truncate if it is smaller
// than size. The file never shrinks; this is the paged-file substrate's
// only growth mechanism.
func ensureFileSize(file *os.File, size int64) {
	info, err := file.Stat()
	if err != nil {
		fatalf("stat", err)
	}
	if info.Size() < size {
		if err := file.Truncate(size); err != nil {
			fatalf("truncate", err)
		}
	}
}
