package fbptree

import (
	"fmt"
	"os"
)

// fatalf reports an OS-fatal failure and aborts the process. Open, stat,
// truncate, mmap and munmap failures are all treated this way: the engine
// does not attempt recovery, and the file may be left mid-mutation.
func fatalf(op string, err error) {
	fmt.Fprintf(os.Stderr, "fbptree: fatal error during %s: %v\n", op, err)
	os.Exit(1)
}

// assertInvariant aborts the process when an internal invariant the
// engine relies on (a cache reference count never going negative, a
// node's parent listing it among its children) does not hold. These should never
// fire outside of a bug; they are not recoverable errors.
func assertInvariant(cond bool, msg string) {
	if !cond {
		fmt.Fprintf(os.Stderr, "fbptree: invariant violated: %s\n", msg)
		os.Exit(1)
	}
}
