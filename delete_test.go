package fbptree

import "testing"

// TestAlphabetInsertThenDeleteInOrder inserts a..z then removes them in
// insertion order, checking structural invariants after every removal and
// expecting the store to end up empty with height back to 1.
func TestAlphabetInsertThenDeleteInOrder(t *testing.T) {
	tr := openTestTree(t, 4)

	for c := byte('a'); c <= 'z'; c++ {
		tr.Upsert([]byte{c}, []byte{c})
	}
	checkInvariants(tr)

	for c := byte('a'); c <= 'z'; c++ {
		if !tr.Remove([]byte{c}) {
			t.Fatalf("expected to remove %q", c)
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("invariant check panicked after removing %q: %v", c, r)
				}
			}()
			keys := checkInvariants(tr)
			if !isSorted(keys) {
				t.Fatalf("keys not sorted after removing %q", c)
			}
		}()
	}

	if !tr.Empty() || tr.Size() != 0 {
		t.Fatal("expected store to be empty after removing every key")
	}

	meta := Acquire[Meta](tr.cache, MetaOffset)
	height := meta.Height
	Release[Meta](tr.cache, meta)
	if height != 1 {
		t.Fatalf("expected height 1 once the store drains back to empty, got %d", height)
	}
}

// TestReverseAlphabetInsertThenDelete inserts z..a, then removes in the
// same reverse order, checking invariants throughout. Descending order
// stresses the left-sibling borrow and merge paths that ascending-order
// workloads rarely reach.
func TestReverseAlphabetInsertThenDelete(t *testing.T) {
	tr := openTestTree(t, 4)

	for c := byte('z'); ; c-- {
		tr.Upsert([]byte{c}, []byte{c})
		if c == 'a' {
			break
		}
	}
	checkInvariants(tr)

	for c := byte('z'); ; c-- {
		if !tr.Remove([]byte{c}) {
			t.Fatalf("expected to remove %q", c)
		}
		checkInvariants(tr)
		if c == 'a' {
			break
		}
	}

	if !tr.Empty() {
		t.Fatal("expected store to be empty after removing every key")
	}
}

func TestRemoveMissingKeyReportsNotFound(t *testing.T) {
	tr := openTestTree(t, 4)

	tr.Upsert([]byte("a"), []byte("1"))
	if tr.Remove([]byte("zzz")) {
		t.Fatal("expected Remove of an absent key to report not found")
	}
	if tr.Size() != 1 {
		t.Fatalf("expected size to be unaffected, got %d", tr.Size())
	}
}

func TestRemoveThenReinsertSameKey(t *testing.T) {
	tr := openTestTree(t, 4)

	tr.Upsert([]byte("a"), []byte("1"))
	tr.Remove([]byte("a"))
	tr.Upsert([]byte("a"), []byte("2"))

	v, ok := tr.Get([]byte("a"))
	if !ok || string(v) != "2" {
		t.Fatalf("expected get(a)==2 after remove+reinsert, got %q ok=%v", v, ok)
	}
	if tr.Size() != 1 {
		t.Fatalf("expected size 1, got %d", tr.Size())
	}
}

func TestBulkInsertThenDeleteHalfKeepsInvariants(t *testing.T) {
	tr := openTestTree(t, 4)

	const n = 300
	for i := 0; i < n; i++ {
		k := []byte{byte(i >> 8), byte(i)}
		tr.Upsert(k, k)
	}

	for i := 0; i < n; i += 2 {
		k := []byte{byte(i >> 8), byte(i)}
		if !tr.Remove(k) {
			t.Fatalf("expected to remove key %d", i)
		}
	}

	keys := checkInvariants(tr)
	if len(keys) != n/2 {
		t.Fatalf("expected %d surviving keys, got %d", n/2, len(keys))
	}
	if !isSorted(keys) {
		t.Fatal("expected surviving keys in ascending order")
	}
	if tr.Size() != uint64(n/2) {
		t.Fatalf("expected size %d, got %d", n/2, tr.Size())
	}
}
