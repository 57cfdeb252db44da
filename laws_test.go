package fbptree

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

// TestRandomOperationsAgainstReferenceModel drives a long random sequence
// of upserts and removes against both the tree and a plain map, then checks
// the two agree: Get returns the value of the last Upsert unless a Remove
// followed it, and GetRange over the whole keyspace returns exactly the
// surviving pairs in ascending order.
func TestRandomOperationsAgainstReferenceModel(t *testing.T) {
	tr := openTestTree(t, 4)
	model := make(map[string]string)
	rng := rand.New(rand.NewSource(42))

	randomKey := func() []byte {
		k := make([]byte, 1+rng.Intn(6))
		for i := range k {
			k[i] = 'a' + byte(rng.Intn(26))
		}
		return k
	}

	const ops = 3000
	for i := 0; i < ops; i++ {
		key := randomKey()
		switch rng.Intn(3) {
		case 0, 1:
			value := []byte(fmt.Sprintf("v%d", i))
			tr.Upsert(key, value)
			model[string(key)] = string(value)
		case 2:
			removed := tr.Remove(key)
			_, expected := model[string(key)]
			if removed != expected {
				t.Fatalf("op %d: Remove(%q) returned %v, model says %v", i, key, removed, expected)
			}
			delete(model, string(key))
		}

		if i%250 == 0 {
			checkInvariants(tr)
		}
	}

	if int(tr.Size()) != len(model) {
		t.Fatalf("expected size %d, got %d", len(model), tr.Size())
	}

	for key, want := range model {
		got, ok := tr.Get([]byte(key))
		if !ok || string(got) != want {
			t.Fatalf("Get(%q): expected %q, got %q ok=%v", key, want, got, ok)
		}
	}

	var sortedKeys []string
	for key := range model {
		sortedKeys = append(sortedKeys, key)
	}
	sort.Strings(sortedKeys)

	pairs := tr.GetRange([]byte("a"), bytes.Repeat([]byte("z"), 8))
	if len(pairs) != len(sortedKeys) {
		t.Fatalf("full-range scan: expected %d pairs, got %d", len(sortedKeys), len(pairs))
	}
	for i, kv := range pairs {
		if string(kv.Key) != sortedKeys[i] {
			t.Fatalf("full-range scan pair %d: expected key %q, got %q", i, sortedKeys[i], kv.Key)
		}
		if string(kv.Value) != model[sortedKeys[i]] {
			t.Fatalf("full-range scan pair %d: expected value %q, got %q", i, model[sortedKeys[i]], kv.Value)
		}
	}
}

// TestRemovedKeyLeavesNoTrace inserts enough keys to build a multi-level
// tree, removes one, keeps mutating, and verifies the removed key never
// resurfaces through Get or a full-range scan.
func TestRemovedKeyLeavesNoTrace(t *testing.T) {
	tr := openTestTree(t, 4)

	for c := byte('a'); c <= 'z'; c++ {
		tr.Upsert([]byte{c}, []byte{c})
	}

	if !tr.Remove([]byte("m")) {
		t.Fatal("expected to remove m")
	}

	for c := byte('A'); c <= 'Z'; c++ {
		tr.Upsert([]byte{c}, []byte{c})
	}

	if _, ok := tr.Get([]byte("m")); ok {
		t.Fatal("expected removed key to stay gone through later mutations")
	}
	for _, kv := range tr.GetRange([]byte("A"), []byte("z")) {
		if string(kv.Key) == "m" {
			t.Fatal("expected removed key to be absent from range scans")
		}
	}
}

// TestOversizeKeyAndValueAreTruncated pins the inherited fixed-buffer
// behavior: inputs longer than KMax-1 / VMax-1 bytes are silently cut to
// the bound, so two keys that agree on their first KMax-1 bytes collide.
func TestOversizeKeyAndValueAreTruncated(t *testing.T) {
	tr := openTestTree(t, 4)

	longA := append(bytes.Repeat([]byte("k"), KMax-1), 'A')
	longB := append(bytes.Repeat([]byte("k"), KMax-1), 'B')

	tr.Upsert(longA, []byte("first"))
	tr.Upsert(longB, []byte("second"))

	if tr.Size() != 1 {
		t.Fatalf("expected keys identical after truncation to collide, size=%d", tr.Size())
	}

	got, ok := tr.Get(bytes.Repeat([]byte("k"), KMax-1))
	if !ok || string(got) != "second" {
		t.Fatalf("expected truncated key to resolve to the last upsert, got %q ok=%v", got, ok)
	}

	longValue := bytes.Repeat([]byte("v"), VMax+50)
	tr.Upsert([]byte("val"), longValue)
	got, ok = tr.Get([]byte("val"))
	if !ok || len(got) != VMax-1 {
		t.Fatalf("expected value truncated to %d bytes, got %d ok=%v", VMax-1, len(got), ok)
	}
}
