package fastcol

import (
	"fmt"
	"sync"
	"testing"
)

// TestMap_PutGetRemove covers the basic mapping laws.
func TestMap_PutGetRemove(t *testing.T) {
	m := NewMap[string, int]()

	if _, existed := m.Put("a", 1); existed {
		t.Error("Put(a) on empty map reported an existing mapping")
	}
	if prev, existed := m.Put("a", 2); !existed || prev != 1 {
		t.Errorf("Put(a) = %d, %v; want 1, true", prev, existed)
	}
	if v, ok := m.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v; want 2, true", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) = ok, want false")
	}
	if v, removed := m.Remove("a"); !removed || v != 2 {
		t.Errorf("Remove(a) = %d, %v; want 2, true", v, removed)
	}
	if !m.IsEmpty() {
		t.Error("IsEmpty() = false after removing the only entry")
	}
}

// TestMap_ConditionalOps covers the compare-and-act surface.
func TestMap_ConditionalOps(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)

	if _, inserted := m.PutIfAbsent("a", 9); inserted {
		t.Error("PutIfAbsent(a) inserted over an existing mapping")
	}
	if v, _ := m.Get("a"); v != 1 {
		t.Errorf("Get(a) = %d after failed PutIfAbsent, want 1", v)
	}
	if _, inserted := m.PutIfAbsent("b", 2); !inserted {
		t.Error("PutIfAbsent(b) = false, want true")
	}

	if _, replaced := m.Replace("missing", 1); replaced {
		t.Error("Replace(missing) = true, want false")
	}
	if prev, replaced := m.Replace("a", 10); !replaced || prev != 1 {
		t.Errorf("Replace(a) = %d, %v; want 1, true", prev, replaced)
	}

	if m.ReplaceIf("a", 1, 11) {
		t.Error("ReplaceIf with stale expected value = true, want false")
	}
	if !m.ReplaceIf("a", 10, 11) {
		t.Error("ReplaceIf(a, 10, 11) = false, want true")
	}

	if m.RemoveMatch("a", 10) {
		t.Error("RemoveMatch with stale expected value = true, want false")
	}
	if !m.RemoveMatch("a", 11) {
		t.Error("RemoveMatch(a, 11) = false, want true")
	}
}

// TestMap_InsertionOrder verifies deterministic traversal and update-in-
// place keeping position.
func TestMap_InsertionOrder(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("c", 1)
	m.Put("a", 2)
	m.Put("b", 3)
	m.Put("c", 4)

	var keys []string
	m.ForEach(func(k string, _ int) {
		keys = append(keys, k)
	})
	want := []string{"c", "a", "b"}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}
	if got := m.String(); got != "{c=4, a=2, b=3}" {
		t.Errorf("String() = %q, want {c=4, a=2, b=3}", got)
	}
}

// TestMap_Projections covers KeySet, Values and Entries as live views.
func TestMap_Projections(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)

	ks := m.KeySet()
	if !ks.Contains("a") {
		t.Error("KeySet().Contains(a) = false, want true")
	}
	if !ks.Remove("a") {
		t.Error("KeySet().Remove(a) = false, want true")
	}
	if m.ContainsKey("a") {
		t.Error("entry survived key-view removal")
	}

	vs := m.Values()
	if !vs.Contains(2) {
		t.Error("Values().Contains(2) = false, want true")
	}

	es := m.Entries()
	if !es.Contains(Entry[string, int]{Key: "b", Value: 2}) {
		t.Error("Entries().Contains(b=2) = false, want true")
	}
	if !es.Add(Entry[string, int]{Key: "c", Value: 3}) {
		t.Error("Entries().Add(c=3) = false, want true")
	}
	if v, _ := m.Get("c"); v != 3 {
		t.Errorf("Get(c) = %d after entry add, want 3", v)
	}

	// Projections reflect later writes.
	m.Put("d", 4)
	if got := ks.Size(); got != 3 {
		t.Errorf("KeySet().Size() = %d, want 3", got)
	}
}

// TestMap_DoWhileAndRemoveIf covers the closure operations.
func TestMap_DoWhileAndRemoveIf(t *testing.T) {
	m := NewMap[string, int]()
	for i := 1; i <= 6; i++ {
		m.Put(fmt.Sprintf("k%d", i), i)
	}

	visited := 0
	ok := m.DoWhile(func(_ string, v int) bool {
		visited++
		return v < 3
	})
	if ok || visited != 3 {
		t.Errorf("DoWhile = %v after %d entries; want false after 3", ok, visited)
	}

	if !m.RemoveIf(func(_ string, v int) bool { return v%2 == 0 }) {
		t.Error("RemoveIf = false, want true")
	}
	if got := m.Size(); got != 3 {
		t.Errorf("Size() = %d after RemoveIf, want 3", got)
	}
}

// TestMap_SharedConcurrentWriters exercises the shared tier.
func TestMap_SharedConcurrentWriters(t *testing.T) {
	m := NewMap[int, int]().Shared()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.Put(w*100+i, i)
			}
		}(w)
	}
	wg.Wait()

	if got := m.Size(); got != 400 {
		t.Errorf("Size() = %d, want 400", got)
	}
}

// TestMap_AtomicBulkUpdate verifies all-or-nothing map updates.
func TestMap_AtomicBulkUpdate(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)
	am := m.Atomic()

	func() {
		defer func() { recover() }()
		am.Update(func(inner *Map[string, int]) {
			inner.Put("b", 2)
			panic("abort")
		})
	}()
	if am.ContainsKey("b") {
		t.Error("aborted update leaked an entry")
	}

	am.Update(func(inner *Map[string, int]) {
		inner.Put("b", 2)
		inner.Put("c", 3)
	})
	if got := am.Size(); got != 3 {
		t.Errorf("Size() = %d after committed update, want 3", got)
	}
}

// TestMap_AllIterator ranges entries with a break.
func TestMap_AllIterator(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	n := 0
	for k, v := range m.All() {
		if v == 0 {
			t.Errorf("All() yielded zero value for %q", k)
		}
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("ranged %d entries, want 2", n)
	}
}

// TestMap_UnmodifiableView verifies the read-only map tier.
func TestMap_UnmodifiableView(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)
	ro := m.Unmodifiable()

	if v, ok := ro.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	defer func() {
		if recover() == nil {
			t.Error("Put on unmodifiable map: want panic")
		}
	}()
	ro.Put("b", 2)
}
