package views

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/stores"
	"github.com/fastcol/go-fastcol/store"
)

func newOMap(pairs ...string) store.MapStore[string, int] {
	m := stores.NewOMap[string, int](equality.Standard[string](), equality.Standard[int]())
	for i, k := range pairs {
		m.Put(k, i+1)
	}
	return m
}

// TestUnmodifiableMap_ReadsAndPanics verifies reads pass through and
// every mutator panics.
func TestUnmodifiableMap_ReadsAndPanics(t *testing.T) {
	u := NewUnmodifiableMap(newOMap("a", "b"))

	if got := u.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
	if v, ok := u.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v; want 2, true", v, ok)
	}

	for name, op := range map[string]func(){
		"Put":         func() { u.Put("c", 3) },
		"PutIfAbsent": func() { u.PutIfAbsent("c", 3) },
		"Replace":     func() { u.Replace("a", 9) },
		"ReplaceIf":   func() { u.ReplaceIf("a", 1, 9) },
		"Remove":      func() { u.Remove("a") },
		"RemoveMatch": func() { u.RemoveMatch("a", 1) },
		"Clear":       func() { u.Clear() },
		"RemoveIf":    func() { u.RemoveIf(func(string, int) bool { return true }, store.NewController(false)) },
		"Update":      func() { u.Update(func(store.MapStore[string, int]) {}) },
	} {
		func() {
			defer func() {
				if recover() != store.ErrUnmodifiable {
					t.Errorf("%s: want ErrUnmodifiable panic", name)
				}
			}()
			op()
		}()
	}
}

// TestSharedMap_ConcurrentPuts hammers one shared map from many writers.
func TestSharedMap_ConcurrentPuts(t *testing.T) {
	m := NewSharedMap(newOMap())

	const writers = 8
	const perWriter = 100
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				m.Put(fmt.Sprintf("k-%d-%d", w, i), i)
			}
		}(w)
	}
	wg.Wait()

	if got := m.Size(); got != writers*perWriter {
		t.Errorf("Size() = %d, want %d", got, writers*perWriter)
	}
}

// TestAtomicMap_ConditionalOps covers the compare-and-act operations
// through the atomic view.
func TestAtomicMap_ConditionalOps(t *testing.T) {
	m := NewAtomicMap(newOMap("a"))

	if _, inserted := m.PutIfAbsent("a", 9); inserted {
		t.Error("PutIfAbsent(a) inserted over an existing key")
	}
	if _, inserted := m.PutIfAbsent("b", 2); !inserted {
		t.Error("PutIfAbsent(b) = false, want true")
	}
	if !m.ReplaceIf("a", 1, 10) {
		t.Error("ReplaceIf(a, 1, 10) = false, want true")
	}
	if m.ReplaceIf("a", 1, 11) {
		t.Error("ReplaceIf(a, 1, 11) = true with stale expected value")
	}
	if v, _ := m.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d, want 10", v)
	}
	if m.RemoveMatch("a", 1) {
		t.Error("RemoveMatch(a, 1) = true with stale expected value")
	}
	if !m.RemoveMatch("a", 10) {
		t.Error("RemoveMatch(a, 10) = false, want true")
	}
}

// TestAtomicMap_PanicLeavesStateUntouched verifies a panicking bulk
// action rolls back completely.
func TestAtomicMap_PanicLeavesStateUntouched(t *testing.T) {
	m := NewAtomicMap(newOMap("a", "b", "c"))

	func() {
		defer func() { recover() }()
		m.Update(func(inner store.MapStore[string, int]) {
			inner.Clear()
			panic("boom")
		})
	}()

	if got := m.Size(); got != 3 {
		t.Errorf("Size() = %d after panicking update, want 3", got)
	}
	if v, ok := m.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v; want 2, true", v, ok)
	}
}

// TestKeys_Projection covers the key view of a map.
func TestKeys_Projection(t *testing.T) {
	m := newOMap("a", "b", "c")
	ks := NewKeys(m)

	if got := ks.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
	if !ks.Contains("b") {
		t.Error("Contains(b) = false, want true")
	}
	if !ks.Remove("b") {
		t.Error("Remove(b) = false, want true")
	}
	if m.ContainsKey("b") {
		t.Error("entry survived key removal")
	}

	got := collect(ks)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("collect = %v, want [a c]", got)
	}

	defer func() {
		if recover() != store.ErrUnmodifiable {
			t.Error("Add on key view: want ErrUnmodifiable panic")
		}
	}()
	ks.Add("d")
}

// TestValues_Projection covers the value view of a map.
func TestValues_Projection(t *testing.T) {
	m := newOMap("a", "b", "c")
	vs := NewValues(m)

	if !vs.Contains(2) {
		t.Error("Contains(2) = false, want true")
	}
	if vs.Contains(99) {
		t.Error("Contains(99) = true, want false")
	}
	if !vs.Remove(2) {
		t.Error("Remove(2) = false, want true")
	}
	if m.ContainsKey("b") {
		t.Error("entry survived value removal")
	}

	changed := vs.RemoveIf(func(v int) bool {
		return v == 3
	}, store.NewController(false))
	if !changed {
		t.Error("RemoveIf = false, want true")
	}
	if got := m.Size(); got != 1 {
		t.Errorf("map Size() = %d, want 1", got)
	}
}

// TestEntries_Projection covers the entry view of a map.
func TestEntries_Projection(t *testing.T) {
	m := newOMap("a", "b")
	es := NewEntries(m)

	if !es.Contains(store.Entry[string, int]{Key: "a", Value: 1}) {
		t.Error("Contains(a=1) = false, want true")
	}
	if es.Contains(store.Entry[string, int]{Key: "a", Value: 9}) {
		t.Error("Contains(a=9) = true with wrong value, want false")
	}

	if !es.Add(store.Entry[string, int]{Key: "c", Value: 3}) {
		t.Error("Add(c=3) = false, want true")
	}
	if es.Add(store.Entry[string, int]{Key: "c", Value: 4}) {
		t.Error("Add(c=4) = true for existing key, want false")
	}
	if v, _ := m.Get("c"); v != 3 {
		t.Errorf("Get(c) = %d, want 3", v)
	}

	if !es.Remove(store.Entry[string, int]{Key: "c", Value: 3}) {
		t.Error("Remove(c=3) = false, want true")
	}

	var keys []string
	es.ForEach(func(e store.Entry[string, int]) {
		keys = append(keys, e.Key)
	}, store.NewController(false))
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("entry order = %v, want [a b]", keys)
	}

	eq := es.Equality()
	x := store.Entry[string, int]{Key: "a", Value: 1}
	y := store.Entry[string, int]{Key: "a", Value: 2}
	if eq.Hash(x) != eq.Hash(y) {
		t.Error("entries with equal keys hash differently")
	}
	if eq.Equal(x, y) {
		t.Error("Equal = true for entries with different values")
	}
}

// TestProjections_SplitCoverage verifies all three projections split
// losslessly.
func TestProjections_SplitCoverage(t *testing.T) {
	m := newOMap()
	for i := 0; i < 40; i++ {
		m.Put(fmt.Sprintf("k%02d", i), i)
	}

	keyTotal := 0
	for _, p := range NewKeys(m).TrySplit(4) {
		keyTotal += p.Size()
	}
	if keyTotal != 40 {
		t.Errorf("key parts cover %d, want 40", keyTotal)
	}

	sum := 0
	for _, p := range NewValues(m).TrySplit(4) {
		p.ForEach(func(v int) {
			sum += v
		}, store.NewController(false))
	}
	if want := 40 * 39 / 2; sum != want {
		t.Errorf("value parts sum to %d, want %d", sum, want)
	}

	entryTotal := 0
	for _, p := range NewEntries(m).TrySplit(4) {
		entryTotal += p.Size()
	}
	if entryTotal != 40 {
		t.Errorf("entry parts cover %d, want 40", entryTotal)
	}
}
