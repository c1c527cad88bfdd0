package fastcol

import (
	"fmt"
	"iter"
	"strings"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/stores"
	"github.com/fastcol/go-fastcol/internal/views"
	"github.com/fastcol/go-fastcol/store"
)

// Map is an ordered key-value facade. Entries are traversed in insertion
// order; updating a present key keeps its position. The zero Map is not
// usable; obtain one from a constructor.
type Map[K, V any] struct {
	svc store.MapStore[K, V]
}

// NewMap returns an empty map using the standard equality for keys and
// the interface-equality fallback for values.
func NewMap[K comparable, V any]() *Map[K, V] {
	return NewMapWith[K, V](equality.Standard[K](), equality.Any[V]())
}

// NewMapWith returns an empty map with explicit key and value equality
// strategies. The value strategy serves RemoveMatch, ReplaceIf and the
// Values and Entries views.
func NewMapWith[K, V any](keq equality.Equality[K], veq equality.Equality[V]) *Map[K, V] {
	return &Map[K, V]{svc: stores.NewOMap[K, V](keq, veq)}
}

// Size returns the number of entries.
func (m *Map[K, V]) Size() int {
	return m.svc.Size()
}

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.svc.IsEmpty()
}

// ContainsKey reports whether a mapping for k exists.
func (m *Map[K, V]) ContainsKey(k K) bool {
	return m.svc.ContainsKey(k)
}

// Get returns the value mapped to k and whether a mapping exists.
func (m *Map[K, V]) Get(k K) (V, bool) {
	return m.svc.Get(k)
}

// Put maps k to v and returns the previous value and whether one existed.
func (m *Map[K, V]) Put(k K, v V) (V, bool) {
	return m.svc.Put(k, v)
}

// PutIfAbsent maps k to v only when no mapping exists. It returns the
// value now mapped to k and whether the insert happened.
func (m *Map[K, V]) PutIfAbsent(k K, v V) (V, bool) {
	return m.svc.PutIfAbsent(k, v)
}

// Replace maps k to v only when a mapping exists. It returns the previous
// value and whether the replace happened.
func (m *Map[K, V]) Replace(k K, v V) (V, bool) {
	return m.svc.Replace(k, v)
}

// ReplaceIf maps k to v only when k is currently mapped to old (per the
// value equality).
func (m *Map[K, V]) ReplaceIf(k K, old, v V) bool {
	return m.svc.ReplaceIf(k, old, v)
}

// Remove deletes the mapping for k and returns the removed value and
// whether a mapping existed.
func (m *Map[K, V]) Remove(k K) (V, bool) {
	return m.svc.Remove(k)
}

// RemoveMatch deletes the mapping for k only when it is currently mapped
// to old (per the value equality).
func (m *Map[K, V]) RemoveMatch(k K, old V) bool {
	return m.svc.RemoveMatch(k, old)
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	m.svc.Clear()
}

// ForEach applies fn to every entry in traversal order.
func (m *Map[K, V]) ForEach(fn func(K, V)) {
	m.svc.ForEach(fn, store.NewController(false))
}

// DoWhile applies pred to the entries until it returns false and reports
// whether every visited entry passed.
func (m *Map[K, V]) DoWhile(pred func(K, V) bool) bool {
	all := true
	ctl := store.NewController(false)
	m.svc.ForEach(func(k K, v V) {
		if !pred(k, v) {
			all = false
			ctl.Terminate()
		}
	}, ctl)
	return all
}

// RemoveIf removes the entries matching pred and reports whether any were
// removed.
func (m *Map[K, V]) RemoveIf(pred func(K, V) bool) bool {
	return m.svc.RemoveIf(pred, store.NewController(false))
}

// Update runs action as one bulk operation routed through the view chain:
// a Shared view executes it under a single write lock, an Atomic view
// commits it all-or-nothing.
func (m *Map[K, V]) Update(action func(*Map[K, V])) {
	m.svc.Update(func(inner store.MapStore[K, V]) {
		action(&Map[K, V]{svc: inner})
	})
}

// All returns an iterator over the entries for range loops. Like
// Collection.All it reads the live map and is unsafe under concurrent
// mutation.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		ctl := store.NewController(false)
		m.svc.ForEach(func(k K, v V) {
			if !ctl.Terminated() && !yield(k, v) {
				ctl.Terminate()
			}
		}, ctl)
	}
}

// KeyEquality returns the strategy keys are hashed and compared with.
func (m *Map[K, V]) KeyEquality() equality.Equality[K] {
	return m.svc.KeyEquality()
}

// ValueEquality returns the strategy values are compared with.
func (m *Map[K, V]) ValueEquality() equality.Equality[V] {
	return m.svc.ValueEquality()
}

// String renders the map as {k1=v1, k2=v2, ...} in traversal order.
func (m *Map[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	m.svc.ForEach(func(k K, v V) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v=%v", k, v)
	}, store.NewController(false))
	b.WriteByte('}')
	return b.String()
}

// Unmodifiable returns a read-only view of the map.
func (m *Map[K, V]) Unmodifiable() *Map[K, V] {
	return &Map[K, V]{svc: views.NewUnmodifiableMap(m.svc)}
}

// Shared returns a concurrency-safe view guarded by a read-write lock.
func (m *Map[K, V]) Shared() *Map[K, V] {
	return &Map[K, V]{svc: views.NewSharedMap(m.svc)}
}

// Atomic returns a copy-on-write view; readers see only complete
// mutations.
func (m *Map[K, V]) Atomic() *Map[K, V] {
	return &Map[K, V]{svc: views.NewAtomicMap(m.svc)}
}

// KeySet returns the keys as a live set view. Removing a key removes its
// entry; adding keys is unsupported.
func (m *Map[K, V]) KeySet() *Set[K] {
	return &Set[K]{Collection[K]{svc: views.NewKeys(m.svc)}}
}

// Values returns the values as a live collection view. Lookups and
// removals scan in traversal order with the value equality; adding values
// is unsupported.
func (m *Map[K, V]) Values() Collection[V] {
	return Collection[V]{svc: views.NewValues(m.svc)}
}

// Entries returns the entries as a live set view. Adding inserts the
// entry when its key is absent; removing matches key and value.
func (m *Map[K, V]) Entries() *Set[Entry[K, V]] {
	return &Set[Entry[K, V]]{Collection[Entry[K, V]]{svc: views.NewEntries(m.svc)}}
}
