package views

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// keysStore projects a map store as a collection of its keys.
type keysStore[K, V any] struct {
	m store.MapStore[K, V]
}

// NewKeys returns the key projection of m. Removing a key removes its
// entry; adding through the projection is not supported.
func NewKeys[K, V any](m store.MapStore[K, V]) store.Store[K] {
	return &keysStore[K, V]{m: m}
}

func (ks *keysStore[K, V]) Size() int {
	return ks.m.Size()
}

func (ks *keysStore[K, V]) IsEmpty() bool {
	return ks.m.IsEmpty()
}

func (ks *keysStore[K, V]) Contains(k K) bool {
	return ks.m.ContainsKey(k)
}

func (ks *keysStore[K, V]) Add(K) bool {
	panic(store.ErrUnmodifiable)
}

func (ks *keysStore[K, V]) Remove(k K) bool {
	_, removed := ks.m.Remove(k)
	return removed
}

func (ks *keysStore[K, V]) Clear() {
	ks.m.Clear()
}

func (ks *keysStore[K, V]) ForEach(fn func(K), ctl *store.Controller) {
	ks.m.ForEach(func(k K, _ V) {
		fn(k)
	}, ctl)
}

func (ks *keysStore[K, V]) RemoveIf(pred func(K) bool, ctl *store.Controller) bool {
	return ks.m.RemoveIf(func(k K, _ V) bool {
		return pred(k)
	}, ctl)
}

func (ks *keysStore[K, V]) TrySplit(n int) []store.Store[K] {
	parts := ks.m.TrySplit(n)
	out := make([]store.Store[K], len(parts))
	for i, p := range parts {
		out[i] = &keysStore[K, V]{m: p}
	}
	return out
}

func (ks *keysStore[K, V]) Update(fn func(store.Store[K])) {
	ks.m.Update(func(inner store.MapStore[K, V]) {
		fn(&keysStore[K, V]{m: inner})
	})
}

func (ks *keysStore[K, V]) Equality() equality.Equality[K] {
	return ks.m.KeyEquality()
}

func (ks *keysStore[K, V]) Clone() store.Store[K] {
	return &keysStore[K, V]{m: ks.m.Clone()}
}

// valuesStore projects a map store as a collection of its values.
// Lookups and removals scan in entry order using the value equality.
type valuesStore[K, V any] struct {
	m store.MapStore[K, V]
}

// NewValues returns the value projection of m.
func NewValues[K, V any](m store.MapStore[K, V]) store.Store[V] {
	return &valuesStore[K, V]{m: m}
}

func (vs *valuesStore[K, V]) Size() int {
	return vs.m.Size()
}

func (vs *valuesStore[K, V]) IsEmpty() bool {
	return vs.m.IsEmpty()
}

func (vs *valuesStore[K, V]) Contains(v V) bool {
	veq := vs.m.ValueEquality()
	found := false
	ctl := store.NewController(false)
	vs.m.ForEach(func(_ K, have V) {
		if !found && veq.Equal(have, v) {
			found = true
			ctl.Terminate()
		}
	}, ctl)
	return found
}

func (vs *valuesStore[K, V]) Add(V) bool {
	panic(store.ErrUnmodifiable)
}

func (vs *valuesStore[K, V]) Remove(v V) bool {
	veq := vs.m.ValueEquality()
	var key K
	found := false
	ctl := store.NewController(false)
	vs.m.ForEach(func(k K, have V) {
		if !found && veq.Equal(have, v) {
			key = k
			found = true
			ctl.Terminate()
		}
	}, ctl)
	if !found {
		return false
	}
	_, removed := vs.m.Remove(key)
	return removed
}

func (vs *valuesStore[K, V]) Clear() {
	vs.m.Clear()
}

func (vs *valuesStore[K, V]) ForEach(fn func(V), ctl *store.Controller) {
	vs.m.ForEach(func(_ K, v V) {
		fn(v)
	}, ctl)
}

func (vs *valuesStore[K, V]) RemoveIf(pred func(V) bool, ctl *store.Controller) bool {
	return vs.m.RemoveIf(func(_ K, v V) bool {
		return pred(v)
	}, ctl)
}

func (vs *valuesStore[K, V]) TrySplit(n int) []store.Store[V] {
	parts := vs.m.TrySplit(n)
	out := make([]store.Store[V], len(parts))
	for i, p := range parts {
		out[i] = &valuesStore[K, V]{m: p}
	}
	return out
}

func (vs *valuesStore[K, V]) Update(fn func(store.Store[V])) {
	vs.m.Update(func(inner store.MapStore[K, V]) {
		fn(&valuesStore[K, V]{m: inner})
	})
}

func (vs *valuesStore[K, V]) Equality() equality.Equality[V] {
	return vs.m.ValueEquality()
}

func (vs *valuesStore[K, V]) Clone() store.Store[V] {
	return &valuesStore[K, V]{m: vs.m.Clone()}
}

// entriesStore projects a map store as a collection of key-value entries.
type entriesStore[K, V any] struct {
	m store.MapStore[K, V]
}

// NewEntries returns the entry projection of m. Adding an entry inserts
// it only when the key is absent; removing matches both key and value.
func NewEntries[K, V any](m store.MapStore[K, V]) store.Store[store.Entry[K, V]] {
	return &entriesStore[K, V]{m: m}
}

func (es *entriesStore[K, V]) Size() int {
	return es.m.Size()
}

func (es *entriesStore[K, V]) IsEmpty() bool {
	return es.m.IsEmpty()
}

func (es *entriesStore[K, V]) Contains(e store.Entry[K, V]) bool {
	v, ok := es.m.Get(e.Key)
	if !ok {
		return false
	}
	return es.m.ValueEquality().Equal(v, e.Value)
}

func (es *entriesStore[K, V]) Add(e store.Entry[K, V]) bool {
	_, inserted := es.m.PutIfAbsent(e.Key, e.Value)
	return inserted
}

func (es *entriesStore[K, V]) Remove(e store.Entry[K, V]) bool {
	return es.m.RemoveMatch(e.Key, e.Value)
}

func (es *entriesStore[K, V]) Clear() {
	es.m.Clear()
}

func (es *entriesStore[K, V]) ForEach(fn func(store.Entry[K, V]), ctl *store.Controller) {
	es.m.ForEach(func(k K, v V) {
		fn(store.Entry[K, V]{Key: k, Value: v})
	}, ctl)
}

func (es *entriesStore[K, V]) RemoveIf(pred func(store.Entry[K, V]) bool, ctl *store.Controller) bool {
	return es.m.RemoveIf(func(k K, v V) bool {
		return pred(store.Entry[K, V]{Key: k, Value: v})
	}, ctl)
}

func (es *entriesStore[K, V]) TrySplit(n int) []store.Store[store.Entry[K, V]] {
	parts := es.m.TrySplit(n)
	out := make([]store.Store[store.Entry[K, V]], len(parts))
	for i, p := range parts {
		out[i] = &entriesStore[K, V]{m: p}
	}
	return out
}

func (es *entriesStore[K, V]) Update(fn func(store.Store[store.Entry[K, V]])) {
	es.m.Update(func(inner store.MapStore[K, V]) {
		fn(&entriesStore[K, V]{m: inner})
	})
}

// Equality hashes and compares entries by key, and treats two entries as
// equal only when both key and value match.
func (es *entriesStore[K, V]) Equality() equality.Equality[store.Entry[K, V]] {
	keq := es.m.KeyEquality()
	veq := es.m.ValueEquality()
	return equality.Of(
		func(e store.Entry[K, V]) uint64 {
			return keq.Hash(e.Key)
		},
		func(a, b store.Entry[K, V]) bool {
			return keq.Equal(a.Key, b.Key) && veq.Equal(a.Value, b.Value)
		},
		func(a, b store.Entry[K, V]) int {
			return keq.Compare(a.Key, b.Key)
		},
	)
}

func (es *entriesStore[K, V]) Clone() store.Store[store.Entry[K, V]] {
	return &entriesStore[K, V]{m: es.m.Clone()}
}
