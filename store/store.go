// Package store defines the contracts shared by collection backing stores
// and their views: the element store, the map store, the per-traversal
// controller, and the sentinel panic values for container misuse.
package store

import (
	"errors"

	"github.com/fastcol/go-fastcol/equality"
)

// ErrUnmodifiable is the panic value raised when a mutating operation
// reaches an unmodifiable or structurally read-only view (mapped, sorted,
// split sub-store).
var ErrUnmodifiable = errors.New("fastcol: unmodifiable view")

// ErrConcurrentModification is the panic value raised when a traversal
// detects structural mutation of an unshared store mid-iteration. Detection
// is best effort; undetected concurrent mutation of an unshared store is
// undefined behavior. Wrap the collection with Shared when concurrent
// mutation is needed.
var ErrConcurrentModification = errors.New("fastcol: concurrent modification detected")

// Store is the mutable contract implemented by every backing store and
// every view. A view wraps a target Store and reinterprets its operations;
// it never copies elements at construction time.
type Store[E any] interface {
	// Size returns the number of elements.
	Size() int

	// IsEmpty reports whether the store holds no elements.
	IsEmpty() bool

	// Contains reports whether an element equal to e (per Equality) is
	// present.
	Contains(e E) bool

	// Add inserts e. It returns false when the element is rejected by
	// view policy (filtered mismatch, duplicate through a distinct view,
	// duplicate in a set). It panics with ErrUnmodifiable on read-only
	// views.
	Add(e E) bool

	// Remove deletes one element equal to e, reporting whether anything
	// was removed.
	Remove(e E) bool

	// Clear removes all elements reachable through this store or view.
	Clear()

	// ForEach delivers every element to fn, honoring the controller's
	// termination flag between elements. It is the sole traversal
	// primitive; all other traversals are built on top of it.
	ForEach(fn func(E), ctl *Controller)

	// RemoveIf deletes the elements matching pred, reporting whether the
	// store changed.
	RemoveIf(pred func(E) bool, ctl *Controller) bool

	// TrySplit partitions the store into up to n sub-stores covering
	// disjoint subsets whose union is the receiver. The split is best
	// effort: small or unsplittable stores return fewer parts (possibly
	// just one). Ordered stores preserve each part's relative order.
	// Sub-stores are read-only traversal projections valid until the
	// receiver's next structural mutation; their mutators panic with
	// ErrUnmodifiable. TrySplit panics if n < 1.
	TrySplit(n int) []Store[E]

	// Update runs fn as one bulk action against this store under the
	// strongest protection the view chain provides: a shared view holds
	// its write lock across the whole action, an atomic view commits the
	// action all-or-nothing. fn receives the store to mutate; it must
	// not retain it.
	Update(fn func(Store[E]))

	// Equality returns the element strategy the store was built with.
	Equality() equality.Equality[E]

	// Clone returns an independent deep copy sharing no structure with
	// the receiver. Views clone their target and rewrap it.
	Clone() Store[E]
}

// Entry is one key-value binding, as delivered by a map's entries view.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// MapStore is the key-value twin of Store. Traversal order is the map's
// deterministic native order (insertion order for the built-in backing
// map).
type MapStore[K, V any] interface {
	// Size returns the number of entries.
	Size() int

	// IsEmpty reports whether the map holds no entries.
	IsEmpty() bool

	// ContainsKey reports whether a key equal to k is present.
	ContainsKey(k K) bool

	// Get returns the value bound to k, with ok reporting presence.
	Get(k K) (v V, ok bool)

	// Put binds k to v, returning the previous value if one was replaced.
	Put(k K, v V) (prev V, replaced bool)

	// PutIfAbsent binds k to v only when k is absent. It returns the
	// value that is bound after the call and whether this call inserted
	// it.
	PutIfAbsent(k K, v V) (current V, inserted bool)

	// Replace rebinds k to v only when k is present.
	Replace(k K, v V) (prev V, replaced bool)

	// ReplaceIf rebinds k to v only when k is currently bound to a value
	// equal to old (per ValueEquality).
	ReplaceIf(k K, old, v V) bool

	// Remove deletes the binding for k, returning the removed value.
	Remove(k K) (prev V, removed bool)

	// RemoveMatch deletes the binding for k only when it is bound to a
	// value equal to old.
	RemoveMatch(k K, old V) bool

	// Clear removes all entries.
	Clear()

	// ForEach delivers every entry to fn, honoring the controller's
	// termination flag between entries.
	ForEach(fn func(K, V), ctl *Controller)

	// RemoveIf deletes the entries matching pred, reporting whether the
	// map changed.
	RemoveIf(pred func(K, V) bool, ctl *Controller) bool

	// TrySplit partitions the map like Store.TrySplit partitions a
	// collection.
	TrySplit(n int) []MapStore[K, V]

	// Update runs fn as one bulk action against this map under the
	// strongest protection the view chain provides.
	Update(fn func(MapStore[K, V]))

	// KeyEquality returns the key strategy.
	KeyEquality() equality.Equality[K]

	// ValueEquality returns the value strategy used by ReplaceIf and
	// RemoveMatch.
	ValueEquality() equality.Equality[V]

	// Clone returns an independent deep copy.
	Clone() MapStore[K, V]
}
