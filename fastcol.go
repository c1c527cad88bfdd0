// Package fastcol provides ordered collections with chainable views:
// unmodifiable, shared (lock-based), atomic (copy-on-write), filtered,
// sorted, reversed, distinct, sequential and parallel. Views are virtual.
// They hold no elements of their own and each one wraps the collection it
// was derived from, so a chain such as
//
//	t.Filtered(even).Sorted().Shared()
//
// costs three small wrappers regardless of the collection size. Reads and
// traversals resolve through the whole chain on every call.
//
// Traversal is closure-based. ForEach, DoWhile, RemoveIf, Reduce and the
// other bulk operations drive a consumer function over the elements and
// honor early termination; a Parallel view in the chain partitions the
// traversal across goroutines. The All iterator is a convenience for
// range-over-func loops and offers no protection against concurrent
// mutation; use the closure operations through a Shared or Atomic view
// when other goroutines write.
package fastcol

import (
	"fmt"
	"iter"
	"strings"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/views"
	"github.com/fastcol/go-fastcol/store"
)

// Entry is a key-value pair, the element type of a map's entry view.
type Entry[K, V any] = store.Entry[K, V]

// Collection is the facade over a backing store or view chain. The zero
// Collection is not usable; obtain one from a constructor (NewTable,
// NewSet), a view method, or From.
type Collection[E any] struct {
	svc store.Store[E]
}

// From wraps a caller-supplied store in a Collection. It is the extension
// point for custom backing stores; the built-in constructors cover the
// common cases.
func From[E any](s store.Store[E]) Collection[E] {
	return Collection[E]{svc: s}
}

// Size returns the number of elements visible through the view chain.
func (c Collection[E]) Size() int {
	return c.svc.Size()
}

// IsEmpty reports whether no element is visible.
func (c Collection[E]) IsEmpty() bool {
	return c.svc.IsEmpty()
}

// Contains reports whether an element equal to e (per the collection's
// equality) is visible.
func (c Collection[E]) Contains(e E) bool {
	return c.svc.Contains(e)
}

// Add inserts e. It returns false when a view policy rejects the element,
// such as a filter mismatch or a duplicate through a distinct view, and
// panics with store.ErrUnmodifiable on read-only views.
func (c Collection[E]) Add(e E) bool {
	return c.svc.Add(e)
}

// Remove deletes one occurrence of e (every occurrence through a distinct
// view). It returns false when no equal element is present.
func (c Collection[E]) Remove(e E) bool {
	return c.svc.Remove(e)
}

// Clear removes every visible element. Through a filtered view only the
// matching elements are removed.
func (c Collection[E]) Clear() {
	c.svc.Clear()
}

// ForEach applies fn to every element. With a Parallel view in the chain
// fn runs on multiple goroutines and must be safe for concurrent use.
func (c Collection[E]) ForEach(fn func(E)) {
	c.svc.ForEach(fn, store.NewController(true))
}

// RemoveIf removes the elements matching pred and reports whether any
// were removed.
func (c Collection[E]) RemoveIf(pred func(E) bool) bool {
	return c.svc.RemoveIf(pred, store.NewController(true))
}

// Update runs action as one bulk operation routed through the view chain:
// a Shared view executes it under a single write lock, an Atomic view
// applies it to a private copy and commits it all-or-nothing.
func (c Collection[E]) Update(action func(Collection[E])) {
	c.svc.Update(func(inner store.Store[E]) {
		action(Collection[E]{svc: inner})
	})
}

// Elements returns the visible elements in traversal order.
func (c Collection[E]) Elements() []E {
	out := make([]E, 0, c.svc.Size())
	c.svc.ForEach(func(e E) {
		out = append(out, e)
	}, store.NewController(false))
	return out
}

// Equality returns the strategy the collection hashes and compares
// elements with.
func (c Collection[E]) Equality() equality.Equality[E] {
	return c.svc.Equality()
}

// All returns an iterator over the visible elements for range loops.
// The iterator reads the live collection without snapshotting it;
// mutating the collection from other goroutines during the loop is not
// safe through any view.
func (c Collection[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		ctl := store.NewController(false)
		c.svc.ForEach(func(e E) {
			if !ctl.Terminated() && !yield(e) {
				ctl.Terminate()
			}
		}, ctl)
	}
}

// String renders the collection as [e1, e2, ...] in traversal order.
func (c Collection[E]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	c.svc.ForEach(func(e E) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v", e)
	}, store.NewController(false))
	b.WriteByte(']')
	return b.String()
}

// Unmodifiable returns a read-only view. Mutators panic with
// store.ErrUnmodifiable; writes to the underlying collection remain
// visible through the view.
func (c Collection[E]) Unmodifiable() Collection[E] {
	return Collection[E]{svc: views.NewUnmodifiable(c.svc)}
}

// Shared returns a concurrency-safe view guarded by a read-write lock.
// Traversals hold the read lock for their whole duration, mutators the
// write lock; views split from a Shared view share its lock.
func (c Collection[E]) Shared() Collection[E] {
	return Collection[E]{svc: views.NewShared(c.svc)}
}

// Atomic returns a copy-on-write view. Readers see the last committed
// state without locking; every mutation, including bulk Update and
// RemoveIf, becomes visible as a whole or not at all.
func (c Collection[E]) Atomic() Collection[E] {
	return Collection[E]{svc: views.NewAtomic(c.svc)}
}

// Filtered returns a view exposing only the elements matching pred.
// Add accepts only matching elements; Clear and RemoveIf stay inside the
// filter.
func (c Collection[E]) Filtered(pred func(E) bool) Collection[E] {
	return Collection[E]{svc: views.NewFiltered(c.svc, pred)}
}

// Sorted returns a read-only view traversing in the natural order of the
// collection's equality strategy. The sort runs per traversal.
func (c Collection[E]) Sorted() Collection[E] {
	return Collection[E]{svc: views.NewSorted(c.svc, nil)}
}

// SortedBy returns a read-only view traversing in the order of cmp.
func (c Collection[E]) SortedBy(cmp func(a, b E) int) Collection[E] {
	return Collection[E]{svc: views.NewSorted(c.svc, cmp)}
}

// Reversed returns a view traversing in the opposite order. Mutations
// pass through unchanged.
func (c Collection[E]) Reversed() Collection[E] {
	return Collection[E]{svc: views.NewReversed(c.svc)}
}

// Distinct returns a view suppressing duplicate elements during traversal
// and refusing to add an element already present.
func (c Collection[E]) Distinct() Collection[E] {
	return Collection[E]{svc: views.NewDistinct(c.svc)}
}

// Sequential returns a view forcing single-goroutine traversal even under
// an outer Parallel view.
func (c Collection[E]) Sequential() Collection[E] {
	return Collection[E]{svc: views.NewSequential(c.svc)}
}

// Parallel returns a view that partitions bulk operations across
// goroutines when the operation permits it. Consumers and predicates run
// concurrently and must be safe for concurrent use; element-wise
// operations are unaffected.
func (c Collection[E]) Parallel() Collection[E] {
	return Collection[E]{svc: views.NewParallel(c.svc, 0)}
}

// WithEquality returns a view using eq for its own lookups and for
// views derived from it. The underlying store keeps its original
// strategy.
func (c Collection[E]) WithEquality(eq equality.Equality[E]) Collection[E] {
	return Collection[E]{svc: views.NewUsing(c.svc, eq)}
}
