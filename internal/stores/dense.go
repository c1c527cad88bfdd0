// Package stores holds the concrete backing stores: a slice-backed ordered
// table and an insertion-ordered hash map/set pair. Views in
// internal/views wrap these through the store contracts.
package stores

import (
	"fmt"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// Dense is a resizable slice-backed sequence preserving insertion order and
// permitting duplicates. It backs the Table facade.
type Dense[E any] struct {
	eq    equality.Equality[E]
	elems []E
	mods  uint64
}

// NewDense returns an empty dense table using eq for membership tests.
func NewDense[E any](eq equality.Equality[E]) *Dense[E] {
	return &Dense[E]{eq: eq}
}

func (d *Dense[E]) Size() int {
	return len(d.elems)
}

func (d *Dense[E]) IsEmpty() bool {
	return len(d.elems) == 0
}

func (d *Dense[E]) Contains(e E) bool {
	return d.IndexOf(e) >= 0
}

func (d *Dense[E]) Add(e E) bool {
	d.elems = append(d.elems, e)
	d.mods++
	return true
}

// Remove deletes the first element equal to e, preserving the order of the
// rest.
func (d *Dense[E]) Remove(e E) bool {
	i := d.IndexOf(e)
	if i < 0 {
		return false
	}
	d.RemoveAt(i)
	return true
}

func (d *Dense[E]) Clear() {
	d.elems = nil
	d.mods++
}

// ForEach delivers elements in insertion order. Structural mutation during
// the traversal is detected best effort and panics with
// store.ErrConcurrentModification.
func (d *Dense[E]) ForEach(fn func(E), ctl *store.Controller) {
	start := d.mods
	for i := 0; i < len(d.elems); i++ {
		if ctl.Terminated() {
			return
		}
		fn(d.elems[i])
		if d.mods != start {
			panic(store.ErrConcurrentModification)
		}
	}
}

// RemoveIf rebuilds the sequence without the matching elements. The new
// sequence is committed only after every predicate call returned, so a
// panicking predicate leaves the table unchanged.
func (d *Dense[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	kept := make([]E, 0, len(d.elems))
	changed := false
	for i, e := range d.elems {
		if ctl.Terminated() {
			kept = append(kept, d.elems[i:]...)
			break
		}
		if pred(e) {
			changed = true
			continue
		}
		kept = append(kept, e)
	}
	if !changed {
		return false
	}
	d.elems = kept
	d.mods++
	return true
}

// TrySplit partitions the table into up to n contiguous index ranges, each
// preserving relative order. Parts are read-only projections valid until
// the table's next structural mutation.
func (d *Dense[E]) TrySplit(n int) []store.Store[E] {
	if n < 1 {
		panic(fmt.Sprintf("fastcol: invalid split count %d", n))
	}
	size := len(d.elems)
	if n == 1 || size < 2 {
		return []store.Store[E]{&denseRange[E]{eq: d.eq, elems: d.elems}}
	}
	if n > size {
		n = size
	}
	parts := make([]store.Store[E], 0, n)
	chunk := (size + n - 1) / n
	for lo := 0; lo < size; lo += chunk {
		hi := lo + chunk
		if hi > size {
			hi = size
		}
		parts = append(parts, &denseRange[E]{eq: d.eq, elems: d.elems[lo:hi]})
	}
	return parts
}

// Update runs fn directly: an unshared store offers no extra protection.
func (d *Dense[E]) Update(fn func(store.Store[E])) {
	fn(d)
}

func (d *Dense[E]) Equality() equality.Equality[E] {
	return d.eq
}

func (d *Dense[E]) Clone() store.Store[E] {
	elems := make([]E, len(d.elems))
	copy(elems, d.elems)
	return &Dense[E]{eq: d.eq, elems: elems}
}

// Get returns the element at index i.
func (d *Dense[E]) Get(i int) E {
	d.check(i)
	return d.elems[i]
}

// Set replaces the element at index i, returning the previous element.
func (d *Dense[E]) Set(i int, e E) E {
	d.check(i)
	prev := d.elems[i]
	d.elems[i] = e
	return prev
}

// Insert places e at index i, shifting later elements right. i may equal
// Size to append.
func (d *Dense[E]) Insert(i int, e E) {
	if i < 0 || i > len(d.elems) {
		panic(fmt.Sprintf("fastcol: index %d out of range [0..%d]", i, len(d.elems)))
	}
	var zero E
	d.elems = append(d.elems, zero)
	copy(d.elems[i+1:], d.elems[i:])
	d.elems[i] = e
	d.mods++
}

// RemoveAt deletes and returns the element at index i.
func (d *Dense[E]) RemoveAt(i int) E {
	d.check(i)
	prev := d.elems[i]
	copy(d.elems[i:], d.elems[i+1:])
	var zero E
	d.elems[len(d.elems)-1] = zero
	d.elems = d.elems[:len(d.elems)-1]
	d.mods++
	return prev
}

// IndexOf returns the index of the first element equal to e, or -1.
func (d *Dense[E]) IndexOf(e E) int {
	for i, x := range d.elems {
		if d.eq.Equal(x, e) {
			return i
		}
	}
	return -1
}

func (d *Dense[E]) check(i int) {
	if i < 0 || i >= len(d.elems) {
		panic(fmt.Sprintf("fastcol: index %d out of range [0..%d)", i, len(d.elems)))
	}
}

// NewSliceView returns a read-only store over elems, preserving slice
// order. The caller must not mutate elems afterwards.
func NewSliceView[E any](eq equality.Equality[E], elems []E) store.Store[E] {
	return &denseRange[E]{eq: eq, elems: elems}
}

// denseRange is a read-only projection over a contiguous slice of a dense
// table, produced by TrySplit.
type denseRange[E any] struct {
	eq    equality.Equality[E]
	elems []E
}

func (r *denseRange[E]) Size() int {
	return len(r.elems)
}

func (r *denseRange[E]) IsEmpty() bool {
	return len(r.elems) == 0
}

func (r *denseRange[E]) Contains(e E) bool {
	for _, x := range r.elems {
		if r.eq.Equal(x, e) {
			return true
		}
	}
	return false
}

func (r *denseRange[E]) Add(E) bool {
	panic(store.ErrUnmodifiable)
}

func (r *denseRange[E]) Remove(E) bool {
	panic(store.ErrUnmodifiable)
}

func (r *denseRange[E]) Clear() {
	panic(store.ErrUnmodifiable)
}

func (r *denseRange[E]) ForEach(fn func(E), ctl *store.Controller) {
	for _, e := range r.elems {
		if ctl.Terminated() {
			return
		}
		fn(e)
	}
}

func (r *denseRange[E]) RemoveIf(func(E) bool, *store.Controller) bool {
	panic(store.ErrUnmodifiable)
}

func (r *denseRange[E]) TrySplit(n int) []store.Store[E] {
	if n < 1 {
		panic(fmt.Sprintf("fastcol: invalid split count %d", n))
	}
	size := len(r.elems)
	if n == 1 || size < 2 {
		return []store.Store[E]{r}
	}
	if n > size {
		n = size
	}
	parts := make([]store.Store[E], 0, n)
	chunk := (size + n - 1) / n
	for lo := 0; lo < size; lo += chunk {
		hi := lo + chunk
		if hi > size {
			hi = size
		}
		parts = append(parts, &denseRange[E]{eq: r.eq, elems: r.elems[lo:hi]})
	}
	return parts
}

func (r *denseRange[E]) Update(func(store.Store[E])) {
	panic(store.ErrUnmodifiable)
}

func (r *denseRange[E]) Equality() equality.Equality[E] {
	return r.eq
}

func (r *denseRange[E]) Clone() store.Store[E] {
	elems := make([]E, len(r.elems))
	copy(elems, r.elems)
	return &Dense[E]{eq: r.eq, elems: elems}
}
