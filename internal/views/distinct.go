package views

import (
	"fmt"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/stores"
	"github.com/fastcol/go-fastcol/store"
)

// distinct suppresses duplicate elements (per the target's equality) during
// traversal and refuses to add an element already present.
type distinct[E any] struct {
	target store.Store[E]
}

// NewDistinct wraps target with duplicate suppression.
func NewDistinct[E any](target store.Store[E]) store.Store[E] {
	return &distinct[E]{target: target}
}

func (d *distinct[E]) Size() int {
	n := 0
	d.ForEach(func(E) {
		n++
	}, store.NewController(false))
	return n
}

func (d *distinct[E]) IsEmpty() bool {
	return d.target.IsEmpty()
}

func (d *distinct[E]) Contains(e E) bool {
	return d.target.Contains(e)
}

func (d *distinct[E]) Add(e E) bool {
	if d.target.Contains(e) {
		return false
	}
	return d.target.Add(e)
}

// Remove erases every occurrence of e, not only the first.
func (d *distinct[E]) Remove(e E) bool {
	eq := d.target.Equality()
	return d.target.RemoveIf(func(have E) bool {
		return eq.Equal(have, e)
	}, store.NewController(false))
}

func (d *distinct[E]) Clear() {
	d.target.Clear()
}

func (d *distinct[E]) ForEach(fn func(E), ctl *store.Controller) {
	seen := stores.NewOSet(d.target.Equality())
	d.target.ForEach(func(e E) {
		if seen.Add(e) {
			fn(e)
		}
	}, ctl)
}

func (d *distinct[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	return d.target.RemoveIf(pred, ctl)
}

// TrySplit refuses to partition: duplicates of one element could span
// parts, and per-part suppression would deliver them more than once.
func (d *distinct[E]) TrySplit(n int) []store.Store[E] {
	if n < 1 {
		panic(fmt.Sprintf("fastcol: invalid split count %d", n))
	}
	return []store.Store[E]{NewUnmodifiable[E](d)}
}

func (d *distinct[E]) Update(fn func(store.Store[E])) {
	d.target.Update(func(inner store.Store[E]) {
		fn(&distinct[E]{target: inner})
	})
}

func (d *distinct[E]) Equality() equality.Equality[E] {
	return d.target.Equality()
}

func (d *distinct[E]) Clone() store.Store[E] {
	return &distinct[E]{target: d.target.Clone()}
}
