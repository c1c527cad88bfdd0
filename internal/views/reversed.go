package views

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// reversed flips the target's traversal order. Mutations delegate
// unchanged.
type reversed[E any] struct {
	target store.Store[E]
}

// NewReversed wraps target with a reverse-order traversal.
func NewReversed[E any](target store.Store[E]) store.Store[E] {
	return &reversed[E]{target: target}
}

func (r *reversed[E]) Size() int {
	return r.target.Size()
}

func (r *reversed[E]) IsEmpty() bool {
	return r.target.IsEmpty()
}

func (r *reversed[E]) Contains(e E) bool {
	return r.target.Contains(e)
}

func (r *reversed[E]) Add(e E) bool {
	return r.target.Add(e)
}

func (r *reversed[E]) Remove(e E) bool {
	return r.target.Remove(e)
}

func (r *reversed[E]) Clear() {
	r.target.Clear()
}

func (r *reversed[E]) ForEach(fn func(E), ctl *store.Controller) {
	elems := collect(r.target)
	for i := len(elems) - 1; i >= 0; i-- {
		if ctl.Terminated() {
			return
		}
		fn(elems[i])
	}
}

func (r *reversed[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	return r.target.RemoveIf(pred, ctl)
}

// TrySplit reverses both the part sequence and each part, so concatenating
// the parts' traversals equals the view's own order.
func (r *reversed[E]) TrySplit(n int) []store.Store[E] {
	parts := r.target.TrySplit(n)
	out := make([]store.Store[E], len(parts))
	for i, p := range parts {
		out[len(parts)-1-i] = &reversed[E]{target: p}
	}
	return out
}

func (r *reversed[E]) Update(fn func(store.Store[E])) {
	r.target.Update(func(inner store.Store[E]) {
		fn(&reversed[E]{target: inner})
	})
}

func (r *reversed[E]) Equality() equality.Equality[E] {
	return r.target.Equality()
}

func (r *reversed[E]) Clone() store.Store[E] {
	return &reversed[E]{target: r.target.Clone()}
}
