package views

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// filtered exposes only the target elements matching a predicate. Adding a
// non-matching element is a no-op returning false, so a filtered view can
// never hide an element it just inserted.
type filtered[E any] struct {
	target store.Store[E]
	pred   func(E) bool
}

// NewFiltered wraps target, exposing the elements matching pred.
func NewFiltered[E any](target store.Store[E], pred func(E) bool) store.Store[E] {
	return &filtered[E]{target: target, pred: pred}
}

func (f *filtered[E]) Size() int {
	n := 0
	f.ForEach(func(E) {
		n++
	}, store.NewController(false))
	return n
}

func (f *filtered[E]) IsEmpty() bool {
	ctl := store.NewController(false)
	empty := true
	f.target.ForEach(func(e E) {
		if f.pred(e) {
			empty = false
			ctl.Terminate()
		}
	}, ctl)
	return empty
}

func (f *filtered[E]) Contains(e E) bool {
	return f.pred(e) && f.target.Contains(e)
}

func (f *filtered[E]) Add(e E) bool {
	if !f.pred(e) {
		return false
	}
	return f.target.Add(e)
}

func (f *filtered[E]) Remove(e E) bool {
	if !f.pred(e) {
		return false
	}
	return f.target.Remove(e)
}

// Clear removes only the matching elements; the rest of the target is not
// visible through this view and stays.
func (f *filtered[E]) Clear() {
	f.target.RemoveIf(f.pred, store.NewController(false))
}

func (f *filtered[E]) ForEach(fn func(E), ctl *store.Controller) {
	f.target.ForEach(func(e E) {
		if f.pred(e) {
			fn(e)
		}
	}, ctl)
}

func (f *filtered[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	return f.target.RemoveIf(func(e E) bool {
		return f.pred(e) && pred(e)
	}, ctl)
}

func (f *filtered[E]) TrySplit(n int) []store.Store[E] {
	parts := f.target.TrySplit(n)
	out := make([]store.Store[E], len(parts))
	for i, p := range parts {
		out[i] = &filtered[E]{target: p, pred: f.pred}
	}
	return out
}

func (f *filtered[E]) Update(fn func(store.Store[E])) {
	f.target.Update(func(inner store.Store[E]) {
		fn(&filtered[E]{target: inner, pred: f.pred})
	})
}

func (f *filtered[E]) Equality() equality.Equality[E] {
	return f.target.Equality()
}

func (f *filtered[E]) Clone() store.Store[E] {
	return &filtered[E]{target: f.target.Clone(), pred: f.pred}
}
