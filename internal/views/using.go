package views

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// using overrides the equality strategy reported to downstream views.
// Membership tests at this level scan with the override; Add delegates
// unchanged because the target's internal hashing cannot be rebound.
type using[E any] struct {
	target store.Store[E]
	eq     equality.Equality[E]
}

// NewUsing wraps target, overriding its equality for view-level semantics
// (contains, distinct, sorted).
func NewUsing[E any](target store.Store[E], eq equality.Equality[E]) store.Store[E] {
	return &using[E]{target: target, eq: eq}
}

func (u *using[E]) Size() int {
	return u.target.Size()
}

func (u *using[E]) IsEmpty() bool {
	return u.target.IsEmpty()
}

func (u *using[E]) Contains(e E) bool {
	ctl := store.NewController(false)
	found := false
	u.target.ForEach(func(x E) {
		if u.eq.Equal(x, e) {
			found = true
			ctl.Terminate()
		}
	}, ctl)
	return found
}

func (u *using[E]) Add(e E) bool {
	return u.target.Add(e)
}

// Remove scans for the first element equal under the override, then removes
// that element through the target.
func (u *using[E]) Remove(e E) bool {
	ctl := store.NewController(false)
	var match E
	found := false
	u.target.ForEach(func(x E) {
		if u.eq.Equal(x, e) {
			match = x
			found = true
			ctl.Terminate()
		}
	}, ctl)
	if !found {
		return false
	}
	return u.target.Remove(match)
}

func (u *using[E]) Clear() {
	u.target.Clear()
}

func (u *using[E]) ForEach(fn func(E), ctl *store.Controller) {
	u.target.ForEach(fn, ctl)
}

func (u *using[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	return u.target.RemoveIf(pred, ctl)
}

func (u *using[E]) TrySplit(n int) []store.Store[E] {
	parts := u.target.TrySplit(n)
	out := make([]store.Store[E], len(parts))
	for i, p := range parts {
		out[i] = &using[E]{target: p, eq: u.eq}
	}
	return out
}

func (u *using[E]) Update(fn func(store.Store[E])) {
	u.target.Update(func(inner store.Store[E]) {
		fn(&using[E]{target: inner, eq: u.eq})
	})
}

func (u *using[E]) Equality() equality.Equality[E] {
	return u.eq
}

func (u *using[E]) Clone() store.Store[E] {
	return &using[E]{target: u.target.Clone(), eq: u.eq}
}
