package views

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// unmodifiable rejects every mutating operation and passes reads through.
type unmodifiable[E any] struct {
	target store.Store[E]
}

// NewUnmodifiable wraps target in a read-only view.
func NewUnmodifiable[E any](target store.Store[E]) store.Store[E] {
	return &unmodifiable[E]{target: target}
}

func (u *unmodifiable[E]) Size() int {
	return u.target.Size()
}

func (u *unmodifiable[E]) IsEmpty() bool {
	return u.target.IsEmpty()
}

func (u *unmodifiable[E]) Contains(e E) bool {
	return u.target.Contains(e)
}

func (u *unmodifiable[E]) Add(E) bool {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiable[E]) Remove(E) bool {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiable[E]) Clear() {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiable[E]) ForEach(fn func(E), ctl *store.Controller) {
	u.target.ForEach(fn, ctl)
}

func (u *unmodifiable[E]) RemoveIf(func(E) bool, *store.Controller) bool {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiable[E]) TrySplit(n int) []store.Store[E] {
	parts := u.target.TrySplit(n)
	out := make([]store.Store[E], len(parts))
	for i, p := range parts {
		out[i] = &unmodifiable[E]{target: p}
	}
	return out
}

func (u *unmodifiable[E]) Update(func(store.Store[E])) {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiable[E]) Equality() equality.Equality[E] {
	return u.target.Equality()
}

func (u *unmodifiable[E]) Clone() store.Store[E] {
	return &unmodifiable[E]{target: u.target.Clone()}
}
