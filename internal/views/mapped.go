package views

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// mapped projects the target's elements through a function. The mapping is
// not generally invertible, so the view is structurally read-only.
type mapped[E, R any] struct {
	target store.Store[E]
	fn     func(E) R
	eq     equality.Equality[R]
}

// NewMapped wraps target, exposing fn(e) for each element e. eq supplies
// the projected type's equality.
func NewMapped[E, R any](target store.Store[E], fn func(E) R, eq equality.Equality[R]) store.Store[R] {
	return &mapped[E, R]{target: target, fn: fn, eq: eq}
}

func (m *mapped[E, R]) Size() int {
	return m.target.Size()
}

func (m *mapped[E, R]) IsEmpty() bool {
	return m.target.IsEmpty()
}

// Contains scans the projection: the target cannot answer membership for
// the projected type.
func (m *mapped[E, R]) Contains(r R) bool {
	ctl := store.NewController(false)
	found := false
	m.target.ForEach(func(e E) {
		if m.eq.Equal(m.fn(e), r) {
			found = true
			ctl.Terminate()
		}
	}, ctl)
	return found
}

func (m *mapped[E, R]) Add(R) bool {
	panic(store.ErrUnmodifiable)
}

func (m *mapped[E, R]) Remove(R) bool {
	panic(store.ErrUnmodifiable)
}

func (m *mapped[E, R]) Clear() {
	panic(store.ErrUnmodifiable)
}

func (m *mapped[E, R]) ForEach(fn func(R), ctl *store.Controller) {
	m.target.ForEach(func(e E) {
		fn(m.fn(e))
	}, ctl)
}

func (m *mapped[E, R]) RemoveIf(func(R) bool, *store.Controller) bool {
	panic(store.ErrUnmodifiable)
}

func (m *mapped[E, R]) TrySplit(n int) []store.Store[R] {
	parts := m.target.TrySplit(n)
	out := make([]store.Store[R], len(parts))
	for i, p := range parts {
		out[i] = &mapped[E, R]{target: p, fn: m.fn, eq: m.eq}
	}
	return out
}

func (m *mapped[E, R]) Update(func(store.Store[R])) {
	panic(store.ErrUnmodifiable)
}

func (m *mapped[E, R]) Equality() equality.Equality[R] {
	return m.eq
}

func (m *mapped[E, R]) Clone() store.Store[R] {
	return &mapped[E, R]{target: m.target.Clone(), fn: m.fn, eq: m.eq}
}
