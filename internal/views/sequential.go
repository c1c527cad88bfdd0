package views

import (
	"fmt"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// sequential forces single-goroutine delivery by downgrading every
// traversal controller, whatever the caller requested.
type sequential[E any] struct {
	target store.Store[E]
}

// NewSequential wraps target so traversals never split.
func NewSequential[E any](target store.Store[E]) store.Store[E] {
	return &sequential[E]{target: target}
}

func (s *sequential[E]) Size() int {
	return s.target.Size()
}

func (s *sequential[E]) IsEmpty() bool {
	return s.target.IsEmpty()
}

func (s *sequential[E]) Contains(e E) bool {
	return s.target.Contains(e)
}

func (s *sequential[E]) Add(e E) bool {
	return s.target.Add(e)
}

func (s *sequential[E]) Remove(e E) bool {
	return s.target.Remove(e)
}

func (s *sequential[E]) Clear() {
	s.target.Clear()
}

func (s *sequential[E]) ForEach(fn func(E), ctl *store.Controller) {
	s.target.ForEach(fn, ctl.Sequenced())
}

func (s *sequential[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	return s.target.RemoveIf(pred, ctl.Sequenced())
}

// TrySplit declines to partition, keeping descendants of this view
// sequential even when a parallel view wraps it.
func (s *sequential[E]) TrySplit(n int) []store.Store[E] {
	if n < 1 {
		panic(fmt.Sprintf("fastcol: invalid split count %d", n))
	}
	return []store.Store[E]{NewUnmodifiable[E](s)}
}

func (s *sequential[E]) Update(fn func(store.Store[E])) {
	s.target.Update(func(inner store.Store[E]) {
		fn(&sequential[E]{target: inner})
	})
}

func (s *sequential[E]) Equality() equality.Equality[E] {
	return s.target.Equality()
}

func (s *sequential[E]) Clone() store.Store[E] {
	return &sequential[E]{target: s.target.Clone()}
}
