package views

import (
	"slices"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/stores"
	"github.com/fastcol/go-fastcol/store"
)

// sorted traverses the target in comparator order without touching the
// target's native order. Each full traversal materializes and sorts the
// current elements; the view itself is structurally read-only.
type sorted[E any] struct {
	target store.Store[E]
	cmp    func(a, b E) int
}

// NewSorted wraps target with an ordered traversal. A nil cmp uses the
// target equality's Compare.
func NewSorted[E any](target store.Store[E], cmp func(a, b E) int) store.Store[E] {
	if cmp == nil {
		eq := target.Equality()
		cmp = eq.Compare
	}
	return &sorted[E]{target: target, cmp: cmp}
}

func (s *sorted[E]) Size() int {
	return s.target.Size()
}

func (s *sorted[E]) IsEmpty() bool {
	return s.target.IsEmpty()
}

func (s *sorted[E]) Contains(e E) bool {
	return s.target.Contains(e)
}

func (s *sorted[E]) Add(E) bool {
	panic(store.ErrUnmodifiable)
}

func (s *sorted[E]) Remove(E) bool {
	panic(store.ErrUnmodifiable)
}

func (s *sorted[E]) Clear() {
	panic(store.ErrUnmodifiable)
}

func (s *sorted[E]) ForEach(fn func(E), ctl *store.Controller) {
	elems := s.ordered()
	for _, e := range elems {
		if ctl.Terminated() {
			return
		}
		fn(e)
	}
}

func (s *sorted[E]) RemoveIf(func(E) bool, *store.Controller) bool {
	panic(store.ErrUnmodifiable)
}

// TrySplit materializes the sorted sequence and chunks it, so each part
// preserves the sorted relative order.
func (s *sorted[E]) TrySplit(n int) []store.Store[E] {
	return stores.NewSliceView(s.target.Equality(), s.ordered()).TrySplit(n)
}

func (s *sorted[E]) Update(func(store.Store[E])) {
	panic(store.ErrUnmodifiable)
}

func (s *sorted[E]) Equality() equality.Equality[E] {
	return s.target.Equality()
}

func (s *sorted[E]) Clone() store.Store[E] {
	return &sorted[E]{target: s.target.Clone(), cmp: s.cmp}
}

func (s *sorted[E]) ordered() []E {
	elems := collect(s.target)
	slices.SortStableFunc(elems, s.cmp)
	return elems
}
