package stores

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// OSet is an insertion-ordered hash set built on the ordered map's node
// machinery, the same way the map's key view behaves.
type OSet[E any] struct {
	m store.MapStore[E, struct{}]
}

// NewOSet returns an empty ordered set using eq for membership.
func NewOSet[E any](eq equality.Equality[E]) *OSet[E] {
	return &OSet[E]{m: NewOMap[E, struct{}](eq, equality.Any[struct{}]())}
}

func (s *OSet[E]) Size() int {
	return s.m.Size()
}

func (s *OSet[E]) IsEmpty() bool {
	return s.m.IsEmpty()
}

func (s *OSet[E]) Contains(e E) bool {
	return s.m.ContainsKey(e)
}

// Add inserts e, returning false when an equal element is already present.
func (s *OSet[E]) Add(e E) bool {
	_, inserted := s.m.PutIfAbsent(e, struct{}{})
	return inserted
}

func (s *OSet[E]) Remove(e E) bool {
	_, removed := s.m.Remove(e)
	return removed
}

func (s *OSet[E]) Clear() {
	s.m.Clear()
}

func (s *OSet[E]) ForEach(fn func(E), ctl *store.Controller) {
	s.m.ForEach(func(e E, _ struct{}) {
		fn(e)
	}, ctl)
}

func (s *OSet[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	return s.m.RemoveIf(func(e E, _ struct{}) bool {
		return pred(e)
	}, ctl)
}

func (s *OSet[E]) TrySplit(n int) []store.Store[E] {
	segs := s.m.TrySplit(n)
	parts := make([]store.Store[E], len(segs))
	for i, seg := range segs {
		parts[i] = &OSet[E]{m: seg}
	}
	return parts
}

// Update runs fn directly: an unshared store offers no extra protection.
func (s *OSet[E]) Update(fn func(store.Store[E])) {
	fn(s)
}

func (s *OSet[E]) Equality() equality.Equality[E] {
	return s.m.KeyEquality()
}

func (s *OSet[E]) Clone() store.Store[E] {
	return &OSet[E]{m: s.m.Clone()}
}
