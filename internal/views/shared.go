package views

import (
	"sync"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// shared guards its target with a read-write lock. The lock instance is
// shared by reference with every sub-view produced by TrySplit, so all
// descendants of one Shared call mutually exclude correctly. Go's RWMutex
// blocks new readers once a writer is waiting, giving writers priority.
type shared[E any] struct {
	target store.Store[E]
	lock   *sync.RWMutex
}

// NewShared wraps target in a concurrency-safe view with a fresh lock.
func NewShared[E any](target store.Store[E]) store.Store[E] {
	return &shared[E]{target: target, lock: new(sync.RWMutex)}
}

func (s *shared[E]) Size() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.target.Size()
}

func (s *shared[E]) IsEmpty() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.target.IsEmpty()
}

func (s *shared[E]) Contains(e E) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.target.Contains(e)
}

func (s *shared[E]) Add(e E) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.Add(e)
}

func (s *shared[E]) Remove(e E) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.Remove(e)
}

func (s *shared[E]) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.target.Clear()
}

// ForEach holds the read lock for the whole traversal, so the consumer
// observes one consistent state. The deferred unlock runs even when the
// consumer panics.
func (s *shared[E]) ForEach(fn func(E), ctl *store.Controller) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	s.target.ForEach(fn, ctl)
}

func (s *shared[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.RemoveIf(pred, ctl)
}

// TrySplit wraps each part with the same lock instance, not a fresh one:
// concurrent traversals of sibling parts still exclude writers to any part
// of the original collection.
func (s *shared[E]) TrySplit(n int) []store.Store[E] {
	s.lock.RLock()
	defer s.lock.RUnlock()
	parts := s.target.TrySplit(n)
	out := make([]store.Store[E], len(parts))
	for i, p := range parts {
		out[i] = &shared[E]{target: p, lock: s.lock}
	}
	return out
}

// Update runs fn under one write lock so the whole action is exclusive.
func (s *shared[E]) Update(fn func(store.Store[E])) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.target.Update(fn)
}

func (s *shared[E]) Equality() equality.Equality[E] {
	return s.target.Equality()
}

// Clone copies under the read lock; the copy gets its own lock.
func (s *shared[E]) Clone() store.Store[E] {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return &shared[E]{target: s.target.Clone(), lock: new(sync.RWMutex)}
}
