package views

import (
	"sync"
	"sync/atomic"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// unmodifiableMap rejects every mutating map operation.
type unmodifiableMap[K, V any] struct {
	target store.MapStore[K, V]
}

// NewUnmodifiableMap wraps target in a read-only map view.
func NewUnmodifiableMap[K, V any](target store.MapStore[K, V]) store.MapStore[K, V] {
	return &unmodifiableMap[K, V]{target: target}
}

func (u *unmodifiableMap[K, V]) Size() int {
	return u.target.Size()
}

func (u *unmodifiableMap[K, V]) IsEmpty() bool {
	return u.target.IsEmpty()
}

func (u *unmodifiableMap[K, V]) ContainsKey(k K) bool {
	return u.target.ContainsKey(k)
}

func (u *unmodifiableMap[K, V]) Get(k K) (V, bool) {
	return u.target.Get(k)
}

func (u *unmodifiableMap[K, V]) Put(K, V) (V, bool) {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) PutIfAbsent(K, V) (V, bool) {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) Replace(K, V) (V, bool) {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) ReplaceIf(K, V, V) bool {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) Remove(K) (V, bool) {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) RemoveMatch(K, V) bool {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) Clear() {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) ForEach(fn func(K, V), ctl *store.Controller) {
	u.target.ForEach(fn, ctl)
}

func (u *unmodifiableMap[K, V]) RemoveIf(func(K, V) bool, *store.Controller) bool {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) TrySplit(n int) []store.MapStore[K, V] {
	parts := u.target.TrySplit(n)
	out := make([]store.MapStore[K, V], len(parts))
	for i, p := range parts {
		out[i] = &unmodifiableMap[K, V]{target: p}
	}
	return out
}

func (u *unmodifiableMap[K, V]) Update(func(store.MapStore[K, V])) {
	panic(store.ErrUnmodifiable)
}

func (u *unmodifiableMap[K, V]) KeyEquality() equality.Equality[K] {
	return u.target.KeyEquality()
}

func (u *unmodifiableMap[K, V]) ValueEquality() equality.Equality[V] {
	return u.target.ValueEquality()
}

func (u *unmodifiableMap[K, V]) Clone() store.MapStore[K, V] {
	return &unmodifiableMap[K, V]{target: u.target.Clone()}
}

// sharedMap guards its target with a read-write lock shared by reference
// with every view split from it.
type sharedMap[K, V any] struct {
	target store.MapStore[K, V]
	lock   *sync.RWMutex
}

// NewSharedMap wraps target in a concurrency-safe map view with a fresh
// lock.
func NewSharedMap[K, V any](target store.MapStore[K, V]) store.MapStore[K, V] {
	return &sharedMap[K, V]{target: target, lock: new(sync.RWMutex)}
}

func (s *sharedMap[K, V]) Size() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.target.Size()
}

func (s *sharedMap[K, V]) IsEmpty() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.target.IsEmpty()
}

func (s *sharedMap[K, V]) ContainsKey(k K) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.target.ContainsKey(k)
}

func (s *sharedMap[K, V]) Get(k K) (V, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.target.Get(k)
}

func (s *sharedMap[K, V]) Put(k K, v V) (V, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.Put(k, v)
}

func (s *sharedMap[K, V]) PutIfAbsent(k K, v V) (V, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.PutIfAbsent(k, v)
}

func (s *sharedMap[K, V]) Replace(k K, v V) (V, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.Replace(k, v)
}

func (s *sharedMap[K, V]) ReplaceIf(k K, old, v V) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.ReplaceIf(k, old, v)
}

func (s *sharedMap[K, V]) Remove(k K) (V, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.Remove(k)
}

func (s *sharedMap[K, V]) RemoveMatch(k K, old V) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.RemoveMatch(k, old)
}

func (s *sharedMap[K, V]) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.target.Clear()
}

func (s *sharedMap[K, V]) ForEach(fn func(K, V), ctl *store.Controller) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	s.target.ForEach(fn, ctl)
}

func (s *sharedMap[K, V]) RemoveIf(pred func(K, V) bool, ctl *store.Controller) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.target.RemoveIf(pred, ctl)
}

func (s *sharedMap[K, V]) TrySplit(n int) []store.MapStore[K, V] {
	s.lock.RLock()
	defer s.lock.RUnlock()
	parts := s.target.TrySplit(n)
	out := make([]store.MapStore[K, V], len(parts))
	for i, p := range parts {
		out[i] = &sharedMap[K, V]{target: p, lock: s.lock}
	}
	return out
}

func (s *sharedMap[K, V]) Update(fn func(store.MapStore[K, V])) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.target.Update(fn)
}

func (s *sharedMap[K, V]) KeyEquality() equality.Equality[K] {
	return s.target.KeyEquality()
}

func (s *sharedMap[K, V]) ValueEquality() equality.Equality[V] {
	return s.target.ValueEquality()
}

func (s *sharedMap[K, V]) Clone() store.MapStore[K, V] {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return &sharedMap[K, V]{target: s.target.Clone(), lock: new(sync.RWMutex)}
}

// atomicMapGroup mirrors atomicGroup for map stores.
type atomicMapGroup[K, V any] struct {
	mu   sync.Mutex
	live store.MapStore[K, V]
	view atomic.Pointer[store.MapStore[K, V]]
}

func (g *atomicMapGroup[K, V]) read() store.MapStore[K, V] {
	return *g.view.Load()
}

func (g *atomicMapGroup[K, V]) commit() {
	snap := g.live.Clone()
	g.view.Store(&snap)
}

// atomicMap applies the all-or-nothing commit discipline to a map store.
type atomicMap[K, V any] struct {
	group *atomicMapGroup[K, V]
}

// NewAtomicMap wraps target in an atomic map view.
func NewAtomicMap[K, V any](target store.MapStore[K, V]) store.MapStore[K, V] {
	g := &atomicMapGroup[K, V]{live: target}
	snap := target.Clone()
	g.view.Store(&snap)
	return &atomicMap[K, V]{group: g}
}

func (a *atomicMap[K, V]) Size() int {
	return a.group.read().Size()
}

func (a *atomicMap[K, V]) IsEmpty() bool {
	return a.group.read().IsEmpty()
}

func (a *atomicMap[K, V]) ContainsKey(k K) bool {
	return a.group.read().ContainsKey(k)
}

func (a *atomicMap[K, V]) Get(k K) (V, bool) {
	return a.group.read().Get(k)
}

func (a *atomicMap[K, V]) Put(k K, v V) (V, bool) {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	prev, replaced := g.live.Put(k, v)
	g.commit()
	return prev, replaced
}

func (a *atomicMap[K, V]) PutIfAbsent(k K, v V) (V, bool) {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	current, inserted := g.live.PutIfAbsent(k, v)
	if inserted {
		g.commit()
	}
	return current, inserted
}

func (a *atomicMap[K, V]) Replace(k K, v V) (V, bool) {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	prev, replaced := g.live.Replace(k, v)
	if replaced {
		g.commit()
	}
	return prev, replaced
}

func (a *atomicMap[K, V]) ReplaceIf(k K, old, v V) bool {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.live.ReplaceIf(k, old, v) {
		return false
	}
	g.commit()
	return true
}

func (a *atomicMap[K, V]) Remove(k K) (V, bool) {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	prev, removed := g.live.Remove(k)
	if removed {
		g.commit()
	}
	return prev, removed
}

func (a *atomicMap[K, V]) RemoveMatch(k K, old V) bool {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.live.RemoveMatch(k, old) {
		return false
	}
	g.commit()
	return true
}

func (a *atomicMap[K, V]) Clear() {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	g.live.Clear()
	g.commit()
}

func (a *atomicMap[K, V]) ForEach(fn func(K, V), ctl *store.Controller) {
	a.group.read().ForEach(fn, ctl)
}

// RemoveIf applies the predicate to a private copy and swaps it in only
// when every predicate call returned.
func (a *atomicMap[K, V]) RemoveIf(pred func(K, V) bool, ctl *store.Controller) bool {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	work := g.live.Clone()
	if !work.RemoveIf(pred, ctl) {
		return false
	}
	g.live = work
	g.commit()
	return true
}

func (a *atomicMap[K, V]) TrySplit(n int) []store.MapStore[K, V] {
	return a.group.read().TrySplit(n)
}

// Update runs fn on a private copy and commits it as one action.
func (a *atomicMap[K, V]) Update(fn func(store.MapStore[K, V])) {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	work := g.live.Clone()
	work.Update(fn)
	g.live = work
	g.commit()
}

func (a *atomicMap[K, V]) KeyEquality() equality.Equality[K] {
	return a.group.read().KeyEquality()
}

func (a *atomicMap[K, V]) ValueEquality() equality.Equality[V] {
	return a.group.read().ValueEquality()
}

func (a *atomicMap[K, V]) Clone() store.MapStore[K, V] {
	return a.group.read().Clone()
}
