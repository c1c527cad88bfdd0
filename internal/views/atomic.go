package views

import (
	"sync"
	"sync/atomic"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

// atomicGroup is the exclusivity domain of one Atomic call: a writer mutex
// serializing all mutating actions, the live store those actions apply to,
// and the last committed deep copy, swapped in wholesale after each action.
// Readers load the committed copy without locking, so they observe either
// the fully-prior or the fully-post state of every action, never an
// intermediate one.
type atomicGroup[E any] struct {
	mu   sync.Mutex
	live store.Store[E]
	view atomic.Pointer[store.Store[E]]
}

func newAtomicGroup[E any](target store.Store[E]) *atomicGroup[E] {
	g := &atomicGroup[E]{live: target}
	snap := target.Clone()
	g.view.Store(&snap)
	return g
}

// read returns the last committed state.
func (g *atomicGroup[E]) read() store.Store[E] {
	return *g.view.Load()
}

// commit publishes a fresh copy of the live store. Callers hold g.mu.
func (g *atomicGroup[E]) commit() {
	snap := g.live.Clone()
	g.view.Store(&snap)
}

// atomicView applies the group's all-or-nothing discipline to every
// operation.
type atomicView[E any] struct {
	group *atomicGroup[E]
}

// NewAtomic wraps target in an atomic view. Single-element mutations
// commit individually; RemoveIf and Update commit as one action, and a
// panicking predicate or action leaves both the live and the published
// state untouched.
func NewAtomic[E any](target store.Store[E]) store.Store[E] {
	return &atomicView[E]{group: newAtomicGroup(target)}
}

func (a *atomicView[E]) Size() int {
	return a.group.read().Size()
}

func (a *atomicView[E]) IsEmpty() bool {
	return a.group.read().IsEmpty()
}

func (a *atomicView[E]) Contains(e E) bool {
	return a.group.read().Contains(e)
}

func (a *atomicView[E]) Add(e E) bool {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.live.Add(e) {
		return false
	}
	g.commit()
	return true
}

func (a *atomicView[E]) Remove(e E) bool {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.live.Remove(e) {
		return false
	}
	g.commit()
	return true
}

func (a *atomicView[E]) Clear() {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	g.live.Clear()
	g.commit()
}

// ForEach traverses the committed copy: one consistent state, regardless of
// concurrent writers.
func (a *atomicView[E]) ForEach(fn func(E), ctl *store.Controller) {
	a.group.read().ForEach(fn, ctl)
}

// RemoveIf applies the predicate to a private copy and swaps it in only
// when every predicate call returned, making the whole removal one action.
func (a *atomicView[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
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

// TrySplit partitions the committed copy. Parts stay valid indefinitely:
// commits replace the published store, they never mutate it.
func (a *atomicView[E]) TrySplit(n int) []store.Store[E] {
	return a.group.read().TrySplit(n)
}

// Update runs fn on a private copy and commits it as one action.
func (a *atomicView[E]) Update(fn func(store.Store[E])) {
	g := a.group
	g.mu.Lock()
	defer g.mu.Unlock()
	work := g.live.Clone()
	work.Update(fn)
	g.live = work
	g.commit()
}

func (a *atomicView[E]) Equality() equality.Equality[E] {
	return a.group.read().Equality()
}

func (a *atomicView[E]) Clone() store.Store[E] {
	return a.group.read().Clone()
}
