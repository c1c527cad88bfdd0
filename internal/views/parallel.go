package views

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/stores"
	"github.com/fastcol/go-fastcol/store"
)

// parallel dispatches splittable traversals across worker goroutines and
// joins them before returning, so ForEach stays synchronous for the caller.
// Consumers and predicates used through this view must be safe for
// concurrent invocation; delivery order is unspecified.
type parallel[E any] struct {
	target  store.Store[E]
	workers int
}

// NewParallel wraps target with concurrent traversal dispatch over up to
// workers goroutines; workers < 1 means GOMAXPROCS.
func NewParallel[E any](target store.Store[E], workers int) store.Store[E] {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallel[E]{target: target, workers: workers}
}

// panicValue carries a worker panic through the errgroup join so it can be
// re-raised on the caller's goroutine.
type panicValue struct {
	value any
	stack []byte
}

func (p *panicValue) Error() string {
	return fmt.Sprintf("fastcol: panic during parallel traversal: %v", p.value)
}

func (p *parallel[E]) Size() int {
	return p.target.Size()
}

func (p *parallel[E]) IsEmpty() bool {
	return p.target.IsEmpty()
}

func (p *parallel[E]) Contains(e E) bool {
	return p.target.Contains(e)
}

func (p *parallel[E]) Add(e E) bool {
	return p.target.Add(e)
}

func (p *parallel[E]) Remove(e E) bool {
	return p.target.Remove(e)
}

func (p *parallel[E]) Clear() {
	p.target.Clear()
}

// ForEach forks one goroutine per split part when the controller permits
// splitting. No new branch starts once termination is observed; a branch
// panic is re-raised on the caller's goroutine after all branches join.
func (p *parallel[E]) ForEach(fn func(E), ctl *store.Controller) {
	if !ctl.Splittable() {
		p.target.ForEach(fn, ctl)
		return
	}
	parts := p.target.TrySplit(p.workers)
	if len(parts) <= 1 {
		p.target.ForEach(fn, ctl)
		return
	}

	var g errgroup.Group
	for _, part := range parts {
		if ctl.Terminated() {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &panicValue{value: r, stack: debug.Stack()}
				}
			}()
			part.ForEach(fn, ctl.Sequenced())
			return nil
		})
	}
	rejoin(g.Wait())
}

// RemoveIf evaluates the predicate across split parts into a memoized
// victim set, then commits the removal in one sequential pass on the
// target. The predicate must be pure: equal elements are removed together.
func (p *parallel[E]) RemoveIf(pred func(E) bool, ctl *store.Controller) bool {
	if !ctl.Splittable() {
		return p.target.RemoveIf(pred, ctl)
	}
	parts := p.target.TrySplit(p.workers)
	if len(parts) <= 1 {
		return p.target.RemoveIf(pred, ctl)
	}

	found := make([][]E, len(parts))
	var g errgroup.Group
	for i := range parts {
		if ctl.Terminated() {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &panicValue{value: r, stack: debug.Stack()}
				}
			}()
			var local []E
			parts[i].ForEach(func(e E) {
				if pred(e) {
					local = append(local, e)
				}
			}, ctl.Sequenced())
			found[i] = local
			return nil
		})
	}
	rejoin(g.Wait())

	victims := stores.NewOSet(p.target.Equality())
	for _, local := range found {
		for _, e := range local {
			victims.Add(e)
		}
	}
	if victims.IsEmpty() {
		return false
	}
	return p.target.RemoveIf(victims.Contains, store.NewController(false))
}

func (p *parallel[E]) TrySplit(n int) []store.Store[E] {
	return p.target.TrySplit(n)
}

func (p *parallel[E]) Update(fn func(store.Store[E])) {
	p.target.Update(func(inner store.Store[E]) {
		fn(&parallel[E]{target: inner, workers: p.workers})
	})
}

func (p *parallel[E]) Equality() equality.Equality[E] {
	return p.target.Equality()
}

func (p *parallel[E]) Clone() store.Store[E] {
	return &parallel[E]{target: p.target.Clone(), workers: p.workers}
}

// rejoin re-raises a captured worker panic on the calling goroutine.
func rejoin(err error) {
	if err == nil {
		return
	}
	if pv, ok := err.(*panicValue); ok {
		panic(pv.value)
	}
	panic(err)
}
