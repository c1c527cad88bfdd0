package fastcol

import (
	"sync"
	"sync/atomic"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/views"
	"github.com/fastcol/go-fastcol/store"
)

// DoWhile applies pred to the elements until it returns false and reports
// whether every visited element passed. Under a Parallel view branches
// already running may deliver a bounded number of further elements after
// the first failure; no new branch starts.
func (c Collection[E]) DoWhile(pred func(E) bool) bool {
	var failed atomic.Bool
	ctl := store.NewController(true)
	c.svc.ForEach(func(e E) {
		if !pred(e) {
			failed.Store(true)
			ctl.Terminate()
		}
	}, ctl)
	return !failed.Load()
}

// Reduce folds the elements pairwise with op and reports false on an
// empty collection. Under a Parallel view op must be associative and
// commutative: branch deliveries interleave arbitrarily.
func (c Collection[E]) Reduce(op func(a, b E) E) (E, bool) {
	var mu sync.Mutex
	var acc E
	have := false
	c.svc.ForEach(func(e E) {
		mu.Lock()
		if !have {
			acc = e
			have = true
		} else {
			acc = op(acc, e)
		}
		mu.Unlock()
	}, store.NewController(true))
	return acc, have
}

// Any returns an arbitrary element, terminating the traversal as soon as
// one is found, and reports false on an empty collection.
func (c Collection[E]) Any() (E, bool) {
	var mu sync.Mutex
	var got E
	found := false
	ctl := store.NewController(true)
	c.svc.ForEach(func(e E) {
		mu.Lock()
		if !found {
			got = e
			found = true
		}
		mu.Unlock()
		ctl.Terminate()
	}, ctl)
	mu.Lock()
	defer mu.Unlock()
	return got, found
}

// Count returns the number of elements matching pred.
func (c Collection[E]) Count(pred func(E) bool) int {
	var n atomic.Int64
	c.svc.ForEach(func(e E) {
		if pred(e) {
			n.Add(1)
		}
	}, store.NewController(true))
	return int(n.Load())
}

// Fold reduces c sequentially into an accumulator of a different type.
func Fold[E, A any](c Collection[E], init A, fn func(A, E) A) A {
	acc := init
	c.svc.ForEach(func(e E) {
		acc = fn(acc, e)
	}, store.NewController(false))
	return acc
}

// Mapped returns a read-only view of c with fn applied to every element,
// compared with the standard equality of the result type.
func Mapped[E any, R comparable](c Collection[E], fn func(E) R) Collection[R] {
	return MappedWith(c, fn, equality.Standard[R]())
}

// MappedWith is Mapped with an explicit equality strategy for the result
// type.
func MappedWith[E, R any](c Collection[E], fn func(E) R, eq equality.Equality[R]) Collection[R] {
	return Collection[R]{svc: views.NewMapped(c.svc, fn, eq)}
}
