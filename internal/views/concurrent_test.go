package views

import (
	"sync"
	"testing"

	"github.com/fastcol/go-fastcol/store"
)

// TestShared_ConcurrentAdds hammers one shared view from many writers.
func TestShared_ConcurrentAdds(t *testing.T) {
	s := NewShared(newDense())

	const writers = 8
	const perWriter = 200
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Add(base*perWriter + i)
			}
		}(w)
	}
	wg.Wait()

	if got := s.Size(); got != writers*perWriter {
		t.Errorf("Size() = %d, want %d", got, writers*perWriter)
	}
}

// TestShared_NoTornReads verifies a traversal never observes a bulk
// update half-applied.
func TestShared_NoTornReads(t *testing.T) {
	const k = 64
	s := NewShared(newDense())
	s.Update(func(inner store.Store[int]) {
		for i := 0; i < k; i++ {
			inner.Add(0)
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for gen := 1; gen <= 50; gen++ {
			s.Update(func(inner store.Store[int]) {
				inner.Clear()
				for i := 0; i < k; i++ {
					inner.Add(gen)
				}
			})
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		first := -1
		uniform := true
		n := 0
		s.ForEach(func(v int) {
			if first == -1 {
				first = v
			} else if v != first {
				uniform = false
			}
			n++
		}, store.NewController(false))
		if !uniform || n != k {
			t.Fatalf("torn read: %d elements, uniform=%v", n, uniform)
		}
	}
}

// TestShared_SplitSharesLock verifies split parts traverse under the
// parent's lock and cover every element.
func TestShared_SplitSharesLock(t *testing.T) {
	target := newDense()
	for i := 0; i < 100; i++ {
		target.Add(i)
	}
	s := NewShared(target)

	parts := s.TrySplit(4)
	total := 0
	for _, p := range parts {
		total += p.Size()
	}
	if total != 100 {
		t.Errorf("parts cover %d elements, want 100", total)
	}
}

// TestShared_UnlocksAfterConsumerPanic verifies a panicking consumer does
// not leave the lock held.
func TestShared_UnlocksAfterConsumerPanic(t *testing.T) {
	s := NewShared(newDense(1, 2, 3))

	func() {
		defer func() { recover() }()
		s.ForEach(func(int) {
			panic("boom")
		}, store.NewController(false))
	}()

	// A write would deadlock if the read lock leaked.
	if !s.Add(4) {
		t.Error("Add(4) = false after recovered panic, want true")
	}
}

// TestAtomic_AllOrNothing verifies readers see either the old or the new
// state of a bulk update, never a mix.
func TestAtomic_AllOrNothing(t *testing.T) {
	const k = 64
	a := NewAtomic(newDense())
	a.Update(func(inner store.Store[int]) {
		for i := 0; i < k; i++ {
			inner.Add(0)
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for gen := 1; gen <= 50; gen++ {
			a.Update(func(inner store.Store[int]) {
				inner.Clear()
				for i := 0; i < k; i++ {
					inner.Add(gen)
				}
			})
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		first := -1
		uniform := true
		n := 0
		a.ForEach(func(v int) {
			if first == -1 {
				first = v
			} else if v != first {
				uniform = false
			}
			n++
		}, store.NewController(false))
		if !uniform || n != k {
			t.Fatalf("partial update visible: %d elements, uniform=%v", n, uniform)
		}
	}
}

// TestAtomic_PanicLeavesStateUntouched verifies a panicking bulk action
// rolls back completely.
func TestAtomic_PanicLeavesStateUntouched(t *testing.T) {
	a := NewAtomic(newDense(1, 2, 3))

	func() {
		defer func() { recover() }()
		a.Update(func(inner store.Store[int]) {
			inner.Clear()
			panic("boom")
		})
	}()

	if got := a.Size(); got != 3 {
		t.Errorf("Size() = %d after panicking update, want 3", got)
	}

	func() {
		defer func() { recover() }()
		a.RemoveIf(func(v int) bool {
			if v == 2 {
				panic("boom")
			}
			return true
		}, store.NewController(false))
	}()

	if got := a.Size(); got != 3 {
		t.Errorf("Size() = %d after panicking RemoveIf, want 3", got)
	}
}

// TestAtomic_SplitStableUnderWrites verifies split parts keep serving the
// snapshot they were taken from.
func TestAtomic_SplitStableUnderWrites(t *testing.T) {
	a := NewAtomic(newDense(1, 2, 3, 4))

	parts := a.TrySplit(2)
	a.Clear()

	total := 0
	for _, p := range parts {
		total += p.Size()
	}
	if total != 4 {
		t.Errorf("parts cover %d elements after Clear, want 4", total)
	}
	if got := a.Size(); got != 0 {
		t.Errorf("Size() = %d after Clear, want 0", got)
	}
}

// TestParallel_ForEachCoversAll verifies parallel traversal delivers
// every element exactly once.
func TestParallel_ForEachCoversAll(t *testing.T) {
	target := newDense()
	want := 0
	for i := 1; i <= 10000; i++ {
		target.Add(i)
		want += i
	}
	p := NewParallel(target, 4)

	var mu sync.Mutex
	sum := 0
	p.ForEach(func(v int) {
		mu.Lock()
		sum += v
		mu.Unlock()
	}, store.NewController(true))

	if sum != want {
		t.Errorf("sum = %d, want %d", sum, want)
	}
}

// TestParallel_SequentialWhenNotSplittable verifies a sequential
// controller forces single-goroutine delivery.
func TestParallel_SequentialWhenNotSplittable(t *testing.T) {
	target := newDense(1, 2, 3, 4, 5)
	p := NewParallel(target, 4)

	var got []int
	p.ForEach(func(v int) {
		got = append(got, v)
	}, store.NewController(false))

	for i, v := range got {
		if v != i+1 {
			t.Fatalf("got[%d] = %d, want %d", i, v, i+1)
		}
	}
}

// TestParallel_TerminationBounded verifies Terminate stops the branches
// well before the input is exhausted.
func TestParallel_TerminationBounded(t *testing.T) {
	const total = 100000
	target := newDense()
	for i := 0; i < total; i++ {
		target.Add(i)
	}
	p := NewParallel(target, 4)

	var mu sync.Mutex
	seen := 0
	ctl := store.NewController(true)
	p.ForEach(func(int) {
		mu.Lock()
		seen++
		stop := seen >= 10
		mu.Unlock()
		if stop {
			ctl.Terminate()
		}
	}, ctl)

	if seen < 10 {
		t.Errorf("delivered %d elements, want at least 10", seen)
	}
	if seen == total {
		t.Error("Terminate had no effect: every element was delivered")
	}
}

// TestParallel_ConsumerPanicPropagates verifies a branch panic resurfaces
// on the calling goroutine with its original value.
func TestParallel_ConsumerPanicPropagates(t *testing.T) {
	target := newDense()
	for i := 0; i < 1000; i++ {
		target.Add(i)
	}
	p := NewParallel(target, 4)

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	}()
	p.ForEach(func(v int) {
		if v == 500 {
			panic("boom")
		}
	}, store.NewController(true))
}

// TestParallel_RemoveIf verifies parallel predicate evaluation with a
// sequential commit.
func TestParallel_RemoveIf(t *testing.T) {
	target := newDense()
	for i := 0; i < 1000; i++ {
		target.Add(i)
	}
	p := NewParallel(target, 4)

	changed := p.RemoveIf(func(v int) bool {
		return v%2 == 0
	}, store.NewController(true))
	if !changed {
		t.Error("RemoveIf = false, want true")
	}
	if got := target.Size(); got != 500 {
		t.Errorf("target Size() = %d, want 500", got)
	}
	if target.Contains(0) {
		t.Error("target still contains an even element")
	}
}
