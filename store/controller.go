package store

import "sync/atomic"

// Controller is the per-traversal token passed to ForEach and RemoveIf. It
// tells the store whether delivery may be split across goroutines and
// carries the early-termination flag a consumer may set to halt further
// delivery. Controllers derived with Sequenced share the parent's
// termination flag, so terminating anywhere stops every branch of the same
// traversal.
type Controller struct {
	splittable bool
	term       *atomic.Bool
}

// NewController returns a fresh controller. A splittable controller permits
// a parallel view to partition delivery across goroutines; stores never
// split on their own.
func NewController(splittable bool) *Controller {
	return &Controller{splittable: splittable, term: new(atomic.Bool)}
}

// Splittable reports whether delivery may be partitioned.
func (c *Controller) Splittable() bool {
	return c.splittable
}

// Terminate requests that the traversal stop delivering elements. Delivery
// stops at the next opportunity: the current element (and, under parallel
// splits, a bounded number of elements in already-running sibling branches)
// may still be observed.
func (c *Controller) Terminate() {
	c.term.Store(true)
}

// Terminated reports whether termination has been requested. Stores poll
// this between elements.
func (c *Controller) Terminated() bool {
	return c.term.Load()
}

// Sequenced returns a controller that forbids splitting but shares the
// receiver's termination flag.
func (c *Controller) Sequenced() *Controller {
	if !c.splittable {
		return c
	}
	return &Controller{splittable: false, term: c.term}
}
