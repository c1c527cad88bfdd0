// Package views holds the decorator implementations of the store
// contracts. Each view wraps a target store (or another view) and alters
// one behavior: rejecting mutation, locking, atomic commits, filtering,
// mapping, ordering, duplicate suppression, or traversal dispatch. Views
// never copy elements at construction; composing them builds a delegation
// chain evaluated lazily at each call.
package views

import (
	"github.com/fastcol/go-fastcol/store"
)

// collect drains target into a slice in the target's traversal order.
func collect[E any](target store.Store[E]) []E {
	out := make([]E, 0, target.Size())
	target.ForEach(func(e E) {
		out = append(out, e)
	}, store.NewController(false))
	return out
}
