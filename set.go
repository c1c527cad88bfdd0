package fastcol

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/stores"
)

// Set is a collection without duplicates, traversed in insertion order.
type Set[E any] struct {
	Collection[E]
}

// NewSet returns an empty set using the standard equality of E.
func NewSet[E comparable]() *Set[E] {
	return NewSetWith(equality.Standard[E]())
}

// NewSetWith returns an empty set using the given equality strategy.
func NewSetWith[E any](eq equality.Equality[E]) *Set[E] {
	return &Set[E]{Collection[E]{svc: stores.NewOSet(eq)}}
}

// SetOf returns a set holding the given elements, duplicates collapsed.
func SetOf[E comparable](elems ...E) *Set[E] {
	s := NewSet[E]()
	for _, e := range elems {
		s.Add(e)
	}
	return s
}
