package fastcol

import (
	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/internal/stores"
)

// Table is an ordered sequence with positional access. Duplicates are
// permitted and insertion order is stable. View methods return plain
// Collections: a filtered or sorted projection has no stable indexing.
type Table[E any] struct {
	Collection[E]
	dense *stores.Dense[E]
}

// NewTable returns an empty table using the standard equality of E.
func NewTable[E comparable]() *Table[E] {
	return NewTableWith(equality.Standard[E]())
}

// NewTableWith returns an empty table using the given equality strategy.
func NewTableWith[E any](eq equality.Equality[E]) *Table[E] {
	d := stores.NewDense[E](eq)
	return &Table[E]{Collection: Collection[E]{svc: d}, dense: d}
}

// Get returns the element at index i. It panics when i is out of range.
func (t *Table[E]) Get(i int) E {
	return t.dense.Get(i)
}

// Set replaces the element at index i and returns the previous element.
// It panics when i is out of range.
func (t *Table[E]) Set(i int, e E) E {
	return t.dense.Set(i, e)
}

// Insert places e at index i, shifting later elements right. Inserting at
// Size() appends. It panics when i is out of range.
func (t *Table[E]) Insert(i int, e E) {
	t.dense.Insert(i, e)
}

// RemoveAt deletes and returns the element at index i, shifting later
// elements left. It panics when i is out of range.
func (t *Table[E]) RemoveAt(i int) E {
	return t.dense.RemoveAt(i)
}

// First returns the first element, or false when the table is empty.
func (t *Table[E]) First() (E, bool) {
	if t.dense.IsEmpty() {
		var zero E
		return zero, false
	}
	return t.dense.Get(0), true
}

// Last returns the last element, or false when the table is empty.
func (t *Table[E]) Last() (E, bool) {
	n := t.dense.Size()
	if n == 0 {
		var zero E
		return zero, false
	}
	return t.dense.Get(n - 1), true
}

// IndexOf returns the index of the first element equal to e, or -1.
func (t *Table[E]) IndexOf(e E) int {
	return t.dense.IndexOf(e)
}
