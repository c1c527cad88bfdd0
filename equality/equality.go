// Package equality provides pluggable hashing, equivalence and ordering
// strategies for container elements. A strategy is attached to a backing
// store when the store is created and is inherited by every view derived
// from it.
package equality

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"hash/maphash"
	"strings"
)

// Equality defines how a container hashes, equates and orders its elements.
// Implementations must be immutable and safe for concurrent use.
type Equality[E any] interface {
	// Hash returns a 64-bit hash consistent with Equal: equal elements
	// hash to the same value.
	Hash(e E) uint64

	// Equal reports whether a and b are equivalent.
	Equal(a, b E) bool

	// Compare orders a relative to b (negative, zero, positive).
	// Strategies without a natural order panic; use Ordered, Of or a
	// SortedBy traversal instead.
	Compare(a, b E) int
}

// seed is the process-wide hashing seed shared by all built-in strategies,
// so stores and their split sub-stores agree on every element's hash.
var seed = maphash.MakeSeed()

type standard[E comparable] struct{}

// Standard returns the default strategy: == equivalence, maphash-based
// hashing, and best-effort natural ordering for the built-in ordered kinds
// (integers, floats, strings). Compare panics for other element types.
func Standard[E comparable]() Equality[E] {
	return standard[E]{}
}

func (standard[E]) Hash(e E) uint64 {
	return maphash.Comparable(seed, e)
}

func (standard[E]) Equal(a, b E) bool {
	return a == b
}

func (standard[E]) Compare(a, b E) int {
	return naturalCompare(any(a), any(b))
}

type identity[E comparable] struct{}

// Identity returns a strategy that equates elements by reference identity.
// It behaves like Standard for plain value types; it differs for pointer,
// channel and interface elements, which compare by identity rather than by
// pointed-to content. Compare panics: identities are unordered.
func Identity[E comparable]() Equality[E] {
	return identity[E]{}
}

func (identity[E]) Hash(e E) uint64 {
	return maphash.Comparable(seed, e)
}

func (identity[E]) Equal(a, b E) bool {
	return a == b
}

func (identity[E]) Compare(a, b E) int {
	panic("equality: identity strategy defines no ordering")
}

type ordered[E cmp.Ordered] struct{}

// Ordered returns the strategy for naturally ordered element types.
func Ordered[E cmp.Ordered]() Equality[E] {
	return ordered[E]{}
}

func (ordered[E]) Hash(e E) uint64 {
	return maphash.Comparable(seed, e)
}

func (ordered[E]) Equal(a, b E) bool {
	return a == b
}

func (ordered[E]) Compare(a, b E) int {
	return cmp.Compare(a, b)
}

type lexical struct{}

// Lexical returns the string strategy: content hashing over the whole
// string and lexicographic ordering.
func Lexical() Equality[string] {
	return lexical{}
}

func (lexical) Hash(s string) uint64 {
	return maphash.String(seed, s)
}

func (lexical) Equal(a, b string) bool {
	return a == b
}

func (lexical) Compare(a, b string) int {
	return strings.Compare(a, b)
}

type lexicalFast struct{}

// LexicalFast returns a string strategy whose hash samples five fixed
// positions (first, last, middle, quarter points) instead of reading the
// whole string. Useful for long keys where hashing dominates; collision
// quality is worse than Lexical.
func LexicalFast() Equality[string] {
	return lexicalFast{}
}

func (lexicalFast) Hash(s string) uint64 {
	n := len(s)
	if n == 0 {
		return 0
	}
	h := uint64(s[0])
	h += uint64(s[n-1]) * 31
	h += uint64(s[n>>1]) * 1009
	h += uint64(s[n>>2]) * 27583
	h += uint64(s[n-1-(n>>2)]) * 73408859
	return h
}

func (lexicalFast) Equal(a, b string) bool {
	return a == b
}

func (lexicalFast) Compare(a, b string) int {
	return strings.Compare(a, b)
}

type anyEq[E any] struct{}

// Any returns a strategy for arbitrary element types. Equal compares the
// boxed values with == (it panics at runtime if the dynamic type is not
// comparable, matching Go interface comparison); Hash hashes the fmt
// rendering of the element. Intended as a map's default value strategy,
// not for hot set membership.
func Any[E any]() Equality[E] {
	return anyEq[E]{}
}

func (anyEq[E]) Hash(e E) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v", e)
	return h.Sum64()
}

func (anyEq[E]) Equal(a, b E) bool {
	return any(a) == any(b)
}

func (anyEq[E]) Compare(a, b E) int {
	return naturalCompare(any(a), any(b))
}

type custom[E any] struct {
	hash    func(E) uint64
	equal   func(a, b E) bool
	compare func(a, b E) int
}

// Of builds a custom strategy from the given functions. compare may be nil
// for unordered element types; Compare then panics.
func Of[E any](hash func(E) uint64, equal func(a, b E) bool, compare func(a, b E) int) Equality[E] {
	if hash == nil || equal == nil {
		panic("equality: Of requires hash and equal functions")
	}
	return custom[E]{hash: hash, equal: equal, compare: compare}
}

func (c custom[E]) Hash(e E) uint64 {
	return c.hash(e)
}

func (c custom[E]) Equal(a, b E) bool {
	return c.equal(a, b)
}

func (c custom[E]) Compare(a, b E) int {
	if c.compare == nil {
		panic("equality: strategy defines no ordering")
	}
	return c.compare(a, b)
}

// naturalCompare orders the built-in ordered kinds and panics for anything
// else.
func naturalCompare(a, b any) int {
	switch x := a.(type) {
	case int:
		return cmp.Compare(x, b.(int))
	case int8:
		return cmp.Compare(x, b.(int8))
	case int16:
		return cmp.Compare(x, b.(int16))
	case int32:
		return cmp.Compare(x, b.(int32))
	case int64:
		return cmp.Compare(x, b.(int64))
	case uint:
		return cmp.Compare(x, b.(uint))
	case uint8:
		return cmp.Compare(x, b.(uint8))
	case uint16:
		return cmp.Compare(x, b.(uint16))
	case uint32:
		return cmp.Compare(x, b.(uint32))
	case uint64:
		return cmp.Compare(x, b.(uint64))
	case uintptr:
		return cmp.Compare(x, b.(uintptr))
	case float32:
		return cmp.Compare(x, b.(float32))
	case float64:
		return cmp.Compare(x, b.(float64))
	case string:
		return cmp.Compare(x, b.(string))
	default:
		panic(fmt.Sprintf("equality: %T has no natural ordering", a))
	}
}
