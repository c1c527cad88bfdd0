package equality

import (
	"strings"
	"testing"
)

// TestStandard_Basic tests hashing, equality and ordering of plain values.
func TestStandard_Basic(t *testing.T) {
	eq := Standard[int]()

	if !eq.Equal(42, 42) {
		t.Error("expected 42 == 42")
	}
	if eq.Equal(1, 2) {
		t.Error("expected 1 != 2")
	}
	if eq.Hash(7) != eq.Hash(7) {
		t.Error("expected stable hash for equal values")
	}
	if got := eq.Compare(1, 2); got >= 0 {
		t.Errorf("Compare(1, 2) = %d, want negative", got)
	}
	if got := eq.Compare(2, 2); got != 0 {
		t.Errorf("Compare(2, 2) = %d, want 0", got)
	}
	if got := eq.Compare(3, 2); got <= 0 {
		t.Errorf("Compare(3, 2) = %d, want positive", got)
	}
}

// TestStandard_UnorderedCompare verifies the panic for unordered kinds.
func TestStandard_UnorderedCompare(t *testing.T) {
	type point struct{ X, Y int }
	eq := Standard[point]()

	defer func() {
		if recover() == nil {
			t.Error("expected panic comparing unordered struct type")
		}
	}()
	eq.Compare(point{1, 2}, point{3, 4})
}

// TestIdentity_Pointers tests reference identity semantics.
func TestIdentity_Pointers(t *testing.T) {
	eq := Identity[*int]()

	a, b := new(int), new(int)
	*a, *b = 5, 5

	if !eq.Equal(a, a) {
		t.Error("expected pointer equal to itself")
	}
	if eq.Equal(a, b) {
		t.Error("expected distinct pointers to differ even with equal content")
	}
	if eq.Hash(a) == eq.Hash(b) && a != b {
		// Not an error by contract, but wildly unlikely with maphash.
		t.Log("distinct pointers hashed equal")
	}
}

// TestOrdered_Strings tests the cmp.Ordered strategy.
func TestOrdered_Strings(t *testing.T) {
	eq := Ordered[string]()

	if got := eq.Compare("apple", "banana"); got >= 0 {
		t.Errorf("Compare(apple, banana) = %d, want negative", got)
	}
	if !eq.Equal("kiwi", "kiwi") {
		t.Error("expected equal strings")
	}
}

// TestLexical_Strategies tests full and sampled string hashing.
func TestLexical_Strategies(t *testing.T) {
	full := Lexical()
	fast := LexicalFast()

	s := strings.Repeat("abcdefgh", 64)

	if full.Hash(s) != full.Hash(s) {
		t.Error("Lexical hash not stable")
	}
	if fast.Hash(s) != fast.Hash(s) {
		t.Error("LexicalFast hash not stable")
	}
	if fast.Hash("") != 0 {
		t.Error("LexicalFast of empty string should be 0")
	}
	if !fast.Equal(s, s) || fast.Compare("a", "b") >= 0 {
		t.Error("LexicalFast equality/ordering broken")
	}

	// Sampled hashing must still agree for equal strings.
	if fast.Hash(s) != fast.Hash(strings.Repeat("abcdefgh", 64)) {
		t.Error("LexicalFast differs for equal content")
	}
}

// TestAny_BoxedComparison tests the fallback strategy over interface values.
func TestAny_BoxedComparison(t *testing.T) {
	eq := Any[any]()

	if !eq.Equal(3, 3) {
		t.Error("expected boxed ints equal")
	}
	if eq.Equal(3, "3") {
		t.Error("expected differing dynamic types unequal")
	}
	if eq.Hash(3) != eq.Hash(3) {
		t.Error("expected stable hash")
	}
}

// TestOf_CustomStrategy tests a case-insensitive custom strategy.
func TestOf_CustomStrategy(t *testing.T) {
	eq := Of(
		func(s string) uint64 {
			return Lexical().Hash(strings.ToLower(s))
		},
		func(a, b string) bool {
			return strings.EqualFold(a, b)
		},
		nil,
	)

	if !eq.Equal("Hello", "hELLO") {
		t.Error("expected case-insensitive equality")
	}
	if eq.Hash("Hello") != eq.Hash("hello") {
		t.Error("expected case-insensitive hash agreement")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic from nil compare")
		}
	}()
	eq.Compare("a", "b")
}
