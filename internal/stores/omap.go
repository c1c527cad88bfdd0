package stores

import (
	"fmt"

	"github.com/fastcol/go-fastcol/equality"
	"github.com/fastcol/go-fastcol/store"
)

const (
	minBuckets = 16
	// loadFactor is the size-to-bucket ratio that triggers doubling.
	loadFactor = 2
)

// mapNode is one entry, linked both into its hash bucket and into the
// global insertion-order chain.
type mapNode[K, V any] struct {
	key   K
	val   V
	hash  uint64
	chain *mapNode[K, V]
	prev  *mapNode[K, V]
	next  *mapNode[K, V]
}

// OMap is a bucketed hash map whose traversal order is insertion order,
// giving deterministic iteration unlike the built-in map. It backs the Map
// facade and, through OSet, the Set facade.
type OMap[K, V any] struct {
	keq     equality.Equality[K]
	veq     equality.Equality[V]
	buckets []*mapNode[K, V]
	head    *mapNode[K, V]
	tail    *mapNode[K, V]
	size    int
	mods    uint64
}

// NewOMap returns an empty ordered map with the given key and value
// strategies.
func NewOMap[K, V any](keq equality.Equality[K], veq equality.Equality[V]) *OMap[K, V] {
	return &OMap[K, V]{keq: keq, veq: veq}
}

func (m *OMap[K, V]) Size() int {
	return m.size
}

func (m *OMap[K, V]) IsEmpty() bool {
	return m.size == 0
}

func (m *OMap[K, V]) ContainsKey(k K) bool {
	return m.find(k) != nil
}

func (m *OMap[K, V]) Get(k K) (V, bool) {
	if n := m.find(k); n != nil {
		return n.val, true
	}
	var zero V
	return zero, false
}

func (m *OMap[K, V]) Put(k K, v V) (V, bool) {
	if n := m.find(k); n != nil {
		prev := n.val
		n.val = v
		return prev, true
	}
	m.insert(k, v)
	var zero V
	return zero, false
}

func (m *OMap[K, V]) PutIfAbsent(k K, v V) (V, bool) {
	if n := m.find(k); n != nil {
		return n.val, false
	}
	m.insert(k, v)
	return v, true
}

func (m *OMap[K, V]) Replace(k K, v V) (V, bool) {
	if n := m.find(k); n != nil {
		prev := n.val
		n.val = v
		return prev, true
	}
	var zero V
	return zero, false
}

func (m *OMap[K, V]) ReplaceIf(k K, old, v V) bool {
	if n := m.find(k); n != nil && m.veq.Equal(n.val, old) {
		n.val = v
		return true
	}
	return false
}

func (m *OMap[K, V]) Remove(k K) (V, bool) {
	if n := m.find(k); n != nil {
		prev := n.val
		m.unlink(n)
		return prev, true
	}
	var zero V
	return zero, false
}

func (m *OMap[K, V]) RemoveMatch(k K, old V) bool {
	if n := m.find(k); n != nil && m.veq.Equal(n.val, old) {
		m.unlink(n)
		return true
	}
	return false
}

func (m *OMap[K, V]) Clear() {
	m.buckets = nil
	m.head, m.tail = nil, nil
	m.size = 0
	m.mods++
}

// ForEach delivers entries in insertion order. Structural mutation during
// the traversal is detected best effort and panics with
// store.ErrConcurrentModification.
func (m *OMap[K, V]) ForEach(fn func(K, V), ctl *store.Controller) {
	start := m.mods
	for n := m.head; n != nil; n = n.next {
		if ctl.Terminated() {
			return
		}
		fn(n.key, n.val)
		if m.mods != start {
			panic(store.ErrConcurrentModification)
		}
	}
}

func (m *OMap[K, V]) RemoveIf(pred func(K, V) bool, ctl *store.Controller) bool {
	changed := false
	for n := m.head; n != nil; {
		if ctl.Terminated() {
			break
		}
		next := n.next
		if pred(n.key, n.val) {
			m.unlink(n)
			changed = true
		}
		n = next
	}
	return changed
}

// TrySplit partitions the map into up to n contiguous segments of the
// insertion-order chain. Segments are read-only projections valid until the
// map's next structural mutation.
func (m *OMap[K, V]) TrySplit(n int) []store.MapStore[K, V] {
	if n < 1 {
		panic(fmt.Sprintf("fastcol: invalid split count %d", n))
	}
	if n > m.size {
		n = m.size
	}
	if n <= 1 {
		return []store.MapStore[K, V]{&mapSegment[K, V]{keq: m.keq, veq: m.veq, nodes: m.chainNodes()}}
	}
	chunk := (m.size + n - 1) / n
	parts := make([]store.MapStore[K, V], 0, n)
	seg := make([]*mapNode[K, V], 0, chunk)
	for p := m.head; p != nil; p = p.next {
		seg = append(seg, p)
		if len(seg) == chunk {
			parts = append(parts, &mapSegment[K, V]{keq: m.keq, veq: m.veq, nodes: seg})
			seg = make([]*mapNode[K, V], 0, chunk)
		}
	}
	if len(seg) > 0 {
		parts = append(parts, &mapSegment[K, V]{keq: m.keq, veq: m.veq, nodes: seg})
	}
	return parts
}

// Update runs fn directly: an unshared store offers no extra protection.
func (m *OMap[K, V]) Update(fn func(store.MapStore[K, V])) {
	fn(m)
}

func (m *OMap[K, V]) KeyEquality() equality.Equality[K] {
	return m.keq
}

func (m *OMap[K, V]) ValueEquality() equality.Equality[V] {
	return m.veq
}

// Clone rebuilds an independent map with the same entries in the same
// order.
func (m *OMap[K, V]) Clone() store.MapStore[K, V] {
	fresh := NewOMap[K, V](m.keq, m.veq)
	for n := m.head; n != nil; n = n.next {
		fresh.insert(n.key, n.val)
	}
	return fresh
}

func (m *OMap[K, V]) find(k K) *mapNode[K, V] {
	if m.size == 0 {
		return nil
	}
	h := m.keq.Hash(k)
	for n := m.buckets[h&uint64(len(m.buckets)-1)]; n != nil; n = n.chain {
		if n.hash == h && m.keq.Equal(n.key, k) {
			return n
		}
	}
	return nil
}

// insert adds a binding known to be absent, appending it to the order
// chain.
func (m *OMap[K, V]) insert(k K, v V) {
	if len(m.buckets) == 0 {
		m.buckets = make([]*mapNode[K, V], minBuckets)
	} else if m.size >= len(m.buckets)*loadFactor {
		m.grow()
	}
	n := &mapNode[K, V]{key: k, val: v, hash: m.keq.Hash(k)}
	i := n.hash & uint64(len(m.buckets)-1)
	n.chain = m.buckets[i]
	m.buckets[i] = n
	if m.tail == nil {
		m.head, m.tail = n, n
	} else {
		n.prev = m.tail
		m.tail.next = n
		m.tail = n
	}
	m.size++
	m.mods++
}

// grow doubles the bucket array, relinking bucket chains. The order chain
// is untouched, so an in-flight ordered traversal stays valid.
func (m *OMap[K, V]) grow() {
	buckets := make([]*mapNode[K, V], len(m.buckets)*2)
	mask := uint64(len(buckets) - 1)
	for n := m.head; n != nil; n = n.next {
		i := n.hash & mask
		n.chain = buckets[i]
		buckets[i] = n
	}
	m.buckets = buckets
}

func (m *OMap[K, V]) unlink(n *mapNode[K, V]) {
	i := n.hash & uint64(len(m.buckets)-1)
	if m.buckets[i] == n {
		m.buckets[i] = n.chain
	} else {
		for p := m.buckets[i]; p != nil; p = p.chain {
			if p.chain == n {
				p.chain = n.chain
				break
			}
		}
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		m.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		m.tail = n.prev
	}
	n.chain, n.prev, n.next = nil, nil, nil
	m.size--
	m.mods++
}

func (m *OMap[K, V]) chainNodes() []*mapNode[K, V] {
	nodes := make([]*mapNode[K, V], 0, m.size)
	for n := m.head; n != nil; n = n.next {
		nodes = append(nodes, n)
	}
	return nodes
}

// mapSegment is a read-only projection over a slice of order-chain nodes,
// produced by TrySplit.
type mapSegment[K, V any] struct {
	keq   equality.Equality[K]
	veq   equality.Equality[V]
	nodes []*mapNode[K, V]
}

func (s *mapSegment[K, V]) Size() int {
	return len(s.nodes)
}

func (s *mapSegment[K, V]) IsEmpty() bool {
	return len(s.nodes) == 0
}

func (s *mapSegment[K, V]) ContainsKey(k K) bool {
	_, ok := s.Get(k)
	return ok
}

func (s *mapSegment[K, V]) Get(k K) (V, bool) {
	h := s.keq.Hash(k)
	for _, n := range s.nodes {
		if n.hash == h && s.keq.Equal(n.key, k) {
			return n.val, true
		}
	}
	var zero V
	return zero, false
}

func (s *mapSegment[K, V]) Put(K, V) (V, bool) {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) PutIfAbsent(K, V) (V, bool) {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) Replace(K, V) (V, bool) {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) ReplaceIf(K, V, V) bool {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) Remove(K) (V, bool) {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) RemoveMatch(K, V) bool {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) Clear() {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) ForEach(fn func(K, V), ctl *store.Controller) {
	for _, n := range s.nodes {
		if ctl.Terminated() {
			return
		}
		fn(n.key, n.val)
	}
}

func (s *mapSegment[K, V]) RemoveIf(func(K, V) bool, *store.Controller) bool {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) TrySplit(n int) []store.MapStore[K, V] {
	if n < 1 {
		panic(fmt.Sprintf("fastcol: invalid split count %d", n))
	}
	size := len(s.nodes)
	if n == 1 || size < 2 {
		return []store.MapStore[K, V]{s}
	}
	if n > size {
		n = size
	}
	chunk := (size + n - 1) / n
	parts := make([]store.MapStore[K, V], 0, n)
	for lo := 0; lo < size; lo += chunk {
		hi := lo + chunk
		if hi > size {
			hi = size
		}
		parts = append(parts, &mapSegment[K, V]{keq: s.keq, veq: s.veq, nodes: s.nodes[lo:hi]})
	}
	return parts
}

func (s *mapSegment[K, V]) Update(func(store.MapStore[K, V])) {
	panic(store.ErrUnmodifiable)
}

func (s *mapSegment[K, V]) KeyEquality() equality.Equality[K] {
	return s.keq
}

func (s *mapSegment[K, V]) ValueEquality() equality.Equality[V] {
	return s.veq
}

func (s *mapSegment[K, V]) Clone() store.MapStore[K, V] {
	fresh := NewOMap[K, V](s.keq, s.veq)
	for _, n := range s.nodes {
		fresh.insert(n.key, n.val)
	}
	return fresh
}
