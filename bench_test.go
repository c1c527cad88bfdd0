package fastcol

import (
	"fmt"
	"testing"
)

const (
	smallDataset  = 1_000
	mediumDataset = 100_000
)

func benchSizes() []struct {
	name string
	size int
} {
	return []struct {
		name string
		size int
	}{
		{"1K", smallDataset},
		{"100K", mediumDataset},
	}
}

// BenchmarkTableAdd measures append-style insertion.
func BenchmarkTableAdd(b *testing.B) {
	for _, sz := range benchSizes() {
		b.Run(fmt.Sprintf("Records_%s", sz.name), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tbl := NewTable[int]()
				for v := 0; v < sz.size; v++ {
					tbl.Add(v)
				}
			}
			b.ReportMetric(float64(sz.size)*float64(b.N)/b.Elapsed().Seconds(), "adds/sec")
		})
	}
}

// BenchmarkSetContains measures hash lookups in a populated set.
func BenchmarkSetContains(b *testing.B) {
	s := NewSet[int]()
	for v := 0; v < mediumDataset; v++ {
		s.Add(v)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !s.Contains(i % mediumDataset) {
			b.Fatal("missing element")
		}
	}
}

// BenchmarkMapPutGet measures a put followed by a get on an ordered map.
func BenchmarkMapPutGet(b *testing.B) {
	m := NewMap[int, int]()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Put(i%mediumDataset, i)
		if _, ok := m.Get(i % mediumDataset); !ok {
			b.Fatal("missing key")
		}
	}
}

// BenchmarkForEach compares sequential and parallel traversal of the same
// table.
func BenchmarkForEach(b *testing.B) {
	tbl := NewTable[int]()
	for v := 0; v < mediumDataset; v++ {
		tbl.Add(v)
	}

	b.Run("Sequential", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			n := 0
			tbl.Sequential().ForEach(func(int) {
				n++
			})
			if n != mediumDataset {
				b.Fatalf("visited %d", n)
			}
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		p := tbl.Parallel()
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if got := p.Count(func(int) bool { return true }); got != mediumDataset {
				b.Fatalf("counted %d", got)
			}
		}
	})
}

// BenchmarkSharedContention measures lock throughput with mixed readers
// and writers.
func BenchmarkSharedContention(b *testing.B) {
	s := NewSet[int]().Shared()
	for v := 0; v < smallDataset; v++ {
		s.Add(v)
	}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%8 == 0 {
				s.Add(smallDataset + i)
			} else {
				s.Contains(i % smallDataset)
			}
			i++
		}
	})
}

// BenchmarkSortedTraversal measures the materialize-then-sort cost per
// traversal.
func BenchmarkSortedTraversal(b *testing.B) {
	tbl := NewTable[int]()
	for v := smallDataset; v > 0; v-- {
		tbl.Add(v)
	}
	sorted := tbl.Sorted()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		first := -1
		sorted.ForEach(func(v int) {
			if first == -1 {
				first = v
			}
		})
		if first != 1 {
			b.Fatalf("first = %d", first)
		}
	}
}
