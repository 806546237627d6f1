package delmap

import (
	"cmp"
	"slices"
)

// SortedDeleteMap is a DeleteMap variant that keeps entries ordered by key
// rather than by insertion. It backs integer-keyed data such as hash-indexed
// flag collections, where deterministic key order matters for serialization.
type SortedDeleteMap[K cmp.Ordered, V any] struct {
	entries []entry[K, V]
}

// NewSorted returns an empty SortedDeleteMap.
func NewSorted[K cmp.Ordered, V any]() *SortedDeleteMap[K, V] {
	return &SortedDeleteMap[K, V]{}
}

func (m *SortedDeleteMap[K, V]) search(k K) (int, bool) {
	return slices.BinarySearchFunc(m.entries, k, func(e entry[K, V], k K) int {
		return cmp.Compare(e.key, k)
	})
}

// Set inserts or overwrites k, keeping key order.
func (m *SortedDeleteMap[K, V]) Set(k K, v V) {
	i, ok := m.search(k)
	if ok {
		m.entries[i].val = v
		m.entries[i].del = false
		return
	}
	m.entries = slices.Insert(m.entries, i, entry[K, V]{key: k, val: v})
}

// MarkDelete records a tombstone for k carrying the base value v.
func (m *SortedDeleteMap[K, V]) MarkDelete(k K, v V) {
	m.Set(k, v)
	i, _ := m.search(k)
	m.entries[i].del = true
}

// Get returns the live value at k.
func (m *SortedDeleteMap[K, V]) Get(k K) (V, bool) {
	if i, ok := m.search(k); ok && !m.entries[i].del {
		return m.entries[i].val, true
	}
	var zero V
	return zero, false
}

// IsDelete reports whether k holds a tombstone.
func (m *SortedDeleteMap[K, V]) IsDelete(k K) bool {
	i, ok := m.search(k)
	return ok && m.entries[i].del
}

// Len counts live entries.
func (m *SortedDeleteMap[K, V]) Len() int {
	n := 0
	for i := range m.entries {
		if !m.entries[i].del {
			n++
		}
	}
	return n
}

// Keys returns live keys in ascending order.
func (m *SortedDeleteMap[K, V]) Keys() []K {
	ks := make([]K, 0, len(m.entries))
	for i := range m.entries {
		if !m.entries[i].del {
			ks = append(ks, m.entries[i].key)
		}
	}
	return ks
}

// Values returns live values in key order.
func (m *SortedDeleteMap[K, V]) Values() []V {
	vs := make([]V, 0, len(m.entries))
	for i := range m.entries {
		if !m.entries[i].del {
			vs = append(vs, m.entries[i].val)
		}
	}
	return vs
}

// Iter visits live entries in key order until f returns false.
func (m *SortedDeleteMap[K, V]) Iter(f func(k K, v V) bool) {
	for i := range m.entries {
		if m.entries[i].del {
			continue
		}
		if !f(m.entries[i].key, m.entries[i].val) {
			return
		}
	}
}

// HasDeletes reports whether any tombstone is present.
func (m *SortedDeleteMap[K, V]) HasDeletes() bool {
	for i := range m.entries {
		if m.entries[i].del {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy.
func (m *SortedDeleteMap[K, V]) Clone() *SortedDeleteMap[K, V] {
	res := &SortedDeleteMap[K, V]{entries: make([]entry[K, V], len(m.entries))}
	copy(res.entries, m.entries)
	return res
}

// Equal compares live keys and values.
func (m *SortedDeleteMap[K, V]) Equal(other *SortedDeleteMap[K, V], eq func(a, b V) bool) bool {
	mk, ok := m.Keys(), other.Keys()
	if len(mk) != len(ok) {
		return false
	}
	for i, k := range mk {
		if ok[i] != k {
			return false
		}
		av, _ := m.Get(k)
		bv, _ := other.Get(k)
		if !eq(av, bv) {
			return false
		}
	}
	return true
}

// Diff computes the delete-aware difference between m (base) and other
// (modified), following the same rules as DeleteMap.Diff.
func (m *SortedDeleteMap[K, V]) Diff(other *SortedDeleteMap[K, V], eq func(a, b V) bool) *SortedDeleteMap[K, V] {
	res := NewSorted[K, V]()
	other.Iter(func(k K, v V) bool {
		base, ok := m.Get(k)
		if !ok || !eq(base, v) {
			res.Set(k, v)
		}
		return true
	})
	m.Iter(func(k K, v V) bool {
		if _, ok := other.Get(k); !ok {
			res.MarkDelete(k, v)
		}
		return true
	})
	return res
}

// Merge applies a diff to m. The result holds no tombstones.
func (m *SortedDeleteMap[K, V]) Merge(diff *SortedDeleteMap[K, V]) *SortedDeleteMap[K, V] {
	res := NewSorted[K, V]()
	m.Iter(func(k K, v V) bool {
		if diff.IsDelete(k) {
			return true
		}
		if dv, ok := diff.Get(k); ok {
			res.Set(k, dv)
		} else {
			res.Set(k, v)
		}
		return true
	})
	diff.Iter(func(k K, v V) bool {
		if _, ok := res.Get(k); !ok {
			res.Set(k, v)
		}
		return true
	})
	return res
}
