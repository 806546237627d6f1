// Package delmap provides the delete-aware ordered containers the merge
// algebra is built on. A DeleteMap distinguishes three entry states for any
// key: present with a value, deleted (a tombstone recording that the key
// existed in a base and was removed in a layer), and absent (never
// mentioned). Tombstones are created only by Diff and consumed by Merge; a
// base or fully merged map never contains one.
package delmap

// Mergeable is the value-level diff/merge contract used by DeepDiff and
// DeepMerge for maps whose values are themselves mergeable structures.
type Mergeable[T any] interface {
	Diff(other T) T
	Merge(diff T) T
}

type entry[K comparable, V any] struct {
	key K
	val V
	del bool
}

// DeleteMap is an insertion-ordered map from K to V with tombstone support.
// The zero value is ready to use.
type DeleteMap[K comparable, V any] struct {
	entries []entry[K, V]
	index   map[K]int
}

// New returns an empty DeleteMap.
func New[K comparable, V any]() *DeleteMap[K, V] {
	return &DeleteMap[K, V]{}
}

func (m *DeleteMap[K, V]) locate(k K) (int, bool) {
	if m.index == nil {
		return 0, false
	}
	i, ok := m.index[k]
	return i, ok
}

// Set inserts or overwrites k. A tombstone at k is replaced by the value.
func (m *DeleteMap[K, V]) Set(k K, v V) {
	if i, ok := m.locate(k); ok {
		m.entries[i].val = v
		m.entries[i].del = false
		return
	}
	if m.index == nil {
		m.index = make(map[K]int)
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: k, val: v})
}

// MarkDelete records a tombstone for k carrying the base value v. Only diff
// construction calls this.
func (m *DeleteMap[K, V]) MarkDelete(k K, v V) {
	m.Set(k, v)
	i, _ := m.locate(k)
	m.entries[i].del = true
}

// Get returns the live value at k. Tombstoned and absent keys report false.
func (m *DeleteMap[K, V]) Get(k K) (V, bool) {
	if i, ok := m.locate(k); ok && !m.entries[i].del {
		return m.entries[i].val, true
	}
	var zero V
	return zero, false
}

// IsDelete reports whether k holds a tombstone.
func (m *DeleteMap[K, V]) IsDelete(k K) bool {
	i, ok := m.locate(k)
	return ok && m.entries[i].del
}

// Len counts live entries, excluding tombstones.
func (m *DeleteMap[K, V]) Len() int {
	n := 0
	for i := range m.entries {
		if !m.entries[i].del {
			n++
		}
	}
	return n
}

// Keys returns live keys in map order.
func (m *DeleteMap[K, V]) Keys() []K {
	ks := make([]K, 0, len(m.entries))
	for i := range m.entries {
		if !m.entries[i].del {
			ks = append(ks, m.entries[i].key)
		}
	}
	return ks
}

// Values returns live values in map order.
func (m *DeleteMap[K, V]) Values() []V {
	vs := make([]V, 0, len(m.entries))
	for i := range m.entries {
		if !m.entries[i].del {
			vs = append(vs, m.entries[i].val)
		}
	}
	return vs
}

// Iter visits live entries in map order until f returns false.
func (m *DeleteMap[K, V]) Iter(f func(k K, v V) bool) {
	for i := range m.entries {
		if m.entries[i].del {
			continue
		}
		if !f(m.entries[i].key, m.entries[i].val) {
			return
		}
	}
}

// IterAll visits every entry, tombstones included.
func (m *DeleteMap[K, V]) IterAll(f func(k K, v V, deleted bool) bool) {
	for i := range m.entries {
		if !f(m.entries[i].key, m.entries[i].val, m.entries[i].del) {
			return
		}
	}
}

// Clone returns a shallow copy.
func (m *DeleteMap[K, V]) Clone() *DeleteMap[K, V] {
	res := &DeleteMap[K, V]{
		entries: make([]entry[K, V], len(m.entries)),
		index:   make(map[K]int, len(m.index)),
	}
	copy(res.entries, m.entries)
	for k, i := range m.index {
		res.index[k] = i
	}
	return res
}

// HasDeletes reports whether any tombstone is present. Base and merged maps
// must report false.
func (m *DeleteMap[K, V]) HasDeletes() bool {
	for i := range m.entries {
		if m.entries[i].del {
			return true
		}
	}
	return false
}

// Equal compares live keys and values, in order.
func (m *DeleteMap[K, V]) Equal(other *DeleteMap[K, V], eq func(a, b V) bool) bool {
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
// (modified): keys only in other are present with the new value, keys in
// both with differing values are present with other's value, keys missing
// from other become tombstones, and unchanged keys are absent.
func (m *DeleteMap[K, V]) Diff(other *DeleteMap[K, V], eq func(a, b V) bool) *DeleteMap[K, V] {
	res := New[K, V]()
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

// Merge applies a diff to m: tombstoned keys are removed, present keys
// overwrite or insert, absent keys carry over. The result holds no
// tombstones.
func (m *DeleteMap[K, V]) Merge(diff *DeleteMap[K, V]) *DeleteMap[K, V] {
	res := New[K, V]()
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

// DeepDiff is Diff for maps whose values are themselves mergeable: values
// present on both sides diff recursively instead of being replaced whole.
func DeepDiff[K comparable, V Mergeable[V]](base, other *DeleteMap[K, V], empty func(V) bool) *DeleteMap[K, V] {
	res := New[K, V]()
	other.Iter(func(k K, v V) bool {
		if bv, ok := base.Get(k); ok {
			if d := bv.Diff(v); !empty(d) {
				res.Set(k, d)
			}
		} else {
			res.Set(k, v)
		}
		return true
	})
	base.Iter(func(k K, v V) bool {
		if _, ok := other.Get(k); !ok {
			res.MarkDelete(k, v)
		}
		return true
	})
	return res
}

// DeepMerge is Merge for maps whose values are themselves mergeable.
func DeepMerge[K comparable, V Mergeable[V]](base, diff *DeleteMap[K, V]) *DeleteMap[K, V] {
	res := New[K, V]()
	base.Iter(func(k K, v V) bool {
		if diff.IsDelete(k) {
			return true
		}
		if dv, ok := diff.Get(k); ok {
			res.Set(k, v.Merge(dv))
		} else {
			res.Set(k, v)
		}
		return true
	})
	diff.Iter(func(k K, v V) bool {
		if _, ok := res.Get(k); !ok && !diff.IsDelete(k) {
			res.Set(k, v)
		}
		return true
	})
	return res
}
