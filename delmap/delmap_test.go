package delmap

import (
	"testing"
)

func eqInt(a, b int) bool { return a == b }

func fromPairs(pairs ...[2]any) *DeleteMap[string, int] {
	m := New[string, int]()
	for _, p := range pairs {
		m.Set(p[0].(string), p[1].(int))
	}
	return m
}

func TestDiffMergeRoundTrip(t *testing.T) {
	base := fromPairs([2]any{"A", 1}, [2]any{"B", 2}, [2]any{"C", 3})
	mod := fromPairs([2]any{"A", 9}, [2]any{"C", 3}, [2]any{"D", 4})

	diff := base.Diff(mod, eqInt)
	if !diff.IsDelete("B") {
		t.Fatal("removed key B must be tombstoned in the diff")
	}
	if _, ok := diff.Get("C"); ok {
		t.Fatal("unchanged key C must be absent from the diff")
	}
	if v, ok := diff.Get("A"); !ok || v != 9 {
		t.Fatalf("changed key A: got %v %v", v, ok)
	}

	merged := base.Merge(diff)
	if merged.HasDeletes() {
		t.Fatal("merged map must not contain tombstones")
	}
	if !merged.Equal(mod, eqInt) {
		t.Fatalf("merge(base, diff(base, mod)) != mod: got keys %v", merged.Keys())
	}
}

func TestEmptyDiffIsNoOp(t *testing.T) {
	base := fromPairs([2]any{"A", 1}, [2]any{"B", 2})
	diff := base.Diff(base, eqInt)
	if len(diff.Keys()) != 0 || diff.HasDeletes() {
		t.Fatalf("self diff must be empty, got %v", diff.Keys())
	}
	if !base.Merge(diff).Equal(base, eqInt) {
		t.Fatal("merging an empty diff changed the base")
	}
}

func TestTombstonePropagation(t *testing.T) {
	base := fromPairs([2]any{"K", 1}, [2]any{"X", 2})
	mod := fromPairs([2]any{"X", 2})
	diff := base.Diff(mod, eqInt)

	// Merging onto a base containing K removes K.
	merged := base.Merge(diff)
	if _, ok := merged.Get("K"); ok {
		t.Fatal("K survived a tombstone merge")
	}

	// Merging onto a base lacking K is a no-op for that key.
	other := fromPairs([2]any{"X", 2}, [2]any{"Y", 5})
	merged = other.Merge(diff)
	if _, ok := merged.Get("K"); ok {
		t.Fatal("tombstone for K resurrected the key")
	}
	if v, _ := merged.Get("Y"); v != 5 {
		t.Fatal("unrelated key disturbed by tombstone merge")
	}
}

func TestDisjointMergeOrderIndependent(t *testing.T) {
	base := fromPairs([2]any{"A", 1}, [2]any{"B", 2})
	mod1 := base.Diff(fromPairs([2]any{"A", 9}, [2]any{"B", 2}), eqInt)
	mod2 := base.Diff(fromPairs([2]any{"A", 1}, [2]any{"B", 2}, [2]any{"C", 3}), eqInt)

	ab := base.Merge(mod1).Merge(mod2)
	ba := base.Merge(mod2).Merge(mod1)
	want := fromPairs([2]any{"A", 9}, [2]any{"B", 2}, [2]any{"C", 3})
	for _, got := range []*DeleteMap[string, int]{ab, ba} {
		for _, k := range want.Keys() {
			wv, _ := want.Get(k)
			gv, ok := got.Get(k)
			if !ok || gv != wv {
				t.Fatalf("disjoint merge: key %s got %v %v, want %v", k, gv, ok, wv)
			}
		}
	}
}

func TestConflictLastWriterWins(t *testing.T) {
	base := fromPairs([2]any{"A", 1})
	mod1 := base.Diff(fromPairs([2]any{"A", 9}), eqInt)
	mod2 := base.Diff(fromPairs([2]any{"A", 7}), eqInt)

	if v, _ := base.Merge(mod1).Merge(mod2).Get("A"); v != 7 {
		t.Fatalf("mod1 then mod2: got %d, want 7", v)
	}
	if v, _ := base.Merge(mod2).Merge(mod1).Get("A"); v != 9 {
		t.Fatalf("mod2 then mod1: got %d, want 9", v)
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	m := New[string, int]()
	for i, k := range []string{"z", "a", "m"} {
		m.Set(k, i)
	}
	ks := m.Keys()
	if ks[0] != "z" || ks[1] != "a" || ks[2] != "m" {
		t.Fatalf("insertion order lost: %v", ks)
	}
}

func TestSortedDeleteMap(t *testing.T) {
	m := NewSorted[uint32, string]()
	m.Set(30, "c")
	m.Set(10, "a")
	m.Set(20, "b")
	ks := m.Keys()
	if ks[0] != 10 || ks[1] != 20 || ks[2] != 30 {
		t.Fatalf("keys not sorted: %v", ks)
	}

	other := NewSorted[uint32, string]()
	other.Set(10, "a")
	other.Set(20, "B")
	diff := m.Diff(other, func(a, b string) bool { return a == b })
	if !diff.IsDelete(30) {
		t.Fatal("missing tombstone for dropped key 30")
	}
	merged := m.Merge(diff)
	if merged.Len() != 2 {
		t.Fatalf("merged len %d, want 2", merged.Len())
	}
	if v, _ := merged.Get(20); v != "B" {
		t.Fatalf("key 20: got %q", v)
	}
}

type boxed struct{ n int }

func (b boxed) Diff(other boxed) boxed { return boxed{n: other.n - b.n} }
func (b boxed) Merge(diff boxed) boxed { return boxed{n: b.n + diff.n} }

func TestDeepDiffMerge(t *testing.T) {
	base := New[string, boxed]()
	base.Set("x", boxed{n: 10})
	base.Set("y", boxed{n: 5})
	mod := New[string, boxed]()
	mod.Set("x", boxed{n: 12})

	diff := DeepDiff(base, mod, func(b boxed) bool { return b.n == 0 })
	if !diff.IsDelete("y") {
		t.Fatal("dropped nested key y must be tombstoned")
	}
	merged := DeepMerge(base, diff)
	if v, _ := merged.Get("x"); v.n != 12 {
		t.Fatalf("deep merged x: got %d, want 12", v.n)
	}
	if _, ok := merged.Get("y"); ok {
		t.Fatal("y survived deep merge")
	}
}
