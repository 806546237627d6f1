package content

import (
	"testing"

	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/delmap"
)

func staticDoc() *byml.Node {
	startPos := byml.FromSlice([]*byml.Node{
		byml.FromMap(map[string]*byml.Node{
			"Map":       byml.FromString("MainField"),
			"PosName":   byml.FromString("Player_Start"),
			"Rotate":    byml.FromFloat(0),
			"Translate": byml.FromSlice([]*byml.Node{byml.FromFloat(0), byml.FromFloat(120), byml.FromFloat(0)}),
		}),
		byml.FromMap(map[string]*byml.Node{
			"Map":       byml.FromString("MainField"),
			"PosName":   byml.FromString("Shrine_Exit"),
			"Rotate":    byml.FromFloat(1.5),
			"Translate": byml.FromSlice([]*byml.Node{byml.FromFloat(10), byml.FromFloat(122), byml.FromFloat(-4)}),
		}),
		// Entries without PosName are grouping stubs and are dropped.
		byml.FromMap(map[string]*byml.Node{
			"Map":       byml.FromString("MainField"),
			"Rotate":    byml.FromFloat(0),
			"Translate": byml.FromSlice([]*byml.Node{byml.FromFloat(0), byml.FromFloat(0), byml.FromFloat(0)}),
		}),
	})
	return byml.FromMap(map[string]*byml.Node{
		"StartPos": startPos,
		"LocationMarker": byml.FromSlice([]*byml.Node{
			byml.FromMap(map[string]*byml.Node{"Icon": byml.FromString("Village")}),
		}),
	})
}

func TestMapStaticSerde(t *testing.T) {
	ms, err := MapStaticFromByml(staticDoc())
	if err != nil {
		t.Fatal(err)
	}
	entries, ok := ms.StartPos.Get("MainField")
	if !ok || entries.dm().Len() != 2 {
		t.Fatal("spawn points not grouped by map")
	}
	ms2, err := MapStaticFromByml(ms.ToByml())
	if err != nil {
		t.Fatal(err)
	}
	if !ms.Equal(ms2) {
		t.Fatal("round trip lost data")
	}
}

func TestMapStaticDiffMerge(t *testing.T) {
	base, err := MapStaticFromByml(staticDoc())
	if err != nil {
		t.Fatal(err)
	}
	mod, err := MapStaticFromByml(staticDoc())
	if err != nil {
		t.Fatal(err)
	}
	entries, _ := mod.StartPos.Get("MainField")
	entries.dm().Set("Shrine_Exit", EntryPos{
		Rotate:    byml.FromFloat(3),
		Translate: byml.FromSlice([]*byml.Node{byml.FromFloat(11), byml.FromFloat(122), byml.FromFloat(-4)}),
	})
	mod.General["LocationMarker"] = []*byml.Node{
		byml.FromMap(map[string]*byml.Node{"Icon": byml.FromString("Tower")}),
	}

	diff := base.Diff(mod)
	if diff.StartPos.Len() != 1 {
		t.Fatalf("diff holds %d maps, want 1", diff.StartPos.Len())
	}
	changed, _ := diff.StartPos.Get("MainField")
	if changed.dm().Len() != 1 {
		t.Fatal("unchanged spawn point leaked into diff")
	}
	if _, ok := diff.General["LocationMarker"]; !ok {
		t.Fatal("changed section missing from diff")
	}
	if !base.Merge(diff).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
}

func TestMapStaticDeletedSpawnPoint(t *testing.T) {
	base, err := MapStaticFromByml(staticDoc())
	if err != nil {
		t.Fatal(err)
	}
	mod, err := MapStaticFromByml(staticDoc())
	if err != nil {
		t.Fatal(err)
	}
	entries, _ := mod.StartPos.Get("MainField")
	pruned := (*PosEntries)(delmap.New[string, EntryPos]())
	entries.dm().Iter(func(name string, pos EntryPos) bool {
		if name != "Shrine_Exit" {
			pruned.dm().Set(name, pos)
		}
		return true
	})
	mod.StartPos.Set("MainField", pruned)

	diff := base.Diff(mod)
	changed, ok := diff.StartPos.Get("MainField")
	if !ok || !changed.dm().IsDelete("Shrine_Exit") {
		t.Fatal("removed spawn point not tombstoned")
	}
	merged := base.Merge(diff)
	if !merged.Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
	final, _ := merged.StartPos.Get("MainField")
	if _, ok := final.dm().Get("Shrine_Exit"); ok {
		t.Fatal("tombstoned spawn point survived merge")
	}
}
