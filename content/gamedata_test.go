package content

import (
	"fmt"
	"testing"

	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/delmap"
	"github.com/resmerge/resmerge/format"
)

func flagNode(hash uint32, value int32) *byml.Node {
	return byml.FromMap(map[string]*byml.Node{
		"HashValue":    byml.FromInt(int32(hash)),
		"InitValue":    byml.FromInt(value),
		"DeleteRev":    byml.FromInt(-1),
		"IsOneTrigger": byml.FromBool(false),
	})
}

func makeGameData(dataType string, n int) *GameData {
	g := &GameData{DataType: dataType, Flags: delmap.NewSorted[uint32, *byml.Node]()}
	for i := 0; i < n; i++ {
		g.Flags.Set(uint32(i), flagNode(uint32(i), int32(i)))
	}
	return g
}

func TestGameDataSerde(t *testing.T) {
	g := makeGameData("bool_data", 10)
	data, err := byml.ToBinary(g.ToByml(), format.Big)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := byml.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := GameDataFromByml(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Equal(g2) {
		t.Fatal("round trip lost data")
	}
}

func TestGameDataDiffMerge(t *testing.T) {
	base := makeGameData("s32_data", 20)
	mod := makeGameData("s32_data", 20)
	mod.Flags.Set(5, flagNode(5, 999))
	mod.Flags.Set(100, flagNode(100, 1))
	// Simulate removal by rebuilding without flag 7.
	removed := &GameData{DataType: "s32_data", Flags: delmap.NewSorted[uint32, *byml.Node]()}
	mod.Flags.Iter(func(hash uint32, flag *byml.Node) bool {
		if hash != 7 {
			removed.Flags.Set(hash, flag)
		}
		return true
	})

	diff := base.Diff(removed)
	if !diff.Flags.IsDelete(7) {
		t.Fatal("removed flag not tombstoned")
	}
	if _, ok := diff.Flags.Get(100); !ok {
		t.Fatal("added flag missing from diff")
	}
	merged := base.Merge(diff)
	if !merged.Equal(removed) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
}

func TestGameDataTypeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched data types")
		}
	}()
	makeGameData("bool_data", 1).Diff(makeGameData("s32_data", 1))
}

func TestGameDataPackShardBoundaries(t *testing.T) {
	for _, n := range []int{0, 1, shardCapacity, shardCapacity + 1} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			pack := &GameDataPack{Families: map[string]*GameData{}}
			for _, family := range gameDataFamilies {
				pack.Families[family] = &GameData{
					DataType: storedDataType(family),
					Flags:    delmap.NewSorted[uint32, *byml.Node](),
				}
			}
			pack.Families["bool_data"] = makeGameData("bool_data", n)

			a, err := pack.ToArchive(format.Big)
			if err != nil {
				t.Fatal(err)
			}
			wantShards := (n + shardCapacity - 1) / shardCapacity
			if a.Len() != wantShards {
				t.Fatalf("emitted %d shards, want %d", a.Len(), wantShards)
			}
			if wantShards > 0 {
				if _, err := a.Get("/bool_data_0.bgdata"); err != nil {
					t.Fatal("shard numbering broken:", err)
				}
			}
			round, err := GameDataPackFromArchive(a)
			if err != nil {
				t.Fatal(err)
			}
			if !round.Equal(pack) {
				t.Fatal("defragmented view differs from original")
			}
		})
	}
}

func TestSaveDataShards(t *testing.T) {
	s := &SaveData{
		Info: byml.FromMap(map[string]*byml.Node{
			"file_name": byml.FromString("game_data.sav"),
		}),
		Flags: delmap.NewSorted[uint32, *byml.Node](),
	}
	for i := 0; i < shardCapacity+5; i++ {
		s.Flags.Set(uint32(i), flagNode(uint32(i), 0))
	}
	a, err := s.ToArchive(format.Big)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 {
		t.Fatalf("emitted %d shards, want 2", a.Len())
	}
	round, err := SaveDataPackFromArchive(a)
	if err != nil {
		t.Fatal(err)
	}
	if !round.Equal(s) {
		t.Fatal("defragmented view differs from original")
	}
}

func TestSaveDataDiffMerge(t *testing.T) {
	base := &SaveData{Info: byml.FromMap(nil), Flags: delmap.NewSorted[uint32, *byml.Node]()}
	base.Flags.Set(1, flagNode(1, 1))
	mod := &SaveData{Info: byml.FromMap(nil), Flags: base.Flags.Clone()}
	mod.Flags.Set(2, flagNode(2, 2))
	if !base.Merge(base.Diff(mod)).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
}
