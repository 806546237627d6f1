package content

import (
	"fmt"
	"strings"

	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/delmap"
	"github.com/resmerge/resmerge/format"
	"github.com/resmerge/resmerge/sarc"
)

// shardCapacity is the flag count limit of one on-disk game data shard.
const shardCapacity = 4096

// GameData is one logical flag family: every flag of one data type, keyed
// by the flag's stable name hash, defragmented across its shards.
type GameData struct {
	DataType string
	Flags    *delmap.SortedDeleteMap[uint32, *byml.Node]
}

// GameDataFromByml builds a GameData from one parsed .bgdata shard. The
// document is a single-key hash naming the data type, holding the flag
// array.
func GameDataFromByml(doc *byml.Node) (*GameData, error) {
	keys, err := doc.HashKeys()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, missingKey(byml.ErrMissingKey, "game data shard", "data type key")
	}
	res := &GameData{
		DataType: keys[0],
		Flags:    delmap.NewSorted[uint32, *byml.Node](),
	}
	flags, err := doc.Get(keys[0]).ArrayValues()
	if err != nil {
		return nil, err
	}
	for i, flag := range flags {
		hashNode := flag.Get("HashValue")
		if hashNode == nil {
			return nil, missingKey(byml.ErrMissingKey, fmt.Sprintf("game data flag %d", i), "HashValue")
		}
		hash, err := hashNode.IntValue()
		if err != nil {
			return nil, err
		}
		res.Flags.Set(uint32(hash), flag.Clone())
	}
	return res, nil
}

// ToByml re-emits one shard document with flags in hash order.
func (g *GameData) ToByml() *byml.Node {
	flags := make([]*byml.Node, 0, g.Flags.Len())
	g.Flags.Iter(func(_ uint32, flag *byml.Node) bool {
		flags = append(flags, flag.Clone())
		return true
	})
	return byml.FromMap(map[string]*byml.Node{g.DataType: byml.FromSlice(flags)})
}

// divide splits the defragmented view back into shard-sized chunks.
func (g *GameData) divide() []*GameData {
	total := (g.Flags.Len() + shardCapacity - 1) / shardCapacity
	out := make([]*GameData, 0, total)
	var cur *GameData
	g.Flags.Iter(func(hash uint32, flag *byml.Node) bool {
		if cur == nil || cur.Flags.Len() == shardCapacity {
			cur = &GameData{DataType: g.DataType, Flags: delmap.NewSorted[uint32, *byml.Node]()}
			out = append(out, cur)
		}
		cur.Flags.Set(hash, flag)
		return true
	})
	return out
}

// Diff panics when the data types disagree: that is a dispatch bug, not
// bad input.
func (g *GameData) Diff(other *GameData) *GameData {
	if g.DataType != other.DataType {
		panic(fmt.Sprintf("diff of mismatched game data types %q and %q", g.DataType, other.DataType))
	}
	return &GameData{DataType: g.DataType, Flags: g.Flags.Diff(other.Flags, byml.Equal)}
}

func (g *GameData) Merge(diff *GameData) *GameData {
	if g.DataType != diff.DataType {
		panic(fmt.Sprintf("merge of mismatched game data types %q and %q", g.DataType, diff.DataType))
	}
	return &GameData{DataType: g.DataType, Flags: g.Flags.Merge(diff.Flags)}
}

func (g *GameData) Equal(other *GameData) bool {
	return g.DataType == other.DataType && g.Flags.Equal(other.Flags, byml.Equal)
}

// gameDataFamilies lists every flag family of the game data pack, in the
// archive's emission order. Family names double as shard file prefixes.
var gameDataFamilies = []string{
	"bool_array_data",
	"bool_data",
	"f32_array_data",
	"f32_data",
	"revival_bool_data",
	"revival_s32_data",
	"s32_array_data",
	"s32_data",
	"string32_data",
	"string64_array_data",
	"string64_data",
	"string256_array_data",
	"string256_data",
	"vector2f_array_data",
	"vector2f_data",
	"vector3f_array_data",
	"vector3f_data",
	"vector4f_data",
}

// storedDataType maps a family name to the data type string its shards
// declare. Two historical quirks survive here: the string32 family stores
// plain "string_data", and revival families drop their prefix.
func storedDataType(family string) string {
	if family == "string32_data" {
		return "string_data"
	}
	return strings.TrimPrefix(family, "revival_")
}

// GameDataPack is the whole flag archive as one defragmented family set.
type GameDataPack struct {
	Families map[string]*GameData
}

// GameDataPackFromArchive defragments a flag archive: every family's
// shards fold into one logical GameData.
func GameDataPackFromArchive(a *sarc.Archive) (*GameDataPack, error) {
	res := &GameDataPack{Families: make(map[string]*GameData, len(gameDataFamilies))}
	for _, family := range gameDataFamilies {
		acc := &GameData{
			DataType: storedDataType(family),
			Flags:    delmap.NewSorted[uint32, *byml.Node](),
		}
		for _, name := range a.Files() {
			if !strings.HasPrefix(strings.TrimPrefix(name, "/"), family) {
				continue
			}
			data, err := a.Get(name)
			if err != nil {
				return nil, err
			}
			doc, err := byml.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("game data shard %s: %w", name, err)
			}
			shard, err := GameDataFromByml(doc)
			if err != nil {
				return nil, fmt.Errorf("game data shard %s: %w", name, err)
			}
			if shard.DataType != acc.DataType {
				return nil, fmt.Errorf("%w: game data shard %s declares %q, family stores %q",
					byml.ErrTypeMismatch, name, shard.DataType, acc.DataType)
			}
			// A shard carries no tombstones, so merging overlays its
			// flags onto the accumulator.
			acc = acc.Merge(shard)
		}
		res.Families[family] = acc
	}
	return res, nil
}

// ToArchive re-shards every family into deterministically numbered
// entries.
func (p *GameDataPack) ToArchive(endian format.Endian) (*sarc.Archive, error) {
	a := sarc.New(endian)
	for _, family := range gameDataFamilies {
		data, ok := p.Families[family]
		if !ok {
			continue
		}
		for i, shard := range data.divide() {
			raw, err := byml.ToBinary(shard.ToByml(), endian)
			if err != nil {
				return nil, fmt.Errorf("game data family %s shard %d: %w", family, i, err)
			}
			a.Set(fmt.Sprintf("/%s_%d.bgdata", family, i), raw)
		}
	}
	return a, nil
}

func (p *GameDataPack) Diff(other *GameDataPack) *GameDataPack {
	res := &GameDataPack{Families: make(map[string]*GameData, len(gameDataFamilies))}
	for _, family := range gameDataFamilies {
		res.Families[family] = p.Families[family].Diff(other.Families[family])
	}
	return res
}

func (p *GameDataPack) Merge(diff *GameDataPack) *GameDataPack {
	res := &GameDataPack{Families: make(map[string]*GameData, len(gameDataFamilies))}
	for _, family := range gameDataFamilies {
		res.Families[family] = p.Families[family].Merge(diff.Families[family])
	}
	return res
}

func (p *GameDataPack) Equal(other *GameDataPack) bool {
	for _, family := range gameDataFamilies {
		if !p.Families[family].Equal(other.Families[family]) {
			return false
		}
	}
	return true
}
