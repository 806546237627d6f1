package content

import (
	"fmt"
	"strings"

	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/delmap"
	"github.com/resmerge/resmerge/format"
	"github.com/resmerge/resmerge/sarc"
)

// SaveData is the save flag table, defragmented across its shards the same
// way game data is. The file_list header is atomic and shared by every
// shard.
type SaveData struct {
	Info  *byml.Node
	Flags *delmap.SortedDeleteMap[uint32, *byml.Node]
}

// SaveDataFromByml builds a SaveData from one parsed .bgsvdata shard. The
// document carries a file_list array whose first element is the save info
// hash and whose second element is the flag array.
func SaveDataFromByml(doc *byml.Node) (*SaveData, error) {
	list := doc.Get("file_list")
	if list == nil {
		return nil, missingKey(byml.ErrMissingKey, "save data shard", "file_list")
	}
	parts, err := list.ArrayValues()
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		return nil, missingKey(byml.ErrMissingKey, "save data shard", "file_list entries")
	}
	res := &SaveData{
		Info:  parts[0].Clone(),
		Flags: delmap.NewSorted[uint32, *byml.Node](),
	}
	flags, err := parts[1].ArrayValues()
	if err != nil {
		return nil, err
	}
	for i, flag := range flags {
		hashNode := flag.Get("HashValue")
		if hashNode == nil {
			return nil, missingKey(byml.ErrMissingKey, fmt.Sprintf("save data flag %d", i), "HashValue")
		}
		hash, err := hashNode.IntValue()
		if err != nil {
			return nil, err
		}
		res.Flags.Set(uint32(hash), flag.Clone())
	}
	return res, nil
}

// ToByml re-emits one shard document.
func (s *SaveData) ToByml() *byml.Node {
	flags := make([]*byml.Node, 0, s.Flags.Len())
	s.Flags.Iter(func(_ uint32, flag *byml.Node) bool {
		flags = append(flags, flag.Clone())
		return true
	})
	return byml.FromMap(map[string]*byml.Node{
		"file_list": byml.FromSlice([]*byml.Node{s.Info.Clone(), byml.FromSlice(flags)}),
	})
}

func (s *SaveData) divide() []*SaveData {
	total := (s.Flags.Len() + shardCapacity - 1) / shardCapacity
	out := make([]*SaveData, 0, total)
	var cur *SaveData
	s.Flags.Iter(func(hash uint32, flag *byml.Node) bool {
		if cur == nil || cur.Flags.Len() == shardCapacity {
			cur = &SaveData{Info: s.Info, Flags: delmap.NewSorted[uint32, *byml.Node]()}
			out = append(out, cur)
		}
		cur.Flags.Set(hash, flag)
		return true
	})
	return out
}

// Diff treats the info hash as atomic and the flags as a delete-aware map.
func (s *SaveData) Diff(other *SaveData) *SaveData {
	info := s.Info
	if !byml.Equal(s.Info, other.Info) {
		info = other.Info
	}
	return &SaveData{Info: info, Flags: s.Flags.Diff(other.Flags, byml.Equal)}
}

func (s *SaveData) Merge(diff *SaveData) *SaveData {
	return &SaveData{Info: diff.Info, Flags: s.Flags.Merge(diff.Flags)}
}

func (s *SaveData) Equal(other *SaveData) bool {
	return byml.Equal(s.Info, other.Info) && s.Flags.Equal(other.Flags, byml.Equal)
}

// SaveDataPackFromArchive defragments a save format archive into one
// logical SaveData.
func SaveDataPackFromArchive(a *sarc.Archive) (*SaveData, error) {
	var acc *SaveData
	for _, name := range a.Files() {
		if !strings.HasSuffix(name, ".bgsvdata") {
			continue
		}
		data, err := a.Get(name)
		if err != nil {
			return nil, err
		}
		doc, err := byml.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("save data shard %s: %w", name, err)
		}
		shard, err := SaveDataFromByml(doc)
		if err != nil {
			return nil, fmt.Errorf("save data shard %s: %w", name, err)
		}
		if acc == nil {
			acc = shard
			continue
		}
		acc = acc.Merge(&SaveData{Info: acc.Info, Flags: shard.Flags})
	}
	if acc == nil {
		acc = &SaveData{Info: byml.FromMap(nil), Flags: delmap.NewSorted[uint32, *byml.Node]()}
	}
	return acc, nil
}

// ToArchive re-shards the save flags into deterministically numbered
// entries.
func (s *SaveData) ToArchive(endian format.Endian) (*sarc.Archive, error) {
	a := sarc.New(endian)
	for i, shard := range s.divide() {
		raw, err := byml.ToBinary(shard.ToByml(), endian)
		if err != nil {
			return nil, fmt.Errorf("save data shard %d: %w", i, err)
		}
		a.Set(fmt.Sprintf("/saveformat_%d.bgsvdata", i), raw)
	}
	return a, nil
}
