package content

import (
	"fmt"
	"sort"

	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/delmap"
)

// EntryPos is one spawn point inside a map static entry.
type EntryPos struct {
	Rotate      *byml.Node
	Translate   *byml.Node
	PlayerState string
}

func entryPosEqual(a, b EntryPos) bool {
	return a.PlayerState == b.PlayerState &&
		byml.Equal(a.Rotate, b.Rotate) &&
		byml.Equal(a.Translate, b.Translate)
}

// PosEntries maps spawn point names to their positions within one map.
// It carries the mergeable contract so the outer map can diff and merge
// per spawn point instead of replacing a map's whole entry set.
type PosEntries delmap.DeleteMap[string, EntryPos]

func (p *PosEntries) dm() *delmap.DeleteMap[string, EntryPos] {
	return (*delmap.DeleteMap[string, EntryPos])(p)
}

func (p *PosEntries) Diff(other *PosEntries) *PosEntries {
	return (*PosEntries)(p.dm().Diff(other.dm(), entryPosEqual))
}

func (p *PosEntries) Merge(diff *PosEntries) *PosEntries {
	return (*PosEntries)(p.dm().Merge(diff.dm()))
}

func (p *PosEntries) isEmpty() bool {
	return p.dm().Len() == 0 && !p.dm().HasDeletes()
}

// MapStatic is the main field static object document: spawn points grouped
// by map name, plus the remaining top-level sections kept as atomic arrays.
type MapStatic struct {
	StartPos *delmap.DeleteMap[string, *PosEntries]
	General  map[string][]*byml.Node
}

// MapStaticFromByml builds a MapStatic from a parsed static document.
// StartPos entries without a PosName are grouping stubs and are skipped.
func MapStaticFromByml(doc *byml.Node) (*MapStatic, error) {
	keys, err := doc.HashKeys()
	if err != nil {
		return nil, err
	}
	start := doc.Get("StartPos")
	if start == nil {
		return nil, missingKey(byml.ErrMissingKey, "map static", "StartPos")
	}
	entries, err := start.ArrayValues()
	if err != nil {
		return nil, err
	}
	res := &MapStatic{
		StartPos: delmap.New[string, *PosEntries](),
		General:  map[string][]*byml.Node{},
	}
	for i, entry := range entries {
		mapNode := entry.Get("Map")
		if mapNode == nil {
			return nil, missingKey(byml.ErrMissingKey, fmt.Sprintf("map static entry %d", i), "Map")
		}
		mapName, err := mapNode.StringValue()
		if err != nil {
			return nil, err
		}
		posNode := entry.Get("PosName")
		if posNode == nil {
			continue
		}
		posName, err := posNode.StringValue()
		if err != nil {
			return nil, err
		}
		pos := EntryPos{
			Rotate:    entry.Get("Rotate"),
			Translate: entry.Get("Translate"),
		}
		if pos.Rotate == nil {
			return nil, missingKey(byml.ErrMissingKey, fmt.Sprintf("map static entry %d", i), "Rotate")
		}
		if pos.Translate == nil {
			return nil, missingKey(byml.ErrMissingKey, fmt.Sprintf("map static entry %d", i), "Translate")
		}
		pos.Rotate = pos.Rotate.Clone()
		pos.Translate = pos.Translate.Clone()
		if state := entry.Get("PlayerState"); state != nil {
			if pos.PlayerState, err = state.StringValue(); err != nil {
				return nil, err
			}
		}
		perMap, ok := res.StartPos.Get(mapName)
		if !ok {
			perMap = (*PosEntries)(delmap.New[string, EntryPos]())
			res.StartPos.Set(mapName, perMap)
		}
		perMap.dm().Set(posName, pos)
	}
	for _, key := range keys {
		if key == "StartPos" {
			continue
		}
		vals, err := doc.Get(key).ArrayValues()
		if err != nil {
			return nil, fmt.Errorf("map static section %s: %w", key, err)
		}
		cloned := make([]*byml.Node, len(vals))
		for i, v := range vals {
			cloned[i] = v.Clone()
		}
		res.General[key] = cloned
	}
	return res, nil
}

// ToByml re-emits the document. Spawn points flatten back into one array
// in map order, then spawn point order.
func (m *MapStatic) ToByml() *byml.Node {
	var flat []*byml.Node
	m.StartPos.Iter(func(mapName string, entries *PosEntries) bool {
		entries.dm().Iter(func(posName string, pos EntryPos) bool {
			fields := map[string]*byml.Node{
				"Map":       byml.FromString(mapName),
				"PosName":   byml.FromString(posName),
				"Rotate":    pos.Rotate.Clone(),
				"Translate": pos.Translate.Clone(),
			}
			if pos.PlayerState != "" {
				fields["PlayerState"] = byml.FromString(pos.PlayerState)
			}
			flat = append(flat, byml.FromMap(fields))
			return true
		})
		return true
	})
	sections := map[string]*byml.Node{"StartPos": byml.FromSlice(flat)}
	for key, vals := range m.General {
		cloned := make([]*byml.Node, len(vals))
		for i, v := range vals {
			cloned[i] = v.Clone()
		}
		sections[key] = byml.FromSlice(cloned)
	}
	return byml.FromMap(sections)
}

func generalEqual(a, b []*byml.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !byml.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Diff recurses into spawn points per map; general sections are atomic
// and replace whole on change.
func (m *MapStatic) Diff(other *MapStatic) *MapStatic {
	res := &MapStatic{
		StartPos: delmap.DeepDiff(m.StartPos, other.StartPos, (*PosEntries).isEmpty),
		General:  map[string][]*byml.Node{},
	}
	for key, vals := range other.General {
		if base, ok := m.General[key]; !ok || !generalEqual(base, vals) {
			res.General[key] = vals
		}
	}
	return res
}

func (m *MapStatic) Merge(diff *MapStatic) *MapStatic {
	res := &MapStatic{
		StartPos: delmap.DeepMerge(m.StartPos, diff.StartPos),
		General:  map[string][]*byml.Node{},
	}
	for key, vals := range m.General {
		res.General[key] = vals
	}
	for key, vals := range diff.General {
		res.General[key] = vals
	}
	return res
}

func (m *MapStatic) Equal(other *MapStatic) bool {
	if len(m.General) != len(other.General) {
		return false
	}
	keys := make([]string, 0, len(m.General))
	for key := range m.General {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		vals, ok := other.General[key]
		if !ok || !generalEqual(m.General[key], vals) {
			return false
		}
	}
	return m.StartPos.Equal(other.StartPos, func(a, b *PosEntries) bool {
		return a.dm().Equal(b.dm(), entryPosEqual)
	})
}
