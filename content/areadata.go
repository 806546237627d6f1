package content

import (
	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/delmap"
)

// AreaData is the world area table, keyed by area number. Entries are
// atomic: a mod that touches any field of an area replaces the whole area
// record.
type AreaData struct {
	Areas *delmap.SortedDeleteMap[int64, *byml.Node]
}

// AreaDataFromByml builds an AreaData from a parsed areadata document,
// an array of area hashes each carrying an AreaNumber.
func AreaDataFromByml(doc *byml.Node) (*AreaData, error) {
	entries, err := doc.ArrayValues()
	if err != nil {
		return nil, err
	}
	res := &AreaData{Areas: delmap.NewSorted[int64, *byml.Node]()}
	for _, entry := range entries {
		numNode := entry.Get("AreaNumber")
		if numNode == nil {
			return nil, missingKey(byml.ErrMissingKey, "area data entry", "AreaNumber")
		}
		num, err := numNode.IntValue()
		if err != nil {
			return nil, err
		}
		res.Areas.Set(num, entry.Clone())
	}
	return res, nil
}

// ToByml re-emits the document in area number order.
func (a *AreaData) ToByml() *byml.Node {
	nodes := make([]*byml.Node, 0, a.Areas.Len())
	a.Areas.Iter(func(_ int64, entry *byml.Node) bool {
		nodes = append(nodes, entry.Clone())
		return true
	})
	return byml.FromSlice(nodes)
}

func (a *AreaData) Diff(other *AreaData) *AreaData {
	return &AreaData{Areas: a.Areas.Diff(other.Areas, byml.Equal)}
}

func (a *AreaData) Merge(diff *AreaData) *AreaData {
	return &AreaData{Areas: a.Areas.Merge(diff.Areas)}
}

func (a *AreaData) Equal(other *AreaData) bool {
	return a.Areas.Equal(other.Areas, byml.Equal)
}
