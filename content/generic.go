package content

import (
	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/byml"
)

// GenericAamp is the fallback for parameter documents with no dedicated
// schema. Diff and merge recurse through the list/object structure with
// replace-on-change at the parameter level; entries can be added or
// overridden but not removed, since the generic shape has no key map to
// hang a tombstone on.
type GenericAamp struct {
	PIO *aamp.ParameterIO
}

func (g *GenericAamp) Diff(other *GenericAamp) *GenericAamp {
	res := aamp.NewParameterIO()
	res.Version = other.PIO.Version
	res.Type = other.PIO.Type
	res.Endian = other.PIO.Endian
	res.Root = DiffList(&g.PIO.Root, &other.PIO.Root)
	return &GenericAamp{PIO: res}
}

func (g *GenericAamp) Merge(diff *GenericAamp) *GenericAamp {
	res := aamp.NewParameterIO()
	res.Version = g.PIO.Version
	res.Type = g.PIO.Type
	res.Endian = g.PIO.Endian
	res.Root = MergeList(&g.PIO.Root, &diff.PIO.Root)
	return &GenericAamp{PIO: res}
}

func (g *GenericAamp) Equal(other *GenericAamp) bool {
	return g.PIO.Equal(other.PIO)
}

// genericDelete marks a removed hash key inside a generic tree diff. The
// marker lives only in diffs; merge consumes it.
const genericDelete = "~~DELETE~~"

func isGenericDelete(n *byml.Node) bool {
	return n != nil && n.Type == byml.StringType && n.String == genericDelete
}

// GenericByml is the fallback for tree documents with no dedicated schema.
// Hashes diff key-wise with delete markers; arrays and scalars are atomic.
type GenericByml struct {
	Node *byml.Node
}

func diffBymlNode(base, other *byml.Node) *byml.Node {
	if base.Type != byml.HashType || other.Type != byml.HashType {
		return other.Clone()
	}
	res := byml.FromMap(nil)
	for i, key := range other.Keys {
		val := other.Values[i]
		bv := base.Get(key)
		switch {
		case bv == nil:
			res.Set(key, val.Clone())
		case byml.Equal(bv, val):
		default:
			res.Set(key, diffBymlNode(bv, val))
		}
	}
	for _, key := range base.Keys {
		if other.Get(key) == nil {
			res.Set(key, byml.FromString(genericDelete))
		}
	}
	return res
}

func mergeBymlNode(base, diff *byml.Node) *byml.Node {
	if base.Type != byml.HashType || diff.Type != byml.HashType {
		return diff.Clone()
	}
	res := base.Clone()
	for i, key := range diff.Keys {
		val := diff.Values[i]
		if isGenericDelete(val) {
			res.Delete(key)
			continue
		}
		if bv := base.Get(key); bv != nil && bv.Type == byml.HashType && val.Type == byml.HashType {
			res.Set(key, mergeBymlNode(bv, val))
		} else {
			res.Set(key, val.Clone())
		}
	}
	return res
}

func (g *GenericByml) Diff(other *GenericByml) *GenericByml {
	return &GenericByml{Node: diffBymlNode(g.Node, other.Node)}
}

func (g *GenericByml) Merge(diff *GenericByml) *GenericByml {
	return &GenericByml{Node: mergeBymlNode(g.Node, diff.Node)}
}

func (g *GenericByml) Equal(other *GenericByml) bool {
	return byml.Equal(g.Node, other.Node)
}
