// Package content defines the typed resource schemas and their diff/merge
// behavior. Each resource kind wraps one or more parsed parameter or binary
// tree documents in a structure that knows which fields are atomic values,
// which are delete-aware maps, and which recurse into nested mergeable
// schemas. Diff and merge never mutate their receivers.
//
// Diffing or merging two resources of incompatible declared types is a
// caller bug, not bad input, and panics.
package content

import (
	"fmt"

	"github.com/resmerge/resmerge/aamp"
)

// missingKey builds the recoverable parse error for a schema field the
// source document does not carry.
func missingKey(sentinel error, what, key string) error {
	return fmt.Errorf("%w: %s missing %s", sentinel, what, key)
}

// DiffObject computes a field-level diff of two parameter objects: params
// in other that are new or differ from base, in other's order. Params
// absent from other are dropped, not tombstoned; whole-object removal is
// expressed one level up, by the containing map.
func DiffObject(base, other *aamp.ParameterObject) aamp.ParameterObject {
	var res aamp.ParameterObject
	other.Iter(func(name string, p aamp.Parameter) bool {
		if bp, ok := base.Get(name); !ok || !bp.Equal(p) {
			res.Set(name, p)
		}
		return true
	})
	return res
}

// MergeObject overlays a diff onto a base object. Base params survive
// unless the diff overrides them; diff-only params append.
func MergeObject(base, diff *aamp.ParameterObject) aamp.ParameterObject {
	res := base.Clone()
	diff.Iter(func(name string, p aamp.Parameter) bool {
		res.Set(name, p)
		return true
	})
	return res
}

// DiffList recursively diffs two parameter lists: changed or new child
// objects and lists appear in the result, unchanged ones are absent.
func DiffList(base, other *aamp.ParameterList) aamp.ParameterList {
	var res aamp.ParameterList
	other.IterObjects(func(name string, obj *aamp.ParameterObject) bool {
		if bobj, ok := base.Object(name); ok {
			if !bobj.Equal(obj) {
				res.SetObject(name, DiffObject(bobj, obj))
			}
		} else {
			res.SetObject(name, obj.Clone())
		}
		return true
	})
	other.IterLists(func(name string, list *aamp.ParameterList) bool {
		if blist, ok := base.List(name); ok {
			if !blist.Equal(list) {
				res.SetList(name, DiffList(blist, list))
			}
		} else {
			res.SetList(name, list.Clone())
		}
		return true
	})
	return res
}

// MergeList recursively overlays a diff list onto a base list.
func MergeList(base, diff *aamp.ParameterList) aamp.ParameterList {
	res := base.Clone()
	diff.IterObjects(func(name string, obj *aamp.ParameterObject) bool {
		if bobj, ok := base.Object(name); ok {
			res.SetObject(name, MergeObject(bobj, obj))
		} else {
			res.SetObject(name, obj.Clone())
		}
		return true
	})
	diff.IterLists(func(name string, list *aamp.ParameterList) bool {
		if blist, ok := base.List(name); ok {
			res.SetList(name, MergeList(blist, list))
		} else {
			res.SetList(name, list.Clone())
		}
		return true
	})
	return res
}
