package content

import (
	"fmt"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/delmap"
)

// Recipe maps recipe table names to their ingredient counts.
type Recipe struct {
	Tables *delmap.DeleteMap[string, *delmap.DeleteMap[string, int32]]
}

// RecipeFromParameterIO builds a Recipe from a parsed .brecipe document.
func RecipeFromParameterIO(pio *aamp.ParameterIO) (*Recipe, error) {
	header, ok := pio.Object("Header")
	if !ok {
		return nil, missingKey(aamp.ErrMissingKey, "recipe", "Header")
	}
	numParam, ok := header.Get("TableNum")
	if !ok {
		return nil, missingKey(aamp.ErrMissingKey, "recipe header", "TableNum")
	}
	num, err := numParam.AsInt()
	if err != nil {
		return nil, err
	}
	res := &Recipe{Tables: delmap.New[string, *delmap.DeleteMap[string, int32]]()}
	for i := int32(1); i <= num; i++ {
		nameParam, ok := header.Get(fmt.Sprintf("Table%02d", i))
		if !ok {
			return nil, missingKey(aamp.ErrMissingKey, "recipe header", fmt.Sprintf("Table%02d", i))
		}
		name, err := nameParam.AsString()
		if err != nil {
			return nil, err
		}
		obj, ok := pio.Object(name)
		if !ok {
			return nil, missingKey(aamp.ErrMissingKey, "recipe", name)
		}
		table, err := recipeTableFromObject(name, obj)
		if err != nil {
			return nil, err
		}
		res.Tables.Set(name, table)
	}
	return res, nil
}

func recipeTableFromObject(table string, obj *aamp.ParameterObject) (*delmap.DeleteMap[string, int32], error) {
	res := delmap.New[string, int32]()
	colParam, ok := obj.Get("ColumnNum")
	if !ok {
		return nil, missingKey(aamp.ErrMissingKey, "recipe table "+table, "ColumnNum")
	}
	cols, err := colParam.AsInt()
	if err != nil {
		return nil, err
	}
	for i := int32(1); i <= cols; i++ {
		nameParam, ok := obj.Get(fmt.Sprintf("ItemName%02d", i))
		if !ok {
			return nil, missingKey(aamp.ErrMissingKey, "recipe table "+table, fmt.Sprintf("ItemName%02d", i))
		}
		name, err := nameParam.AsString()
		if err != nil {
			return nil, err
		}
		numParam, ok := obj.Get(fmt.Sprintf("ItemNum%02d", i))
		if !ok {
			return nil, missingKey(aamp.ErrMissingKey, "recipe table "+table, fmt.Sprintf("ItemNum%02d", i))
		}
		n, err := numParam.AsInt()
		if err != nil {
			return nil, err
		}
		res.Set(name, n)
	}
	return res, nil
}

// ToParameterIO re-emits the document with renumbered header slots and
// item columns.
func (r *Recipe) ToParameterIO() *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	var header aamp.ParameterObject
	header.Set("TableNum", aamp.Int(int32(r.Tables.Len())))
	i := 1
	r.Tables.Iter(func(name string, _ *delmap.DeleteMap[string, int32]) bool {
		header.Set(fmt.Sprintf("Table%02d", i), aamp.String64(name))
		i++
		return true
	})
	pio.Root.SetObject("Header", header)
	r.Tables.Iter(func(name string, table *delmap.DeleteMap[string, int32]) bool {
		var obj aamp.ParameterObject
		obj.Set("ColumnNum", aamp.Int(int32(table.Len())))
		col := 1
		table.Iter(func(item string, n int32) bool {
			obj.Set(fmt.Sprintf("ItemName%02d", col), aamp.String64(item))
			obj.Set(fmt.Sprintf("ItemNum%02d", col), aamp.Int(n))
			col++
			return true
		})
		pio.Root.SetObject(name, obj)
		return true
	})
	return pio
}

func recipeTablesEqual(a, b *delmap.DeleteMap[string, int32]) bool {
	return a.Equal(b, func(x, y int32) bool { return x == y })
}

// Diff is table-grained, matching drop tables.
func (r *Recipe) Diff(other *Recipe) *Recipe {
	return &Recipe{Tables: r.Tables.Diff(other.Tables, recipeTablesEqual)}
}

func (r *Recipe) Merge(diff *Recipe) *Recipe {
	return &Recipe{Tables: r.Tables.Merge(diff.Tables)}
}

func (r *Recipe) Equal(other *Recipe) bool {
	return r.Tables.Equal(other.Tables, recipeTablesEqual)
}
