package content

import (
	"fmt"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/delmap"
)

// DropEntry is one named drop table: repeat bounds plus the item
// probability map.
type DropEntry struct {
	RepeatNumMin int32
	RepeatNumMax int32
	Items        *delmap.DeleteMap[string, float32]
}

func (d *DropEntry) Equal(other *DropEntry) bool {
	return d.RepeatNumMin == other.RepeatNumMin &&
		d.RepeatNumMax == other.RepeatNumMax &&
		d.Items.Equal(other.Items, func(x, y float32) bool { return x == y })
}

// DropTable maps drop table names to their entries.
type DropTable struct {
	Tables *delmap.DeleteMap[string, *DropEntry]
}

// DropTableFromParameterIO builds a DropTable from a parsed .bdrop document.
// The Header object names the tables; each named object carries its rows.
func DropTableFromParameterIO(pio *aamp.ParameterIO) (*DropTable, error) {
	header, ok := pio.Object("Header")
	if !ok {
		return nil, missingKey(aamp.ErrMissingKey, "drop table", "Header")
	}
	numParam, ok := header.Get("TableNum")
	if !ok {
		return nil, missingKey(aamp.ErrMissingKey, "drop table header", "TableNum")
	}
	num, err := numParam.AsInt()
	if err != nil {
		return nil, err
	}
	res := &DropTable{Tables: delmap.New[string, *DropEntry]()}
	for i := int32(1); i <= num; i++ {
		nameParam, ok := header.Get(fmt.Sprintf("Table%02d", i))
		if !ok {
			return nil, missingKey(aamp.ErrMissingKey, "drop table header", fmt.Sprintf("Table%02d", i))
		}
		name, err := nameParam.AsString()
		if err != nil {
			return nil, err
		}
		obj, ok := pio.Object(name)
		if !ok {
			return nil, missingKey(aamp.ErrMissingKey, "drop table", name)
		}
		entry, err := dropEntryFromObject(name, obj)
		if err != nil {
			return nil, err
		}
		res.Tables.Set(name, entry)
	}
	return res, nil
}

func dropEntryFromObject(table string, obj *aamp.ParameterObject) (*DropEntry, error) {
	entry := &DropEntry{Items: delmap.New[string, float32]()}
	get := func(key string) (aamp.Parameter, error) {
		p, ok := obj.Get(key)
		if !ok {
			return aamp.Parameter{}, missingKey(aamp.ErrMissingKey, "drop table "+table, key)
		}
		return p, nil
	}
	p, err := get("RepeatNumMin")
	if err != nil {
		return nil, err
	}
	if entry.RepeatNumMin, err = p.AsInt(); err != nil {
		return nil, err
	}
	if p, err = get("RepeatNumMax"); err != nil {
		return nil, err
	}
	if entry.RepeatNumMax, err = p.AsInt(); err != nil {
		return nil, err
	}
	if p, err = get("ColumnNum"); err != nil {
		return nil, err
	}
	cols, err := p.AsInt()
	if err != nil {
		return nil, err
	}
	for i := int32(1); i <= cols; i++ {
		nameParam, err := get(fmt.Sprintf("ItemName%02d", i))
		if err != nil {
			return nil, err
		}
		name, err := nameParam.AsString()
		if err != nil {
			return nil, err
		}
		probParam, err := get(fmt.Sprintf("ItemProbability%02d", i))
		if err != nil {
			return nil, err
		}
		prob, err := probParam.AsFloat()
		if err != nil {
			return nil, err
		}
		entry.Items.Set(name, prob)
	}
	return entry, nil
}

// ToParameterIO re-emits the document with renumbered header slots and
// item columns.
func (d *DropTable) ToParameterIO() *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	var header aamp.ParameterObject
	header.Set("TableNum", aamp.Int(int32(d.Tables.Len())))
	i := 1
	d.Tables.Iter(func(name string, _ *DropEntry) bool {
		header.Set(fmt.Sprintf("Table%02d", i), aamp.String64(name))
		i++
		return true
	})
	pio.Root.SetObject("Header", header)
	d.Tables.Iter(func(name string, entry *DropEntry) bool {
		var obj aamp.ParameterObject
		obj.Set("RepeatNumMin", aamp.Int(entry.RepeatNumMin))
		obj.Set("RepeatNumMax", aamp.Int(entry.RepeatNumMax))
		obj.Set("ColumnNum", aamp.Int(int32(entry.Items.Len())))
		col := 1
		entry.Items.Iter(func(item string, prob float32) bool {
			obj.Set(fmt.Sprintf("ItemName%02d", col), aamp.String64(item))
			obj.Set(fmt.Sprintf("ItemProbability%02d", col), aamp.Float(prob))
			col++
			return true
		})
		pio.Root.SetObject(name, obj)
		return true
	})
	return pio
}

// Diff is table-grained: a changed table appears whole in the diff. A
// repeat-bound tweak and an item tweak both replace the table on merge.
func (d *DropTable) Diff(other *DropTable) *DropTable {
	return &DropTable{Tables: d.Tables.Diff(other.Tables, func(a, b *DropEntry) bool {
		return a.Equal(b)
	})}
}

func (d *DropTable) Merge(diff *DropTable) *DropTable {
	return &DropTable{Tables: d.Tables.Merge(diff.Tables)}
}

func (d *DropTable) Equal(other *DropTable) bool {
	return d.Tables.Equal(other.Tables, func(a, b *DropEntry) bool { return a.Equal(b) })
}
