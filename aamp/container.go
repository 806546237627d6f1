package aamp

import (
	"github.com/resmerge/resmerge/format"
)

// ParameterObject is an ordered collection of named parameters. Names are
// unique; Set overwrites in place.
type ParameterObject struct {
	names  []string
	params []Parameter
}

func (o *ParameterObject) Len() int { return len(o.names) }

func (o *ParameterObject) Names() []string { return o.names }

func (o *ParameterObject) Get(name string) (Parameter, bool) {
	for i, n := range o.names {
		if n == name {
			return o.params[i], true
		}
	}
	return Parameter{}, false
}

func (o *ParameterObject) Set(name string, p Parameter) {
	for i, n := range o.names {
		if n == name {
			o.params[i] = p
			return
		}
	}
	o.names = append(o.names, name)
	o.params = append(o.params, p)
}

// At returns the i-th name/parameter pair in order.
func (o *ParameterObject) At(i int) (string, Parameter) {
	return o.names[i], o.params[i]
}

func (o *ParameterObject) Iter(f func(name string, p Parameter) bool) {
	for i := range o.names {
		if !f(o.names[i], o.params[i]) {
			return
		}
	}
}

func (o *ParameterObject) Clone() ParameterObject {
	return ParameterObject{
		names:  append([]string(nil), o.names...),
		params: append([]Parameter(nil), o.params...),
	}
}

func (o *ParameterObject) Equal(other *ParameterObject) bool {
	if len(o.names) != len(other.names) {
		return false
	}
	for i := range o.names {
		if o.names[i] != other.names[i] || !o.params[i].Equal(other.params[i]) {
			return false
		}
	}
	return true
}

// ParameterList groups named objects and named nested lists.
type ParameterList struct {
	listNames []string
	lists     []ParameterList
	objNames  []string
	objs      []ParameterObject
}

func (l *ParameterList) NumLists() int   { return len(l.listNames) }
func (l *ParameterList) NumObjects() int { return len(l.objNames) }

func (l *ParameterList) List(name string) (*ParameterList, bool) {
	for i, n := range l.listNames {
		if n == name {
			return &l.lists[i], true
		}
	}
	return nil, false
}

func (l *ParameterList) Object(name string) (*ParameterObject, bool) {
	for i, n := range l.objNames {
		if n == name {
			return &l.objs[i], true
		}
	}
	return nil, false
}

func (l *ParameterList) SetList(name string, v ParameterList) {
	for i, n := range l.listNames {
		if n == name {
			l.lists[i] = v
			return
		}
	}
	l.listNames = append(l.listNames, name)
	l.lists = append(l.lists, v)
}

func (l *ParameterList) SetObject(name string, v ParameterObject) {
	for i, n := range l.objNames {
		if n == name {
			l.objs[i] = v
			return
		}
	}
	l.objNames = append(l.objNames, name)
	l.objs = append(l.objs, v)
}

func (l *ParameterList) IterLists(f func(name string, v *ParameterList) bool) {
	for i := range l.listNames {
		if !f(l.listNames[i], &l.lists[i]) {
			return
		}
	}
}

func (l *ParameterList) IterObjects(f func(name string, v *ParameterObject) bool) {
	for i := range l.objNames {
		if !f(l.objNames[i], &l.objs[i]) {
			return
		}
	}
}

func (l *ParameterList) Clone() ParameterList {
	res := ParameterList{
		listNames: append([]string(nil), l.listNames...),
		objNames:  append([]string(nil), l.objNames...),
	}
	res.lists = make([]ParameterList, len(l.lists))
	for i := range l.lists {
		res.lists[i] = l.lists[i].Clone()
	}
	res.objs = make([]ParameterObject, len(l.objs))
	for i := range l.objs {
		res.objs[i] = l.objs[i].Clone()
	}
	return res
}

func (l *ParameterList) Equal(other *ParameterList) bool {
	if len(l.listNames) != len(other.listNames) || len(l.objNames) != len(other.objNames) {
		return false
	}
	for i := range l.listNames {
		if l.listNames[i] != other.listNames[i] || !l.lists[i].Equal(&other.lists[i]) {
			return false
		}
	}
	for i := range l.objNames {
		if l.objNames[i] != other.objNames[i] || !l.objs[i].Equal(&other.objs[i]) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the list holds no objects and no lists.
func (l *ParameterList) IsEmpty() bool {
	return len(l.listNames) == 0 && len(l.objNames) == 0
}

// ParameterIO is a whole parameter document: a root list plus the document
// type tag and the endianness detected at parse time (and used again on
// serialization unless overridden).
type ParameterIO struct {
	Version uint32
	Type    string
	Endian  format.Endian
	Root    ParameterList
}

// NewParameterIO returns an empty document with the conventional type tag.
func NewParameterIO() *ParameterIO {
	return &ParameterIO{Version: 2, Type: "xml"}
}

func (p *ParameterIO) Clone() *ParameterIO {
	return &ParameterIO{
		Version: p.Version,
		Type:    p.Type,
		Endian:  p.Endian,
		Root:    p.Root.Clone(),
	}
}

func (p *ParameterIO) Equal(other *ParameterIO) bool {
	return p.Version == other.Version && p.Type == other.Type && p.Root.Equal(&other.Root)
}

// Object is a shorthand for a root-level object lookup.
func (p *ParameterIO) Object(name string) (*ParameterObject, bool) {
	return p.Root.Object(name)
}

// List is a shorthand for a root-level list lookup.
func (p *ParameterIO) List(name string) (*ParameterList, bool) {
	return p.Root.List(name)
}
