package aamp

import (
	"encoding/binary"
	"math"

	"github.com/resmerge/resmerge/format"
)

const headerSize = 36

type writer struct {
	bo  binary.ByteOrder
	buf []byte

	strOff  map[string]uint32
	strData []byte

	numLists, numObjects, numParams uint32
}

// ToBinary serializes the document with the endianness recorded on it.
func (p *ParameterIO) ToBinary() []byte {
	return p.ToBinaryEndian(p.Endian)
}

// ToBinaryEndian serializes the document for a specific target platform.
func (p *ParameterIO) ToBinaryEndian(endian format.Endian) []byte {
	w := &writer{
		bo:     endian.ByteOrder(),
		strOff: map[string]uint32{},
	}
	// The document type is string ref 0, the root list name follows.
	w.internString(p.Type)
	w.internString(rootName)
	w.collectList(&p.Root)

	w.buf = make([]byte, headerSize)
	copy(w.buf, magic)
	w.bo.PutUint32(w.buf[4:], p.Version)
	flags := uint32(flagUTF8)
	if endian == format.Little {
		flags |= flagLittleEndian
	}
	w.bo.PutUint32(w.buf[8:], flags)

	w.writeList(rootName, &p.Root)

	strStart := uint32(len(w.buf))
	w.buf = append(w.buf, w.strData...)
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
	w.bo.PutUint32(w.buf[12:], uint32(len(w.buf)))
	w.bo.PutUint32(w.buf[16:], 0) // pio version
	w.bo.PutUint32(w.buf[20:], strStart)
	w.bo.PutUint32(w.buf[24:], w.numLists)
	w.bo.PutUint32(w.buf[28:], w.numObjects)
	w.bo.PutUint32(w.buf[32:], w.numParams)
	return w.buf
}

// internString adds a string to the section once, in first-use order.
func (w *writer) internString(s string) uint32 {
	if off, ok := w.strOff[s]; ok {
		return off
	}
	off := uint32(len(w.strData))
	w.strOff[s] = off
	w.strData = append(w.strData, s...)
	w.strData = append(w.strData, 0)
	return off
}

// collectList interns every name and string value in writing order, so that
// string refs are known before the body is emitted.
func (w *writer) collectList(l *ParameterList) {
	l.IterLists(func(name string, child *ParameterList) bool {
		w.internString(name)
		w.collectList(child)
		return true
	})
	l.IterObjects(func(name string, obj *ParameterObject) bool {
		w.internString(name)
		obj.Iter(func(pName string, p Parameter) bool {
			w.internString(pName)
			if p.Type.isString() {
				w.internString(p.Str)
			}
			return true
		})
		return true
	})
}

func (w *writer) appendU32(v uint32) {
	var cell [4]byte
	w.bo.PutUint32(cell[:], v)
	w.buf = append(w.buf, cell[:]...)
}

func (w *writer) appendU16(v uint16) {
	var cell [2]byte
	w.bo.PutUint16(cell[:], v)
	w.buf = append(w.buf, cell[:]...)
}

func (w *writer) appendF32(v float32) {
	w.appendU32(math.Float32bits(v))
}

func (w *writer) writeList(name string, l *ParameterList) {
	w.numLists++
	w.appendU32(w.strOff[name])
	w.appendU16(uint16(l.NumLists()))
	w.appendU16(uint16(l.NumObjects()))
	l.IterLists(func(childName string, child *ParameterList) bool {
		w.writeList(childName, child)
		return true
	})
	l.IterObjects(func(objName string, obj *ParameterObject) bool {
		w.writeObject(objName, obj)
		return true
	})
}

func (w *writer) writeObject(name string, o *ParameterObject) {
	w.numObjects++
	w.appendU32(w.strOff[name])
	w.appendU16(uint16(o.Len()))
	w.appendU16(0)
	o.Iter(func(pName string, p Parameter) bool {
		w.writeParam(pName, p)
		return true
	})
}

func (w *writer) writeParam(name string, p Parameter) {
	w.numParams++
	w.appendU32(w.strOff[name])
	w.buf = append(w.buf, byte(p.Type), 0, 0, 0)
	switch {
	case p.Type == BoolParam:
		v := uint32(0)
		if p.Bool {
			v = 1
		}
		w.appendU32(v)
	case p.Type == IntParam:
		w.appendU32(uint32(p.Int))
	case p.Type == UIntParam:
		w.appendU32(p.UInt)
	case p.Type == FloatParam:
		w.appendF32(p.Float)
	case p.Type.isString():
		w.appendU32(w.strOff[p.Str])
	case p.Type.vecLen() > 0:
		for i := 0; i < p.Type.vecLen(); i++ {
			w.appendF32(p.Vec[i])
		}
	case p.Type.curveCount() > 0:
		for i := 0; i < p.Type.curveCount(); i++ {
			var c Curve
			if i < len(p.Curves) {
				c = p.Curves[i]
			}
			w.appendU32(c.A)
			w.appendU32(c.B)
			for _, f := range c.Floats {
				w.appendF32(f)
			}
		}
	}
}
