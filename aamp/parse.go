package aamp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/resmerge/resmerge/format"
)

const (
	magic = "AAMP"

	flagLittleEndian = 1 << 0
	flagUTF8         = 1 << 1

	rootName = "param_root"
)

// IsParameterIO reports whether data begins with the parameter file magic.
func IsParameterIO(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == magic
}

type reader struct {
	data      []byte
	bo        binary.ByteOrder
	pos       int
	stringOff int
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("%w: u32 at %#x", ErrUnexpectedEOF, r.pos)
	}
	v := r.bo.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("%w: u16 at %#x", ErrUnexpectedEOF, r.pos)
	}
	v := r.bo.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) f32() (float32, error) {
	v, err := r.u32()
	return math.Float32frombits(v), err
}

// str resolves a string section reference.
func (r *reader) str(ref uint32) (string, error) {
	start := r.stringOff + int(ref)
	if start >= len(r.data) {
		return "", fmt.Errorf("%w: string ref %#x", ErrUnexpectedEOF, ref)
	}
	end := bytes.IndexByte(r.data[start:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated string at %#x", ErrUnexpectedEOF, start)
	}
	return string(r.data[start : start+end]), nil
}

// Parse reads a parameter document. Endianness is detected from the header
// flags and recorded on the returned document.
func Parse(data []byte) (*ParameterIO, error) {
	if !IsParameterIO(data) {
		return nil, ErrBadMagic
	}
	if len(data) < 36 {
		return nil, fmt.Errorf("%w: header", ErrUnexpectedEOF)
	}
	endian := format.Big
	if data[8]&flagLittleEndian != 0 {
		endian = format.Little
	}
	r := &reader{data: data, bo: endian.ByteOrder(), pos: 4}
	ver, err := r.u32()
	if err != nil {
		return nil, err
	}
	if _, err := r.u32(); err != nil { // flags
		return nil, err
	}
	if _, err := r.u32(); err != nil { // file size
		return nil, err
	}
	if _, err := r.u32(); err != nil { // pio version
		return nil, err
	}
	strOff, err := r.u32()
	if err != nil {
		return nil, err
	}
	if int(strOff) > len(data) {
		return nil, fmt.Errorf("%w: string section offset %#x", ErrUnexpectedEOF, strOff)
	}
	r.stringOff = int(strOff)
	r.pos += 12 // list/object/param counts, informational only

	pioType, err := r.str(0)
	if err != nil {
		return nil, err
	}
	pio := &ParameterIO{Version: ver, Type: pioType, Endian: endian}
	rootListName, root, err := r.list()
	if err != nil {
		return nil, err
	}
	if rootListName != rootName {
		return nil, fmt.Errorf("%w: root list named %q", ErrTypeMismatch, rootListName)
	}
	pio.Root = root
	return pio, nil
}

func (r *reader) list() (string, ParameterList, error) {
	var res ParameterList
	nameRef, err := r.u32()
	if err != nil {
		return "", res, err
	}
	name, err := r.str(nameRef)
	if err != nil {
		return "", res, err
	}
	numLists, err := r.u16()
	if err != nil {
		return "", res, err
	}
	numObjs, err := r.u16()
	if err != nil {
		return "", res, err
	}
	for i := 0; i < int(numLists); i++ {
		childName, child, err := r.list()
		if err != nil {
			return "", res, fmt.Errorf("list %q: %w", name, err)
		}
		res.listNames = append(res.listNames, childName)
		res.lists = append(res.lists, child)
	}
	for i := 0; i < int(numObjs); i++ {
		objName, obj, err := r.object()
		if err != nil {
			return "", res, fmt.Errorf("list %q: %w", name, err)
		}
		res.objNames = append(res.objNames, objName)
		res.objs = append(res.objs, obj)
	}
	return name, res, nil
}

func (r *reader) object() (string, ParameterObject, error) {
	var res ParameterObject
	nameRef, err := r.u32()
	if err != nil {
		return "", res, err
	}
	name, err := r.str(nameRef)
	if err != nil {
		return "", res, err
	}
	numParams, err := r.u16()
	if err != nil {
		return "", res, err
	}
	if _, err := r.u16(); err != nil { // padding
		return "", res, err
	}
	for i := 0; i < int(numParams); i++ {
		pName, p, err := r.param()
		if err != nil {
			return "", res, fmt.Errorf("object %q: %w", name, err)
		}
		res.names = append(res.names, pName)
		res.params = append(res.params, p)
	}
	return name, res, nil
}

func (r *reader) param() (string, Parameter, error) {
	var p Parameter
	nameRef, err := r.u32()
	if err != nil {
		return "", p, err
	}
	name, err := r.str(nameRef)
	if err != nil {
		return "", p, err
	}
	if r.pos+4 > len(r.data) {
		return "", p, fmt.Errorf("%w: parameter %q", ErrUnexpectedEOF, name)
	}
	p.Type = ParamType(r.data[r.pos])
	r.pos += 4
	switch {
	case p.Type == BoolParam:
		v, err := r.u32()
		if err != nil {
			return "", p, err
		}
		p.Bool = v != 0
	case p.Type == IntParam:
		v, err := r.u32()
		if err != nil {
			return "", p, err
		}
		p.Int = int32(v)
	case p.Type == UIntParam:
		v, err := r.u32()
		if err != nil {
			return "", p, err
		}
		p.UInt = v
	case p.Type == FloatParam:
		v, err := r.f32()
		if err != nil {
			return "", p, err
		}
		p.Float = v
	case p.Type.isString():
		ref, err := r.u32()
		if err != nil {
			return "", p, err
		}
		s, err := r.str(ref)
		if err != nil {
			return "", p, err
		}
		p.Str = s
	case p.Type.vecLen() > 0:
		for i := 0; i < p.Type.vecLen(); i++ {
			v, err := r.f32()
			if err != nil {
				return "", p, err
			}
			p.Vec[i] = v
		}
	case p.Type.curveCount() > 0:
		p.Curves = make([]Curve, p.Type.curveCount())
		for i := range p.Curves {
			c := &p.Curves[i]
			if c.A, err = r.u32(); err != nil {
				return "", p, err
			}
			if c.B, err = r.u32(); err != nil {
				return "", p, err
			}
			for j := range c.Floats {
				if c.Floats[j], err = r.f32(); err != nil {
					return "", p, err
				}
			}
		}
	default:
		return "", p, fmt.Errorf("%w: parameter %q has unknown type %d", ErrTypeMismatch, name, uint8(p.Type))
	}
	return name, p, nil
}
