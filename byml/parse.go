package byml

import (
	"encoding/binary"
	"fmt"

	"github.com/resmerge/resmerge/format"
)

const (
	headerSize = 16
	version    = 2
)

// SniffEndian reports the endianness encoded in a document's magic.
func SniffEndian(data []byte) (format.Endian, bool) {
	if len(data) < 2 {
		return format.Big, false
	}
	switch string(data[:2]) {
	case "BY":
		return format.Big, true
	case "YB":
		return format.Little, true
	}
	return format.Big, false
}

type reader struct {
	data []byte
	bo   binary.ByteOrder
	keys []string
	strs []string
}

func (r *reader) u32(pos uint32) (uint32, error) {
	if int(pos)+4 > len(r.data) {
		return 0, fmt.Errorf("%w: u32 at %#x", ErrUnexpectedEOF, pos)
	}
	return r.bo.Uint32(r.data[pos:]), nil
}

func (r *reader) u16(pos uint32) (uint16, error) {
	if int(pos)+2 > len(r.data) {
		return 0, fmt.Errorf("%w: u16 at %#x", ErrUnexpectedEOF, pos)
	}
	return r.bo.Uint16(r.data[pos:]), nil
}

func (r *reader) u64(pos uint32) (uint64, error) {
	if int(pos)+8 > len(r.data) {
		return 0, fmt.Errorf("%w: u64 at %#x", ErrUnexpectedEOF, pos)
	}
	return r.bo.Uint64(r.data[pos:]), nil
}

// Parse reads a binary tree document, detecting endianness from the magic.
func Parse(data []byte) (*Node, error) {
	endian, ok := SniffEndian(data)
	if !ok {
		return nil, ErrBadMagic
	}
	r := &reader{data: data, bo: endian.ByteOrder()}
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: header", ErrUnexpectedEOF)
	}
	keyOff, _ := r.u32(4)
	strOff, _ := r.u32(8)
	rootOff, _ := r.u32(12)
	var err error
	if keyOff != 0 {
		if r.keys, err = r.stringTable(keyOff); err != nil {
			return nil, err
		}
	}
	if strOff != 0 {
		if r.strs, err = r.stringTable(strOff); err != nil {
			return nil, err
		}
	}
	if rootOff == 0 {
		return Null(), nil
	}
	return r.container(rootOff)
}

func (r *reader) stringTable(off uint32) ([]string, error) {
	h, err := r.u32(off)
	if err != nil {
		return nil, err
	}
	if Type(h>>24) != stringTableType {
		return nil, fmt.Errorf("%w: expected string table at %#x, have %#x", ErrTypeMismatch, off, h>>24)
	}
	count := h & 0xFFFFFF
	res := make([]string, count)
	for i := uint32(0); i < count; i++ {
		strOff, err := r.u32(off + 4 + i*4)
		if err != nil {
			return nil, err
		}
		end, err := r.u32(off + 4 + (i+1)*4)
		if err != nil {
			return nil, err
		}
		start := off + strOff
		if int(off+end) > len(r.data) || end <= strOff {
			return nil, fmt.Errorf("%w: string table entry %d", ErrUnexpectedEOF, i)
		}
		// Strings are NUL-terminated; the offset pair includes the NUL.
		res[i] = string(r.data[start : off+end-1])
	}
	return res, nil
}

func (r *reader) container(off uint32) (*Node, error) {
	h, err := r.u32(off)
	if err != nil {
		return nil, err
	}
	typ := Type(h >> 24)
	count := h & 0xFFFFFF
	switch typ {
	case ArrayType:
		typesEnd := off + 4 + count
		cells := align4(typesEnd)
		vals := make([]*Node, count)
		for i := uint32(0); i < count; i++ {
			if int(off+4+i) >= len(r.data) {
				return nil, fmt.Errorf("%w: array types", ErrUnexpectedEOF)
			}
			et := Type(r.data[off+4+i])
			v, err := r.value(et, cells+i*4)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return FromSlice(vals), nil
	case HashType:
		keys := make([]string, count)
		vals := make([]*Node, count)
		for i := uint32(0); i < count; i++ {
			ref, err := r.u32(off + 4 + i*8)
			if err != nil {
				return nil, err
			}
			keyIdx := ref >> 8
			et := Type(ref & 0xFF)
			if int(keyIdx) >= len(r.keys) {
				return nil, fmt.Errorf("%w: hash key index %d out of range", ErrTypeMismatch, keyIdx)
			}
			v, err := r.value(et, off+4+i*8+4)
			if err != nil {
				return nil, err
			}
			keys[i] = r.keys[keyIdx]
			vals[i] = v
		}
		return &Node{Type: HashType, Keys: keys, Values: vals}, nil
	}
	return nil, fmt.Errorf("%w: container type %s at %#x", ErrTypeMismatch, typ, off)
}

func (r *reader) value(typ Type, cellPos uint32) (*Node, error) {
	cell, err := r.u32(cellPos)
	if err != nil {
		return nil, err
	}
	switch typ {
	case NullType:
		return Null(), nil
	case BoolType:
		return FromBool(cell != 0), nil
	case IntType:
		return FromInt(int32(cell)), nil
	case UIntType:
		return FromUInt(cell), nil
	case FloatType:
		return FromFloat(f32FromBits(cell)), nil
	case StringType:
		if int(cell) >= len(r.strs) {
			return nil, fmt.Errorf("%w: string index %d out of range", ErrTypeMismatch, cell)
		}
		return FromString(r.strs[cell]), nil
	case Int64Type, UInt64Type, DoubleType:
		raw, err := r.u64(cell)
		if err != nil {
			return nil, err
		}
		switch typ {
		case Int64Type:
			return FromInt64(int64(raw)), nil
		case UInt64Type:
			return FromUInt64(raw), nil
		default:
			return FromDouble(f64FromBits(raw)), nil
		}
	case BinaryType:
		size, err := r.u32(cell)
		if err != nil {
			return nil, err
		}
		if int(cell)+4+int(size) > len(r.data) {
			return nil, fmt.Errorf("%w: binary blob at %#x", ErrUnexpectedEOF, cell)
		}
		return FromBinary(append([]byte(nil), r.data[cell+4:cell+4+size]...)), nil
	case ArrayType, HashType:
		return r.container(cell)
	}
	return nil, fmt.Errorf("%w: value type %s", ErrTypeMismatch, typ)
}

func align4(n uint32) uint32 { return (n + 3) &^ 3 }
