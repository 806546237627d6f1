package byml

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/resmerge/resmerge/format"
)

func f32FromBits(v uint32) float32 { return math.Float32frombits(v) }
func f64FromBits(v uint64) float64 { return math.Float64frombits(v) }

// ToBinary serializes a document for the given target platform. The root
// must be a container (or Null for an empty document); scalars never appear
// at the top level of the format.
func ToBinary(n *Node, endian format.Endian) ([]byte, error) {
	if n == nil || n.Type == NullType {
		return writeHeader(endian, 0, 0, 0), nil
	}
	if !n.Type.isContainer() {
		return nil, fmt.Errorf("%w: root must be a container, have %s", ErrTypeMismatch, n.Type)
	}
	w := &writer{bo: endian.ByteOrder()}
	w.collect(n)

	keyTable := w.buildTable(w.keyList)
	strTable := w.buildTable(w.strList)
	var keyOff, strOff uint32
	pos := uint32(headerSize)
	if len(w.keyList) > 0 {
		keyOff = pos
		pos += uint32(len(keyTable))
	}
	if len(w.strList) > 0 {
		strOff = pos
		pos += uint32(len(strTable))
	}
	rootOff := pos

	w.buf = make([]byte, pos)
	w.pending = append(w.pending, pending{node: n, fixup: 12})
	for len(w.pending) > 0 {
		p := w.pending[0]
		w.pending = w.pending[1:]
		at := uint32(len(w.buf))
		w.patch(p.fixup, at)
		w.writeDeferred(p.node)
	}
	out := w.buf
	copy(out[headerSize:], keyTable)
	if strOff != 0 {
		copy(out[strOff:], strTable)
	}
	hdr := writeHeader(endian, keyOff, strOff, rootOff)
	copy(out[:headerSize], hdr)
	return out, nil
}

func writeHeader(endian format.Endian, keyOff, strOff, rootOff uint32) []byte {
	hdr := make([]byte, headerSize)
	if endian == format.Big {
		copy(hdr, "BY")
	} else {
		copy(hdr, "YB")
	}
	bo := endian.ByteOrder()
	bo.PutUint16(hdr[2:], version)
	bo.PutUint32(hdr[4:], keyOff)
	bo.PutUint32(hdr[8:], strOff)
	bo.PutUint32(hdr[12:], rootOff)
	return hdr
}

type pending struct {
	node  *Node
	fixup uint32
}

type writer struct {
	bo      binary.ByteOrder
	buf     []byte
	pending []pending

	keyIdx  map[string]uint32
	keyList []string
	strIdx  map[string]uint32
	strList []string
}

// collect gathers hash keys and string values into sorted, deduplicated
// tables ahead of layout.
func (w *writer) collect(n *Node) {
	keySet := map[string]struct{}{}
	strSet := map[string]struct{}{}
	var visit func(*Node)
	visit = func(n *Node) {
		switch n.Type {
		case StringType:
			strSet[n.String] = struct{}{}
		case HashType:
			for i, k := range n.Keys {
				keySet[k] = struct{}{}
				visit(n.Values[i])
			}
		case ArrayType:
			for _, v := range n.Values {
				visit(v)
			}
		}
	}
	visit(n)
	w.keyList, w.keyIdx = sortedTable(keySet)
	w.strList, w.strIdx = sortedTable(strSet)
}

func sortedTable(set map[string]struct{}) ([]string, map[string]uint32) {
	list := make([]string, 0, len(set))
	for s := range set {
		list = append(list, s)
	}
	sort.Strings(list)
	idx := make(map[string]uint32, len(list))
	for i, s := range list {
		idx[s] = uint32(i)
	}
	return list, idx
}

func (w *writer) buildTable(list []string) []byte {
	if len(list) == 0 {
		return nil
	}
	head := 4 + 4*(len(list)+1)
	buf := make([]byte, head)
	w.bo.PutUint32(buf, uint32(stringTableType)<<24|uint32(len(list)))
	off := uint32(head)
	for i, s := range list {
		w.bo.PutUint32(buf[4+4*i:], off)
		off += uint32(len(s)) + 1
	}
	w.bo.PutUint32(buf[4+4*len(list):], off)
	for _, s := range list {
		buf = append(buf, s...)
		buf = append(buf, 0)
	}
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

func (w *writer) patch(pos, val uint32) {
	w.bo.PutUint32(w.buf[pos:], val)
}

func (w *writer) appendU32(v uint32) uint32 {
	pos := uint32(len(w.buf))
	var cell [4]byte
	w.bo.PutUint32(cell[:], v)
	w.buf = append(w.buf, cell[:]...)
	return pos
}

// writeDeferred emits a container, a 64-bit scalar payload, or a binary blob
// at the current end of the buffer, queueing any children.
func (w *writer) writeDeferred(n *Node) {
	switch n.Type {
	case ArrayType:
		w.appendU32(uint32(ArrayType)<<24 | uint32(len(n.Values)))
		for _, v := range n.Values {
			w.buf = append(w.buf, byte(v.Type))
		}
		for len(w.buf)%4 != 0 {
			w.buf = append(w.buf, 0)
		}
		for _, v := range n.Values {
			w.writeCell(v)
		}
	case HashType:
		w.appendU32(uint32(HashType)<<24 | uint32(len(n.Keys)))
		for i, k := range n.Keys {
			w.appendU32(w.keyIdx[k]<<8 | uint32(n.Values[i].Type))
			w.writeCell(n.Values[i])
		}
	case Int64Type:
		w.appendU64(uint64(n.Int64))
	case UInt64Type:
		w.appendU64(n.UInt64)
	case DoubleType:
		w.appendU64(math.Float64bits(n.Double))
	case BinaryType:
		w.appendU32(uint32(len(n.Binary)))
		w.buf = append(w.buf, n.Binary...)
		for len(w.buf)%4 != 0 {
			w.buf = append(w.buf, 0)
		}
	}
}

func (w *writer) appendU64(v uint64) {
	var cell [8]byte
	w.bo.PutUint64(cell[:], v)
	w.buf = append(w.buf, cell[:]...)
}

// writeCell emits one 4-byte value cell, deferring offset-typed payloads.
func (w *writer) writeCell(n *Node) {
	switch n.Type {
	case NullType:
		w.appendU32(0)
	case BoolType:
		v := uint32(0)
		if n.Bool {
			v = 1
		}
		w.appendU32(v)
	case IntType:
		w.appendU32(uint32(n.Int))
	case UIntType:
		w.appendU32(n.UInt)
	case FloatType:
		w.appendU32(math.Float32bits(n.Float))
	case StringType:
		w.appendU32(w.strIdx[n.String])
	default:
		pos := w.appendU32(0)
		w.pending = append(w.pending, pending{node: n, fixup: pos})
	}
}
