// Package sarc reads and writes the nested resource archive format. An
// archive is a flat set of named files; nested archives are themselves
// stored as entries. The file table is keyed by a multiplicative name
// hash and kept hash-sorted on disk, so writing is order-insensitive.
package sarc

import (
	"errors"
	"fmt"
	"sort"

	"github.com/resmerge/resmerge/format"
)

var (
	ErrBadMagic      = errors.New("sarc: bad magic")
	ErrUnexpectedEOF = errors.New("sarc: unexpected end of data")
	ErrNotFound      = errors.New("sarc: file not found")
)

const (
	headerLen = 0x14
	sfatLen   = 0x0c
	sfntLen   = 0x08
	hashKey   = 0x65
	version   = 0x0100
)

// Archive is an in-memory nested resource archive. The zero value is an
// empty big-endian archive ready for use.
type Archive struct {
	Endian format.Endian
	// Align is the alignment of file payloads in the serialized form.
	// Zero means the default of 8 bytes.
	Align int

	names []string
	files map[string][]byte
}

// New returns an empty archive for the given target platform.
func New(endian format.Endian) *Archive {
	return &Archive{Endian: endian, files: map[string][]byte{}}
}

// nameHash is the multiplicative hash keying the file allocation table.
func nameHash(name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*hashKey + uint32(name[i])
	}
	return h
}

// IsArchive reports whether data carries the archive magic.
func IsArchive(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "SARC"
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int { return len(a.names) }

// Files returns the file names in insertion order.
func (a *Archive) Files() []string { return a.names }

// Get returns the payload stored under name.
func (a *Archive) Get(name string) ([]byte, error) {
	data, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return data, nil
}

// Set stores a payload, replacing any existing entry with the same name.
func (a *Archive) Set(name string, data []byte) {
	if a.files == nil {
		a.files = map[string][]byte{}
	}
	if _, ok := a.files[name]; !ok {
		a.names = append(a.names, name)
	}
	a.files[name] = data
}

// Delete removes an entry if present.
func (a *Archive) Delete(name string) {
	if _, ok := a.files[name]; !ok {
		return
	}
	delete(a.files, name)
	for i, n := range a.names {
		if n == name {
			a.names = append(a.names[:i], a.names[i+1:]...)
			break
		}
	}
}

// Parse decodes a serialized archive. The payload slices alias data.
func Parse(data []byte) (*Archive, error) {
	if len(data) < headerLen+sfatLen {
		return nil, ErrUnexpectedEOF
	}
	if string(data[:4]) != "SARC" {
		return nil, ErrBadMagic
	}
	var endian format.Endian
	switch {
	case data[6] == 0xfe && data[7] == 0xff:
		endian = format.Big
	case data[6] == 0xff && data[7] == 0xfe:
		endian = format.Little
	default:
		return nil, fmt.Errorf("%w: invalid byte order mark", ErrBadMagic)
	}
	bo := endian.ByteOrder()
	dataOff := bo.Uint32(data[12:16])

	sfat := data[headerLen:]
	if string(sfat[:4]) != "SFAT" {
		return nil, fmt.Errorf("%w: missing file table", ErrBadMagic)
	}
	count := int(bo.Uint16(sfat[6:8]))
	nodesEnd := headerLen + sfatLen + count*16
	if len(data) < nodesEnd+sfntLen {
		return nil, ErrUnexpectedEOF
	}
	sfnt := data[nodesEnd:]
	if string(sfnt[:4]) != "SFNT" {
		return nil, fmt.Errorf("%w: missing name table", ErrBadMagic)
	}
	namesBase := nodesEnd + sfntLen

	a := New(endian)
	for i := 0; i < count; i++ {
		node := data[headerLen+sfatLen+i*16:]
		attrs := bo.Uint32(node[4:8])
		start := bo.Uint32(node[8:12])
		end := bo.Uint32(node[12:16])
		nameOff := namesBase + int(attrs&0x00ffffff)*4
		if nameOff >= len(data) {
			return nil, ErrUnexpectedEOF
		}
		name := readCString(data[nameOff:])
		lo, hi := int(dataOff)+int(start), int(dataOff)+int(end)
		if lo > hi || hi > len(data) {
			return nil, ErrUnexpectedEOF
		}
		a.Set(name, data[lo:hi])
	}
	return a, nil
}

func readCString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// ToBinary serializes the archive. Entries are emitted hash-sorted so the
// output does not depend on insertion order.
func (a *Archive) ToBinary() []byte {
	align := a.Align
	if align <= 0 {
		align = 8
	}
	bo := a.Endian.ByteOrder()

	sorted := append([]string(nil), a.names...)
	sort.Slice(sorted, func(i, j int) bool {
		hi, hj := nameHash(sorted[i]), nameHash(sorted[j])
		if hi != hj {
			return hi < hj
		}
		return sorted[i] < sorted[j]
	})

	// Name table offsets are stored in 4-byte units.
	nameOffs := make([]int, len(sorted))
	var nameTable []byte
	for i, name := range sorted {
		nameOffs[i] = len(nameTable) / 4
		nameTable = append(nameTable, name...)
		nameTable = append(nameTable, 0)
		for len(nameTable)%4 != 0 {
			nameTable = append(nameTable, 0)
		}
	}

	dataOff := headerLen + sfatLen + len(sorted)*16 + sfntLen + len(nameTable)
	dataOff = alignUp(dataOff, align)

	type span struct{ start, end int }
	spans := make([]span, len(sorted))
	dataLen := 0
	for i, name := range sorted {
		dataLen = alignUp(dataLen, align)
		payload := a.files[name]
		spans[i] = span{dataLen, dataLen + len(payload)}
		dataLen += len(payload)
	}

	out := make([]byte, dataOff+dataLen)
	copy(out, "SARC")
	bo.PutUint16(out[4:6], headerLen)
	out[6], out[7] = 0xfe, 0xff
	if a.Endian == format.Little {
		out[6], out[7] = 0xff, 0xfe
	}
	bo.PutUint32(out[8:12], uint32(len(out)))
	bo.PutUint32(out[12:16], uint32(dataOff))
	bo.PutUint16(out[16:18], version)

	sfat := out[headerLen:]
	copy(sfat, "SFAT")
	bo.PutUint16(sfat[4:6], sfatLen)
	bo.PutUint16(sfat[6:8], uint16(len(sorted)))
	bo.PutUint32(sfat[8:12], hashKey)
	for i, name := range sorted {
		node := sfat[sfatLen+i*16:]
		bo.PutUint32(node[0:4], nameHash(name))
		bo.PutUint32(node[4:8], 0x01000000|uint32(nameOffs[i]))
		bo.PutUint32(node[8:12], uint32(spans[i].start))
		bo.PutUint32(node[12:16], uint32(spans[i].end))
	}

	sfnt := out[headerLen+sfatLen+len(sorted)*16:]
	copy(sfnt, "SFNT")
	bo.PutUint16(sfnt[4:6], sfntLen)
	copy(sfnt[sfntLen:], nameTable)

	for i, name := range sorted {
		copy(out[dataOff+spans[i].start:], a.files[name])
	}
	return out
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
