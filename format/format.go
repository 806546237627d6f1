// Package format holds the small cross-codec vocabulary: the target
// platform endianness tag carried through parsing and serialization.
package format

import "encoding/binary"

// Endian selects the scalar encoding of a target platform. The big-endian
// console family and the little-endian one store otherwise identical logical
// content with different byte layouts.
type Endian uint8

const (
	Big Endian = iota
	Little
)

func (e Endian) String() string {
	if e == Big {
		return "Big"
	}
	return "Little"
}

// ByteOrder returns the matching encoding/binary byte order.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
