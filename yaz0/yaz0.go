// Package yaz0 implements the Yaz0 run-length compression wrapper used by
// many game resource files. Compressed streams carry a "Yaz0" magic followed
// by the big-endian uncompressed size, so callers can cheaply sniff whether a
// buffer is wrapped before handing it to a codec.
package yaz0

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerSize = 16

	// maxRunLen is the longest back-reference a three-byte token can encode.
	maxRunLen  = 0xFF + 0x12
	maxRunDist = 0x1000
)

var (
	ErrBadMagic = errors.New("yaz0: bad magic")
	ErrTooShort = errors.New("yaz0: unexpected end of stream")
)

// IsCompressed reports whether data begins with a Yaz0 header.
func IsCompressed(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "Yaz0"
}

// DecompressIf unwraps data when it is Yaz0-compressed and returns it
// unchanged otherwise.
func DecompressIf(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	return Decompress(data)
}

// Decompress expands a Yaz0 stream.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, ErrTooShort
	}
	if string(data[:4]) != "Yaz0" {
		return nil, ErrBadMagic
	}
	size := binary.BigEndian.Uint32(data[4:8])
	out := make([]byte, 0, size)
	src := data[headerSize:]
	var group byte
	groupLen := 0
	for uint32(len(out)) < size {
		if groupLen == 0 {
			if len(src) == 0 {
				return nil, ErrTooShort
			}
			group = src[0]
			src = src[1:]
			groupLen = 8
		}
		if group&0x80 != 0 {
			if len(src) == 0 {
				return nil, ErrTooShort
			}
			out = append(out, src[0])
			src = src[1:]
		} else {
			if len(src) < 2 {
				return nil, ErrTooShort
			}
			b0, b1 := src[0], src[1]
			src = src[2:]
			dist := (int(b0&0x0F)<<8 | int(b1)) + 1
			n := int(b0 >> 4)
			if n == 0 {
				if len(src) == 0 {
					return nil, ErrTooShort
				}
				n = int(src[0]) + 0x12
				src = src[1:]
			} else {
				n += 2
			}
			pos := len(out) - dist
			if pos < 0 {
				return nil, fmt.Errorf("yaz0: back reference before start of output (dist %d at %d)", dist, len(out))
			}
			for i := 0; i < n; i++ {
				out = append(out, out[pos+i])
			}
		}
		group <<= 1
		groupLen--
	}
	return out, nil
}

// Compress wraps data in a Yaz0 stream using a greedy match search.
func Compress(data []byte) []byte {
	out := make([]byte, headerSize, headerSize+len(data)+len(data)/8+1)
	copy(out, "Yaz0")
	binary.BigEndian.PutUint32(out[4:8], uint32(len(data)))

	var tokens []byte
	var group byte
	groupLen := 0
	flush := func() {
		if groupLen == 0 {
			return
		}
		out = append(out, group<<(8-groupLen))
		out = append(out, tokens...)
		tokens = tokens[:0]
		group = 0
		groupLen = 0
	}
	pos := 0
	for pos < len(data) {
		if groupLen == 8 {
			flush()
		}
		dist, n := findRun(data, pos)
		group <<= 1
		if n < 3 {
			group |= 1
			tokens = append(tokens, data[pos])
			pos++
		} else {
			d := dist - 1
			if n >= 0x12 {
				tokens = append(tokens, byte(d>>8), byte(d), byte(n-0x12))
			} else {
				tokens = append(tokens, byte(n-2)<<4|byte(d>>8), byte(d))
			}
			pos += n
		}
		groupLen++
	}
	flush()
	return out
}

func findRun(data []byte, pos int) (dist, n int) {
	start := pos - maxRunDist
	if start < 0 {
		start = 0
	}
	limit := len(data) - pos
	if limit > maxRunLen {
		limit = maxRunLen
	}
	for cand := start; cand < pos; cand++ {
		if data[cand] != data[pos] {
			continue
		}
		l := 1
		for l < limit && data[cand+l] == data[pos+l] {
			l++
		}
		if l > n {
			dist, n = pos-cand, l
			if n == limit {
				break
			}
		}
	}
	return dist, n
}
