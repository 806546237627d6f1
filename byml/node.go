// Package byml implements the typed binary tree format: nested hashes and
// arrays of scalars, strings and binary blobs, stored big- or little-endian
// depending on the target platform. Parsing detects endianness from the
// two-byte magic and serialization reproduces a stable, deterministic layout
// so unmodified documents round-trip byte for byte.
package byml

import (
	"bytes"
	"fmt"
	"sort"
)

// Type tags a Node. Values match the on-disk node type bytes.
type Type uint8

const (
	StringType Type = 0xA0
	BinaryType Type = 0xA1
	ArrayType  Type = 0xC0
	HashType   Type = 0xC1
	BoolType   Type = 0xD0
	IntType    Type = 0xD1
	FloatType  Type = 0xD2
	UIntType   Type = 0xD3
	Int64Type  Type = 0xD4
	UInt64Type Type = 0xD5
	DoubleType Type = 0xD6
	NullType   Type = 0xFF

	stringTableType Type = 0xC2
)

func (t Type) String() string {
	switch t {
	case StringType:
		return "String"
	case BinaryType:
		return "Binary"
	case ArrayType:
		return "Array"
	case HashType:
		return "Hash"
	case BoolType:
		return "Bool"
	case IntType:
		return "Int"
	case FloatType:
		return "Float"
	case UIntType:
		return "UInt"
	case Int64Type:
		return "Int64"
	case UInt64Type:
		return "UInt64"
	case DoubleType:
		return "Double"
	case NullType:
		return "Null"
	}
	return fmt.Sprintf("Type(%#x)", uint8(t))
}

func (t Type) isContainer() bool {
	return t == ArrayType || t == HashType
}

// Node is one value of a typed binary tree. Hash nodes keep Keys sorted, so
// two logically equal documents serialize identically regardless of the key
// order in their sources.
type Node struct {
	Type Type

	Bool   bool
	Int    int32
	UInt   uint32
	Float  float32
	Int64  int64
	UInt64 uint64
	Double float64
	String string
	Binary []byte

	// Values holds array elements, or hash values parallel to Keys.
	Keys   []string
	Values []*Node
}

func Null() *Node             { return &Node{Type: NullType} }
func FromBool(v bool) *Node   { return &Node{Type: BoolType, Bool: v} }
func FromInt(v int32) *Node   { return &Node{Type: IntType, Int: v} }
func FromUInt(v uint32) *Node { return &Node{Type: UIntType, UInt: v} }
func FromFloat(v float32) *Node {
	return &Node{Type: FloatType, Float: v}
}
func FromInt64(v int64) *Node   { return &Node{Type: Int64Type, Int64: v} }
func FromUInt64(v uint64) *Node { return &Node{Type: UInt64Type, UInt64: v} }
func FromDouble(v float64) *Node {
	return &Node{Type: DoubleType, Double: v}
}
func FromString(v string) *Node { return &Node{Type: StringType, String: v} }
func FromBinary(v []byte) *Node { return &Node{Type: BinaryType, Binary: v} }

// FromSlice builds an array node.
func FromSlice(vs []*Node) *Node {
	return &Node{Type: ArrayType, Values: vs}
}

// FromMap builds a hash node with sorted keys.
func FromMap(m map[string]*Node) *Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]*Node, len(keys))
	for i, k := range keys {
		vals[i] = m[k]
	}
	return &Node{Type: HashType, Keys: keys, Values: vals}
}

// Get returns the hash value at key, or nil when absent or not a hash.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Type != HashType {
		return nil
	}
	i := sort.SearchStrings(n.Keys, key)
	if i < len(n.Keys) && n.Keys[i] == key {
		return n.Values[i]
	}
	return nil
}

// Set inserts or replaces the hash value at key, keeping key order.
func (n *Node) Set(key string, v *Node) {
	i := sort.SearchStrings(n.Keys, key)
	if i < len(n.Keys) && n.Keys[i] == key {
		n.Values[i] = v
		return
	}
	n.Keys = append(n.Keys, "")
	copy(n.Keys[i+1:], n.Keys[i:])
	n.Keys[i] = key
	n.Values = append(n.Values, nil)
	copy(n.Values[i+1:], n.Values[i:])
	n.Values[i] = v
}

// Delete removes the hash entry at key, if present.
func (n *Node) Delete(key string) {
	if n == nil || n.Type != HashType {
		return
	}
	i := sort.SearchStrings(n.Keys, key)
	if i < len(n.Keys) && n.Keys[i] == key {
		n.Keys = append(n.Keys[:i], n.Keys[i+1:]...)
		n.Values = append(n.Values[:i], n.Values[i+1:]...)
	}
}

// IntValue widens any integer node to int64.
func (n *Node) IntValue() (int64, error) {
	switch n.Type {
	case IntType:
		return int64(n.Int), nil
	case UIntType:
		return int64(n.UInt), nil
	case Int64Type:
		return n.Int64, nil
	case UInt64Type:
		return int64(n.UInt64), nil
	}
	return 0, fmt.Errorf("%w: have %s, want integer", ErrTypeMismatch, n.Type)
}

// StringValue returns the string payload.
func (n *Node) StringValue() (string, error) {
	if n.Type != StringType {
		return "", fmt.Errorf("%w: have %s, want String", ErrTypeMismatch, n.Type)
	}
	return n.String, nil
}

// ArrayValues returns the elements of an array node.
func (n *Node) ArrayValues() ([]*Node, error) {
	if n.Type != ArrayType {
		return nil, fmt.Errorf("%w: have %s, want Array", ErrTypeMismatch, n.Type)
	}
	return n.Values, nil
}

// HashKeys returns the sorted keys of a hash node.
func (n *Node) HashKeys() ([]string, error) {
	if n.Type != HashType {
		return nil, fmt.Errorf("%w: have %s, want Hash", ErrTypeMismatch, n.Type)
	}
	return n.Keys, nil
}

// Clone deep-copies a node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	res := &Node{}
	*res = *n
	if n.Binary != nil {
		res.Binary = append([]byte(nil), n.Binary...)
	}
	if n.Keys != nil {
		res.Keys = append([]string(nil), n.Keys...)
	}
	if n.Values != nil {
		res.Values = make([]*Node, len(n.Values))
		for i, v := range n.Values {
			res.Values[i] = v.Clone()
		}
	}
	return res
}

// Equal reports deep structural equality.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case IntType:
		return a.Int == b.Int
	case UIntType:
		return a.UInt == b.UInt
	case FloatType:
		return a.Float == b.Float
	case Int64Type:
		return a.Int64 == b.Int64
	case UInt64Type:
		return a.UInt64 == b.UInt64
	case DoubleType:
		return a.Double == b.Double
	case StringType:
		return a.String == b.String
	case BinaryType:
		return bytes.Equal(a.Binary, b.Binary)
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case HashType:
		if len(a.Keys) != len(b.Keys) {
			return false
		}
		for i := range a.Keys {
			if a.Keys[i] != b.Keys[i] || !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	}
	return false
}
