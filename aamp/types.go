// Package aamp implements the ordered parameter format: named objects
// holding typed scalar, vector, string and curve values, grouped into named
// lists that nest arbitrarily. Object, list and parameter names are unique
// within their parent scope, and serialization of an unmodified tree
// reproduces the source bytes exactly.
package aamp

import (
	"fmt"
)

// ParamType tags a Parameter. Values match the on-disk type bytes.
type ParamType uint8

const (
	BoolParam ParamType = iota
	FloatParam
	IntParam
	Vec2Param
	Vec3Param
	Vec4Param
	ColorParam
	String32Param
	String64Param
	Curve1Param
	Curve2Param
	Curve3Param
	Curve4Param
	String256Param
	QuatParam
	UIntParam
	StringRefParam
)

func (t ParamType) String() string {
	names := [...]string{
		"Bool", "Float", "Int", "Vec2", "Vec3", "Vec4", "Color",
		"String32", "String64", "Curve1", "Curve2", "Curve3", "Curve4",
		"String256", "Quat", "UInt", "StringRef",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("ParamType(%d)", uint8(t))
}

func (t ParamType) isString() bool {
	switch t {
	case String32Param, String64Param, String256Param, StringRefParam:
		return true
	}
	return false
}

// vecLen returns the float component count of a vector-family type.
func (t ParamType) vecLen() int {
	switch t {
	case Vec2Param:
		return 2
	case Vec3Param:
		return 3
	case Vec4Param, ColorParam, QuatParam:
		return 4
	}
	return 0
}

func (t ParamType) curveCount() int {
	switch t {
	case Curve1Param:
		return 1
	case Curve2Param:
		return 2
	case Curve3Param:
		return 3
	case Curve4Param:
		return 4
	}
	return 0
}

// Curve is one response-curve unit: two control words and thirty samples.
type Curve struct {
	A, B   uint32
	Floats [30]float32
}

// Parameter is a single typed value.
type Parameter struct {
	Type   ParamType
	Bool   bool
	Int    int32
	UInt   uint32
	Float  float32
	Vec    [4]float32
	Str    string
	Curves []Curve
}

func Bool(v bool) Parameter     { return Parameter{Type: BoolParam, Bool: v} }
func Int(v int32) Parameter     { return Parameter{Type: IntParam, Int: v} }
func UInt(v uint32) Parameter   { return Parameter{Type: UIntParam, UInt: v} }
func Float(v float32) Parameter { return Parameter{Type: FloatParam, Float: v} }

func Vec2(x, y float32) Parameter {
	return Parameter{Type: Vec2Param, Vec: [4]float32{x, y}}
}

func Vec3(x, y, z float32) Parameter {
	return Parameter{Type: Vec3Param, Vec: [4]float32{x, y, z}}
}

func Vec4(x, y, z, w float32) Parameter {
	return Parameter{Type: Vec4Param, Vec: [4]float32{x, y, z, w}}
}

func Color(r, g, b, a float32) Parameter {
	return Parameter{Type: ColorParam, Vec: [4]float32{r, g, b, a}}
}

func Quat(a, b, c, d float32) Parameter {
	return Parameter{Type: QuatParam, Vec: [4]float32{a, b, c, d}}
}

func String32(v string) Parameter  { return Parameter{Type: String32Param, Str: v} }
func String64(v string) Parameter  { return Parameter{Type: String64Param, Str: v} }
func String256(v string) Parameter { return Parameter{Type: String256Param, Str: v} }
func StringRef(v string) Parameter { return Parameter{Type: StringRefParam, Str: v} }

func Curves(t ParamType, cs ...Curve) Parameter {
	return Parameter{Type: t, Curves: cs}
}

// AsString returns the payload of any string-family parameter.
func (p Parameter) AsString() (string, error) {
	if !p.Type.isString() {
		return "", fmt.Errorf("%w: have %s, want string family", ErrTypeMismatch, p.Type)
	}
	return p.Str, nil
}

func (p Parameter) AsInt() (int32, error) {
	if p.Type != IntParam {
		return 0, fmt.Errorf("%w: have %s, want Int", ErrTypeMismatch, p.Type)
	}
	return p.Int, nil
}

func (p Parameter) AsFloat() (float32, error) {
	if p.Type != FloatParam {
		return 0, fmt.Errorf("%w: have %s, want Float", ErrTypeMismatch, p.Type)
	}
	return p.Float, nil
}

func (p Parameter) AsBool() (bool, error) {
	if p.Type != BoolParam {
		return false, fmt.Errorf("%w: have %s, want Bool", ErrTypeMismatch, p.Type)
	}
	return p.Bool, nil
}

// Equal reports full value equality.
func (p Parameter) Equal(o Parameter) bool {
	if p.Type != o.Type {
		return false
	}
	switch {
	case p.Type == BoolParam:
		return p.Bool == o.Bool
	case p.Type == IntParam:
		return p.Int == o.Int
	case p.Type == UIntParam:
		return p.UInt == o.UInt
	case p.Type == FloatParam:
		return p.Float == o.Float
	case p.Type.isString():
		return p.Str == o.Str
	case p.Type.vecLen() > 0:
		return p.Vec == o.Vec
	case p.Type.curveCount() > 0:
		if len(p.Curves) != len(o.Curves) {
			return false
		}
		for i := range p.Curves {
			if p.Curves[i] != o.Curves[i] {
				return false
			}
		}
		return true
	}
	return false
}
