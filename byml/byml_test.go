package byml

import (
	"bytes"
	"errors"
	"testing"

	"github.com/resmerge/resmerge/format"
)

func sampleDoc() *Node {
	return FromMap(map[string]*Node{
		"name":    FromString("Guardian"),
		"hp":      FromInt(1500),
		"scale":   FromFloat(1.5),
		"enabled": FromBool(true),
		"id":      FromUInt64(0xDEADBEEFCAFE),
		"blob":    FromBinary([]byte{1, 2, 3, 4, 5}),
		"tags": FromSlice([]*Node{
			FromString("enemy"),
			FromString("mech"),
		}),
		"pos": FromMap(map[string]*Node{
			"x": FromDouble(12.25),
			"y": FromDouble(-3.5),
		}),
		"none": Null(),
	})
}

func TestRoundTrip(t *testing.T) {
	for _, endian := range []format.Endian{format.Big, format.Little} {
		t.Run(endian.String(), func(t *testing.T) {
			doc := sampleDoc()
			data, err := ToBinary(doc, endian)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Parse(data)
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, doc) {
				t.Fatal("parse(serialize(doc)) != doc")
			}
			data2, err := ToBinary(got, endian)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(data, data2) {
				t.Fatal("serialize(parse(bytes)) != bytes")
			}
		})
	}
}

func TestEndianDetection(t *testing.T) {
	doc := FromSlice([]*Node{FromInt(1)})
	be, err := ToBinary(doc, format.Big)
	if err != nil {
		t.Fatal(err)
	}
	le, err := ToBinary(doc, format.Little)
	if err != nil {
		t.Fatal(err)
	}
	if string(be[:2]) != "BY" || string(le[:2]) != "YB" {
		t.Fatalf("magic bytes wrong: %q / %q", be[:2], le[:2])
	}
	if bytes.Equal(be, le) {
		t.Fatal("identical bytes for both platforms")
	}
	for _, data := range [][]byte{be, le} {
		got, err := Parse(data)
		if err != nil {
			t.Fatal(err)
		}
		if !Equal(got, doc) {
			t.Fatal("platform variant parse mismatch")
		}
	}
}

func TestStableHashOrder(t *testing.T) {
	a := FromMap(map[string]*Node{"b": FromInt(2), "a": FromInt(1), "c": FromInt(3)})
	b := &Node{Type: HashType}
	b.Set("c", FromInt(3))
	b.Set("a", FromInt(1))
	b.Set("b", FromInt(2))
	ab, err := ToBinary(a, format.Big)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := ToBinary(b, format.Big)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ab, bb) {
		t.Fatal("hash key order leaked into serialization")
	}
}

func TestEmptyDocument(t *testing.T) {
	data, err := ToBinary(Null(), format.Big)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != NullType {
		t.Fatalf("empty document parsed as %s", got.Type)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("XX junk")); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("want ErrBadMagic, got %v", err)
	}
	doc, err := ToBinary(sampleDoc(), format.Big)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(doc[:10]); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("want ErrUnexpectedEOF, got %v", err)
	}
	if _, err := ToBinary(FromInt(3), format.Big); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("scalar root: want ErrTypeMismatch, got %v", err)
	}
}

func TestTypedAccessors(t *testing.T) {
	doc := sampleDoc()
	if v := doc.Get("name"); v == nil || v.String != "Guardian" {
		t.Fatal("Get(name)")
	}
	if _, err := doc.Get("name").IntValue(); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("IntValue on string: %v", err)
	}
	if v, err := doc.Get("hp").IntValue(); err != nil || v != 1500 {
		t.Fatalf("IntValue: %v %v", v, err)
	}
	if doc.Get("missing") != nil {
		t.Fatal("Get on absent key must be nil")
	}
}
