package aamp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/resmerge/resmerge/format"
)

func samplePIO() *ParameterIO {
	pio := NewParameterIO()

	var linkTarget ParameterObject
	linkTarget.Set("ActorNameJpn", String32("ガーディアン"))
	linkTarget.Set("PriorityName", String64("Enemy"))
	linkTarget.Set("AIProgramUser", StringRef("Guardian_A"))
	linkTarget.Set("Scale", Float(1.5))
	linkTarget.Set("Life", Int(1500))
	linkTarget.Set("IsRigid", Bool(true))
	linkTarget.Set("Center", Vec3(0, 1.25, 0))
	linkTarget.Set("Tint", Color(1, 0.5, 0.25, 1))
	pio.Root.SetObject("LinkTarget", linkTarget)

	var curves ParameterObject
	curves.Set("RateCurve", Curves(Curve1Param, Curve{A: 1, B: 2}))
	pio.Root.SetObject("Response", curves)

	var clients ParameterList
	var c0 ParameterObject
	c0.Set("Name", String64("Chase"))
	c0.Set("FileName", String64("Guardian_Chase"))
	clients.SetObject("AttClient_0", c0)
	pio.Root.SetList("AttClients", clients)
	return pio
}

func TestRoundTrip(t *testing.T) {
	for _, endian := range []format.Endian{format.Big, format.Little} {
		t.Run(endian.String(), func(t *testing.T) {
			pio := samplePIO()
			data := pio.ToBinaryEndian(endian)
			got, err := Parse(data)
			if err != nil {
				t.Fatal(err)
			}
			if got.Endian != endian {
				t.Fatalf("detected endian %s, want %s", got.Endian, endian)
			}
			if !got.Equal(pio) {
				t.Fatal("parse(serialize(pio)) != pio")
			}
			if !bytes.Equal(got.ToBinary(), data) {
				t.Fatal("serialize(parse(bytes)) != bytes")
			}
		})
	}
}

func TestOrderPreserved(t *testing.T) {
	pio := NewParameterIO()
	var obj ParameterObject
	for _, name := range []string{"Zeta", "Alpha", "Mu"} {
		obj.Set(name, Int(1))
	}
	pio.Root.SetObject("Order", obj)
	got, err := Parse(pio.ToBinaryEndian(format.Big))
	if err != nil {
		t.Fatal(err)
	}
	gotObj, ok := got.Object("Order")
	if !ok {
		t.Fatal("object lost")
	}
	names := gotObj.Names()
	if names[0] != "Zeta" || names[1] != "Alpha" || names[2] != "Mu" {
		t.Fatalf("parameter order lost: %v", names)
	}
}

func TestNameUniqueness(t *testing.T) {
	var obj ParameterObject
	obj.Set("Life", Int(1))
	obj.Set("Life", Int(2))
	if obj.Len() != 1 {
		t.Fatalf("duplicate name created a second entry: len %d", obj.Len())
	}
	if p, _ := obj.Get("Life"); p.Int != 2 {
		t.Fatal("second Set did not overwrite")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("JUNKDATA")); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("want ErrBadMagic, got %v", err)
	}
	data := samplePIO().ToBinaryEndian(format.Big)
	if _, err := Parse(data[:20]); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("want ErrUnexpectedEOF, got %v", err)
	}
	if _, err := Parse(data[:len(data)/2]); err == nil {
		t.Fatal("want error on truncated body")
	}
}

func TestAccessors(t *testing.T) {
	pio := samplePIO()
	obj, _ := pio.Object("LinkTarget")
	p, ok := obj.Get("AIProgramUser")
	if !ok {
		t.Fatal("missing param")
	}
	if s, err := p.AsString(); err != nil || s != "Guardian_A" {
		t.Fatalf("AsString: %q %v", s, err)
	}
	if _, err := p.AsInt(); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("AsInt on string: %v", err)
	}
}
