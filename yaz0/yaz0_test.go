package yaz0

import (
	"bytes"
	"testing"
)

type roundTripTest struct {
	name string
	data []byte
}

var roundTripTests = []roundTripTest{
	{name: "empty", data: nil},
	{name: "short literal", data: []byte("abc")},
	{name: "repetitive", data: bytes.Repeat([]byte("abcd"), 100)},
	{name: "single byte run", data: bytes.Repeat([]byte{0}, 5000)},
	{name: "mixed", data: append(bytes.Repeat([]byte("xyz"), 50), []byte("unique tail with no repeats 0123456789")...)},
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range roundTripTests {
		t.Run(tc.name, func(t *testing.T) {
			comp := Compress(tc.data)
			if !IsCompressed(comp) {
				t.Fatalf("compressed output missing magic")
			}
			got, err := Decompress(comp)
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(tc.data))
			}
		})
	}
}

func TestDecompressIfPassthrough(t *testing.T) {
	raw := []byte("not compressed at all")
	got, err := DecompressIf(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatal("passthrough modified data")
	}
}

func TestDecompressErrors(t *testing.T) {
	if _, err := Decompress([]byte("Yaz0")); err != ErrTooShort {
		t.Fatalf("want ErrTooShort, got %v", err)
	}
	bad := Compress([]byte("hello hello hello"))
	bad[0] = 'X'
	if _, err := Decompress(bad); err != ErrBadMagic {
		t.Fatalf("want ErrBadMagic, got %v", err)
	}
	trunc := Compress(bytes.Repeat([]byte("ab"), 200))
	if _, err := Decompress(trunc[:20]); err == nil {
		t.Fatal("want error on truncated stream")
	}
}
