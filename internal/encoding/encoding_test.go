package encoding

import (
	"bytes"
	"testing"
)

func TestMagicAndVersion(t *testing.T) {
	if !bytes.Equal(Magic(), []byte{0x00, 0x61, 0x73, 0x6D}) {
		t.Errorf("unexpected magic: %x", Magic())
	}
	if !bytes.Equal(Version(), []byte{0x01, 0x00, 0x00, 0x00}) {
		t.Errorf("unexpected version: %x", Version())
	}
}

func TestUleb128(t *testing.T) {
	cases := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xAC, 0x02}},
		{624485, []byte{0xE5, 0x8E, 0x26}},
	}
	for _, c := range cases {
		got := Uleb128(c.value)
		if !bytes.Equal(got, c.want) {
			t.Errorf("Uleb128(%d) = %x, want %x", c.value, got, c.want)
		}
	}
}

func TestSleb128(t *testing.T) {
	cases := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x00}},
		{2, []byte{0x02}},
		{-2, []byte{0x7E}},
		{127, []byte{0xFF, 0x00}},
		{-128, []byte{0x80, 0x7F}},
	}
	for _, c := range cases {
		got := Sleb128(c.value)
		if !bytes.Equal(got, c.want) {
			t.Errorf("Sleb128(%d) = %x, want %x", c.value, got, c.want)
		}
	}
}

func TestF64Bytes(t *testing.T) {
	got := F64Bytes(1.0)
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F}
	if !bytes.Equal(got, want) {
		t.Errorf("F64Bytes(1.0) = %x, want %x", got, want)
	}
}

func TestString(t *testing.T) {
	got := String("ab")
	want := []byte{0x02, 'a', 'b'}
	if !bytes.Equal(got, want) {
		t.Errorf("String(\"ab\") = %x, want %x", got, want)
	}
}

func TestSection(t *testing.T) {
	got := Section(SectionType, []byte{0xAA, 0xBB})
	want := []byte{SectionType, 0x02, 0xAA, 0xBB}
	if !bytes.Equal(got, want) {
		t.Errorf("Section = %x, want %x", got, want)
	}
}

func TestVector(t *testing.T) {
	got := Vector(2, []byte{0x01, 0x02})
	want := []byte{0x02, 0x01, 0x02}
	if !bytes.Equal(got, want) {
		t.Errorf("Vector = %x, want %x", got, want)
	}
}

func TestI32ConstRoundTrip(t *testing.T) {
	got := I32Const(-1)
	want := append([]byte{OpI32Const}, Sleb128(-1)...)
	if !bytes.Equal(got, want) {
		t.Errorf("I32Const(-1) = %x, want %x", got, want)
	}
}
