package tlv

import (
	"bytes"
	"testing"
)

func TestEncodeLength(t *testing.T) {
	tests := []struct {
		n    int
		want []byte
	}{
		{0, Hex("00")},
		{0x7F, Hex("7F")},
		{0x80, Hex("81 80")},
		{0xFF, Hex("81 FF")},
		{0x100, Hex("82 01 00")},
		{0xFFFF, Hex("82 FF FF")},
		{0x10000, Hex("83 01 00 00")},
	}

	for _, tt := range tests {
		got := EncodeLength(tt.n)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeLength(%#x) = %X, want %X", tt.n, got, tt.want)
		}

		decoded, next, err := ReadLength(got, 0)
		if err != nil {
			t.Errorf("ReadLength(EncodeLength(%#x)) failed: %v", tt.n, err)
			continue
		}
		if decoded != tt.n || next != len(got) {
			t.Errorf("round trip of %#x gave (%#x, %d)", tt.n, decoded, next)
		}
	}
}

func TestAppendHeader(t *testing.T) {
	got := AppendHeader(nil, 0xC4, 0x1234)
	if want := Hex("C4 82 12 34"); !bytes.Equal(got, want) {
		t.Errorf("AppendHeader() = %X, want %X", got, want)
	}
}
