package gp

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/globalplatform/pkg/tlv"
)

func TestParseKeyTemplate(t *testing.T) {
	tests := []struct {
		name    string
		rawData []byte
		want    KeyTemplate
		wantErr error
	}{
		{
			name:    "Single AES key",
			rawData: tlv.Hex("E0 06", "C0 04 01 00 88 10"),
			want:    KeyTemplate{{Version: 0, ID: 1, Type: 0x88, Length: 0x10}},
		},
		{
			name: "Default key set",
			rawData: tlv.Hex(
				"E0 12",
				"C0 04 01 FF 80 10", // ENC
				"C0 04 02 FF 80 10", // MAC
				"C0 04 03 FF 80 10", // DEK
			),
			want: KeyTemplate{
				{Version: 0xFF, ID: 1, Type: 0x80, Length: 0x10},
				{Version: 0xFF, ID: 2, Type: 0x80, Length: 0x10},
				{Version: 0xFF, ID: 3, Type: 0x80, Length: 0x10},
			},
		},
		{
			name:    "Key object without component",
			rawData: tlv.Hex("E0 0A", "C0 02 01 20", "C0 04 02 20 88 10"),
			want:    KeyTemplate{{Version: 0x20, ID: 2, Type: 0x88, Length: 0x10}},
		},
		{
			name:    "Nil data",
			rawData: nil,
			want:    KeyTemplate{},
		},
		{
			name:    "Extended format",
			rawData: tlv.Hex("E0 06", "C0 04 01 00 FF 10"),
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "Extended format after a valid key",
			rawData: tlv.Hex("E0 0C", "C0 04 01 00 88 10", "C0 04 02 00 FF 10"),
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "Multi-component key",
			rawData: tlv.Hex("E0 08", "C0 06 01 01 88 10 88 10"),
			wantErr: tlv.ErrTagMismatch,
		},
		{
			name:    "Wrong outer tag",
			rawData: tlv.Hex("E1 06", "C0 04 01 00 88 10"),
			wantErr: tlv.ErrTagMismatch,
		},
		{
			name:    "Truncated key object",
			rawData: tlv.Hex("E0 04", "C0 04 01 00 88"),
			wantErr: tlv.ErrOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyTemplate(tt.rawData)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseKeyTemplate() error = %v, want %v", err, tt.wantErr)
				}
				if got != nil {
					t.Errorf("ParseKeyTemplate() returned partial entries: %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKeyTemplate() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseKeyTemplate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeyTemplate_Describe(t *testing.T) {
	template, err := ParseKeyTemplate(tlv.Hex("E0 0C", "C0 04 01 FF 80 10", "C0 04 02 30 88 10"))
	if err != nil {
		t.Fatalf("ParseKeyTemplate() failed: %v", err)
	}

	got := template.Describe()
	expectedLines := []string{
		"=== KEY INFORMATION TEMPLATE ===",
		"    - VER:255 ID:1 TYPE:128 LEN:16 (DES - mode (ECB/CBC) implicitly known)",
		"    - VER:48 ID:2 TYPE:136 LEN:16 (AES (16, 24, or 32 long keys))",
		"Key version suggests factory keys",
	}
	if diff := cmp.Diff(expectedLines, strings.Split(got, "\n")); diff != "" {
		t.Errorf("Describe() mismatch (-want +got):\n%s", diff)
	}

	empty := KeyTemplate{}.Describe()
	if !strings.HasSuffix(empty, "No keys reported.") {
		t.Errorf("empty Describe() = %q", empty)
	}
}

func TestKeyTemplate_HasFactoryKeys(t *testing.T) {
	if (KeyTemplate{{Version: 0x01}}).HasFactoryKeys() {
		t.Error("version 1 should not be reported as factory")
	}
	if !(KeyTemplate{{Version: 0x01}, {Version: 0x00}}).HasFactoryKeys() {
		t.Error("version 0 should be reported as factory")
	}
}
