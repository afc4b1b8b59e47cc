package tlv

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/moov-io/bertlv"
)

type MockTemplate struct {
	FileID     []byte `tlv:"84"`
	Label      []byte `tlv:"50" fmt:"ascii"`
	Priority   []byte `tlv:"87" fmt:"int"`
	Embedding  []byte `fmt:"date"`
	CardOID    []byte `tlv:"06" fmt:"oid"`
	RawData    []byte // No tag
	EmptyField []byte `tlv:"99"`
	Unknown    []bertlv.TLV
	hidden     []byte
}

func TestWriteStructFields(t *testing.T) {
	mock := MockTemplate{
		FileID:    []byte{0xA0, 0x00, 0x01},
		Label:     []byte{'V', 'I', 'S', 'A', 0x00},
		Priority:  []byte{0x01},
		Embedding: []byte{0x31, 0x47},
		CardOID:   Hex("06 07 2A864886FC6B01"),
		RawData:   []byte{0xCA, 0xFE},
		Unknown: []bertlv.TLV{
			{Tag: "9F01", Value: []byte{0x12, 0x34}},
		},
		hidden: []byte{0x01},
	}

	wantLines := func(prefix string) []string {
		return []string{
			"    - " + prefix + ".FileID (84): A00001",
			"    - " + prefix + `.Label (50): 5649534100 ("VISA.")`,
			"    - " + prefix + ".Priority (87): 01 (Dec: 1)",
			"    - " + prefix + ".Embedding: 3147 (Year digit: 3, Day: 147)",
			"    - " + prefix + ".CardOID (06): 06072A864886FC6B01 (1.2.840.114283.1)",
			"    - " + prefix + ".RawData: CAFE",
			"    - " + prefix + ".Unknown Tag 9F01: 1234",
		}
	}

	tests := []struct {
		name          string
		prefix        string
		input         interface{}
		expectedLines []string
	}{
		{
			name:          "Struct Pointer Input",
			prefix:        "Test",
			input:         &mock,
			expectedLines: wantLines("Test"),
		},
		{
			name:          "Struct Value Input",
			prefix:        "Val",
			input:         mock,
			expectedLines: wantLines("Val"),
		},
		{
			name:          "Nil Pointer",
			prefix:        "Nil",
			input:         (*MockTemplate)(nil),
			expectedLines: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			WriteStructFields(&sb, tt.prefix, tt.input)
			actualLines := strings.Split(sb.String(), "\n")

			if diff := cmp.Diff(tt.expectedLines, actualLines); diff != "" {
				t.Errorf("Mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatByteValue_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
		want   string
	}{
		{"Date with non BCD digit", []byte{0x3A, 0x01}, "date", "3A01"},
		{"Date day zero", []byte{0x10, 0x00}, "date", "1000"},
		{"Date wrong size", []byte{0x31}, "date", "31"},
		{"Broken OID", []byte{0x06, 0x05, 0x2A}, "oid", "06052A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatByteValue(tt.data, tt.format); got != tt.want {
				t.Errorf("formatByteValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMakeSafeASCII(t *testing.T) {
	input := []byte{0x41, 0x42, 0x00, 0x1F, 0x7F, 0x43} // AB, null, US, DEL, C
	want := "AB...C"                                    // 0x7F (127) is > 126, so it becomes dot

	got := MakeSafeASCII(input)
	if got != want {
		t.Errorf("MakeSafeASCII() = %q, want %q", got, want)
	}
}
