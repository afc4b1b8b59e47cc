package gp

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/globalplatform/pkg/tlv"
)

// CPLC of a G&D card.
var gdCPLC = tlv.Hex(
	"9F7F 2A",
	"4790",     // IC fabricator
	"5167",     // IC type
	"1671",     // Operating system identifier
	"3288",     // Operating system release date
	"0001",     // Operating system release level
	"5110",     // IC fabrication date
	"01020304", // IC serial number
	"0506",     // IC batch identifier
	"4812",     // IC module fabricator
	"5120",     // IC module packaging date
	"0000",     // ICC manufacturer
	"5121",     // IC embedding date
	"0000",     // IC pre-personalizer
	"0000",     // IC pre-personalization equipment date
	"00000000", // IC pre-personalization equipment identifier
	"0000",     // IC personalizer
	"0000",     // IC personalization date
	"AABBCCDD", // IC personalization equipment identifier
)

func TestParseCPLC(t *testing.T) {
	got, err := ParseCPLC(gdCPLC)
	if err != nil {
		t.Fatalf("ParseCPLC() failed: %v", err)
	}

	want := &CPLC{
		ICFabricator:                      tlv.Hex("4790"),
		ICType:                            tlv.Hex("5167"),
		OperatingSystemID:                 tlv.Hex("1671"),
		OperatingSystemReleaseDate:        tlv.Hex("3288"),
		OperatingSystemReleaseLevel:       tlv.Hex("0001"),
		ICFabricationDate:                 tlv.Hex("5110"),
		ICSerialNumber:                    tlv.Hex("01020304"),
		ICBatchIdentifier:                 tlv.Hex("0506"),
		ICModuleFabricator:                tlv.Hex("4812"),
		ICModulePackagingDate:             tlv.Hex("5120"),
		ICCManufacturer:                   tlv.Hex("0000"),
		ICEmbeddingDate:                   tlv.Hex("5121"),
		ICPrePersonalizer:                 tlv.Hex("0000"),
		ICPrePersonalizationEquipmentDate: tlv.Hex("0000"),
		ICPrePersonalizationEquipmentID:   tlv.Hex("00000000"),
		ICPersonalizer:                    tlv.Hex("0000"),
		ICPersonalizationDate:             tlv.Hex("0000"),
		ICPersonalizationEquipmentID:      tlv.Hex("AABBCCDD"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseCPLC() mismatch (-want +got):\n%s", diff)
	}

	if got.SuggestDiversification() != DiversificationEMV {
		t.Errorf("SuggestDiversification() = %v, want EMV", got.SuggestDiversification())
	}
}

func TestParseCPLC_Errors(t *testing.T) {
	zeros := strings.Repeat("00", 42)

	tests := []struct {
		name    string
		rawData []byte
		wantErr error
	}{
		{name: "Empty", rawData: []byte{}, wantErr: ErrInvalidLength},
		{name: "Tag only", rawData: tlv.Hex("9F7F"), wantErr: ErrInvalidLength},
		{name: "Wrong marker full length", rawData: tlv.Hex("9F7F 2B", zeros), wantErr: ErrInvalidLength},
		{name: "Wrong marker long buffer", rawData: tlv.Hex("9F7F 00", zeros, zeros), wantErr: ErrInvalidLength},
		{name: "Truncated record", rawData: tlv.Hex("9F7F 2A 4790 5167"), wantErr: tlv.ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCPLC(tt.rawData)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseCPLC() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, tlv.ErrInvalidLayout) {
				t.Errorf("error %v should be an ErrInvalidLayout", err)
			}
			if got != nil {
				t.Errorf("ParseCPLC() returned a record on error: %+v", got)
			}
		})
	}
}

func TestParseCPLC_Absent(t *testing.T) {
	got, err := ParseCPLC(nil)
	if err != nil || got != nil {
		t.Fatalf("ParseCPLC(nil) = (%v, %v), want (nil, nil)", got, err)
	}
	if got.SuggestDiversification() != DiversificationNone {
		t.Error("absent CPLC should suggest no diversification")
	}
	if !strings.Contains(got.Describe(), "NO CPLC") {
		t.Errorf("Describe() = %q", got.Describe())
	}
}

func TestCPLC_Describe(t *testing.T) {
	c, err := ParseCPLC(gdCPLC)
	if err != nil {
		t.Fatalf("ParseCPLC() failed: %v", err)
	}

	lines := strings.Split(c.Describe(), "\n")
	if lines[0] != "=== CPLC ===" {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{
		"    - CPLC.ICFabricator: 4790",
		"    - CPLC.OperatingSystemReleaseDate: 3288 (Year digit: 3, Day: 288)",
		"    - CPLC.ICSerialNumber: 01020304",
		"    - CPLC.ICPersonalizationDate: 0000",
		"    - Suggested diversification: EMV",
	} {
		if !strings.Contains(c.Describe(), want) {
			t.Errorf("Describe() missing %q", want)
		}
	}
	// header + 18 fields + diversification
	if len(lines) != 20 {
		t.Errorf("Describe() has %d lines, want 20", len(lines))
	}
}

func TestCPLC_Fields(t *testing.T) {
	c, err := ParseCPLC(gdCPLC)
	if err != nil {
		t.Fatalf("ParseCPLC() failed: %v", err)
	}
	fields := c.Fields()
	if len(fields) != 18 {
		t.Fatalf("Fields() has %d entries, want 18", len(fields))
	}
	if fields[2] != [2]string{"OperatingSystemID", "1671"} {
		t.Errorf("Fields()[2] = %v", fields[2])
	}
	if fields[17] != [2]string{"ICPersonalizationEquipmentID", "AABBCCDD"} {
		t.Errorf("Fields()[17] = %v", fields[17])
	}
}
