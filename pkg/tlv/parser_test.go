package tlv

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/moov-io/bertlv"
)

// Mock custom unmarshaler
type oidField struct {
	Dotted string
}

func (o *oidField) UnmarshalTLV(data []byte) error {
	s, err := DecodeOID(data)
	if err != nil {
		return err
	}
	o.Dotted = s
	return nil
}

type versionTemplate struct {
	OID []byte `tlv:"06"`
}

type testStruct struct {
	AID     []byte          `tlv:"4F"`
	Label   string          `tlv:"50"`
	Version versionTemplate `tlv:"60"`
	SCP     oidField        `tlv:"64"`
	Other   []bertlv.TLV    `tlv:",unknown"`
}

func TestUnmarshal(t *testing.T) {
	rawData := Hex(
		"4F 05 A000000151",               // AID
		"50 03 414243",                   // Label "ABC"
		"60 0A 06 08 2A864886FC6B0202",   // Version template holding an OID
		"64 0B 06 09 2A864886FC6B040301", // Custom type
		"DF01 01 BB",                     // Unknown tag
	)

	var result testStruct
	if err := Unmarshal(rawData, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if hex.EncodeToString(result.AID) != "a000000151" {
		t.Errorf("Expected AID a000000151, got %x", result.AID)
	}

	if result.Label != "414243" {
		t.Errorf("Expected Label 414243, got %s", result.Label)
	}

	if !bytes.Equal(result.Version.OID, Hex("2A864886FC6B0202")) {
		t.Errorf("Expected nested OID content, got %X", result.Version.OID)
	}

	if result.SCP.Dotted != "1.2.840.114283.4.3.1" {
		t.Errorf("Expected custom OID 1.2.840.114283.4.3.1, got %q", result.SCP.Dotted)
	}

	if len(result.Other) != 1 || strings.ToUpper(result.Other[0].Tag) != "DF01" {
		t.Errorf("Unknown tag DF01 not captured correctly: %+v", result.Other)
	}
}

func TestGetValue(t *testing.T) {
	rawData := Hex(
		"4F 02 1122",
		"50 03 414243",
	)

	t.Run("Existing Tag", func(t *testing.T) {
		val, err := GetValue(rawData, 0x4F)
		if err != nil {
			t.Fatalf("GetValue failed: %v", err)
		}
		if hex.EncodeToString(val) != "1122" {
			t.Errorf("Expected 1122, got %x", val)
		}
	})

	t.Run("Missing Tag", func(t *testing.T) {
		if _, err := GetValue(rawData, 0x99); err == nil {
			t.Error("Expected error for missing tag, got nil")
		}
	})
}

func TestGetValuePath(t *testing.T) {
	rawData := Hex(
		"66 10",
		"73 0E",
		"06 02 2A03",
		"60 08 06 06 2A864886FC6B",
	)

	got, err := GetValuePath(rawData, 0x66, 0x73, 0x60)
	if err != nil {
		t.Fatalf("GetValuePath failed: %v", err)
	}
	if want := Hex("06 06 2A864886FC6B"); !bytes.Equal(got, want) {
		t.Errorf("GetValuePath() = %X, want %X", got, want)
	}

	if _, err := GetValuePath(rawData, 0x66, 0x99); err == nil || !strings.Contains(err.Error(), "level 2") {
		t.Errorf("Expected a level 2 error, got %v", err)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	t.Run("Non-pointer target", func(t *testing.T) {
		err := Unmarshal([]byte{0x4F, 0x00}, testStruct{})
		if err == nil || !strings.Contains(err.Error(), "pointer") {
			t.Errorf("Expected pointer error, got %v", err)
		}
	})

	t.Run("Custom unmarshaler failure", func(t *testing.T) {
		var result testStruct
		err := Unmarshal(Hex("64 03 04 01 00"), &result)
		if err == nil || !strings.Contains(err.Error(), "SCP") {
			t.Errorf("Expected field error for SCP, got %v", err)
		}
	})
}
