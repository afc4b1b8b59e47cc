package gp

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gregLibert/globalplatform/pkg/tlv"
	"golang.org/x/crypto/cryptobyte"
)

// CARD PRODUCTION LIFE CYCLE (GP 2.1.1 §H.6):
// Returned by GET DATA '9F7F' as 9F 7F 2A followed by a 42-byte record of
// fixed-width fields. Dates are packed BCD YDDD (last year digit, day).

const (
	cplcLengthMarker = 0x2A
	cplcHeaderSize   = 3
)

// CPLC holds the raw fields of a Card Production Life Cycle record.
type CPLC struct {
	ICFabricator                      []byte `json:"icFabricator"`
	ICType                            []byte `json:"icType"`
	OperatingSystemID                 []byte `json:"operatingSystemId"`
	OperatingSystemReleaseDate        []byte `json:"operatingSystemReleaseDate" fmt:"date"`
	OperatingSystemReleaseLevel       []byte `json:"operatingSystemReleaseLevel"`
	ICFabricationDate                 []byte `json:"icFabricationDate" fmt:"date"`
	ICSerialNumber                    []byte `json:"icSerialNumber"`
	ICBatchIdentifier                 []byte `json:"icBatchIdentifier"`
	ICModuleFabricator                []byte `json:"icModuleFabricator"`
	ICModulePackagingDate             []byte `json:"icModulePackagingDate" fmt:"date"`
	ICCManufacturer                   []byte `json:"iccManufacturer"`
	ICEmbeddingDate                   []byte `json:"icEmbeddingDate" fmt:"date"`
	ICPrePersonalizer                 []byte `json:"icPrePersonalizer"`
	ICPrePersonalizationEquipmentDate []byte `json:"icPrePersonalizationEquipmentDate" fmt:"date"`
	ICPrePersonalizationEquipmentID   []byte `json:"icPrePersonalizationEquipmentId"`
	ICPersonalizer                    []byte `json:"icPersonalizer"`
	ICPersonalizationDate             []byte `json:"icPersonalizationDate" fmt:"date"`
	ICPersonalizationEquipmentID      []byte `json:"icPersonalizationEquipmentId"`
}

type cplcField struct {
	name  string
	width int
	dst   *[]byte
}

// layout lists the fields in wire order.
func (c *CPLC) layout() []cplcField {
	return []cplcField{
		{"ICFabricator", 2, &c.ICFabricator},
		{"ICType", 2, &c.ICType},
		{"OperatingSystemID", 2, &c.OperatingSystemID},
		{"OperatingSystemReleaseDate", 2, &c.OperatingSystemReleaseDate},
		{"OperatingSystemReleaseLevel", 2, &c.OperatingSystemReleaseLevel},
		{"ICFabricationDate", 2, &c.ICFabricationDate},
		{"ICSerialNumber", 4, &c.ICSerialNumber},
		{"ICBatchIdentifier", 2, &c.ICBatchIdentifier},
		{"ICModuleFabricator", 2, &c.ICModuleFabricator},
		{"ICModulePackagingDate", 2, &c.ICModulePackagingDate},
		{"ICCManufacturer", 2, &c.ICCManufacturer},
		{"ICEmbeddingDate", 2, &c.ICEmbeddingDate},
		{"ICPrePersonalizer", 2, &c.ICPrePersonalizer},
		{"ICPrePersonalizationEquipmentDate", 2, &c.ICPrePersonalizationEquipmentDate},
		{"ICPrePersonalizationEquipmentID", 4, &c.ICPrePersonalizationEquipmentID},
		{"ICPersonalizer", 2, &c.ICPersonalizer},
		{"ICPersonalizationDate", 2, &c.ICPersonalizationDate},
		{"ICPersonalizationEquipmentID", 4, &c.ICPersonalizationEquipmentID},
	}
}

// ParseCPLC decodes a GET DATA '9F7F' response.
// Nil data returns a nil record and no error: the card exposed no CPLC.
func ParseCPLC(data []byte) (*CPLC, error) {
	if data == nil {
		return nil, nil
	}
	if len(data) < cplcHeaderSize || data[2] != cplcLengthMarker {
		return nil, fmt.Errorf("%w: CPLC length marker missing in %X", ErrInvalidLength, data)
	}

	c := &CPLC{}
	s := cryptobyte.String(data[cplcHeaderSize:])
	for _, f := range c.layout() {
		var v []byte
		if !s.ReadBytes(&v, f.width) {
			return nil, fmt.Errorf("CPLC %s: %w", f.name, tlv.ErrOutOfBounds)
		}
		*f.dst = bytes.Clone(v)
	}
	return c, nil
}

// Fields returns the record as name/hex pairs in wire order.
func (c *CPLC) Fields() [][2]string {
	layout := c.layout()
	out := make([][2]string, 0, len(layout))
	for _, f := range layout {
		out = append(out, [2]string{f.name, strings.ToUpper(hex.EncodeToString(*f.dst))})
	}
	return out
}

// Diversification names the key derivation scheme a card likely uses.
type Diversification int

const (
	DiversificationNone Diversification = iota
	DiversificationEMV
)

func (d Diversification) String() string {
	switch d {
	case DiversificationEMV:
		return "EMV"
	default:
		return "None"
	}
}

var osGieseckeDevrient = []byte{0x16, 0x71}

// SuggestDiversification guesses the key diversification from the
// operating system identifier. Only G&D cards are recognized.
func (c *CPLC) SuggestDiversification() Diversification {
	if c != nil && bytes.Equal(c.OperatingSystemID, osGieseckeDevrient) {
		return DiversificationEMV
	}
	return DiversificationNone
}

// Describe generates a human-readable report.
func (c *CPLC) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== CPLC ===")
	if c == nil {
		sb.WriteString("\n    - NO CPLC")
		return sb.String()
	}
	tlv.WriteStructFields(&sb, "CPLC", c)
	fmt.Fprintf(&sb, "\n    - Suggested diversification: %s", c.SuggestDiversification())
	return sb.String()
}
