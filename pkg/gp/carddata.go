package gp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gregLibert/globalplatform/pkg/tlv"
)

// CARD RECOGNITION DATA (GP 2.1.1 Appendix F, Table F-1):
// Returned by GET DATA '0066'.
//
//	66 L                              Card Data
//	   73 L                           Card Recognition Data
//	      06 L 2A864886FC6B01         {globalPlatform 1}: this is a GP card
//	      60 L 06 L <oid>             {globalPlatform 2 v}: GP version
//	      63 L 06 L <oid>             Card identification scheme
//	      64 L 06 L <oid>             {globalPlatform 4 scp i}: SCP and option
//	      65 L 06 L <oid>             Card configuration details
//	      66 L 06 L <oid>             Card / chip details
//
// Each unit is decoded on its own: an OID that does not parse yields an
// error fact for that unit and the walk carries on with the next one.

const (
	tagCardData            = 0x66
	tagCardRecognitionData = 0x73

	tagOID                   = 0x06
	tagCardManagementVersion = 0x60
	tagCardIdentification    = 0x63
	tagSecureChannel         = 0x64
	tagCardConfiguration     = 0x65
	tagChipDetails           = 0x66

	oidGlobalPlatformCard = "1.2.840.114283.1"
	oidPrefixGPVersion    = "1.2.840.114283.2."
	oidPrefixSCP          = "1.2.840.114283.4."

	valueUnknown = "unknown"
	valueError   = "error"
)

// FactKind classifies a decoded card recognition fact.
type FactKind int

const (
	FactNoData FactKind = iota
	FactGlobalPlatformCard
	FactVersion
	FactSCPVersion
	FactOID
	FactUnknownTag
	FactError
)

func (k FactKind) String() string {
	switch k {
	case FactNoData:
		return "no-data"
	case FactGlobalPlatformCard:
		return "globalplatform-card"
	case FactVersion:
		return "gp-version"
	case FactSCPVersion:
		return "scp-version"
	case FactOID:
		return "oid"
	case FactUnknownTag:
		return "unknown-tag"
	case FactError:
		return "error"
	default:
		return fmt.Sprintf("FactKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k FactKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Fact is one decoded element of the card recognition data.
type Fact struct {
	Kind  FactKind `json:"kind"`
	Tag   byte     `json:"tag"`
	Value string   `json:"value,omitempty"`
}

// String renders the fact as a report line.
func (f Fact) String() string {
	switch f.Kind {
	case FactNoData:
		return "NO CARD DATA"
	case FactGlobalPlatformCard:
		return "GlobalPlatform card"
	case FactVersion:
		return "Version: " + f.Value
	case FactSCPVersion:
		return "SCP version: " + f.Value
	case FactOID:
		return fmt.Sprintf("TAG%d: %s", f.Tag&0x0F, f.Value)
	case FactUnknownTag:
		return "Unknown tag: " + f.Value
	case FactError:
		return fmt.Sprintf("TAG %02X: %s", f.Tag, f.Value)
	default:
		return f.Value
	}
}

// CardFacts is the ordered list of facts decoded from one buffer.
type CardFacts []Fact

// ParseCardData walks Card Recognition Data and returns the facts it holds,
// in buffer order. Nil data yields a single FactNoData.
//
// Envelope and TLV framing errors fail the call. OID decoding errors are
// reported as facts.
func ParseCardData(data []byte) (CardFacts, error) {
	if data == nil {
		return CardFacts{{Kind: FactNoData}}, nil
	}

	offset, err := tlv.SkipTagAndLength(data, 0, tagCardData)
	if err != nil {
		return nil, fmt.Errorf("card data: %w", err)
	}
	offset, err = tlv.SkipTagAndLength(data, offset, tagCardRecognitionData)
	if err != nil {
		return nil, fmt.Errorf("card recognition data: %w", err)
	}

	facts := CardFacts{}
	for offset < len(data) {
		tag, err := tlv.Tag(data, offset)
		if err != nil {
			return nil, err
		}

		if f, ok := decodeUnit(data, offset, tag); ok {
			facts = append(facts, f)
		}

		next, err := tlv.SkipAny(data, offset)
		if err != nil {
			return nil, fmt.Errorf("card recognition data at offset %d: %w", offset, err)
		}
		offset = next
	}

	return facts, nil
}

// decodeUnit dispatches one TLV unit on its tag. It reports false when the
// unit produces no fact (an OID under tag 06 other than the GP one).
func decodeUnit(data []byte, offset int, tag byte) (Fact, bool) {
	switch tag {
	case tagOID:
		oid, err := unitOID(data, offset, true)
		if err != nil {
			return Fact{Kind: FactError, Tag: tag, Value: valueError}, true
		}
		if oid == oidGlobalPlatformCard {
			return Fact{Kind: FactGlobalPlatformCard, Tag: tag, Value: oid}, true
		}
		return Fact{}, false

	case tagCardManagementVersion:
		return Fact{Kind: FactVersion, Tag: tag, Value: gpVersion(data, offset)}, true

	case tagSecureChannel:
		return Fact{Kind: FactSCPVersion, Tag: tag, Value: scpVersion(data, offset)}, true

	case tagCardIdentification, tagCardConfiguration, tagChipDetails:
		oid, err := unitOID(data, offset, false)
		if err != nil {
			return Fact{Kind: FactError, Tag: tag, Value: valueError}, true
		}
		return Fact{Kind: FactOID, Tag: tag, Value: oid}, true

	default:
		return Fact{Kind: FactUnknownTag, Tag: tag, Value: strconv.FormatUint(uint64(tag), 16)}, true
	}
}

// unitOID decodes the OID of the unit at offset. Tag 06 units are an OID
// themselves; the other tags wrap one.
func unitOID(data []byte, offset int, whole bool) (string, error) {
	var der []byte
	var err error
	if whole {
		der, err = tlv.Bytes(data, offset)
	} else {
		der, err = tlv.ValueBytes(data, offset)
	}
	if err != nil {
		return "", err
	}
	return tlv.DecodeOID(der)
}

func gpVersion(data []byte, offset int) string {
	oid, err := unitOID(data, offset, false)
	if err != nil {
		return valueError
	}
	return versionFromOID(oid)
}

func scpVersion(data []byte, offset int) string {
	oid, err := unitOID(data, offset, false)
	if err != nil {
		return valueError
	}
	return scpFromOID(oid)
}

// versionFromOID strips the {globalPlatform 2} arc.
func versionFromOID(oid string) string {
	if v, ok := strings.CutPrefix(oid, oidPrefixGPVersion); ok {
		return v
	}
	return valueUnknown
}

// scpFromOID formats {globalPlatform 4 scp i} as SCP_0<scp>_<i in hex>.
func scpFromOID(oid string) string {
	rest, ok := strings.CutPrefix(oid, oidPrefixSCP)
	if !ok {
		return valueUnknown
	}

	arcs := strings.Split(rest, ".")
	if len(arcs) < 2 {
		return valueError
	}
	scp, err := strconv.Atoi(arcs[0])
	if err != nil {
		return valueError
	}
	option, err := strconv.Atoi(arcs[1])
	if err != nil {
		return valueError
	}
	return fmt.Sprintf("SCP_0%d_%02x", scp, option)
}

// IsGlobalPlatform reports whether the card identified itself as a GP card.
func (f CardFacts) IsGlobalPlatform() bool {
	for _, fact := range f {
		if fact.Kind == FactGlobalPlatformCard {
			return true
		}
	}
	return false
}

// Describe generates a report with one line per fact.
func (f CardFacts) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== CARD DATA ===")
	for _, fact := range f {
		sb.WriteString("\n    - ")
		sb.WriteString(fact.String())
	}
	return sb.String()
}
