package gp

import (
	"fmt"
	"strings"

	"github.com/gregLibert/globalplatform/pkg/tlv"
)

// KEY INFORMATION TEMPLATE (GP 2.1.1 §9.3.3.1):
// Returned by GET DATA '00E0'. The card lists one key information data
// object per key slot:
//
//	E0 L
//	   C0 L  ID  VERSION  TYPE LENGTH [TYPE LENGTH ...]
//	   C0 L  ...
//
// Only the first (type, length) pair of each C0 object is read. A key made
// of several components makes the next C0 lookup land on a type byte, which
// fails with a tag mismatch instead of producing a wrong slot list.
// A type of 0xFF announces the extended format, which is rejected.

const (
	tagKeyInformationTemplate = 0xE0
	tagKeyInformationData     = 0xC0

	keyTypeExtendedFormat = 0xFF
)

// KeyTemplateEntry describes one key slot as reported by the card.
type KeyTemplateEntry struct {
	Version uint8 `json:"version"`
	ID      uint8 `json:"id"`
	Type    uint8 `json:"type"`
	Length  uint8 `json:"length"`
}

// String returns the entry in the VER/ID/TYPE/LEN notation.
func (k KeyTemplateEntry) String() string {
	return fmt.Sprintf("VER:%d ID:%d TYPE:%d LEN:%d", k.Version, k.ID, k.Type, k.Length)
}

// IsFactoryVersion reports whether the key version is one cards ship with
// before personalization.
func (k KeyTemplateEntry) IsFactoryVersion() bool {
	return k.Version == 0x00 || k.Version == 0xFF
}

// KeyTemplate is the ordered list of key slots, in the card's order.
type KeyTemplate []KeyTemplateEntry

// ParseKeyTemplate decodes a Key Information Template.
// Nil data (nothing fetched from the card) yields an empty template.
func ParseKeyTemplate(data []byte) (KeyTemplate, error) {
	template := KeyTemplate{}
	if data == nil {
		return template, nil
	}

	offset, err := tlv.ExpectTag(data, 0, tagKeyInformationTemplate)
	if err != nil {
		return nil, fmt.Errorf("key information template: %w", err)
	}
	// The outer length is not checked; the walk runs to the end of the buffer.
	if _, offset, err = tlv.ReadLength(data, offset); err != nil {
		return nil, fmt.Errorf("key information template: %w", err)
	}

	for offset < len(data) {
		entry, next, err := parseKeyInformation(data, offset)
		if err != nil {
			return nil, fmt.Errorf("key information at offset %d: %w", offset, err)
		}
		if entry != nil {
			template = append(template, *entry)
		}
		offset = next
	}

	return template, nil
}

// parseKeyInformation reads one C0 object. It returns a nil entry when the
// object holds no key component.
func parseKeyInformation(data []byte, offset int) (*KeyTemplateEntry, int, error) {
	offset, err := tlv.SkipTag(data, offset, tagKeyInformationData)
	if err != nil {
		return nil, offset, err
	}
	length, offset, err := tlv.ReadLength(data, offset)
	if err != nil {
		return nil, offset, err
	}
	end := offset + length

	var id, version byte
	if id, offset, err = tlv.ReadByte(data, offset); err != nil {
		return nil, offset, err
	}
	if version, offset, err = tlv.ReadByte(data, offset); err != nil {
		return nil, offset, err
	}

	if offset >= end {
		return nil, offset, nil
	}

	var typ, keyLength byte
	if typ, offset, err = tlv.ReadByte(data, offset); err != nil {
		return nil, offset, err
	}
	if typ == keyTypeExtendedFormat {
		return nil, offset, fmt.Errorf("%w: extended format not supported (key id %d)", ErrUnsupportedFormat, id)
	}
	if keyLength, offset, err = tlv.ReadByte(data, offset); err != nil {
		return nil, offset, err
	}

	return &KeyTemplateEntry{
		Version: version,
		ID:      id,
		Type:    typ,
		Length:  keyLength,
	}, offset, nil
}

// HasFactoryKeys reports whether any slot carries a factory key version.
func (t KeyTemplate) HasFactoryKeys() bool {
	for _, k := range t {
		if k.IsFactoryVersion() {
			return true
		}
	}
	return false
}

// Describe generates a report of the key slots.
func (t KeyTemplate) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== KEY INFORMATION TEMPLATE ===")

	if len(t) == 0 {
		sb.WriteString("\n    - No keys reported.")
		return sb.String()
	}

	for _, k := range t {
		fmt.Fprintf(&sb, "\n    - %s (%s)", k, KeyTypeCoding(k.Type))
	}
	if t.HasFactoryKeys() {
		sb.WriteString("\nKey version suggests factory keys")
	}
	return sb.String()
}
