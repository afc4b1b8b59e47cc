package cap

import (
	"fmt"
	"strings"

	"github.com/gregLibert/globalplatform/pkg/tlv"
	"golang.org/x/crypto/cryptobyte"
)

// HEADER COMPONENT (JCVM 2.2.2 §6.3):
//
//	u1  tag                 (1)
//	u2  size                remaining length
//	u4  magic               DECAFFED
//	u1  minor_version       CAP format version
//	u1  major_version
//	u1  flags
//	u1  package minor_version
//	u1  package major_version
//	u1  AID_length
//	u1  AID[AID_length]
//
// Anything after the package AID (the package name of newer formats) is
// ignored.

// CAPMagic is the value of the Header magic field.
const CAPMagic = 0xDECAFFED

// Header flags.
const (
	FlagInt    = 0x01 // package uses the int type
	FlagExport = 0x02 // package has an Export component
	FlagApplet = 0x04 // package has an Applet component
)

// Header holds the decoded fixed part of the Header component.
type Header struct {
	Tag          uint8  `json:"tag"`
	Size         uint16 `json:"size"`
	Magic        uint32 `json:"magic"`
	MinorVersion uint8  `json:"minorVersion"`
	MajorVersion uint8  `json:"majorVersion"`
	Flags        uint8  `json:"flags"`
	PackageMinor uint8  `json:"packageMinor"`
	PackageMajor uint8  `json:"packageMajor"`
	PackageAID   AID    `json:"packageAid"`
}

func parseHeader(b []byte) (Header, error) {
	var h Header
	var aid cryptobyte.String

	s := cryptobyte.String(b)
	if !s.ReadUint8(&h.Tag) ||
		!s.ReadUint16(&h.Size) ||
		!s.ReadUint32(&h.Magic) ||
		!s.ReadUint8(&h.MinorVersion) ||
		!s.ReadUint8(&h.MajorVersion) ||
		!s.ReadUint8(&h.Flags) ||
		!s.ReadUint8(&h.PackageMinor) ||
		!s.ReadUint8(&h.PackageMajor) ||
		!s.ReadUint8LengthPrefixed(&aid) {
		return Header{}, fmt.Errorf("%w: Header component of %d byte(s): %w", ErrMissingHeader, len(b), tlv.ErrOutOfBounds)
	}

	pkg, err := NewAID(aid)
	if err != nil {
		return Header{}, fmt.Errorf("%w: package AID: %w", ErrMalformedContainer, err)
	}
	h.PackageAID = pkg
	return h, nil
}

// CAPVersion returns the CAP format version, e.g. "2.1".
func (h Header) CAPVersion() string {
	return fmt.Sprintf("%d.%d", h.MajorVersion, h.MinorVersion)
}

// PackageVersion returns the package version, e.g. "1.0".
func (h Header) PackageVersion() string {
	return fmt.Sprintf("%d.%d", h.PackageMajor, h.PackageMinor)
}

// FlagNames lists the flags set in the header.
func (h Header) FlagNames() []string {
	var out []string
	if h.Flags&FlagInt != 0 {
		out = append(out, "ACC_INT")
	}
	if h.Flags&FlagExport != 0 {
		out = append(out, "ACC_EXPORT")
	}
	if h.Flags&FlagApplet != 0 {
		out = append(out, "ACC_APPLET")
	}
	return out
}

func (h Header) describe(sb *strings.Builder) {
	fmt.Fprintf(sb, "\n    - Header.Magic: %08X", h.Magic)
	if h.Magic != CAPMagic {
		sb.WriteString(" (unexpected)")
	}
	fmt.Fprintf(sb, "\n    - Header.CAPVersion: %s", h.CAPVersion())
	fmt.Fprintf(sb, "\n    - Header.Flags: %02X %v", h.Flags, h.FlagNames())
	fmt.Fprintf(sb, "\n    - Header.PackageVersion: %s", h.PackageVersion())
	fmt.Fprintf(sb, "\n    - Header.PackageAID: %s", h.PackageAID)
}
