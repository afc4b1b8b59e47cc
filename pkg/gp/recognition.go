package gp

import (
	"fmt"
	"strings"

	"github.com/gregLibert/globalplatform/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// OID is a dotted object identifier decoded from a template that wraps a
// DER OID (06 L ...), as found under tags 60, 63, 64, 65 and 66.
type OID string

// UnmarshalTLV implements tlv.Unmarshaler.
func (o *OID) UnmarshalTLV(data []byte) error {
	s, err := tlv.DecodeOID(data)
	if err != nil {
		return err
	}
	*o = OID(s)
	return nil
}

// CardRecognitionData is a tag-addressed view of the 73 template.
// Unlike ParseCardData it fails on the first malformed OID.
type CardRecognitionData struct {
	CardOID            []byte       `tlv:"06"`
	Version            OID          `tlv:"60"`
	CardIdentification OID          `tlv:"63"`
	SecureChannels     []OID        `tlv:"64"`
	CardConfiguration  OID          `tlv:"65"`
	ChipDetails        OID          `tlv:"66"`
	Unknown            []bertlv.TLV `tlv:",unknown"`
}

// ParseCardRecognitionData decodes the 66/73 envelope into a CardRecognitionData.
func ParseCardRecognitionData(data []byte) (*CardRecognitionData, error) {
	inner, err := tlv.GetValuePath(data, tagCardData, tagCardRecognitionData)
	if err != nil {
		return nil, fmt.Errorf("card recognition data: %w", err)
	}

	var r CardRecognitionData
	if err := tlv.Unmarshal(inner, &r); err != nil {
		return nil, fmt.Errorf("card recognition data: %w", err)
	}
	return &r, nil
}

// GlobalPlatformVersion returns the card management version announced under
// tag 60, e.g. "2.2.1".
func GlobalPlatformVersion(data []byte) (string, error) {
	value, err := tlv.GetValuePath(data, tagCardData, tagCardRecognitionData, tagCardManagementVersion)
	if err != nil {
		return "", fmt.Errorf("card management version: %w", err)
	}

	oid, err := tlv.DecodeOID(value)
	if err != nil {
		return "", fmt.Errorf("card management version: %w", err)
	}
	return versionFromOID(oid), nil
}

// IsGlobalPlatform reports whether tag 06 holds {globalPlatform 1}.
func (r *CardRecognitionData) IsGlobalPlatform() bool {
	if len(r.CardOID) == 0 {
		return false
	}
	der := tlv.AppendHeader(nil, tagOID, len(r.CardOID))
	oid, err := tlv.DecodeOID(append(der, r.CardOID...))
	return err == nil && oid == oidGlobalPlatformCard
}

// GPVersion returns the version suffix of tag 60, or "unknown".
func (r *CardRecognitionData) GPVersion() string {
	return versionFromOID(string(r.Version))
}

// SCPVersions returns one SCP_0i_oo string per tag 64 occurrence.
func (r *CardRecognitionData) SCPVersions() []string {
	out := make([]string, 0, len(r.SecureChannels))
	for _, scp := range r.SecureChannels {
		out = append(out, scpFromOID(string(scp)))
	}
	return out
}

// Describe generates a human-readable report.
func (r *CardRecognitionData) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== CARD RECOGNITION DATA ===")

	fmt.Fprintf(&sb, "\n    - GlobalPlatform card: %t", r.IsGlobalPlatform())
	if r.Version != "" {
		fmt.Fprintf(&sb, "\n    - Version (60): %s (%s)", r.Version, r.GPVersion())
	}
	if r.CardIdentification != "" {
		fmt.Fprintf(&sb, "\n    - Card Identification (63): %s", r.CardIdentification)
	}
	scps := r.SCPVersions()
	for i, scp := range r.SecureChannels {
		fmt.Fprintf(&sb, "\n    - Secure Channel (64): %s (%s)", scp, scps[i])
	}
	if r.CardConfiguration != "" {
		fmt.Fprintf(&sb, "\n    - Card Configuration (65): %s", r.CardConfiguration)
	}
	if r.ChipDetails != "" {
		fmt.Fprintf(&sb, "\n    - Chip Details (66): %s", r.ChipDetails)
	}

	tlv.WriteStructFields(&sb, "CRD", r)
	return sb.String()
}
