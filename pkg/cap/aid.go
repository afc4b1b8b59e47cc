package cap

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// AID lengths, ISO/IEC 7816-5.
const (
	MinAIDLength = 5
	MaxAIDLength = 16
)

// AID is an Application Identifier. The zero value is the empty AID.
// AIDs are immutable and comparable with ==.
type AID struct {
	raw string
}

// NewAID copies b into an AID.
func NewAID(b []byte) (AID, error) {
	if len(b) < MinAIDLength || len(b) > MaxAIDLength {
		return AID{}, fmt.Errorf("%w: length %d (%X)", ErrInvalidAID, len(b), b)
	}
	return AID{raw: string(b)}, nil
}

// ParseAID reads an AID written as plain hex ("A000000062") or as the
// colon-separated form used in CAP manifests ("0xa0:0x0:0x0:0x0:0x62").
func ParseAID(s string) (AID, error) {
	b, err := parseAIDText(s)
	if err != nil {
		return AID{}, err
	}
	return NewAID(b)
}

func parseAIDText(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		b, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(s), "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAID, s, err)
		}
		return b, nil
	}

	parts := strings.Split(s, ":")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(p)), "0x")
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAID, s, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// Bytes returns a copy of the identifier.
func (a AID) Bytes() []byte {
	return []byte(a.raw)
}

// Len returns the identifier length in bytes.
func (a AID) Len() int {
	return len(a.raw)
}

// IsZero reports whether a is the empty AID.
func (a AID) IsZero() bool {
	return a.raw == ""
}

// String returns the identifier as uppercase hex.
func (a AID) String() string {
	return strings.ToUpper(hex.EncodeToString([]byte(a.raw)))
}

// MarshalText implements encoding.TextMarshaler.
func (a AID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AID) UnmarshalText(text []byte) error {
	v, err := ParseAID(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
