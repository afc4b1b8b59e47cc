package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex constructs a byte slice from a series of hex strings.
// Spaces are ignored so vectors can be written as "E0 06", "C0 04 01 00 88 10".
// It panics on invalid input and is meant for tests and constants.
func Hex(parts ...string) []byte {
	data, err := ParseHex(strings.Join(parts, ""))
	if err != nil {
		panic(fmt.Sprintf("invalid input: %v", err))
	}
	return data
}

// ParseHex decodes a hex string, ignoring whitespace and colons.
func ParseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)

	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", clean, err)
	}
	return data, nil
}
