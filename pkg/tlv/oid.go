package tlv

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// DecodeOID decodes a complete DER object identifier (tag 06, length,
// content) and returns its dotted form. Trailing bytes are an error.
func DecodeOID(der []byte) (string, error) {
	s := cryptobyte.String(der)

	var oid asn1.ObjectIdentifier
	if !s.ReadASN1ObjectIdentifier(&oid) {
		return "", fmt.Errorf("%w: malformed object identifier %X", ErrInvalidLayout, der)
	}
	if !s.Empty() {
		return "", fmt.Errorf("%w: %d trailing byte(s) after object identifier", ErrInvalidLayout, len(s))
	}
	return oid.String(), nil
}
