package tlv

import (
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"
)

// Dump decodes data as BER-TLV and renders it as an indented tree, one
// unit per line. Constructed units list their children; primitive units
// show their value in hex with a printable ASCII rendering.
func Dump(data []byte) (string, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return "", fmt.Errorf("bertlv decode failed: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("=== BER-TLV ===")
	writePackets(&sb, packets, 1)
	return sb.String(), nil
}

func writePackets(sb *strings.Builder, packets []bertlv.TLV, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, p := range packets {
		tag := strings.ToUpper(p.Tag)
		if len(p.TLVs) > 0 {
			fmt.Fprintf(sb, "\n%s%s", indent, tag)
			writePackets(sb, p.TLVs, depth+1)
			continue
		}
		fmt.Fprintf(sb, "\n%s%s (%d): %X (%q)", indent, tag, len(p.Value), p.Value, MakeSafeASCII(p.Value))
	}
}
