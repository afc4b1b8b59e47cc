package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgYellow)
	valueColor  = color.New(color.FgWhite)
)

// printJSON outputs the value as formatted JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding error: %w", err)
	}
	return nil
}

// printReport colors a Describe() report: "=== X ===" headers, then
// "- Label: value" lines.
func printReport(w io.Writer, report string) {
	for _, line := range strings.Split(report, "\n") {
		switch {
		case strings.HasPrefix(line, "==="):
			headerColor.Fprintln(w, line)
		case strings.Contains(line, ": "):
			label, value, _ := strings.Cut(line, ": ")
			labelColor.Fprint(w, label+": ")
			valueColor.Fprintln(w, value)
		default:
			fmt.Fprintln(w, line)
		}
	}
}

func hexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func hexStrings(blocks [][]byte) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = hexString(b)
	}
	return out
}
