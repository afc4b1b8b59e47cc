package tlv

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/gregLibert/globalplatform/pkg/bits"
	"github.com/moov-io/bertlv"
)

// WriteStructFields inspects a struct and writes its byte-slice fields to the strings.Builder.
// It joins lines with newlines but DOES NOT add a trailing newline, preventing artifacts in strings.Split.
// If the builder is not empty, it prepends a newline to separate this block from previous content.
//
// The optional `fmt` struct tag selects the rendering of the value:
//   - ascii: hex followed by the printable characters
//   - int:   hex followed by the big-endian decimal value
//   - date:  hex followed by a CPLC YDDD date (year digit, day of year)
//   - oid:   hex followed by the dotted object identifier
func WriteStructFields(sb *strings.Builder, prefix string, s interface{}) {
	val := reflect.ValueOf(s)

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}

	typ := val.Type()
	var lines []string

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !fieldType.IsExported() {
			continue
		}

		if field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.Uint8 {
			if line := formatByteSliceField(prefix, field, fieldType); line != "" {
				lines = append(lines, line)
			}
			continue
		}

		if field.Type() == reflect.TypeOf([]bertlv.TLV{}) {
			if unknownLines := formatUnknownField(prefix, field); len(unknownLines) > 0 {
				lines = append(lines, unknownLines...)
			}
			continue
		}
	}

	if len(lines) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Join(lines, "\n"))
	}
}

func formatByteSliceField(prefix string, field reflect.Value, fieldType reflect.StructField) string {
	if field.IsNil() || field.Len() == 0 {
		return ""
	}

	bytesVal := field.Bytes()
	formatTag := fieldType.Tag.Get("fmt")
	tlvTag := fieldType.Tag.Get("tlv")

	name := fieldType.Name
	if tlvTag != "" && !strings.HasPrefix(tlvTag, ",") {
		name = fmt.Sprintf("%s (%s)", name, tlvTag)
	}

	displayVal := formatByteValue(bytesVal, formatTag)
	return fmt.Sprintf("    - %s.%s: %s", prefix, name, displayVal)
}

func formatUnknownField(prefix string, field reflect.Value) []string {
	if field.IsNil() || field.Len() == 0 {
		return nil
	}

	var lines []string
	tlvs := field.Interface().([]bertlv.TLV)
	for _, t := range tlvs {
		valStr := strings.ToUpper(hex.EncodeToString(t.Value))
		lines = append(lines, fmt.Sprintf("    - %s.Unknown Tag %s: %s", prefix, strings.ToUpper(t.Tag), valStr))
	}
	return lines
}

func formatByteValue(data []byte, format string) string {
	switch format {
	case "ascii":
		return fmt.Sprintf("%X (%q)", data, MakeSafeASCII(data))
	case "int":
		var integer int
		for _, b := range data {
			integer = (integer << 8) | int(b)
		}
		return fmt.Sprintf("%X (Dec: %d)", data, integer)
	case "date":
		if date, ok := formatYDDD(data); ok {
			return fmt.Sprintf("%X (%s)", data, date)
		}
		return strings.ToUpper(hex.EncodeToString(data))
	case "oid":
		if oid, err := DecodeOID(data); err == nil {
			return fmt.Sprintf("%X (%s)", data, oid)
		}
		return strings.ToUpper(hex.EncodeToString(data))
	default:
		return strings.ToUpper(hex.EncodeToString(data))
	}
}

// formatYDDD renders a 2-byte packed BCD date: last digit of the year,
// then the day of the year (001-366).
func formatYDDD(data []byte) (string, bool) {
	if len(data) != 2 {
		return "", false
	}
	digits := []byte{
		bits.HighNibble(data[0]), bits.LowNibble(data[0]),
		bits.HighNibble(data[1]), bits.LowNibble(data[1]),
	}
	for _, d := range digits {
		if d > 9 {
			return "", false
		}
	}
	day := int(digits[1])*100 + int(digits[2])*10 + int(digits[3])
	if day < 1 || day > 366 {
		return "", false
	}
	return fmt.Sprintf("Year digit: %d, Day: %03d", digits[0], day), true
}

// MakeSafeASCII replaces every non-printable byte with a dot.
func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
