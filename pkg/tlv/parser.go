// Package tlv provides the BER-TLV (Basic Encoding Rules - Tag-Length-Value)
// primitives used to read GlobalPlatform card data.
//
// Two styles of access are offered:
//
//   - A cursor (ExpectTag, ReadLength, SkipAny, ...) that walks a buffer by
//     offset without building a tree. Decoders that must follow a normative
//     layout byte by byte use it.
//   - Struct mapping (Unmarshal, GetValue, GetValuePath) over a tree decoded by
//     github.com/moov-io/bertlv, for templates whose children are looked up
//     by tag.
package tlv

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// Unmarshaler allows custom types to implement their own TLV parsing logic.
type Unmarshaler interface {
	UnmarshalTLV(data []byte) error
}

// Unmarshal parses raw BER-TLV data and maps it into a target Go struct.
//
// Fields are matched with a `tlv:"XX"` struct tag holding the hex tag. A
// field named Unknown (or tagged `tlv:",unknown"`) of type []bertlv.TLV
// collects everything that matched no other field.
func Unmarshal(data []byte, target interface{}) error {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return fmt.Errorf("bertlv decode failed: %w", err)
	}
	return UnmarshalFromPackets(packets, target)
}

// UnmarshalFromPackets maps a slice of pre-decoded bertlv.TLV objects to a target struct.
// It supports multiple occurrences of the same tag if the target field is a slice.
func UnmarshalFromPackets(packets []bertlv.TLV, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	v = v.Elem()
	t := v.Type()

	consumed := make(map[int]bool)

	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)
		tagHex, ok := fieldTag(fieldType)
		if !ok {
			continue
		}

		for idx, packet := range packets {
			if !strings.EqualFold(packet.Tag, tagHex) {
				continue
			}
			if err := mapPacketToField(packet, v.Field(i)); err != nil {
				return fmt.Errorf("field %s (%s): %w", fieldType.Name, tagHex, err)
			}
			consumed[idx] = true
		}
	}

	return collectUnknown(v, t, packets, consumed)
}

// fieldTag returns the hex tag a struct field is bound to.
func fieldTag(f reflect.StructField) (string, bool) {
	cfg := f.Tag.Get("tlv")
	if cfg == "" || isUnknownField(f) {
		return "", false
	}
	return strings.ToUpper(strings.Split(cfg, ",")[0]), true
}

func isUnknownField(f reflect.StructField) bool {
	return f.Tag.Get("tlv") == ",unknown" || f.Name == "Unknown"
}

// mapPacketToField dispatches the TLV data to the appropriate reflection logic.
func mapPacketToField(packet bertlv.TLV, field reflect.Value) error {
	// A slice of structs grows by one element per occurrence.
	if field.Kind() == reflect.Slice && !isByteSlice(field) {
		elem := reflect.New(field.Type().Elem()).Elem()
		if err := decodeToValue(packet, elem); err != nil {
			return err
		}
		field.Set(reflect.Append(field, elem))
		return nil
	}

	return decodeToValue(packet, field)
}

// decodeToValue handles the leaf-node decoding logic (Custom Unmarshaler, ByteSlice, Struct, etc.)
func decodeToValue(packet bertlv.TLV, field reflect.Value) error {
	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalTLV(rawValue(packet))
		}
	}

	switch {
	case isByteSlice(field):
		// Later occurrences of a tag bound to []byte replace earlier ones.
		field.SetBytes(rawValue(packet))
	case field.Kind() == reflect.String:
		field.SetString(hex.EncodeToString(packet.Value))
	case isStructOrPtrToStruct(field):
		target := structTarget(field)
		if len(packet.TLVs) > 0 {
			return UnmarshalFromPackets(packet.TLVs, target.Interface())
		}
		return Unmarshal(packet.Value, target.Interface())
	}
	return nil
}

func collectUnknown(v reflect.Value, t reflect.Type, packets []bertlv.TLV, consumed map[int]bool) error {
	var unknown reflect.Value
	for i := 0; i < v.NumField(); i++ {
		if isUnknownField(t.Field(i)) {
			unknown = v.Field(i)
			break
		}
	}
	if !unknown.IsValid() || !unknown.CanSet() {
		return nil
	}

	var leftovers []bertlv.TLV
	for idx, packet := range packets {
		if !consumed[idx] {
			leftovers = append(leftovers, packet)
		}
	}
	if len(leftovers) > 0 {
		unknown.Set(reflect.ValueOf(leftovers))
	}
	return nil
}

// rawValue returns the value of a packet; for constructed packets the
// children are re-encoded so the caller sees the original bytes.
func rawValue(p bertlv.TLV) []byte {
	if len(p.TLVs) > 0 {
		if enc, err := bertlv.Encode(p.TLVs); err == nil {
			return enc
		}
	}
	return p.Value
}

// GetValue scans the raw data for a specific top-level tag and returns its raw payload.
func GetValue(data []byte, tag uint) ([]byte, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("bertlv decode failed: %w", err)
	}

	want := fmt.Sprintf("%X", tag)
	for _, p := range packets {
		if strings.EqualFold(p.Tag, want) {
			return rawValue(p), nil
		}
	}
	return nil, fmt.Errorf("tag %s not found", want)
}

// GetValuePath descends through nested templates, one tag per level, and
// returns the payload of the last one. GetValuePath(data, 0x66, 0x73, 0x60)
// returns the value of 60 inside 73 inside 66.
func GetValuePath(data []byte, path ...uint) ([]byte, error) {
	value := data
	for i, tag := range path {
		next, err := GetValue(value, tag)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		value = next
	}
	return value, nil
}

func isByteSlice(v reflect.Value) bool {
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8
}

func isStructOrPtrToStruct(v reflect.Value) bool {
	if v.Kind() == reflect.Struct {
		return true
	}
	return v.Kind() == reflect.Ptr && v.Type().Elem().Kind() == reflect.Struct
}

func structTarget(field reflect.Value) reflect.Value {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return field
	}
	return field.Addr()
}
