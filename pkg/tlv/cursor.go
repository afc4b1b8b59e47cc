package tlv

import (
	"fmt"

	"github.com/gregLibert/globalplatform/pkg/bits"
)

// TLV CURSOR:
// GlobalPlatform card responses (Key Information Template, Card Recognition
// Data) are walked unit by unit rather than decoded into a tree. Every
// function below takes the buffer and an offset and returns the offset of
// what follows, so a decoder is a straight sequence of calls.
//
// Tags are single bytes. Lengths follow BER:
// - Short form: bit 8 clear, the byte is the length (0-127).
// - Long form:  bit 8 set, bits 7-1 give the number of big-endian length
//   bytes that follow (0x81 XX, 0x82 XX XX, ...).
//
// The indefinite form (0x80) never occurs in card data and is rejected.
// No function mutates the buffer.

// maxLengthBytes caps long-form lengths at 4 bytes.
const maxLengthBytes = 4

// ReadByte returns the byte at offset and the offset after it.
func ReadByte(buf []byte, offset int) (byte, int, error) {
	if offset < 0 || offset >= len(buf) {
		return 0, offset, outOfBounds(offset, 1, len(buf))
	}
	return buf[offset], offset + 1, nil
}

// ExpectTag checks that the byte at offset is tag and returns the offset after it.
func ExpectTag(buf []byte, offset int, tag byte) (int, error) {
	got, next, err := ReadByte(buf, offset)
	if err != nil {
		return offset, err
	}
	if got != tag {
		return offset, fmt.Errorf("%w: expected %02X at offset %d, got %02X", ErrTagMismatch, tag, offset, got)
	}
	return next, nil
}

// SkipTag steps over a tag the caller already knows should be there.
// It still rejects a mismatch.
func SkipTag(buf []byte, offset int, tag byte) (int, error) {
	return ExpectTag(buf, offset, tag)
}

// ReadLength decodes the BER length at offset.
func ReadLength(buf []byte, offset int) (int, int, error) {
	first, next, err := ReadByte(buf, offset)
	if err != nil {
		return 0, offset, err
	}

	if !bits.IsSet(first, 8) {
		return int(first), next, nil
	}

	count := int(bits.GetRange(first, 7, 1))
	if count == 0 || count > maxLengthBytes {
		return 0, offset, fmt.Errorf("%w: unsupported length encoding %02X at offset %d", ErrTruncatedLength, first, offset)
	}
	if next+count > len(buf) {
		return 0, offset, fmt.Errorf("%w: %d length byte(s) announced at offset %d, %d available",
			ErrTruncatedLength, count, offset, len(buf)-next)
	}

	length := 0
	for _, b := range buf[next : next+count] {
		length = length<<8 | int(b)
	}
	if length < 0 {
		return 0, offset, fmt.Errorf("%w: length overflow at offset %d", ErrTruncatedLength, offset)
	}
	return length, next + count, nil
}

// SkipTagAndLength checks the tag at offset, decodes the length that
// follows it and returns the offset of the value.
func SkipTagAndLength(buf []byte, offset int, tag byte) (int, error) {
	next, err := ExpectTag(buf, offset, tag)
	if err != nil {
		return offset, err
	}
	_, next, err = ReadLength(buf, next)
	if err != nil {
		return offset, err
	}
	return next, nil
}

// Tag returns the tag of the unit at offset.
func Tag(buf []byte, offset int) (byte, error) {
	tag, _, err := ReadByte(buf, offset)
	return tag, err
}

// bounds returns the start of the value and the end of the unit at offset.
func bounds(buf []byte, offset int) (int, int, error) {
	if _, _, err := ReadByte(buf, offset); err != nil {
		return 0, 0, err
	}
	length, valueStart, err := ReadLength(buf, offset+1)
	if err != nil {
		return 0, 0, err
	}
	end := valueStart + length
	if end > len(buf) || end < valueStart {
		return 0, 0, outOfBounds(valueStart, length, len(buf))
	}
	return valueStart, end, nil
}

// ValueBytes returns the value of the unit at offset.
// The slice shares memory with buf.
func ValueBytes(buf []byte, offset int) ([]byte, error) {
	start, end, err := bounds(buf, offset)
	if err != nil {
		return nil, err
	}
	return buf[start:end], nil
}

// Bytes returns the whole unit at offset: tag, length and value.
// The slice shares memory with buf.
func Bytes(buf []byte, offset int) ([]byte, error) {
	_, end, err := bounds(buf, offset)
	if err != nil {
		return nil, err
	}
	return buf[offset:end], nil
}

// SkipAny advances past the unit at offset whatever its tag.
// The returned offset is always greater than offset on success.
func SkipAny(buf []byte, offset int) (int, error) {
	_, end, err := bounds(buf, offset)
	if err != nil {
		return offset, err
	}
	return end, nil
}
