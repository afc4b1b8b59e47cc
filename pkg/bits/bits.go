// Package bits holds the small bit helpers used when decoding BER length
// and tag bytes.
package bits

// Bit returns a byte with only the n-th bit set (1 to 8).
func Bit(n uint) byte {
	if n < 1 || n > 8 {
		return 0
	}
	return 1 << (n - 1)
}

// IsSet checks if the n-th bit is set (1 to 8).
func IsSet(b byte, n uint) bool {
	return b&Bit(n) != 0
}

// GetRange extracts the value from a range of bits (e.g., bits 7 to 1).
// Example: GetRange(0b1000_0010, 7, 1) returns 2, the byte count of a
// long-form BER length.
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// HighNibble and LowNibble split a packed BCD byte.
func HighNibble(b byte) byte { return GetRange(b, 8, 5) }

func LowNibble(b byte) byte { return GetRange(b, 4, 1) }
