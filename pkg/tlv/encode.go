package tlv

// EncodeLength returns the BER encoding of n using the shortest form:
//
//	n < 0x80       -> n
//	n <= 0xFF      -> 81 n
//	n <= 0xFFFF    -> 82 nn nn
//	otherwise      -> 83 nn nn nn
//
// Lengths above 0xFFFFFF are truncated to their low 24 bits; no card load
// file comes close to that size.
func EncodeLength(n int) []byte {
	switch {
	case n < 0x80:
		return []byte{byte(n)}
	case n <= 0xFF:
		return []byte{0x81, byte(n)}
	case n <= 0xFFFF:
		return []byte{0x82, byte(n >> 8), byte(n)}
	default:
		return []byte{0x83, byte(n >> 16), byte(n >> 8), byte(n)}
	}
}

// AppendHeader appends tag and the BER length of n to dst.
func AppendHeader(dst []byte, tag byte, n int) []byte {
	dst = append(dst, tag)
	return append(dst, EncodeLength(n)...)
}
