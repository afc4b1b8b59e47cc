package gp

// Key type coding, GP 2.1.1 §9.1.6 / GP 2.2.1 §11.1.8.
// Ranges are evaluated in order; the first match wins.
var keyTypeCodings = []struct {
	lo, hi byte
	desc   string
}{
	{0x00, 0x7F, "Reserved for private use"},
	{0x80, 0x80, "DES - mode (ECB/CBC) implicitly known"},
	{0x81, 0x81, "Reserved (Triple DES)"},
	{0x82, 0x82, "Triple DES in CBC mode"},
	{0x83, 0x83, "DES in ECB mode"},
	{0x84, 0x84, "DES in CBC mode"},
	{0x85, 0x85, "Pre-Shared Key for Transport Layer Security"},
	{0x86, 0x87, "RFU (symmetric algorithms)"},
	{0x88, 0x88, "AES (16, 24, or 32 long keys)"},
	{0x89, 0x8F, "RFU (symmetric algorithms)"},
	{0x90, 0x90, "HMAC-SHA1 - length of HMAC is implicitly known"},
	{0x91, 0x91, "HMAC-SHA1-160 - length of HMAC is 160 bits"},
	{0x92, 0x9F, "RFU (symmetric algorithms)"},
	{0xA0, 0xA0, "RSA Public Key - public exponent e component (clear text)"},
	{0xA1, 0xA1, "RSA Public Key - modulus N component (clear text)"},
	{0xA2, 0xA2, "RSA Private Key - modulus N component"},
	{0xA3, 0xA3, "RSA Private Key - private exponent d component"},
	{0xA4, 0xA4, "RSA Private Key - Chinese Remainder P component"},
	{0xA5, 0xA5, "RSA Private Key - Chinese Remainder Q component"},
	{0xA6, 0xA6, "RSA Private Key - Chinese Remainder PQ component"},
	{0xA7, 0xA7, "RSA Private Key - Chinese Remainder DP1 component"},
	{0xA8, 0xA8, "RSA Private Key - Chinese Remainder DQ1 component"},
	{0xA9, 0xFE, "RFU (asymmetric algorithms)"},
	{0xFF, 0xFF, "Extended Format"},
}

// KeyTypeCoding returns the description of a key type byte.
func KeyTypeCoding(t byte) string {
	for _, c := range keyTypeCodings {
		if t >= c.lo && t <= c.hi {
			return c.desc
		}
	}
	return "UNKNOWN"
}
