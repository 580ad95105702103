package aes256

import "math/bits"

// reduction is the low byte of the field modulus 0x11B.
const reduction = 0x1b

// mul multiplies a and b in GF(2^8).
func mul(a, b byte) byte {
	var product byte

	for b != 0 {
		if b&1 != 0 {
			product ^= a
		}

		carry := a & 0x80

		a <<= 1

		if carry != 0 {
			a ^= reduction
		}

		b >>= 1
	}

	return product
}

// inverse returns the multiplicative inverse of a, computed as a^254.
// Zero has no inverse and maps to zero.
func inverse(a byte) byte {
	result, base := byte(1), a

	for exp := 254; exp > 0; exp >>= 1 {
		if exp&1 != 0 {
			result = mul(result, base)
		}

		base = mul(base, base)
	}

	return result
}

// affine applies the S-box affine transform over GF(2).
func affine(b byte) byte {
	return b ^
		bits.RotateLeft8(b, 1) ^
		bits.RotateLeft8(b, 2) ^
		bits.RotateLeft8(b, 3) ^
		bits.RotateLeft8(b, 4) ^
		0x63
}
