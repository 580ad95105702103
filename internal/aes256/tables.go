package aes256

// Lookup tables, filled once by init.
//
//nolint:gochecknoglobals
var (
	sbox    [256]byte
	invSbox [256]byte

	mul2  [256]byte
	mul3  [256]byte
	mul9  [256]byte
	mul11 [256]byte
	mul13 [256]byte
	mul14 [256]byte

	// rcon holds the first byte of each round constant; the other three bytes are zero.
	rcon [7]byte
)

//nolint:gochecknoinits
func init() {
	for i := range 256 {
		b := byte(i)

		s := affine(inverse(b))
		sbox[b] = s
		invSbox[s] = b

		mul2[b] = mul(b, 0x02)
		mul3[b] = mul(b, 0x03)
		mul9[b] = mul(b, 0x09)
		mul11[b] = mul(b, 0x0b)
		mul13[b] = mul(b, 0x0d)
		mul14[b] = mul(b, 0x0e)
	}

	rcon[0] = 0x01
	for i := 1; i < len(rcon); i++ {
		rcon[i] = mul2[rcon[i-1]]
	}
}
