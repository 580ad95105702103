// Package aes256 implements the AES-256 block cipher (FIPS-197) from its field arithmetic up.
//
// The round key schedule is expanded once per key into a Schedule value which callers keep for
// as long as the key is in use. Encryption is the only direction the CTR construction needs;
// the inverse cipher is provided so that Cipher satisfies crypto/cipher.Block.
//
// Substitution and multiplication tables are derived at start-up from GF(2^8) arithmetic
// modulo x^8 + x^4 + x^3 + x + 1 (0x11B).
package aes256
