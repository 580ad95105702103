// Package kdf derives the cipher key and nonce from a password.
//
// Key = SHA-256(password) and Nonce = SHA-256(Key)[:16]. No salt is mixed in, so a password
// always yields the same key and nonce. Files written under a password can only be read back
// by repeating exactly this derivation.
package kdf

import "crypto/sha256"

const (
	// KeySize is the size of a derived key in bytes.
	KeySize = sha256.Size
	// NonceSize is the size of a derived nonce in bytes.
	NonceSize = 16
)

// Key is a derived 256-bit cipher key.
type Key [KeySize]byte

// Nonce is the 128-bit initial counter block derived from a Key.
type Nonce [NonceSize]byte

// DeriveKey hashes the password bytes as given. No Unicode normalization is applied.
func DeriveKey(password []byte) Key {
	return sha256.Sum256(password)
}

// DeriveNonce returns the first NonceSize bytes of SHA-256(key).
func DeriveNonce(key Key) Nonce {
	sum := sha256.Sum256(key[:])

	var nonce Nonce

	copy(nonce[:], sum[:NonceSize])

	return nonce
}

// Derive returns the key and nonce for password.
func Derive(password []byte) (Key, Nonce) {
	key := DeriveKey(password)

	return key, DeriveNonce(key)
}

// Wipe zeroes the key.
func (k *Key) Wipe() { clear(k[:]) }

// Wipe zeroes the nonce.
func (n *Nonce) Wipe() { clear(n[:]) }
