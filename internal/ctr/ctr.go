// Package ctr implements the counter-mode keystream used to transform files.
//
// The counter block for block index n is the nonce with its first four bytes XORed with the
// big-endian encoding of n. The remaining twelve nonce bytes never change. This differs from
// textbook CTR, which increments the full 128-bit block, and limits one keystream to 2^32 blocks.
// Existing files depend on this layout, so it must stay as is.
//
// Encryption and decryption are the same XOR; both names call one code path.
package ctr

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/idelchi/kryptos/internal/aes256"
	"github.com/idelchi/kryptos/internal/kdf"
)

const (
	// BlockSize is the keystream block size in bytes.
	BlockSize = aes256.BlockSize
	// MaxBlocks is the number of distinct counter blocks per session.
	MaxBlocks = 1 << 32
	// MaxLength is the longest input XORKeyStream accepts.
	MaxLength = MaxBlocks * BlockSize
)

// Session owns the expanded key schedule and nonce for one password.
// A Session is safe for concurrent use once constructed; Close must not race with other calls.
type Session struct {
	schedule *aes256.Schedule
	nonce    kdf.Nonce
}

// NewSession expands key once and keeps the schedule for every block.
func NewSession(key kdf.Key, nonce kdf.Nonce) (*Session, error) {
	schedule, err := aes256.Expand(key[:])
	if err != nil {
		return nil, fmt.Errorf("expanding key: %w", err)
	}

	return &Session{schedule: schedule, nonce: nonce}, nil
}

// FromPassword derives the key and nonce from password and opens a session over them.
func FromPassword(password []byte) (*Session, error) {
	key, nonce := kdf.Derive(password)
	defer key.Wipe()

	return NewSession(key, nonce)
}

// Blocks returns the number of keystream blocks needed for length bytes.
func Blocks(length int) int {
	return (length + BlockSize - 1) / BlockSize
}

// CounterBlock returns the cipher input for block index n.
func (s *Session) CounterBlock(n uint32) [BlockSize]byte {
	block := [BlockSize]byte(s.nonce)

	var index [4]byte

	binary.BigEndian.PutUint32(index[:], n)

	for i := range index {
		block[i] ^= index[i]
	}

	return block
}

// KeystreamBlock returns the encrypted counter block for index n.
func (s *Session) KeystreamBlock(n uint32) [BlockSize]byte {
	block := s.CounterBlock(n)

	s.schedule.EncryptBlock(block[:], block[:])

	return block
}

// XORKeyStream XORs src with the keystream starting at block 0 and stores the result in dst.
// dst and src may overlap entirely. The final block is truncated to the remaining bytes.
// It panics if dst is shorter than src or if src exceeds MaxLength.
func (s *Session) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("ctr: output smaller than input")
	}

	if uint64(len(src)) > MaxLength {
		panic("ctr: input exceeds counter space")
	}

	var n uint32

	for offset := 0; offset < len(src); offset += BlockSize {
		end := min(offset+BlockSize, len(src))
		keystream := s.KeystreamBlock(n)

		subtle.XORBytes(dst[offset:end], src[offset:end], keystream[:end-offset])

		n++
	}
}

// Encrypt transforms buf in place.
func (s *Session) Encrypt(buf []byte) {
	s.XORKeyStream(buf, buf)
}

// Decrypt transforms buf in place. It is the same operation as Encrypt.
func (s *Session) Decrypt(buf []byte) {
	s.Encrypt(buf)
}

// Close wipes the key schedule and nonce.
func (s *Session) Close() {
	s.schedule.Wipe()
	s.nonce.Wipe()
}
