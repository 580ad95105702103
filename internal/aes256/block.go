package aes256

import "crypto/cipher"

// state is the 4x4 AES state in column-major order: byte (row, col) lives at index 4*col+row.
type state [BlockSize]byte

func (s *state) addRoundKey(k *[BlockSize]byte) {
	for i := range s {
		s[i] ^= k[i]
	}
}

func (s *state) subBytes() {
	for i := range s {
		s[i] = sbox[s[i]]
	}
}

func (s *state) invSubBytes() {
	for i := range s {
		s[i] = invSbox[s[i]]
	}
}

// shiftRows rotates row r left by r positions.
func (s *state) shiftRows() {
	s[1], s[5], s[9], s[13] = s[5], s[9], s[13], s[1]
	s[2], s[6], s[10], s[14] = s[10], s[14], s[2], s[6]
	s[3], s[7], s[11], s[15] = s[15], s[3], s[7], s[11]
}

func (s *state) invShiftRows() {
	s[1], s[5], s[9], s[13] = s[13], s[1], s[5], s[9]
	s[2], s[6], s[10], s[14] = s[10], s[14], s[2], s[6]
	s[3], s[7], s[11], s[15] = s[7], s[11], s[15], s[3]
}

func (s *state) mixColumns() {
	for c := 0; c < BlockSize; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]

		s[c] = mul2[a0] ^ mul3[a1] ^ a2 ^ a3
		s[c+1] = a0 ^ mul2[a1] ^ mul3[a2] ^ a3
		s[c+2] = a0 ^ a1 ^ mul2[a2] ^ mul3[a3]
		s[c+3] = mul3[a0] ^ a1 ^ a2 ^ mul2[a3]
	}
}

func (s *state) invMixColumns() {
	for c := 0; c < BlockSize; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]

		s[c] = mul14[a0] ^ mul11[a1] ^ mul13[a2] ^ mul9[a3]
		s[c+1] = mul9[a0] ^ mul14[a1] ^ mul11[a2] ^ mul13[a3]
		s[c+2] = mul13[a0] ^ mul9[a1] ^ mul14[a2] ^ mul11[a3]
		s[c+3] = mul11[a0] ^ mul13[a1] ^ mul9[a2] ^ mul14[a3]
	}
}

// EncryptBlock encrypts the first BlockSize bytes of src into dst. dst and src may overlap entirely.
func (s *Schedule) EncryptBlock(dst, src []byte) {
	var st state

	copy(st[:], src[:BlockSize])

	st.addRoundKey(&s.keys[0])

	for r := 1; r < Rounds; r++ {
		st.subBytes()
		st.shiftRows()
		st.mixColumns()
		st.addRoundKey(&s.keys[r])
	}

	st.subBytes()
	st.shiftRows()
	st.addRoundKey(&s.keys[Rounds])

	copy(dst[:BlockSize], st[:])
}

// DecryptBlock is the inverse of EncryptBlock.
func (s *Schedule) DecryptBlock(dst, src []byte) {
	var st state

	copy(st[:], src[:BlockSize])

	st.addRoundKey(&s.keys[Rounds])

	for r := Rounds - 1; r > 0; r-- {
		st.invShiftRows()
		st.invSubBytes()
		st.addRoundKey(&s.keys[r])
		st.invMixColumns()
	}

	st.invShiftRows()
	st.invSubBytes()
	st.addRoundKey(&s.keys[0])

	copy(dst[:BlockSize], st[:])
}

// Cipher adapts a Schedule to crypto/cipher.Block.
type Cipher struct {
	schedule *Schedule
}

var _ cipher.Block = (*Cipher)(nil)

// NewCipher expands key and returns a block cipher over it.
func NewCipher(key []byte) (*Cipher, error) {
	schedule, err := Expand(key)
	if err != nil {
		return nil, err
	}

	return &Cipher{schedule: schedule}, nil
}

// BlockSize returns the AES block size.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts one block. It panics if src or dst is shorter than BlockSize.
func (c *Cipher) Encrypt(dst, src []byte) {
	checkBuffers(dst, src)
	c.schedule.EncryptBlock(dst, src)
}

// Decrypt decrypts one block. It panics if src or dst is shorter than BlockSize.
func (c *Cipher) Decrypt(dst, src []byte) {
	checkBuffers(dst, src)
	c.schedule.DecryptBlock(dst, src)
}

// Wipe zeroes the underlying schedule. The cipher must not be used afterwards.
func (c *Cipher) Wipe() {
	c.schedule.Wipe()
}

func checkBuffers(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes256: input not full block")
	}

	if len(dst) < BlockSize {
		panic("aes256: output not full block")
	}
}
