package aes256

import "strconv"

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32
	// Rounds is the number of AES-256 rounds.
	Rounds = 14

	keyWords      = KeySize / 4
	scheduleWords = 4 * (Rounds + 1)
)

// KeySizeError is returned when a key is not exactly KeySize bytes.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "aes256: invalid key size " + strconv.Itoa(int(k))
}

// Schedule holds the Rounds+1 round keys expanded from a single AES-256 key.
type Schedule struct {
	keys [Rounds + 1][BlockSize]byte
}

// Expand runs the AES-256 key expansion over key.
func Expand(key []byte) (*Schedule, error) {
	if len(key) != KeySize {
		return nil, KeySizeError(len(key))
	}

	var words [scheduleWords][4]byte

	for i := range keyWords {
		copy(words[i][:], key[4*i:])
	}

	for i := keyWords; i < scheduleWords; i++ {
		temp := words[i-1]

		switch i % keyWords {
		case 0:
			temp = subWord(rotWord(temp))
			temp[0] ^= rcon[i/keyWords-1]
		case 4:
			temp = subWord(temp)
		}

		for j := range temp {
			words[i][j] = words[i-keyWords][j] ^ temp[j]
		}
	}

	schedule := &Schedule{}

	for i, word := range words {
		copy(schedule.keys[i/4][4*(i%4):], word[:])
	}

	return schedule, nil
}

// RoundKey returns a copy of round key r, 0 <= r <= Rounds.
func (s *Schedule) RoundKey(r int) [BlockSize]byte {
	return s.keys[r]
}

// Wipe zeroes every round key.
func (s *Schedule) Wipe() {
	for i := range s.keys {
		clear(s.keys[i][:])
	}
}

func rotWord(w [4]byte) [4]byte {
	return [4]byte{w[1], w[2], w[3], w[0]}
}

func subWord(w [4]byte) [4]byte {
	return [4]byte{sbox[w[0]], sbox[w[1]], sbox[w[2]], sbox[w[3]]}
}
