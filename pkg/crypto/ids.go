package crypto

import (
	"crypto/rand"
	"errors"
	"math"
)

const (
	urlAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	defaultIDSize = 22 // 22 * 6 = 132 bits (uuid is 128 bits) of entropy
	minAlphabet   = 8
	maxAlphabet   = 255
)

var (
	ErrAlphabetTooShort = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetTooLong  = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetNotASCII = errors.New("alphabet must contain only ASCII characters")
	ErrIDSizeInvalid    = errors.New("id size must be positive")
)

// IDGenerator mints NanoID-style random identifiers. User records get their
// stable id from it when the store does not assign one.
type IDGenerator struct {
	alphabet string
	mask     byte
	size     int
}

// NewUserIDGenerator returns a generator for 22-character URL-safe ids.
func NewUserIDGenerator() *IDGenerator {
	g, _ := NewIDGenerator(urlAlphabet, defaultIDSize)
	return g
}

func NewIDGenerator(alphabet string, size int) (*IDGenerator, error) {
	if size <= 0 {
		return nil, ErrIDSizeInvalid
	}
	// Generate indexes by byte position
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] > 127 {
			return nil, ErrAlphabetNotASCII
		}
	}
	if len(alphabet) < minAlphabet {
		return nil, ErrAlphabetTooShort
	}
	if len(alphabet) > maxAlphabet {
		return nil, ErrAlphabetTooLong
	}

	return &IDGenerator{
		alphabet: alphabet,
		mask:     maskFor(len(alphabet)),
		size:     size,
	}, nil
}

// maskFor returns the smallest 2^n-1 covering every alphabet index.
func maskFor(alphabetLen int) byte {
	mask := 1
	for mask < alphabetLen-1 {
		mask = mask<<1 | 1
	}
	return byte(mask)
}

// Generate draws random bytes and keeps those that fall inside the alphabet
// after masking, which avoids modulo bias.
func (g *IDGenerator) Generate() (string, error) {
	alphabetLen := len(g.alphabet)
	step := int(math.Ceil(1.6 * float64(int(g.mask)*g.size) / float64(alphabetLen)))

	id := make([]byte, 0, g.size)
	buffer := make([]byte, step)

	for len(id) < g.size {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		for _, b := range buffer {
			index := int(b & g.mask)
			if index < alphabetLen {
				id = append(id, g.alphabet[index])
				if len(id) == g.size {
					break
				}
			}
		}
	}

	return string(id), nil
}
