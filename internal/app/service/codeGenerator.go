package service

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// DefaultCodeLength is the short code size used when none is configured.
const DefaultCodeLength = 6

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CodeGenerator produces candidate short codes. Candidates are not checked
// for uniqueness.
type CodeGenerator interface {
	Generate() string
}

// RandomCodeGenerator draws each character uniformly from the 62-char alphabet.
type RandomCodeGenerator struct {
	length int
}

func NewRandomCodeGenerator(length int) *RandomCodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &RandomCodeGenerator{length: length}
}

func (g *RandomCodeGenerator) Generate() string {
	n := big.NewInt(int64(len(alphabet)))
	b := make([]byte, g.length)

	for i := range b {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			// entropy source failed; still hand back a code of the right shape
			b[i] = alphabet[mrand.Intn(len(alphabet))]
			continue
		}
		b[i] = alphabet[idx.Int64()]
	}

	return string(b)
}

// MaxCodeLength matches the width of the short_code column.
const MaxCodeLength = 32

// reservedCodes are top-level route names. A link under one of them would be
// shadowed by the route and never redirect.
var reservedCodes = map[string]struct{}{
	"auth":    {},
	"health":  {},
	"metrics": {},
	"ping":    {},
	"shorten": {},
	"user":    {},
}

func isReservedCode(s string) bool {
	_, ok := reservedCodes[s]
	return ok
}

// isValidCode reports whether s has the shape of a short code: 1 to
// MaxCodeLength characters of the alphabet.
func isValidCode(s string) bool {
	if len(s) == 0 || len(s) > MaxCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
