package service

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

// passwordAlphabet is a-z, A-Z and 0-9 without l, 1, o and 0.
const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ23456789"

const passwordRandomLength = 6

// PasswordGenerator draws account passwords. Passwords are handed out on paper
// tickets, so a uniform non-cryptographic source is sufficient. It is not safe
// for concurrent use.
type PasswordGenerator struct {
	rng *rand.Rand
}

// NewPasswordGenerator returns a generator; a zero seed picks a random one.
func NewPasswordGenerator(seed uint64) *PasswordGenerator {
	if seed == 0 {
		return &PasswordGenerator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &PasswordGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns prefix + six random characters + suffix.
func (g *PasswordGenerator) Generate(prefix, suffix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + passwordRandomLength + len(suffix))
	b.WriteString(prefix)
	for i := 0; i < passwordRandomLength; i++ {
		b.WriteByte(passwordAlphabet[g.rng.IntN(len(passwordAlphabet))])
	}
	b.WriteString(suffix)
	return b.String()
}

// Initial returns the uppercased first character of name, or "X" when name is empty.
func Initial(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return "X"
	}
	return strings.ToUpper(string(r))
}
