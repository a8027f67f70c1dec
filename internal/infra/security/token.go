package security

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomTokenGenerator mints opaque bearer tokens from crypto/rand.
type RandomTokenGenerator struct {
	bytes int
}

func NewRandomTokenGenerator(bytes int) *RandomTokenGenerator {
	if bytes <= 0 {
		bytes = 32
	}
	return &RandomTokenGenerator{bytes: bytes}
}

func (g *RandomTokenGenerator) Generate() (string, error) {
	buf := make([]byte, g.bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
