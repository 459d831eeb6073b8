package secrets

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultLength is the secret length used when the config does not override it.
const DefaultLength = 12

// Charset is the pool secrets draw from: upper/lower letters, digits, and
// ASCII punctuation.
const Charset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Generate returns a fresh secret of the requested length drawn uniformly
// from Charset using a cryptographically secure source. It fails only when
// the secure random source is unavailable, which is fatal to the whole run.
func Generate(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("secret length must be at least 1, got %d", length)
	}
	pool := big.NewInt(int64(len(Charset)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, pool)
		if err != nil {
			return "", fmt.Errorf("secure random source: %w", err)
		}
		buf[i] = Charset[n.Int64()]
	}
	return string(buf), nil
}
