package item

import (
	"encoding/base64"
	"math"
	"math/bits"
)

// NoDistance is the distance between hashes that cannot be compared.
const NoDistance = math.MaxInt

// Hash is a perceptual image fingerprint. Visually similar images have a
// small Hamming distance between their hashes.
type Hash []byte

// Distance returns the number of differing bits. Empty hashes and hashes
// of different sizes are never close to anything.
func (h Hash) Distance(other Hash) int {
	if len(h) == 0 || len(h) != len(other) {
		return NoDistance
	}
	d := 0
	for i := range h {
		d += bits.OnesCount8(h[i] ^ other[i])
	}
	return d
}

// String encodes the hash as standard base64, or "" for no hash.
func (h Hash) String() string {
	if len(h) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(h)
}

// DecodeHash parses a base64 hash. Malformed input yields no hash.
func DecodeHash(s string) Hash {
	if s == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) == 0 {
		return nil
	}
	return b
}
