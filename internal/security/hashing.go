package security

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher derives and verifies bcrypt digests for stored credentials. The cost
// factor comes from config, which already enforces the 4-31 range; a zero
// cost falls back to bcrypt.DefaultCost so the zero value stays usable in
// tests and tooling.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted bcrypt digest of secret, as a string for storage.
// The plaintext must never be logged or persisted.
func (h *Hasher) Hash(secret []byte) (string, error) {
	b, err := bcrypt.GenerateFromPassword(secret, h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare verifies secret against a stored digest in constant time. Returns
// nil on match; bcrypt.ErrMismatchedHashAndPassword (or a parse error for a
// malformed digest) otherwise.
func (h *Hasher) Compare(hash string, secret []byte) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), secret)
}
