package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidKey is returned when key material is missing or not valid base64.
var ErrInvalidKey = errors.New("invalid key")

// sessionKeySize is the HMAC-SHA256 key size in bytes.
const sessionKeySize = 32

// NewSessionKey generates a random 32-byte HMAC key. Tokens signed with a
// generated key do not survive a process restart.
func NewSessionKey() ([]byte, error) {
	b := make([]byte, sessionKeySize)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeSessionKey decodes a base64-encoded HMAC key from config. Returns
// ErrInvalidKey for empty input, bad encoding, or keys shorter than 32 bytes.
func DecodeSessionKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidKey
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidKey
	}
	if len(b) < sessionKeySize {
		return nil, ErrInvalidKey
	}
	return b, nil
}

// SessionKeyFromConfig returns the configured key when set, otherwise a fresh
// random key. configured may be empty; any other invalid value is an error so
// a typo does not silently fall back to per-process keys.
func SessionKeyFromConfig(configured string) ([]byte, error) {
	if strings.TrimSpace(configured) == "" {
		return NewSessionKey()
	}
	return DecodeSessionKey(configured)
}
