package engine

import (
	"crypto/rand"
	"encoding/hex"
)

// NewHolderToken generates a random 64-character hex token used to
// correlate a holder with their seat holds.  The underlying call to
// crypto/rand ensures cryptographically secure random bytes.
func NewHolderToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
