package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor for stored passwords.
const DefaultCost = 8

// CredentialStore hashes and verifies passwords with bcrypt. Each hash embeds
// its own random salt, so hashing the same password twice gives different digests.
type CredentialStore struct {
	cost int
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{cost: DefaultCost}
}

func (c *CredentialStore) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), c.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plain matches digest. A malformed digest is a mismatch.
func (c *CredentialStore) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
