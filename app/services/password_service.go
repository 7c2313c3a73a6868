// Package services provides external service integrations and technical concerns like credentials and tokens
package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher handles one-way password hashing and verification. No other
// component reads raw passwords once they cross this boundary.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// BcryptPasswordHasher implements PasswordHasher using bcrypt
type BcryptPasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a bcrypt-backed password hasher with the given cost
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

// Hash generates a salted digest. bcrypt embeds a random per-call salt, so
// hashing the same password twice yields different digests that both verify.
func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify compares a plaintext password with a digest in constant time.
// Malformed digests verify as false, never as an error.
func (h *BcryptPasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
