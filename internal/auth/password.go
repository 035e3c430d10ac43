package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("email and/or password is incorrect")

// bcryptCost matches the cost the existing user documents were hashed with.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt
// digest, returning ErrInvalidCredentials on mismatch.
func CheckPassword(plaintext, digest string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
