package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for every bcrypt hash produced by the
// service: user passwords, password-reset tokens, and recovery codes.
// Cost 12 keeps a single hash in the tens-of-milliseconds range on current
// server hardware; tune per deployment.
const BcryptCost = 12

// HashSecret computes a salted bcrypt hash of the given plaintext secret.
//
// bcrypt embeds a random salt in its output, so two hashes of the same input
// differ; comparison must go through [CheckSecret], never string equality.
//
// Hashing fails only on exhausted entropy or an input longer than bcrypt's
// 72-byte limit — both are internal errors, not user-facing validation
// failures.
func HashSecret(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing secret: %w", err)
	}

	return string(hash), nil
}

// CheckSecret reports whether plaintext matches the given bcrypt hash.
func CheckSecret(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
