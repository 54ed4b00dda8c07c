package totp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// RecoveryCodeCount is the number of single-use backup codes generated at
// registration.
const RecoveryCodeCount = 8

// recoveryCodeBytes is the entropy per code; hex-encoding yields 8
// human-transcribable characters.
const recoveryCodeBytes = 4

// GenerateRecoveryCodes produces [RecoveryCodeCount] random, high-entropy,
// human-transcribable backup codes (uppercase hex, 8 characters each).
//
// The caller is expected to hash each code individually before persisting;
// the plaintext values are shown to the user exactly once.
func GenerateRecoveryCodes() ([]string, error) {
	codes := make([]string, 0, RecoveryCodeCount)
	for i := 0; i < RecoveryCodeCount; i++ {
		raw := make([]byte, recoveryCodeBytes)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("error generating recovery code: %w", err)
		}
		codes = append(codes, strings.ToUpper(hex.EncodeToString(raw)))
	}

	return codes, nil
}
