package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// PasswordAlphabet is the character set used for generated passwords.
const PasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()"

// GeneratePassword draws length characters from PasswordAlphabet using
// crypto/rand.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("password length must be positive, got %d", length)
	}

	max := big.NewInt(int64(len(PasswordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		out[i] = PasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
