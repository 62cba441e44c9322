package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes gives 256 bits of entropy per token, which makes collisions
// cryptographically negligible without any uniqueness retry loop.
const tokenBytes = 32

// GenerateToken returns an unguessable opaque token for sessions and
// password resets. Token generation is independent of password hashing.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateStateToken returns a short-lived token for OAuth state and nonce
// values. Same source as GenerateToken, kept separate for call-site clarity.
func GenerateStateToken() (string, error) {
	return GenerateToken()
}
