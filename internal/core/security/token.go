package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSessionToken creates a new session token and its hash.
// Returns: (realToken, hash)
// The real token goes into the cookie; only the hash touches the store,
// so a leaked store never yields usable sessions.
func GenerateSessionToken() (string, string, error) {
	// 1. Generate 32 random bytes
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// 2. Convert to Hex string
	randomString := hex.EncodeToString(bytes)

	// 3. Add Prefix
	realToken := fmt.Sprintf("sess_%s", randomString)

	// 4. Hash it (SHA256) - this is what the store keeps
	hash := sha256.Sum256([]byte(realToken))
	hashedToken := hex.EncodeToString(hash[:])

	return realToken, hashedToken, nil
}

// HashToken maps a cookie token to its store key.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
