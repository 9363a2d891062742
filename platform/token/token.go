// Package token issues the opaque bearer values used for refresh tokens and
// recording links. Only the hash of a refresh token is persisted.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// New returns n random bytes as unpadded URL-safe base64, so the value can be
// embedded in a path segment as-is.
func New(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token: invalid size %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash is the hex SHA-256 digest stored in place of the raw value.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
