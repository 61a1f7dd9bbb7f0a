// Package token issues and verifies the secret deletion tokens handed out
// when a link is created. Only the SHA-256 of a token is ever stored;
// verification is constant time.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const rawLen = 16

// New returns a fresh URL-safe random token.
func New() (string, error) {
	var b [rawLen]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// Hash returns the hex SHA-256 of a plaintext token, the only form that is
// persisted.
func Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether plain hashes to storedHash without leaking timing.
func Verify(plain, storedHash string) bool {
	h := Hash(plain)
	return subtle.ConstantTimeCompare([]byte(h), []byte(storedHash)) == 1
}
