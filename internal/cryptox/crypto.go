// Package cryptox holds the hashing helpers shared by the server and the
// CLI, and a helper for scrubbing secrets from memory.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the lowercase hex blake3-256 of body.
func Digest(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// VerifyDigest reports whether body hashes to the hex digest want.
func VerifyDigest(body []byte, want string) bool {
	return subtle.ConstantTimeCompare([]byte(Digest(body)), []byte(want)) == 1
}

// Wipe overwrites b with zeros. A nil slice is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
