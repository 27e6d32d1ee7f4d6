package hashing

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 hex digest of plaintext. Serial numbers and
// donor/technician/beneficiary identifiers are only ever persisted as
// digests; the plaintext never reaches the store.
// An empty input yields an empty digest so optional fields stay empty.
func Hash(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// ShortTag returns the first 8 hex characters of the digest, used for
// opaque custody location tags like "BENEFICIARY:a1b2c3d4".
func ShortTag(plaintext string) string {
	h := Hash(plaintext)
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
