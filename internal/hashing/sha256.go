package hashing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DigestHexLength is the width of an encoded SHA-256 digest.
const DigestHexLength = sha256.Size * 2

// SHA256Hasher computes an unsalted SHA-256 digest over the raw password
// bytes, rendered as lowercase hex. Same input always yields the same output,
// which keeps existing ledger files readable but allows precomputed
// dictionary attacks across users; prefer Argon2idHasher where ledger
// compatibility is not required.
type SHA256Hasher struct{}

func (h *SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h *SHA256Hasher) Verify(password, stored string) (bool, error) {
	if len(stored) != DigestHexLength {
		return false, nil
	}
	candidate, err := h.Hash(password)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1, nil
}
