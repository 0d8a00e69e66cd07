// Package hashing provides password digest computation and verification.
//
// Two implementations exist: the historical unsalted SHA-256 digest that the
// ledger file format was built around, and a salted argon2id variant for
// deployments that do not need to stay compatible with existing ledgers.
package hashing

import "github.com/dmitrijs2005/safestorage/internal/common"

// Hasher turns a plaintext password into a stored digest and verifies
// candidates against it.
//
// Contract:
//   - Hash is deterministic only for unsalted implementations; callers must
//     always verify through Verify rather than comparing digests themselves.
//   - Verify returns (false, nil) on a clean mismatch and an error only when
//     the stored digest cannot be processed.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) (bool, error)
}

// New returns the Hasher registered under the given algorithm name.
func New(algorithm string) (Hasher, error) {
	switch algorithm {
	case AlgorithmSHA256, "":
		return &SHA256Hasher{}, nil
	case AlgorithmArgon2id:
		return &Argon2idHasher{}, nil
	}
	return nil, common.ErrHashFailed
}

const (
	AlgorithmSHA256   = "sha256"
	AlgorithmArgon2id = "argon2id"
)
