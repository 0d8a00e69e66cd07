package hashing

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/safestorage/internal/common"
)

// argon2id parameters (OWASP-recommended).
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// Argon2idHasher derives a salted argon2id digest encoded in PHC string
// format ($argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>). Digests are not
// compatible with ledgers written with the SHA-256 hasher.
type Argon2idHasher struct{}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: salt generation: %v", common.ErrHashFailed, err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	return encoded, nil
}

func (h *Argon2idHasher) Verify(password, stored string) (bool, error) {
	salt, key, params, err := parsePHC(stored)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
}

func parsePHC(encoded string) ([]byte, []byte, argon2Params, error) {
	var p argon2Params

	var version int
	var memory, time, threads uint32
	var saltB64, keyB64 string

	n, err := fmt.Sscanf(encoded, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s", &version, &memory, &time, &threads, &saltB64)
	if err != nil || n != 5 {
		return nil, nil, p, fmt.Errorf("%w: malformed digest", common.ErrHashFailed)
	}

	// Sscanf's %s is greedy; split the trailing salt$hash pair by hand.
	for i := 0; i < len(saltB64); i++ {
		if saltB64[i] == '$' {
			keyB64 = saltB64[i+1:]
			saltB64 = saltB64[:i]
			break
		}
	}
	if keyB64 == "" {
		return nil, nil, p, fmt.Errorf("%w: malformed digest", common.ErrHashFailed)
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, nil, p, fmt.Errorf("%w: %v", common.ErrHashFailed, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(keyB64)
	if err != nil || len(key) == 0 {
		return nil, nil, p, fmt.Errorf("%w: malformed digest", common.ErrHashFailed)
	}
	if threads == 0 || threads > 255 {
		return nil, nil, p, fmt.Errorf("%w: invalid parallelism %d", common.ErrHashFailed, threads)
	}

	p = argon2Params{memory: memory, time: time, threads: uint8(threads)}
	return salt, key, p, nil
}
