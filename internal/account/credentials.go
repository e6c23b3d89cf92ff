// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package account

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 6

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// Credentials is the password value object owned by a User. It holds only
// the argon2id hash, never the plaintext.
type Credentials struct {
	hash string
}

// NewCredentials derives Credentials from a plaintext password.
// Returns ErrWeakPassword if the password is shorter than
// MinPasswordLength. Hashing is CPU-bound; callers on latency-sensitive
// paths should not hold shared locks across this call.
func NewCredentials(password string) (Credentials, error) {
	if len(password) < MinPasswordLength {
		return Credentials{}, oops.Code("USER_WEAK_PASSWORD").
			With("min", MinPasswordLength).
			Wrap(ErrWeakPassword)
	}

	// Generate random salt
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return Credentials{}, oops.Code("CREDENTIALS_SALT_FAILED").Wrap(err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as PHC string format
	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return Credentials{hash: encoded}, nil
}

// CredentialsFromHash wraps an already-computed hash when rehydrating from
// storage. No validation is performed; the store is trusted.
func CredentialsFromHash(hash string) Credentials {
	return Credentials{hash: hash}
}

// Verify checks the candidate password against the stored hash.
// Returns (true, nil) on match, (false, nil) on mismatch, or an error for
// a malformed stored hash (a persistence corruption case).
func (c Credentials) Verify(password string) (bool, error) {
	parts := strings.Split(c.hash, "$")
	if len(parts) != 6 {
		return false, oops.Code("CREDENTIALS_INVALID_HASH").Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return false, oops.Code("CREDENTIALS_INVALID_HASH").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, oops.Code("CREDENTIALS_INVALID_HASH").Wrap(err)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, oops.Code("CREDENTIALS_INVALID_HASH").Wrap(err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, oops.Code("CREDENTIALS_INVALID_HASH").Wrap(err)
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, oops.Code("CREDENTIALS_INVALID_HASH").Wrap(err)
	}

	// Validate threads fits in uint8 to prevent silent truncation
	if threads > 255 {
		return false, oops.Code("CREDENTIALS_INVALID_HASH").Errorf("threads value %d exceeds uint8 max", threads)
	}

	// Validate key length to prevent integer overflow in uint32 conversion
	keyLen := len(expectedHash)
	if keyLen <= 0 || keyLen > 1<<30 {
		return false, oops.Code("CREDENTIALS_INVALID_HASH").Errorf("invalid hash key length: %d", keyLen)
	}

	// Compute hash with same parameters
	computedHash := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(keyLen))

	// Constant-time comparison
	if subtle.ConstantTimeCompare(computedHash, expectedHash) == 1 {
		return true, nil
	}

	return false, nil
}

// Hash exposes the stored hash for persistence only.
func (c Credentials) Hash() string {
	return c.hash
}
