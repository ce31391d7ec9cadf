// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"golang.org/x/crypto/argon2"
)

// pinHasher is the private implementation of [PINHasher].
type pinHasher struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. phone vs. tablet).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewPINHasher constructs a [PINHasher] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewPINHasher() PINHasher {
	return &pinHasher{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// GenerateSalt implements [PINHasher]. It reads 16 random bytes from the
// OS CSPRNG. Returns an error if the random read fails.
func (h *pinHasher) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Hash implements [PINHasher].
func (h *pinHasher) Hash(pin string, salt []byte) []byte {
	return argon2.IDKey([]byte(pin), salt, h.argonTime, h.argonMemory, h.argonThreads, h.argonKeyLen)
}

// Verify implements [PINHasher].
func (h *pinHasher) Verify(pin string, salt, digest []byte) bool {
	candidate := h.Hash(pin, salt)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}
