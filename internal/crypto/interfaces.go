package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/pin_hasher_mock.go -package=mock

// PINHasher derives and checks the app lock PIN digest. It knows nothing
// about storage or sync; inputs and outputs are raw bytes, and encoding
// them for persistence is the caller's concern.
type PINHasher interface {
	// GenerateSalt produces a fresh random salt (16 bytes / 128 bits).
	// The salt is not a secret and is stored next to the digest.
	GenerateSalt() ([]byte, error)

	// Hash derives the Argon2id digest of the PIN under the given salt.
	// The same PIN and salt always produce the same digest.
	Hash(pin string, salt []byte) []byte

	// Verify reports whether the PIN reproduces the digest under the
	// salt. The comparison runs in constant time.
	Verify(pin string, salt, digest []byte) bool
}
