package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// GenerateSalt produces a fresh random salt, hex-encoded.
//
// The randomness comes from crypto/rand; a failure of the random source is
// unrecoverable and reported as ErrCryptoFailure.
func (c Config) GenerateSalt() (string, error) {
	b := make([]byte, c.Params.SaltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: salt: %v", ErrCryptoFailure, err)
	}
	return hex.EncodeToString(b), nil
}

// DeriveHash derives the stored hash for (password, salt) and returns it
// hex-encoded.
//
// The derivation is PBKDF2-SHA512. The salt string is fed to the KDF
// verbatim: credential records store the hex-encoded salt, and that exact
// text is the KDF input, so a record's salt and hash only validate together.
// Deterministic: the same (password, salt) pair always yields the same hash.
func (c Config) DeriveHash(password, salt string) (string, error) {
	if salt == "" {
		return "", ErrInvalidSalt
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), c.Params.Iterations, c.Params.KeyBytes, sha512.New)
	return hex.EncodeToString(key), nil
}

// Verify recomputes the hash for (password, salt) and compares it against
// expectedHash in constant time.
//
// Returns (true, nil) for a match, (false, nil) for a mismatch, and
// (false, ErrInvalidHash) when expectedHash is not valid hex. The comparison
// runs over the decoded bytes with crypto/subtle so a mismatch leaks nothing
// about where the bytes diverge.
func (c Config) Verify(password, salt, expectedHash string) (bool, error) {
	expected, err := hex.DecodeString(expectedHash)
	if err != nil || len(expected) == 0 {
		return false, ErrInvalidHash
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), c.Params.Iterations, len(expected), sha512.New)

	if subtle.ConstantTimeCompare(key, expected) == 1 {
		return true, nil
	}
	return false, nil
}
