// Package password provides salted password hashing and verification for Ward.
//
// It implements PBKDF2-SHA512 key derivation over per-credential random salts
// and includes:
// - Configurable derivation cost and sizes (via environment variables)
// - Password policy validation
// - Constant-time hash verification
//
// Security notes:
// - Salts come from crypto/rand; never from a general-purpose PRNG.
// - Derived keys and stored hashes are compared with crypto/subtle, so a
//   mismatch reveals nothing about where the bytes diverge.
// - Plaintext passwords, salts, and hashes must never be logged.
package password
