package password

import "errors"

// Public, stable errors for callers.
var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrWeakPassword     = errors.New("weak password")
	ErrInvalidHash      = errors.New("invalid password hash")
	ErrInvalidSalt      = errors.New("invalid salt")

	// ErrCryptoFailure reports an unavailable crypto primitive (e.g. the
	// system random source). It is fatal: nothing in this package retries.
	ErrCryptoFailure = errors.New("crypto failure")
)
