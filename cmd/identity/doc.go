// Package identity implements Ward's credential-record foundation.
//
// It defines the credential record (stable ULID identifier, unique username,
// per-record salt, derived hash) and the store boundary used by the
// verification and session layers.
//
// This package is intentionally dependency-light and security-first.
package identity
