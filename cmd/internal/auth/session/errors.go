package session

import "errors"

var (
	// ErrBindingNotFound is returned by BindingStore.Lookup when no live
	// binding exists for a session identifier. Expired bindings count as
	// absent, not as an error.
	ErrBindingNotFound = errors.New("session binding not found")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
