package session

import (
	"context"
	"time"
)

// Binding is the server-side association between a session identifier and a
// credential record's identifier.
//
// The session identifier is the hashed form of the client's opaque token
// (see cmd/security/token); the plain token never reaches a store.
type Binding struct {
	SessionID string
	UserID    string

	CreatedAt time.Time
	ExpiresAt time.Time
}

// BindingStore abstracts persistence for session bindings.
//
// Implementations must be safe under concurrent access to the same session
// identifier. Bind is last-write-wins: a session holds at most one bound
// identifier at any time, and a concurrent reader observes either the old
// binding or the new one, never an intermediate state.
type BindingStore interface {
	// Bind records the association, atomically replacing any prior binding
	// for the session identifier.
	Bind(ctx context.Context, sessionID, userID string, now, expiresAt time.Time) error

	// Lookup reads the live binding for a session identifier.
	// Returns ErrBindingNotFound when no binding exists or it has expired.
	Lookup(ctx context.Context, sessionID string, now time.Time) (Binding, error)

	// Unbind removes the association. Idempotent: unbinding an already
	// unbound session is a no-op, not an error.
	Unbind(ctx context.Context, sessionID string) error

	// UnbindAll removes every binding for a user (account deletion cleanup).
	UnbindAll(ctx context.Context, userID string) error

	// PruneExpired removes bindings that expired before now and reports how
	// many were removed. Expiry is already invisible to Lookup; pruning just
	// keeps the store small.
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}
