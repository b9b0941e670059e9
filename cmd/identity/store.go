package identity

import (
	"context"
	"time"
)

// Record is Ward's canonical credential record.
//
// The identifier is assigned by the store at creation and is stable for the
// record's lifetime. Salt and Hash are hex strings produced by the password
// package; they only validate as a pair and are immutable after creation
// (there is no password-change flow).
type Record struct {
	ID       string
	Username string
	Salt     string
	Hash     string

	CreatedAt time.Time
}

// CreateInput describes a registration request. Salt and Hash must already
// be derived; the store never sees a plaintext password.
type CreateInput struct {
	Username string
	Salt     string
	Hash     string
	Now      time.Time
}

// Store is the credential persistence boundary.
//
// Usernames are case-sensitive: lookups match the stored string exactly
// (surrounding whitespace is trimmed on write).
type Store interface {
	// FindByUsername loads a record by its exact username.
	// Returns a NotFoundError kind when no record exists.
	FindByUsername(ctx context.Context, username string) (Record, error)

	// FindByID loads a record by its stable identifier.
	// Returns a NotFoundError kind when the identifier no longer resolves.
	FindByID(ctx context.Context, id string) (Record, error)

	// Create persists a new record and assigns its identifier.
	//
	// Duplicate usernames are checked before the insert and reported as a
	// ConflictError; implementations must additionally back the check with a
	// uniqueness constraint so a racing insert cannot slip through.
	Create(ctx context.Context, in CreateInput) (Record, error)

	// DeleteByID removes a record (external account deletion).
	// Deleting a missing record is a no-op.
	DeleteByID(ctx context.Context, id string) error
}
