package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a dev/test fallback used when no database is configured.
// It honors the same contract as PostgresStore, including the
// duplicate-username conflict and not-found kinds.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]Record
	byUsername map[string]string // username -> id
}

// NewMemoryStore constructs an in-memory credential Store implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]Record),
		byUsername: make(map[string]string),
	}
}

// FindByUsername loads a record by its exact username.
func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (Record, error) {
	const op = "identity.FindByUsername"

	username = strings.TrimSpace(username)
	if username == "" {
		return Record{}, pgInvalid(op, "missing username")
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return Record{}, NotFoundError{Op: op, Resource: "user"}
	}
	return s.byID[id], nil
}

// FindByID loads a record by its stable identifier.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (Record, error) {
	const op = "identity.FindByID"

	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, pgInvalid(op, "missing id")
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return Record{}, NotFoundError{Op: op, Resource: "user"}
	}
	return rec, nil
}

// Create persists a new credential record and assigns its ULID.
func (s *MemoryStore) Create(ctx context.Context, in CreateInput) (Record, error) {
	const op = "identity.Create"

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return Record{}, pgInvalid(op, "username is required")
	}
	if strings.TrimSpace(in.Salt) == "" || strings.TrimSpace(in.Hash) == "" {
		return Record{}, pgInvalid(op, "salt and hash are required")
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return Record{}, ConflictError{Op: op, Field: "username"}
	}

	rec := Record{
		ID:        id,
		Username:  username,
		Salt:      in.Salt,
		Hash:      in.Hash,
		CreatedAt: now,
	}
	s.byID[id] = rec
	s.byUsername[username] = id

	return rec, nil
}

// DeleteByID removes a credential record. Deleting a missing record is a no-op.
func (s *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return nil
	}
	delete(s.byUsername, rec.Username)
	delete(s.byID, rec.ID)
	return nil
}
