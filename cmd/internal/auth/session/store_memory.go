package session

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a dev/test BindingStore used when no database is configured.
// Semantics match PostgresStore: last-write-wins Bind, expired rows invisible
// to Lookup, idempotent Unbind.
type MemoryStore struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// NewMemoryStore constructs an in-memory BindingStore implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bindings: make(map[string]Binding)}
}

// Bind records the association, replacing any prior binding for the session.
func (s *MemoryStore) Bind(ctx context.Context, sessionID, userID string, now, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sessionID = strings.TrimSpace(sessionID)
	userID = strings.TrimSpace(userID)
	if sessionID == "" || userID == "" {
		return ErrBindingNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bindings[sessionID] = Binding{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	return nil
}

// Lookup reads the live binding for sessionID.
func (s *MemoryStore) Lookup(ctx context.Context, sessionID string, now time.Time) (Binding, error) {
	if err := ctx.Err(); err != nil {
		return Binding{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bindings[strings.TrimSpace(sessionID)]
	if !ok || !b.ExpiresAt.After(now) {
		return Binding{}, ErrBindingNotFound
	}
	return b, nil
}

// Unbind removes the association. A missing entry is a no-op.
func (s *MemoryStore) Unbind(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bindings, strings.TrimSpace(sessionID))
	return nil
}

// UnbindAll removes every binding for a user.
func (s *MemoryStore) UnbindAll(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, b := range s.bindings {
		if b.UserID == userID {
			delete(s.bindings, id)
		}
	}
	return nil
}

// PruneExpired removes bindings that expired before now.
func (s *MemoryStore) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, b := range s.bindings {
		if !b.ExpiresAt.After(now) {
			delete(s.bindings, id)
			n++
		}
	}
	return n, nil
}
