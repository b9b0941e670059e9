package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements BindingStore over PostgreSQL.
//
// Bind relies on INSERT ... ON CONFLICT DO UPDATE, so replacing a session's
// binding is a single atomic statement: a concurrent Lookup on the same
// session sees either the previous row or the new one.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption customizes a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithSchema sets the Postgres schema used by the binding store (default "ward").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) {
		if strings.TrimSpace(schema) != "" {
			s.schema = schema
		}
	}
}

// NewPostgresStore constructs a Postgres-backed BindingStore.
// The pool is owned by the caller and is not closed by the store.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("session: nil pool")
	}
	s := &PostgresStore{pool: pool, schema: "ward"}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *PostgresStore) table() string {
	return pgx.Identifier{s.schema, "session_bindings"}.Sanitize()
}

// Bind records the association, replacing any prior binding for the session.
func (s *PostgresStore) Bind(ctx context.Context, sessionID, userID string, now, expiresAt time.Time) error {
	sessionID = strings.TrimSpace(sessionID)
	userID = strings.TrimSpace(userID)
	if sessionID == "" || userID == "" {
		return fmt.Errorf("session: missing session_id or user_id")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+s.table()+` (session_id, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id)
		 DO UPDATE SET user_id = EXCLUDED.user_id,
		               created_at = EXCLUDED.created_at,
		               expires_at = EXCLUDED.expires_at`,
		sessionID, userID, now, expiresAt,
	)
	return err
}

// Lookup reads the live binding for sessionID. Expired rows count as absent.
func (s *PostgresStore) Lookup(ctx context.Context, sessionID string, now time.Time) (Binding, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Binding{}, ErrBindingNotFound
	}

	var b Binding
	err := s.pool.QueryRow(ctx,
		`SELECT session_id, user_id, created_at, expires_at
		   FROM `+s.table()+`
		  WHERE session_id = $1`,
		sessionID,
	).Scan(&b.SessionID, &b.UserID, &b.CreatedAt, &b.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Binding{}, ErrBindingNotFound
		}
		return Binding{}, err
	}

	if !b.ExpiresAt.After(now) {
		return Binding{}, ErrBindingNotFound
	}
	return b, nil
}

// Unbind removes the association. A missing row is a no-op.
func (s *PostgresStore) Unbind(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}

	_, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.table()+` WHERE session_id = $1`, sessionID)
	return err
}

// UnbindAll removes every binding for a user.
func (s *PostgresStore) UnbindAll(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}

	_, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.table()+` WHERE user_id = $1`, userID)
	return err
}

// PruneExpired removes bindings that expired before now.
func (s *PostgresStore) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.table()+` WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
