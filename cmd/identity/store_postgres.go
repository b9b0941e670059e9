package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements credential persistence over PostgreSQL.
//
// Design notes:
// - The pgx pool is owned by the caller; this store must NOT close it.
// - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
// - Duplicate usernames are pre-checked inside a transaction and backstopped
//   by the uq_users_username constraint.
// - Errors are mapped to identity sentinel kinds where appropriate.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the credential store (default "ward").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "ward",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

// FindByUsername loads a record by its exact username.
func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (Record, error) {
	const op = "identity.FindByUsername"

	username = strings.TrimSpace(username)
	if username == "" {
		return Record{}, pgInvalid(op, "missing username")
	}

	return s.findOne(ctx, op, `username = $1`, username)
}

// FindByID loads a record by its stable identifier.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (Record, error) {
	const op = "identity.FindByID"

	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, pgInvalid(op, "missing id")
	}

	return s.findOne(ctx, op, `id = $1`, id)
}

func (s *PostgresStore) findOne(ctx context.Context, op, where, arg string) (Record, error) {
	if s == nil || s.pool == nil {
		return Record{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	users := pgIdent(s.schema, "users")

	var out Record
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, salt, hash, created_at
		   FROM `+users+`
		  WHERE `+where,
		arg,
	).Scan(&out.ID, &out.Username, &out.Salt, &out.Hash, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, NotFoundError{Op: op, Resource: "user"}
		}
		return Record{}, err
	}

	return out, nil
}

// Create persists a new credential record and assigns its ULID.
func (s *PostgresStore) Create(ctx context.Context, in CreateInput) (Record, error) {
	const op = "identity.Create"

	if s == nil || s.pool == nil {
		return Record{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return Record{}, pgInvalid(op, "username is required")
	}
	if strings.TrimSpace(in.Salt) == "" || strings.TrimSpace(in.Hash) == "" {
		return Record{}, pgInvalid(op, "salt and hash are required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return Record{}, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return Record{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	users := pgIdent(s.schema, "users")

	// Explicit duplicate check before the insert. The unique constraint on
	// username remains the backstop against a racing insert.
	var existing string
	err = tx.QueryRow(ctx,
		`SELECT id FROM `+users+` WHERE username = $1`,
		username,
	).Scan(&existing)
	switch {
	case err == nil:
		return Record{}, ConflictError{Op: op, Field: "username"}
	case errors.Is(err, pgx.ErrNoRows):
		// proceed
	default:
		return Record{}, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO `+users+` (id, username, salt, hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, username, in.Salt, in.Hash, now,
	)
	if err != nil {
		if pgIsUniqueViolation(err) {
			return Record{}, ConflictError{Op: op, Field: "username"}
		}
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}

	return Record{
		ID:        id,
		Username:  username,
		Salt:      in.Salt,
		Hash:      in.Hash,
		CreatedAt: now,
	}, nil
}

// DeleteByID removes a credential record. Deleting a missing record is a no-op.
func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	const op = "identity.DeleteByID"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return pgInvalid(op, "missing id")
	}

	users := pgIdent(s.schema, "users")

	_, err := s.pool.Exec(ctx, `DELETE FROM `+users+` WHERE id = $1`, id)
	return err
}

// ---- helpers ----

// pgInvalid standardizes invalid input errors.
func pgInvalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgIsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
