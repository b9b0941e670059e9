// Package verify implements Ward's credential verification.
//
// A Verifier performs exactly one credential-store read and one hash
// computation per call and yields a tagged Outcome instead of a boolean, so
// callers can log "no such user" and "wrong password" differently while
// presenting clients with a single opaque failure.
package verify

import (
	"context"
	"log/slog"
	"time"

	"ward/cmd/identity"
	"ward/cmd/security/password"
)

const defaultLookupTimeout = 3 * time.Second

// Verifier checks a submitted username/password pair against the credential store.
type Verifier struct {
	store  identity.Store
	hasher password.Config
	log    *slog.Logger

	lookupTimeout time.Duration

	// Precomputed (salt, hash) pair for timing resistance: when the username
	// does not resolve, a derivation still runs so the two failure branches
	// share a timing envelope.
	dummySalt string
	dummyHash string
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLookupTimeout bounds the credential-store read. A lookup that exceeds
// the bound surfaces as a store-error outcome, never as "no such user".
func WithLookupTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.lookupTimeout = d
		}
	}
}

// NewVerifier constructs a Verifier.
//
// The dummy derivation pair is computed once here; a failure means the
// crypto primitives are unusable and is returned, not deferred.
func NewVerifier(log *slog.Logger, store identity.Store, hasher password.Config, opts ...Option) (*Verifier, error) {
	if log == nil {
		log = slog.Default()
	}

	v := &Verifier{
		store:         store,
		hasher:        hasher,
		log:           log,
		lookupTimeout: defaultLookupTimeout,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(v)
	}

	salt, err := hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := hasher.DeriveHash("dummy-password-for-timing-only", salt)
	if err != nil {
		return nil, err
	}
	v.dummySalt = salt
	v.dummyHash = hash

	return v, nil
}

// Verify checks username/password and returns a tagged Outcome.
//
// Exactly one store read and one derivation per call; no retries and no
// fallback strategies. A transient store failure is a store-error outcome,
// deliberately distinct from "no such user".
func (v *Verifier) Verify(ctx context.Context, username, password string) Outcome {
	start := time.Now()
	out := v.verify(ctx, username, password)
	observeVerification(out.Tag(), time.Since(start))

	// Internal tag only. Never the password, salt, or hash.
	v.log.Debug("verify.done", "outcome", out.Tag())
	return out
}

func (v *Verifier) verify(ctx context.Context, username, pw string) Outcome {
	lookupCtx, cancel := context.WithTimeout(ctx, v.lookupTimeout)
	defer cancel()

	rec, err := v.store.FindByUsername(lookupCtx, username)
	if err != nil {
		if identity.IsNotFound(err) {
			// Flat timing envelope across the two failure branches.
			_, _ = v.hasher.Verify(pw, v.dummySalt, v.dummyHash)
			return Outcome{Kind: KindNoSuchUser}
		}
		return Outcome{Kind: KindStoreError, Cause: err}
	}

	ok, err := v.hasher.Verify(pw, rec.Salt, rec.Hash)
	if err != nil {
		// A stored hash that fails to decode is corrupt server-side state,
		// not a credential mismatch.
		return Outcome{Kind: KindStoreError, Cause: err}
	}
	if !ok {
		return Outcome{Kind: KindWrongPassword}
	}

	return Outcome{Kind: KindSuccess, UserID: rec.ID}
}
