package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ward/cmd/identity"
)

// Binder binds sessions to credential identifiers and resolves them back
// into principals.
//
// Resolve is deliberately two-step: read the binding, then re-look the
// identifier up in the credential store. The binding never carries more than
// the identifier, and each request re-validates that the identifier still
// denotes a live account.
type Binder struct {
	cfg        Config
	bindings   BindingStore
	identities identity.Store
	log        *slog.Logger
}

// NewBinder constructs a Binder over the given stores.
func NewBinder(log *slog.Logger, cfg Config, bindings BindingStore, identities identity.Store) *Binder {
	if log == nil {
		log = slog.Default()
	}
	return &Binder{cfg: cfg, bindings: bindings, identities: identities, log: log}
}

// Bind records the session-to-identifier association, replacing any prior
// binding for the session. Returns the binding's expiry.
func (b *Binder) Bind(ctx context.Context, sessionID, userID string, now time.Time) (time.Time, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	expiresAt := now.Add(b.cfg.TTL)

	ctx, cancel := b.boundCtx(ctx)
	defer cancel()

	if err := b.bindings.Bind(ctx, sessionID, userID, now, expiresAt); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// Resolve turns a session identifier into a principal.
//
// The second return is false when the session is unauthenticated: no binding,
// an expired binding, or a binding whose identifier no longer resolves (the
// account was deleted since login). A stale binding is unauthenticated, not
// an error; it is also unbound so later requests skip the dead lookup.
// Store failures are returned as errors and never masquerade as "absent".
func (b *Binder) Resolve(ctx context.Context, sessionID string) (identity.Record, bool, error) {
	if sessionID == "" {
		return identity.Record{}, false, nil
	}

	now := time.Now().UTC()

	lookupCtx, cancel := b.boundCtx(ctx)
	defer cancel()

	binding, err := b.bindings.Lookup(lookupCtx, sessionID, now)
	if err != nil {
		if errors.Is(err, ErrBindingNotFound) {
			return identity.Record{}, false, nil
		}
		return identity.Record{}, false, err
	}

	rec, err := b.identities.FindByID(lookupCtx, binding.UserID)
	if err != nil {
		if identity.IsNotFound(err) {
			// The account is gone; drop the dead binding. Best-effort.
			if uerr := b.bindings.Unbind(lookupCtx, sessionID); uerr != nil {
				b.log.Warn("session.unbind_stale.fail", "err", uerr)
			}
			return identity.Record{}, false, nil
		}
		return identity.Record{}, false, err
	}

	return rec, true, nil
}

// Unbind removes the session's association. Idempotent.
func (b *Binder) Unbind(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	ctx, cancel := b.boundCtx(ctx)
	defer cancel()

	return b.bindings.Unbind(ctx, sessionID)
}

func (b *Binder) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := b.cfg.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().LookupTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
