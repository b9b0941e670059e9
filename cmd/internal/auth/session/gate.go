package session

import (
	"context"
	"net/http"

	"ward/cmd/identity"
)

// State is the per-request authentication decision: either unauthenticated,
// or authenticated with a resolved principal.
//
// There is no persistent state object. The gate re-evaluates every request
// from scratch as a pure function of the incoming session, so revocation
// (logout, account deletion, expiry) takes effect on the very next request.
type State struct {
	Authenticated bool
	Principal     identity.Record // zero value unless Authenticated
}

// Gate decides the authentication state of incoming requests.
type Gate struct {
	cookies Cookies
	binder  *Binder
}

// NewGate constructs a Gate over the cookie transport and binder.
func NewGate(cookies Cookies, binder *Binder) *Gate {
	return &Gate{cookies: cookies, binder: binder}
}

// Evaluate resolves the request's session into an authentication state.
//
// A request without a session cookie, with an unknown or expired session, or
// with a binding to a deleted account is Unauthenticated. Only a store
// failure yields an error; callers should treat it as a retryable server
// fault, not as "unauthenticated".
func (g *Gate) Evaluate(ctx context.Context, r *http.Request) (State, error) {
	sessionID, ok := g.cookies.CurrentSessionID(r)
	if !ok {
		return State{}, nil
	}

	principal, ok, err := g.binder.Resolve(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{}, nil
	}

	return State{Authenticated: true, Principal: principal}, nil
}
