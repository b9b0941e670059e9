// Package api wires Ward's HTTP auth endpoints to the credential and session
// subsystems.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ward/cmd/identity"
	"ward/cmd/internal/auth/session"
	"ward/cmd/internal/auth/verify"
	"ward/cmd/security/password"
)

// Handler wires HTTP auth endpoints to the credential store, verifier, and
// session binder.
type Handler struct {
	log *slog.Logger
	cfg Config

	passwords  password.Config
	identities identity.Store
	verifier   *verify.Verifier
	binder     *session.Binder
	cookies    session.Cookies
	gate       *session.Gate
}

// NewHandler constructs an auth Handler over the given stores.
func NewHandler(
	log *slog.Logger,
	cfg Config,
	pwCfg password.Config,
	sessCfg session.Config,
	identities identity.Store,
	bindings session.BindingStore,
) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if identities == nil || bindings == nil {
		return nil, errors.New("auth: nil store")
	}

	verifier, err := verify.NewVerifier(log, identities, pwCfg,
		verify.WithLookupTimeout(sessCfg.LookupTimeout))
	if err != nil {
		return nil, err
	}

	binder := session.NewBinder(log, sessCfg, bindings, identities)
	cookies := session.NewCookies(sessCfg)

	return &Handler{
		log:        log,
		cfg:        cfg,
		passwords:  pwCfg,
		identities: identities,
		verifier:   verifier,
		binder:     binder,
		cookies:    cookies,
		gate:       session.NewGate(cookies, binder),
	}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/me", h.handleMe)
}

// Gate returns the request gate, for wiring into downstream handlers.
func (h *Handler) Gate() *session.Gate {
	if h == nil {
		return nil
	}
	return h.gate
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || len(username) > h.cfg.UsernameMaxLen {
		writeError(w, http.StatusBadRequest, "invalid_request", "username is required")
		return
	}
	if err := h.passwords.Validate(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_password", err.Error())
		return
	}

	salt, err := h.passwords.GenerateSalt()
	if err != nil {
		// Random source failure: unrecoverable, alarm loudly.
		h.log.Error("auth.register.crypto.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "please retry later")
		return
	}
	hash, err := h.passwords.DeriveHash(req.Password, salt)
	if err != nil {
		h.log.Error("auth.register.crypto.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "please retry later")
		return
	}

	rec, err := h.identities.Create(r.Context(), identity.CreateInput{
		Username: username,
		Salt:     salt,
		Hash:     hash,
		Now:      time.Now().UTC(),
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusConflict, "duplicate_username", "username already taken")
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid registration input")
		default:
			h.log.Error("auth.register.store.fail", "err", err)
			writeError(w, http.StatusServiceUnavailable, "store_error", "please retry later")
		}
		return
	}

	h.auditRegistered(r, rec.ID, rec.Username)
	writeJSON(w, http.StatusCreated, userResponse{
		ID:        rec.ID,
		Username:  rec.Username,
		CreatedAt: rec.CreatedAt,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	out := h.verifier.Verify(r.Context(), username, req.Password)
	switch out.Kind {
	case verify.KindSuccess:
		// fall through below

	case verify.KindNoSuchUser, verify.KindWrongPassword:
		// One shared exit for both failure tags. The internal distinction is
		// audit-only; the response must not reveal whether the username exists.
		h.auditLoginFailed(r, username, out.Tag())
		writeInvalidCredentials(w)
		return

	default:
		h.log.Error("auth.login.store.fail", "err", out.Cause)
		writeError(w, http.StatusServiceUnavailable, "store_error", "please retry later")
		return
	}

	plain, sessionID, err := h.cookies.Issue()
	if err != nil {
		h.log.Error("auth.login.token.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "please retry later")
		return
	}

	expiresAt, err := h.binder.Bind(r.Context(), sessionID, out.UserID, time.Now().UTC())
	if err != nil {
		h.log.Error("auth.login.bind.fail", "err", err)
		writeError(w, http.StatusServiceUnavailable, "store_error", "please retry later")
		return
	}

	h.cookies.Set(w, plain, expiresAt)
	h.auditLoginSuccess(r, out.UserID, username)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionID, ok := h.cookies.CurrentSessionID(r); ok {
		if err := h.binder.Unbind(r.Context(), sessionID); err != nil {
			h.log.Error("auth.logout.unbind.fail", "err", err)
			writeError(w, http.StatusServiceUnavailable, "store_error", "please retry later")
			return
		}
		h.auditLogout(r)
	}

	// Clear the cookie regardless; logging out without a session is fine.
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	state, err := h.gate.Evaluate(r.Context(), r)
	if err != nil {
		h.log.Error("auth.me.resolve.fail", "err", err)
		writeError(w, http.StatusServiceUnavailable, "store_error", "please retry later")
		return
	}
	if !state.Authenticated {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "no active session")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:        state.Principal.ID,
		Username:  state.Principal.Username,
		CreatedAt: state.Principal.CreatedAt,
	})
}

// writeInvalidCredentials is the single opaque failure surface for login.
// Both "no such user" and "wrong password" exit through here so the two are
// indistinguishable to a client, byte for byte.
func writeInvalidCredentials(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
}
