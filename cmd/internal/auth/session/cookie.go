package session

import (
	"net/http"
	"strings"
	"time"

	"ward/cmd/security/token"
)

// Cookies is the session transport layer: it issues opaque session tokens,
// carries them in a cookie, and resolves an incoming request to its
// server-side session identifier.
//
// The cookie holds the plain token; the session identifier used everywhere
// else is a hash of it, so stores never see a usable handle.
type Cookies struct {
	cfg Config
}

// NewCookies constructs the cookie transport for the given config.
func NewCookies(cfg Config) Cookies {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultConfig().CookieName
	}
	if cfg.TokenBytes <= 0 {
		cfg.TokenBytes = DefaultConfig().TokenBytes
	}
	return Cookies{cfg: cfg}
}

// Issue mints a fresh opaque session token and returns it together with the
// derived server-side session identifier.
func (c Cookies) Issue() (plain string, sessionID string, err error) {
	plain, err = token.NewOpaqueToken(c.cfg.TokenBytes)
	if err != nil {
		return "", "", err
	}
	return plain, token.HashSessionTokenHex(plain), nil
}

// CurrentSessionID resolves the request's session identifier from the cookie.
// The second return is false when the request carries no session.
func (c Cookies) CurrentSessionID(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.cfg.CookieName)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(ck.Value)
	if v == "" {
		return "", false
	}
	return token.HashSessionTokenHex(v), true
}

// Set writes the session cookie. HttpOnly always; Secure per config.
func (c Cookies) Set(w http.ResponseWriter, plain string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    plain,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie on the client.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
