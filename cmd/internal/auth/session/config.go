package session

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config defines all runtime configuration for the session subsystem.
//
// It controls the session TTL, cookie transport attributes, opaque-token
// entropy, and the binding-store lookup bound. The struct is intentionally
// explicit and environment-driven so production deployments can tune
// security parameters without code changes.
type Config struct {
	// TTL is the session lifetime, measured from login.
	TTL time.Duration

	// CookieName is the name of the session cookie.
	CookieName string

	// CookieSecure marks the cookie Secure (HTTPS-only transport).
	CookieSecure bool

	// TokenBytes defines the number of random bytes behind each opaque
	// session token.
	TokenBytes int

	// LookupTimeout bounds binding-store and credential-store reads during
	// Resolve. An exceeded bound surfaces as an error, never as "absent".
	LookupTimeout time.Duration
}

// DefaultConfig returns a secure default configuration suitable for development.
//
// The 48h TTL matches the session cookie lifetime this service has always
// shipped with. Production environments should override values via env.
func DefaultConfig() Config {
	return Config{
		TTL:           48 * time.Hour,
		CookieName:    "ward_session",
		CookieSecure:  false,
		TokenBytes:    32,
		LookupTimeout: 3 * time.Second,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Optional (durations must be valid Go duration strings):
//   - WARD_SESSION_TTL
//   - WARD_SESSION_COOKIE_NAME
//   - WARD_SESSION_COOKIE_SECURE
//   - WARD_SESSION_TOKEN_BYTES
//   - WARD_SESSION_LOOKUP_TIMEOUT
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("WARD_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TTL = d
	}

	if v := strings.TrimSpace(os.Getenv("WARD_SESSION_COOKIE_NAME")); v != "" {
		cfg.CookieName = v
	}

	if v := os.Getenv("WARD_SESSION_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, ErrConfig
		}
		cfg.CookieSecure = b
	}

	if v := os.Getenv("WARD_SESSION_TOKEN_BYTES"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 16 || n > 128 {
			return Config{}, ErrConfig
		}
		cfg.TokenBytes = n
	}

	if v := os.Getenv("WARD_SESSION_LOOKUP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.LookupTimeout = d
	}

	return cfg, nil
}
