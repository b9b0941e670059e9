package app

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfig marks configuration failures surfaced at startup.
var ErrConfig = errors.New("app: invalid configuration")

// Config is the process-level runtime configuration. Package-level
// concerns (password hashing, session cookies, request limits) load
// their own config from the environment.
type Config struct {
	HTTPAddr string

	LogLevel  string
	LogFormat string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int

	// DatabaseURL selects the backing store. Empty means the in-memory
	// stores, which lose all state on restart and exist for local
	// development only.
	DatabaseURL string
	DBSchema    string
	DBMaxConns  int32
	DBMinConns  int32

	// ReadinessRequireDB makes /readyz fail when the database ping
	// fails. Leave off for memory-backed deployments.
	ReadinessRequireDB bool

	// RequireTokenHMAC refuses to start unless a keyed session-token
	// hash is configured. Production deployments should set it.
	RequireTokenHMAC bool

	// PruneInterval is how often expired session bindings are removed.
	PruneInterval time.Duration
}

func LoadConfig() (Config, error) {
	cfg := Config{
		HTTPAddr: EnvString("WARD_HTTP_ADDR", ":8080"),

		LogLevel:  EnvString("WARD_LOG_LEVEL", "info"),
		LogFormat: EnvString("WARD_LOG_FORMAT", "json"),

		ReadTimeout:       EnvDuration("WARD_HTTP_READ_TIMEOUT", 10*time.Second),
		ReadHeaderTimeout: EnvDuration("WARD_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		WriteTimeout:      EnvDuration("WARD_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("WARD_HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   EnvDuration("WARD_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    EnvInt("WARD_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("WARD_DATABASE_URL", ""),
		DBSchema:    EnvString("WARD_DB_SCHEMA", "ward"),
		DBMaxConns:  EnvInt32("WARD_DB_MAX_CONNS", 8),
		DBMinConns:  EnvInt32("WARD_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("WARD_READINESS_REQUIRE_DB", false),
		RequireTokenHMAC:   EnvBool("WARD_REQUIRE_TOKEN_HMAC", false),

		PruneInterval: EnvDuration("WARD_SESSION_PRUNE_INTERVAL", time.Hour),
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("%w: WARD_LOG_FORMAT must be json or text, got %q", ErrConfig, cfg.LogFormat)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.HTTPAddr == "" {
		return Config{}, fmt.Errorf("%w: WARD_HTTP_ADDR must not be empty", ErrConfig)
	}
	if cfg.DBMaxConns < 1 {
		cfg.DBMaxConns = 1
	}
	if cfg.DBMinConns < 0 {
		cfg.DBMinConns = 0
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		cfg.DBMinConns = cfg.DBMaxConns
	}
	if cfg.PruneInterval < time.Minute {
		cfg.PruneInterval = time.Minute
	}
	if cfg.ReadinessRequireDB && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("%w: WARD_READINESS_REQUIRE_DB set without WARD_DATABASE_URL", ErrConfig)
	}
	return cfg, nil
}
