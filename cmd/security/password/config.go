package password

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Pbkdf2Params controls PBKDF2-SHA512 derivation cost and sizes.
type Pbkdf2Params struct {
	Iterations int
	SaltBytes  int
	KeyBytes   int
}

// Policy controls password validation.
type Policy struct {
	MinLength int
	MaxLength int
	// If true, enable an extra, minimal weak-pattern rejection.
	RejectVeryWeak bool
}

// Config is the single configuration surface for this package.
type Config struct {
	Params Pbkdf2Params
	Policy Policy
}

// DefaultConfig returns the baseline derivation parameters: 10k iterations of
// SHA-512, a 32-byte salt, and a 64-byte derived key.
func DefaultConfig() Config {
	return Config{
		Params: Pbkdf2Params{
			Iterations: 10_000,
			SaltBytes:  32,
			KeyBytes:   64,
		},
		Policy: Policy{
			MinLength:      8,
			MaxLength:      256,
			RejectVeryWeak: false,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - WARD_PASSWORD_MIN_LEN
// - WARD_PASSWORD_MAX_LEN
// - WARD_PASSWORD_REJECT_VERY_WEAK (true/false)
// - WARD_PBKDF2_ITERATIONS
// - WARD_PBKDF2_SALT_LEN
// - WARD_PBKDF2_KEY_LEN
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("WARD_PASSWORD_MIN_LEN"); ok {
		n, err := atoiBounded(v, 1, 1024)
		if err != nil {
			return Config{}, fmt.Errorf("WARD_PASSWORD_MIN_LEN: %w", err)
		}
		cfg.Policy.MinLength = n
	}

	if v, ok := os.LookupEnv("WARD_PASSWORD_MAX_LEN"); ok {
		n, err := atoiBounded(v, 1, 4096)
		if err != nil {
			return Config{}, fmt.Errorf("WARD_PASSWORD_MAX_LEN: %w", err)
		}
		cfg.Policy.MaxLength = n
	}

	if v, ok := os.LookupEnv("WARD_PASSWORD_REJECT_VERY_WEAK"); ok {
		b, err := parseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("WARD_PASSWORD_REJECT_VERY_WEAK: %w", err)
		}
		cfg.Policy.RejectVeryWeak = b
	}

	// Iterations may only be raised above the baseline, never lowered.
	if v, ok := os.LookupEnv("WARD_PBKDF2_ITERATIONS"); ok {
		n, err := atoiBounded(v, 10_000, 5_000_000)
		if err != nil {
			return Config{}, fmt.Errorf("WARD_PBKDF2_ITERATIONS: %w", err)
		}
		cfg.Params.Iterations = n
	}

	if v, ok := os.LookupEnv("WARD_PBKDF2_SALT_LEN"); ok {
		n, err := atoiBounded(v, 16, 64)
		if err != nil {
			return Config{}, fmt.Errorf("WARD_PBKDF2_SALT_LEN: %w", err)
		}
		cfg.Params.SaltBytes = n
	}

	if v, ok := os.LookupEnv("WARD_PBKDF2_KEY_LEN"); ok {
		n, err := atoiBounded(v, 32, 128)
		if err != nil {
			return Config{}, fmt.Errorf("WARD_PBKDF2_KEY_LEN: %w", err)
		}
		cfg.Params.KeyBytes = n
	}

	// Final sanity.
	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, fmt.Errorf(
			"password policy invalid: min_len(%d) > max_len(%d)",
			cfg.Policy.MinLength,
			cfg.Policy.MaxLength,
		)
	}

	return cfg, nil
}

func atoiBounded(s string, minVal, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	i64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}

	i := int(i64)
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return i, nil
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes", "on", "ON", "On":
		return true, nil
	case "0", "false", "FALSE", "False", "no", "NO", "No", "off", "OFF", "Off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean")
	}
}
