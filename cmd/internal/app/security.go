package app

import (
	"fmt"
	"log/slog"

	"ward/cmd/security/token"
)

// ValidateSecurityConfig enforces startup security policy. With
// RequireTokenHMAC set, session tokens must be hashed with a keyed
// HMAC so a leaked binding table cannot be replayed without the key.
// Without it, a missing key only downgrades to plain SHA-256 hashing
// and is logged as a warning.
func ValidateSecurityConfig(cfg Config, log *slog.Logger) error {
	if token.HMACEnabled() {
		if _, err := token.HMACKeyFromEnv(token.MinHMACKeyBytes); err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
		return nil
	}
	if cfg.RequireTokenHMAC {
		return fmt.Errorf("%w: WARD_REQUIRE_TOKEN_HMAC is set but %s is not", ErrConfig, token.HMACEnvKey)
	}
	log.Warn("security.token_hmac.disabled",
		slog.String("detail", "session tokens hashed without a keyed HMAC; set "+token.HMACEnvKey))
	return nil
}
