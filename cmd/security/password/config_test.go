package password

import (
	"os"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	// Ensure env is clean for this test.
	clearEnv := []string{
		"WARD_PASSWORD_MIN_LEN",
		"WARD_PASSWORD_MAX_LEN",
		"WARD_PASSWORD_REJECT_VERY_WEAK",
		"WARD_PBKDF2_ITERATIONS",
		"WARD_PBKDF2_SALT_LEN",
		"WARD_PBKDF2_KEY_LEN",
	}
	for _, k := range clearEnv {
		_ = os.Unsetenv(k)
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Policy.MinLength != def.Policy.MinLength {
		t.Fatalf("min length mismatch")
	}
	if cfg.Params.Iterations != def.Params.Iterations {
		t.Fatalf("iterations mismatch")
	}
	if cfg.Params.SaltBytes != 32 || cfg.Params.KeyBytes != 64 {
		t.Fatalf("unexpected default sizes: %+v", cfg.Params)
	}
}

func TestFromEnv_Override(t *testing.T) {
	t.Setenv("WARD_PASSWORD_MIN_LEN", "10")
	t.Setenv("WARD_PASSWORD_MAX_LEN", "200")
	t.Setenv("WARD_PASSWORD_REJECT_VERY_WEAK", "true")
	t.Setenv("WARD_PBKDF2_ITERATIONS", "20000")
	t.Setenv("WARD_PBKDF2_SALT_LEN", "24")
	t.Setenv("WARD_PBKDF2_KEY_LEN", "32")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	if cfg.Policy.MinLength != 10 || cfg.Policy.MaxLength != 200 || !cfg.Policy.RejectVeryWeak {
		t.Fatalf("policy override failed: %+v", cfg.Policy)
	}
	if cfg.Params.Iterations != 20000 {
		t.Fatalf("iterations override failed: %+v", cfg.Params)
	}
	if cfg.Params.SaltBytes != 24 || cfg.Params.KeyBytes != 32 {
		t.Fatalf("len override failed: %+v", cfg.Params)
	}
}

func TestFromEnv_IterationsFloor(t *testing.T) {
	// The baseline cost can only be raised via env, never lowered.
	t.Setenv("WARD_PBKDF2_ITERATIONS", "500")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for iterations below the floor")
	}
}

func TestFromEnv_InvalidPolicy(t *testing.T) {
	t.Setenv("WARD_PASSWORD_MIN_LEN", "100")
	t.Setenv("WARD_PASSWORD_MAX_LEN", "10")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for min_len > max_len")
	}
}
