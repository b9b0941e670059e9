package password

import "testing"

func BenchmarkDeriveHash_DefaultConfig(b *testing.B) {
	cfg := DefaultConfig()
	salt, err := cfg.GenerateSalt()
	if err != nil {
		b.Fatalf("GenerateSalt error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cfg.DeriveHash("this is a strong password 123!", salt); err != nil {
			b.Fatalf("DeriveHash error: %v", err)
		}
	}
}

func BenchmarkVerify_DefaultConfig(b *testing.B) {
	cfg := DefaultConfig()
	salt, err := cfg.GenerateSalt()
	if err != nil {
		b.Fatalf("GenerateSalt error: %v", err)
	}
	h, err := cfg.DeriveHash("this is a strong password 123!", salt)
	if err != nil {
		b.Fatalf("DeriveHash error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ok, err := cfg.Verify("this is a strong password 123!", salt, h)
		if err != nil || !ok {
			b.Fatalf("Verify failed: ok=%v err=%v", ok, err)
		}
	}
}
