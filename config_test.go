package aegis

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("some-secret")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
	if cfg.JWT.SessionTTL != 7*24*time.Hour {
		t.Fatalf("unexpected session TTL %v", cfg.JWT.SessionTTL)
	}
	if cfg.VerifyOTP.TTL != 24*time.Hour || cfg.ResetOTP.TTL != 15*time.Minute {
		t.Fatalf("unexpected OTP TTLs: verify=%v reset=%v", cfg.VerifyOTP.TTL, cfg.ResetOTP.TTL)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.JWT.Secret = []byte("some-secret")
		return cfg
	}

	cfg := base()
	cfg.JWT.Secret = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing hs256 secret")
	}

	cfg = base()
	cfg.JWT.SigningMethod = "none"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported signing method")
	}

	cfg = base()
	cfg.JWT.SessionTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero session TTL")
	}

	cfg = base()
	cfg.VerifyOTP.Digits = 4
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-6-digit OTP")
	}

	cfg = base()
	cfg.ResetOTP.TTL = -time.Minute
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative OTP TTL")
	}
}

func TestCloneConfigDetachesKeyMaterial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("secret")

	clone := cloneConfig(cfg)
	clone.JWT.Secret[0] = 'X'

	if cfg.JWT.Secret[0] == 'X' {
		t.Fatal("clone must not alias the original secret")
	}
}
