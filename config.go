package aegis

import (
	"errors"
	"time"
)

// Config defines a public type used by aegis APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT       JWTConfig
	Password  PasswordConfig
	VerifyOTP OTPConfig
	ResetOTP  OTPConfig
	Metrics   MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig defines a public type used by aegis APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	SessionTTL    time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	Secret        []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by aegis APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPConfig describes one OTP flow (account verification or password reset).
// The two flows are independent: each carries its own code and expiry on the
// user record.
type OTPConfig struct {
	TTL    time.Duration
	Digits int
}

// MetricsConfig defines a public type used by aegis APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration matching the documented product
// behavior: 7-day sessions, 24-hour verification OTPs, 15-minute reset OTPs,
// interactive-grade argon2id parameters.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SessionTTL:    7 * 24 * time.Hour,
			SigningMethod: "hs256",
			Issuer:        "aegis",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        2,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		VerifyOTP: OTPConfig{
			TTL:    24 * time.Hour,
			Digits: 6,
		},
		ResetOTP: OTPConfig{
			TTL:    15 * time.Minute,
			Digits: 6,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for values the engine cannot operate
// with. It is called by [Builder.Build]; direct construction should call it
// too.
func (c Config) Validate() error {
	if c.JWT.SessionTTL <= 0 {
		return errors.New("JWT.SessionTTL must be positive")
	}
	switch c.JWT.SigningMethod {
	case "hs256":
		if len(c.JWT.Secret) == 0 {
			return errors.New("hs256 requires JWT.Secret")
		}
	case "ed25519":
		if len(c.JWT.Secret) == 0 || len(c.JWT.PublicKey) == 0 {
			return errors.New("ed25519 requires JWT.Secret and JWT.PublicKey")
		}
	default:
		return errors.New("unsupported JWT.SigningMethod")
	}
	if c.VerifyOTP.TTL <= 0 || c.ResetOTP.TTL <= 0 {
		return errors.New("OTP TTLs must be positive")
	}
	if c.VerifyOTP.Digits != 6 || c.ResetOTP.Digits != 6 {
		return errors.New("OTP digits must be 6")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
