// Package store defines the credential store contract and its Redis,
// Postgres, and in-memory implementations.
//
// The one non-negotiable behavior is OTP consumption: ConsumeVerifyOTP and
// ConsumeResetOTP are atomic read-modify-write operations. Given two
// concurrent calls carrying the same valid code, exactly one succeeds and
// the loser observes ErrOTPMismatch.
package store

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("store: user not found")
	// ErrDuplicateEmail is returned by Insert when the email is taken.
	ErrDuplicateEmail = errors.New("store: duplicate email")
	// ErrOTPMismatch is returned when no OTP is outstanding or the supplied
	// code does not match.
	ErrOTPMismatch = errors.New("store: otp mismatch")
	// ErrOTPExpired is returned when the code matches but its expiry passed.
	ErrOTPExpired = errors.New("store: otp expired")
	// ErrUnavailable wraps backend transport failures.
	ErrUnavailable = errors.New("store: backend unavailable")
)

// User is the persisted credential record. OTP fields use the empty string
// and zero time as the explicit "no code outstanding" state; they are
// cleared in the same write that consumes them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Verified     bool

	VerifyOTP       string
	VerifyOTPExpiry time.Time
	ResetOTP        string
	ResetOTPExpiry  time.Time

	CreatedAt time.Time
}

// Store is the credential store consumed by the engine.
//
// Implementations must make both Consume operations atomic per record and
// must enforce email uniqueness in Insert.
type Store interface {
	// Insert persists a new user. ErrDuplicateEmail when the email exists.
	Insert(ctx context.Context, u *User) error
	// FindByEmail looks a user up by exact (case-sensitive) email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByID looks a user up by ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// SetVerifyOTP stores a verification code and its expiry, replacing any
	// outstanding one.
	SetVerifyOTP(ctx context.Context, id, otp string, expiresAt time.Time) error
	// ConsumeVerifyOTP atomically validates the code against the record and,
	// on success, marks the account verified and clears the verify OTP
	// fields. ErrOTPMismatch / ErrOTPExpired on failure.
	ConsumeVerifyOTP(ctx context.Context, id, otp string, now time.Time) error

	// SetResetOTP stores a password-reset code and its expiry.
	SetResetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error
	// ConsumeResetOTP atomically validates the code and, on success, installs
	// newHash as the password hash and clears the reset OTP fields.
	ConsumeResetOTP(ctx context.Context, id, otp, newHash string, now time.Time) error
}

// checkOTP applies the shared validity ladder: a code is consumable only if
// one is outstanding, the supplied value matches, and the expiry has not
// passed. A code expiring exactly at now is still consumable. Mismatch is
// reported before expiry so an attacker cannot use expiry responses to probe
// stale codes they never knew.
func checkOTP(stored string, expiry time.Time, supplied string, now time.Time) error {
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return ErrOTPMismatch
	}
	if expiry.Before(now) {
		return ErrOTPExpired
	}
	return nil
}
