package aegis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aegisauth/aegis/internal"
	"github.com/aegisauth/aegis/mail"
	"github.com/aegisauth/aegis/store"
)

// SendResetOTP describes the sendresetotp operation and its observable behavior.
//
// SendResetOTP may return an error when input validation, dependency calls, or security checks fail.
// SendResetOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SendResetOTP(ctx context.Context, email string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	otp, err := internal.NewOTP()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	expiry := time.Now().UTC().Add(e.config.ResetOTP.TTL)
	if err := e.store.SetResetOTP(ctx, user.ID, otp, expiry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	body, err := mail.ResetOTPBody(user.Email, otp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}
	if err := e.mailer.Send(ctx, user.Email, mail.SubjectResetOTP, body); err != nil {
		return fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}

	e.metricInc(MetricResetOTPSent)
	return nil
}

// ResetPassword describes the resetpassword operation and its observable behavior.
//
// ResetPassword may return an error when input validation, dependency calls, or security checks fail.
// ResetPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if email == "" || otp == "" || newPassword == "" {
		e.metricInc(MetricResetFailure)
		return ErrMissingFields
	}

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricResetFailure)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	hash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		e.metricInc(MetricResetFailure)
		return fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	if err := e.store.ConsumeResetOTP(ctx, user.ID, otp, hash, time.Now().UTC()); err != nil {
		e.metricInc(MetricResetFailure)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, store.ErrOTPMismatch):
			return ErrOTPInvalid
		case errors.Is(err, store.ErrOTPExpired):
			return ErrOTPExpired
		default:
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	e.metricInc(MetricResetSuccess)
	return nil
}
