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

// SendVerifyOTP describes the sendverifyotp operation and its observable behavior.
//
// SendVerifyOTP may return an error when input validation, dependency calls, or security checks fail.
// SendVerifyOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SendVerifyOTP(ctx context.Context, userID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if userID == "" {
		return ErrMissingFields
	}

	user, err := e.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	otp, err := internal.NewOTP()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	expiry := time.Now().UTC().Add(e.config.VerifyOTP.TTL)
	if err := e.store.SetVerifyOTP(ctx, user.ID, otp, expiry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	body, err := mail.VerifyOTPBody(user.Email, otp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}
	if err := e.mailer.Send(ctx, user.Email, mail.SubjectVerifyOTP, body); err != nil {
		return fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}

	e.metricInc(MetricVerifyOTPSent)
	return nil
}

// VerifyAccount describes the verifyaccount operation and its observable behavior.
//
// VerifyAccount may return an error when input validation, dependency calls, or security checks fail.
// VerifyAccount does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifyAccount(ctx context.Context, userID, otp string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if userID == "" || otp == "" {
		e.metricInc(MetricVerifyFailure)
		return ErrMissingFields
	}

	err := e.store.ConsumeVerifyOTP(ctx, userID, otp, time.Now().UTC())
	if err != nil {
		e.metricInc(MetricVerifyFailure)
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

	e.metricInc(MetricVerifySuccess)
	return nil
}
