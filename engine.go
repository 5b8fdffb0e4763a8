package aegis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aegisauth/aegis/jwt"
	"github.com/aegisauth/aegis/password"
	"github.com/aegisauth/aegis/store"
)

// Engine defines a public type used by aegis APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	store        store.Store
	mailer       mailSender
	metrics      *Metrics
	passwordHash *password.Argon2
	jwtManager   *jwt.Manager
}

type mailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, email, pass string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if email == "" || pass == "" {
		e.metricInc(MetricLoginFailure)
		return "", ErrMissingFields
	}

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ok, err := e.passwordHash.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		return "", ErrInvalidCredentials
	}

	token, err := e.jwtManager.CreateSession(user.ID)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return "", fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricTokenIssued)
	return token, nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Validate(token string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseSession(token)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		if errors.Is(err, jwt.ErrExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	return claims.UID, nil
}

// UserData describes the userdata operation and its observable behavior.
//
// UserData may return an error when input validation, dependency calls, or security checks fail.
// UserData does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) UserData(ctx context.Context, userID string) (UserData, error) {
	if e == nil {
		return UserData{}, ErrEngineNotReady
	}

	user, err := e.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return UserData{}, ErrUserNotFound
		}
		return UserData{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return UserData{
		Name:              user.Name,
		Email:             user.Email,
		IsAccountVerified: user.Verified,
	}, nil
}

// normalizeEmail lowercases and trims the address so lookups and the unique
// index agree on one canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
