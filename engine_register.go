package aegis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/aegisauth/aegis/mail"
	"github.com/aegisauth/aegis/store"
)

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Register(ctx context.Context, input RegisterInput) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	input.Email = normalizeEmail(input.Email)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		e.metricInc(MetricRegisterFailure)
		return "", ErrMissingFields
	}

	hash, err := e.passwordHash.Hash(input.Password)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		return "", fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	user := store.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := e.store.Insert(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			e.metricInc(MetricRegisterDuplicate)
			return "", ErrEmailExists
		}
		e.metricInc(MetricRegisterFailure)
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	token, err := e.jwtManager.CreateSession(user.ID)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		return "", fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	// Registration succeeds even when the welcome mail cannot be delivered.
	if err := e.mailer.Send(ctx, user.Email, mail.SubjectWelcome, mail.WelcomeBody(user.Email)); err != nil {
		e.metricInc(MetricWelcomeMailDropped)
		log.Printf("aegis: welcome mail to %s dropped: %v", user.Email, err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.metricInc(MetricTokenIssued)
	return token, nil
}
