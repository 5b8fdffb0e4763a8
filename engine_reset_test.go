package aegis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func storedResetOTP(t *testing.T, e *Engine, uid string) string {
	t.Helper()
	user, err := e.store.FindByID(context.Background(), uid)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	return user.ResetOTP
}

func TestSendResetOTPDeliversCode(t *testing.T) {
	engine, mailer, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	if err := engine.SendResetOTP(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("SendResetOTP failed: %v", err)
	}

	otp := storedResetOTP(t, engine, uid)
	if len(otp) != 6 {
		t.Fatalf("expected 6-digit OTP, got %q", otp)
	}
	if !strings.Contains(mailer.last().Body, otp) {
		t.Fatal("reset mail must contain the OTP")
	}
}

func TestSendResetOTPUnknownUser(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	if err := engine.SendResetOTP(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := engine.SendResetOTP(context.Background(), ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestSendResetOTPMailFailureFailsCall(t *testing.T) {
	engine, mailer, _ := newTestEngine(t)
	mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	mailer.fail = true
	if err := engine.SendResetOTP(context.Background(), "alice@example.com"); !errors.Is(err, ErrMailUnavailable) {
		t.Fatalf("expected ErrMailUnavailable, got %v", err)
	}
}

func TestResetPasswordHappyPath(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "oldpassword")

	if err := engine.SendResetOTP(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("SendResetOTP failed: %v", err)
	}
	otp := storedResetOTP(t, engine, uid)

	if err := engine.ResetPassword(context.Background(), "alice@example.com", otp, "newpassword"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := engine.Login(context.Background(), "alice@example.com", "oldpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := engine.Login(context.Background(), "alice@example.com", "newpassword"); err != nil {
		t.Fatalf("new password must work, got %v", err)
	}

	// code is consumed, a second reset with the same OTP must fail
	if err := engine.ResetPassword(context.Background(), "alice@example.com", otp, "anotherpass"); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid on reuse, got %v", err)
	}
}

func TestResetPasswordValidation(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	mustRegister(t, engine, "Alice", "alice@example.com", "oldpassword")

	if err := engine.ResetPassword(context.Background(), "alice@example.com", "", "newpassword"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if err := engine.ResetPassword(context.Background(), "nobody@example.com", "123456", "newpassword"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := engine.SendResetOTP(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("SendResetOTP failed: %v", err)
	}
	if err := engine.ResetPassword(context.Background(), "alice@example.com", "000000", "newpassword"); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid, got %v", err)
	}
}

// New passwords carry no length requirement either.
func TestResetPasswordAcceptsShortPassword(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "oldpassword")

	if err := engine.SendResetOTP(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("SendResetOTP failed: %v", err)
	}
	otp := storedResetOTP(t, engine, uid)

	if err := engine.ResetPassword(context.Background(), "alice@example.com", otp, "secret1"); err != nil {
		t.Fatalf("ResetPassword with 7-char password failed: %v", err)
	}
	if _, err := engine.Login(context.Background(), "alice@example.com", "secret1"); err != nil {
		t.Fatalf("Login with the new short password failed: %v", err)
	}
}

func TestResetPasswordExpiredCode(t *testing.T) {
	engine, _, st := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "oldpassword")

	if err := st.SetResetOTP(context.Background(), uid, "123456", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("SetResetOTP failed: %v", err)
	}

	if err := engine.ResetPassword(context.Background(), "alice@example.com", "123456", "newpassword"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}
