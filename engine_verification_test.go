package aegis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func storedVerifyOTP(t *testing.T, e *Engine, uid string) string {
	t.Helper()
	user, err := e.store.FindByID(context.Background(), uid)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	return user.VerifyOTP
}

func TestSendVerifyOTPDeliversCode(t *testing.T) {
	engine, mailer, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	if err := engine.SendVerifyOTP(context.Background(), uid); err != nil {
		t.Fatalf("SendVerifyOTP failed: %v", err)
	}

	otp := storedVerifyOTP(t, engine, uid)
	if len(otp) != 6 {
		t.Fatalf("expected 6-digit OTP, got %q", otp)
	}

	// welcome mail plus the verification mail
	if mailer.count() != 2 {
		t.Fatalf("expected 2 mails, got %d", mailer.count())
	}
	if !strings.Contains(mailer.last().Body, otp) {
		t.Fatal("verification mail must contain the OTP")
	}
}

func TestSendVerifyOTPMailFailureFailsCall(t *testing.T) {
	engine, mailer, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	mailer.fail = true
	if err := engine.SendVerifyOTP(context.Background(), uid); !errors.Is(err, ErrMailUnavailable) {
		t.Fatalf("expected ErrMailUnavailable, got %v", err)
	}
}

func TestVerifyAccountHappyPath(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	if err := engine.SendVerifyOTP(context.Background(), uid); err != nil {
		t.Fatalf("SendVerifyOTP failed: %v", err)
	}
	otp := storedVerifyOTP(t, engine, uid)

	if err := engine.VerifyAccount(context.Background(), uid, otp); err != nil {
		t.Fatalf("VerifyAccount failed: %v", err)
	}

	data, err := engine.UserData(context.Background(), uid)
	if err != nil {
		t.Fatalf("UserData failed: %v", err)
	}
	if !data.IsAccountVerified {
		t.Fatal("expected account to be verified")
	}

	// code is consumed, a second attempt must not succeed
	if err := engine.VerifyAccount(context.Background(), uid, otp); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid on reuse, got %v", err)
	}
}

func TestSendVerifyOTPAlreadyVerified(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	if err := engine.SendVerifyOTP(context.Background(), uid); err != nil {
		t.Fatalf("SendVerifyOTP failed: %v", err)
	}
	otp := storedVerifyOTP(t, engine, uid)
	if err := engine.VerifyAccount(context.Background(), uid, otp); err != nil {
		t.Fatalf("VerifyAccount failed: %v", err)
	}

	if err := engine.SendVerifyOTP(context.Background(), uid); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestVerifyAccountWrongCode(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	if err := engine.SendVerifyOTP(context.Background(), uid); err != nil {
		t.Fatalf("SendVerifyOTP failed: %v", err)
	}

	if err := engine.VerifyAccount(context.Background(), uid, "000000"); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid, got %v", err)
	}
	if err := engine.VerifyAccount(context.Background(), uid, ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestVerifyAccountExpiredCode(t *testing.T) {
	engine, _, st := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	if err := st.SetVerifyOTP(context.Background(), uid, "123456", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("SetVerifyOTP failed: %v", err)
	}

	if err := engine.VerifyAccount(context.Background(), uid, "123456"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestVerifyAccountConcurrentConsume(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	uid := mustRegister(t, engine, "Alice", "alice@example.com", "longenough")

	if err := engine.SendVerifyOTP(context.Background(), uid); err != nil {
		t.Fatalf("SendVerifyOTP failed: %v", err)
	}
	otp := storedVerifyOTP(t, engine, uid)

	const attempts = 4
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.VerifyAccount(context.Background(), uid, otp)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrOTPInvalid) {
			t.Fatalf("unexpected error from concurrent verify: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful consume, got %d", successes)
	}
}
