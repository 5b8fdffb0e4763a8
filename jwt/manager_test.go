package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

func newHSManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		SessionTTL:    ttl,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("test-secret-0123456789abcdef"),
		Issuer:        "aegis",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestCreateAndParseSession(t *testing.T) {
	m := newHSManager(t, time.Hour)

	token, err := m.CreateSession("user-1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	claims, err := m.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession failed: %v", err)
	}
	if claims.UID != "user-1" {
		t.Fatalf("expected uid user-1, got %q", claims.UID)
	}
}

func TestParseSessionRejectsExpired(t *testing.T) {
	m := newHSManager(t, time.Millisecond)

	token, err := m.CreateSession("user-1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if _, err := m.ParseSession(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParseSessionRejectsForeignSignature(t *testing.T) {
	m := newHSManager(t, time.Hour)

	other, err := NewManager(Config{
		SessionTTL:    time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("another-secret-entirely-here"),
		Issuer:        "aegis",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := other.CreateSession("user-1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := m.ParseSession(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseSessionRejectsGarbage(t *testing.T) {
	m := newHSManager(t, time.Hour)

	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := m.ParseSession(token); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid for %q, got %v", token, err)
		}
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	m, err := NewManager(Config{
		SessionTTL:    time.Hour,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Issuer:        "aegis",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := m.CreateSession("user-ed")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	claims, err := m.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession failed: %v", err)
	}
	if claims.UID != "user-ed" {
		t.Fatalf("expected uid user-ed, got %q", claims.UID)
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{SessionTTL: time.Hour, SigningMethod: MethodHS256}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: []byte("k")}); err == nil {
		t.Fatal("expected error for missing TTL")
	}
	if _, err := NewManager(Config{SessionTTL: time.Hour, SigningMethod: "rs512", PrivateKey: []byte("k")}); err == nil {
		t.Fatal("expected error for unsupported method")
	}
}
