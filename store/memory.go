package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-process store used by tests and the
// dev-mode server. It honors the same atomicity contract as the backed
// implementations: every mutation runs under the store lock.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]User
	byEmail map[string]string
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

// Insert describes the insert operation and its observable behavior.
func (s *MemoryStore) Insert(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return ErrDuplicateEmail
	}
	s.byID[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	return nil
}

// FindByEmail describes the findbyemail operation and its observable behavior.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

// FindByID describes the findbyid operation and its observable behavior.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// SetVerifyOTP describes the setverifyotp operation and its observable behavior.
func (s *MemoryStore) SetVerifyOTP(_ context.Context, id, otp string, expiresAt time.Time) error {
	return s.mutate(id, func(u *User) error {
		u.VerifyOTP = otp
		u.VerifyOTPExpiry = expiresAt
		return nil
	})
}

// ConsumeVerifyOTP describes the consumeverifyotp operation and its observable behavior.
func (s *MemoryStore) ConsumeVerifyOTP(_ context.Context, id, otp string, now time.Time) error {
	return s.mutate(id, func(u *User) error {
		if err := checkOTP(u.VerifyOTP, u.VerifyOTPExpiry, otp, now); err != nil {
			return err
		}
		u.Verified = true
		u.VerifyOTP = ""
		u.VerifyOTPExpiry = time.Time{}
		return nil
	})
}

// SetResetOTP describes the setresetotp operation and its observable behavior.
func (s *MemoryStore) SetResetOTP(_ context.Context, id, otp string, expiresAt time.Time) error {
	return s.mutate(id, func(u *User) error {
		u.ResetOTP = otp
		u.ResetOTPExpiry = expiresAt
		return nil
	})
}

// ConsumeResetOTP describes the consumeresetotp operation and its observable behavior.
func (s *MemoryStore) ConsumeResetOTP(_ context.Context, id, otp, newHash string, now time.Time) error {
	return s.mutate(id, func(u *User) error {
		if err := checkOTP(u.ResetOTP, u.ResetOTPExpiry, otp, now); err != nil {
			return err
		}
		u.PasswordHash = newHash
		u.ResetOTP = ""
		u.ResetOTPExpiry = time.Time{}
		return nil
	})
}

func (s *MemoryStore) mutate(id string, fn func(*User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if err := fn(&u); err != nil {
		return err
	}
	s.byID[id] = u
	return nil
}
