package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix      = "au"
	userRecordVersionV1 = 1

	// consumeMaxRetries bounds the optimistic-CAS loop on WATCH conflicts.
	consumeMaxRetries = 4
)

// RedisStore keeps user records as binary-encoded values under
// "au:user:<id>" with an "au:email:<email>" index key providing uniqueness.
// OTP consumption runs under WATCH so concurrent consumers of the same code
// serialize on the record key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: redisKeyPrefix}
}

func (s *RedisStore) userKey(id string) string {
	return s.prefix + ":user:" + id
}

func (s *RedisStore) emailKey(email string) string {
	return s.prefix + ":email:" + email
}

// Insert describes the insert operation and its observable behavior.
//
// Insert may return an error when input validation, dependency calls, or security checks fail.
func (s *RedisStore) Insert(ctx context.Context, u *User) error {
	encoded, err := encodeUserRecord(u)
	if err != nil {
		return err
	}

	// The email index is the uniqueness gate; the record write follows only
	// when the claim succeeds.
	ok, err := s.client.SetNX(ctx, s.emailKey(u.Email), u.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		return ErrDuplicateEmail
	}

	if err := s.client.Set(ctx, s.userKey(u.ID), encoded, 0).Err(); err != nil {
		// Roll the index claim back so the email is not burned forever.
		_ = s.client.Del(ctx, s.emailKey(u.Email)).Err()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// FindByEmail describes the findbyemail operation and its observable behavior.
//
// FindByEmail may return an error when input validation, dependency calls, or security checks fail.
func (s *RedisStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	id, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.FindByID(ctx, id)
}

// FindByID describes the findbyid operation and its observable behavior.
//
// FindByID may return an error when input validation, dependency calls, or security checks fail.
func (s *RedisStore) FindByID(ctx context.Context, id string) (*User, error) {
	data, err := s.client.Get(ctx, s.userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return decodeUserRecord(data)
}

// SetVerifyOTP describes the setverifyotp operation and its observable behavior.
//
// SetVerifyOTP may return an error when input validation, dependency calls, or security checks fail.
func (s *RedisStore) SetVerifyOTP(ctx context.Context, id, otp string, expiresAt time.Time) error {
	return s.mutate(ctx, id, func(u *User) error {
		u.VerifyOTP = otp
		u.VerifyOTPExpiry = expiresAt
		return nil
	})
}

// ConsumeVerifyOTP describes the consumeverifyotp operation and its observable behavior.
//
// ConsumeVerifyOTP may return an error when input validation, dependency calls, or security checks fail.
func (s *RedisStore) ConsumeVerifyOTP(ctx context.Context, id, otp string, now time.Time) error {
	return s.mutate(ctx, id, func(u *User) error {
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
//
// SetResetOTP may return an error when input validation, dependency calls, or security checks fail.
func (s *RedisStore) SetResetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error {
	return s.mutate(ctx, id, func(u *User) error {
		u.ResetOTP = otp
		u.ResetOTPExpiry = expiresAt
		return nil
	})
}

// ConsumeResetOTP describes the consumeresetotp operation and its observable behavior.
//
// ConsumeResetOTP may return an error when input validation, dependency calls, or security checks fail.
func (s *RedisStore) ConsumeResetOTP(ctx context.Context, id, otp, newHash string, now time.Time) error {
	return s.mutate(ctx, id, func(u *User) error {
		if err := checkOTP(u.ResetOTP, u.ResetOTPExpiry, otp, now); err != nil {
			return err
		}
		u.PasswordHash = newHash
		u.ResetOTP = ""
		u.ResetOTPExpiry = time.Time{}
		return nil
	})
}

// mutate runs fn against the decoded record inside a WATCH transaction and
// writes the result back, retrying a bounded number of times when a
// concurrent writer invalidates the transaction.
func (s *RedisStore) mutate(ctx context.Context, id string, fn func(*User) error) error {
	key := s.userKey(id)

	for i := 0; i < consumeMaxRetries; i++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			u, err := decodeUserRecord(data)
			if err != nil {
				return err
			}

			if err := fn(u); err != nil {
				return err
			}

			updated, err := encodeUserRecord(u)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, updated, 0)
				return nil
			})
			return err
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return ErrNotFound
			case errors.Is(err, ErrOTPMismatch), errors.Is(err, ErrOTPExpired):
				return err
			default:
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}
		return nil
	}

	return fmt.Errorf("%w: watch retries exhausted", ErrUnavailable)
}

func encodeUserRecord(u *User) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(userRecordVersionV1)
	if u.Verified {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	for _, ts := range []int64{
		unixOrZero(u.VerifyOTPExpiry),
		unixOrZero(u.ResetOTPExpiry),
		unixOrZero(u.CreatedAt),
	} {
		if err := binary.Write(&buf, binary.BigEndian, ts); err != nil {
			return nil, err
		}
	}

	for _, field := range []string{u.ID, u.Name, u.Email, u.PasswordHash, u.VerifyOTP, u.ResetOTP} {
		if len(field) > 65535 {
			return nil, errors.New("user record field too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

func decodeUserRecord(data []byte) (*User, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != userRecordVersionV1 {
		return nil, errors.New("invalid user record version")
	}

	verified, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	var verifyExp, resetExp, createdAt int64
	for _, dst := range []*int64{&verifyExp, &resetExp, &createdAt} {
		if err := binary.Read(reader, binary.BigEndian, dst); err != nil {
			return nil, err
		}
	}

	fields := make([]string, 6)
	for i := range fields {
		var n uint16
		if err := binary.Read(reader, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		raw := make([]byte, n)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, err
		}
		fields[i] = string(raw)
	}

	return &User{
		ID:              fields[0],
		Name:            fields[1],
		Email:           fields[2],
		PasswordHash:    fields[3],
		Verified:        verified == 1,
		VerifyOTP:       fields[4],
		VerifyOTPExpiry: timeOrZero(verifyExp),
		ResetOTP:        fields[5],
		ResetOTPExpiry:  timeOrZero(resetExp),
		CreatedAt:       timeOrZero(createdAt),
	}, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}
