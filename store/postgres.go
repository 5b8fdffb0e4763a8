package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/aegisauth/aegis/store/migrations"
)

// PostgresStore persists user records in a single `users` table. Email
// uniqueness comes from the unique index; OTP consumption takes a row lock
// (SELECT ... FOR UPDATE) so concurrent consumers serialize on the record.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a pgx-backed connection pool and verifies it.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &PostgresStore{db: db}, nil
}

// Close describes the close operation and its observable behavior.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// RunMigrations applies the embedded goose migrations.
func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

const userColumns = `id, name, email, password_hash, verified,
	verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at, created_at`

// Insert describes the insert operation and its observable behavior.
func (s *PostgresStore) Insert(ctx context.Context, u *User) error {
	query := `INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Verified,
		u.VerifyOTP, nullTime(u.VerifyOTPExpiry),
		u.ResetOTP, nullTime(u.ResetOTPExpiry),
		u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// FindByEmail describes the findbyemail operation and its observable behavior.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// FindByID describes the findbyid operation and its observable behavior.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// SetVerifyOTP describes the setverifyotp operation and its observable behavior.
func (s *PostgresStore) SetVerifyOTP(ctx context.Context, id, otp string, expiresAt time.Time) error {
	query := `UPDATE users SET verify_otp = $2, verify_otp_expires_at = $3 WHERE id = $1`
	return s.exec(ctx, query, id, otp, expiresAt)
}

// ConsumeVerifyOTP describes the consumeverifyotp operation and its observable behavior.
func (s *PostgresStore) ConsumeVerifyOTP(ctx context.Context, id, otp string, now time.Time) error {
	return s.consume(ctx, id, func(u *User) (string, []any, error) {
		if err := checkOTP(u.VerifyOTP, u.VerifyOTPExpiry, otp, now); err != nil {
			return "", nil, err
		}
		query := `UPDATE users SET verified = TRUE, verify_otp = '',
			 verify_otp_expires_at = NULL WHERE id = $1`
		return query, []any{id}, nil
	})
}

// SetResetOTP describes the setresetotp operation and its observable behavior.
func (s *PostgresStore) SetResetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_otp = $2, reset_otp_expires_at = $3 WHERE id = $1`
	return s.exec(ctx, query, id, otp, expiresAt)
}

// ConsumeResetOTP describes the consumeresetotp operation and its observable behavior.
func (s *PostgresStore) ConsumeResetOTP(ctx context.Context, id, otp, newHash string, now time.Time) error {
	return s.consume(ctx, id, func(u *User) (string, []any, error) {
		if err := checkOTP(u.ResetOTP, u.ResetOTPExpiry, otp, now); err != nil {
			return "", nil, err
		}
		query := `UPDATE users SET password_hash = $2, reset_otp = '',
			 reset_otp_expires_at = NULL WHERE id = $1`
		return query, []any{id, newHash}, nil
	})
}

func (s *PostgresStore) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// consume locks the row, re-checks the OTP under the lock, and applies the
// mutation in the same transaction.
func (s *PostgresStore) consume(ctx context.Context, id string, fn func(*User) (string, []any, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	u, err := scanUser(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return err
	}

	update, args, err := fn(u)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, update, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u                   User
		verifyExp, resetExp sql.NullTime
		verifyOTP, resetOTP sql.NullString
	)

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Verified,
		&verifyOTP, &verifyExp, &resetOTP, &resetExp, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	u.VerifyOTP = verifyOTP.String
	u.ResetOTP = resetOTP.String
	if verifyExp.Valid {
		u.VerifyOTPExpiry = verifyExp.Time
	}
	if resetExp.Valid {
		u.ResetOTPExpiry = resetExp.Time
	}
	return &u, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
