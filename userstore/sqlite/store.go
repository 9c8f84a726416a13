// Package sqlite provides a file-backed credential store implementing
// the goCred UserStore contract over modernc.org/sqlite, suitable for
// single-node deployments and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrEthical07/goCred"
)

const schema = `
CREATE TABLE IF NOT EXISTS credential_users (
    user_id       TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    time_joined   INTEGER NOT NULL
);
`

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements credential persistence over SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a credential SQLite store at path and ensures the schema
// exists. Pass ":memory:" for an ephemeral in-process database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if path == ":memory:" {
		// Each pooled connection to a plain :memory: DSN gets its own
		// database; pin the pool so the schema stays visible.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// FindUserByEmail describes the finduserbyemail operation and its observable behavior.
//
// FindUserByEmail may return an error when input validation, dependency calls, or security checks fail.
// FindUserByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (goCred.UserRecord, error) {
	const query = `SELECT user_id, email, password_hash, time_joined FROM credential_users WHERE email = ?1`

	var (
		rec    goCred.UserRecord
		millis int64
	)
	err := s.sqlDB.QueryRowContext(ctx, query, email).Scan(&rec.UserID, &rec.Email, &rec.PasswordHash, &millis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return goCred.UserRecord{}, goCred.ErrStoreUserNotFound
		}
		return goCred.UserRecord{}, fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}

	rec.TimeJoined = fromMillis(millis)
	return rec, nil
}

// InsertUser describes the insertuser operation and its observable behavior.
//
// InsertUser may return an error when input validation, dependency calls, or security checks fail.
// InsertUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) InsertUser(ctx context.Context, user goCred.UserRecord) error {
	const query = `
INSERT INTO credential_users (user_id, email, password_hash, time_joined)
VALUES (?1, ?2, ?3, ?4)
ON CONFLICT(email) DO NOTHING`

	res, err := s.sqlDB.ExecContext(ctx, query, user.UserID, user.Email, user.PasswordHash, toMillis(user.TimeJoined))
	if err != nil {
		return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return goCred.ErrStoreDuplicateEmail
	}

	return nil
}

// UpdatePasswordHash describes the updatepasswordhash operation and its observable behavior.
//
// UpdatePasswordHash may return an error when input validation, dependency calls, or security checks fail.
// UpdatePasswordHash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID, newPasswordHash string) error {
	const query = `UPDATE credential_users SET password_hash = ?1 WHERE user_id = ?2`

	res, err := s.sqlDB.ExecContext(ctx, query, newPasswordHash, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return goCred.ErrStoreUserNotFound
	}

	return nil
}
