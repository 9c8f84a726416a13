// Package postgres provides a PostgreSQL-backed credential store
// implementing the goCred UserStore contract over a caller-owned
// pgxpool. The pool is never closed by this package.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrEthical07/goCred"
)

// Schema is the DDL for the credential table. It is unqualified: the
// table lands in whatever schema is active on the executing connection,
// so hosts using WithSchema must run it with a matching search_path (or
// an equivalent migration) before first use.
const Schema = `
CREATE TABLE IF NOT EXISTS credential_users (
    user_id       TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    time_joined   BIGINT NOT NULL
);
`

const pgUniqueViolation = "23505"

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store defines a public type used by goCred APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	pool   *pgxpool.Pool
	schema string
}

// Option configures the store.
type Option func(*Store) error

// WithSchema sets the PostgreSQL schema holding the credential table
// (default "public"). The name is validated as a legal identifier so it
// can be interpolated into queries safely.
func WithSchema(schema string) Option {
	return func(s *Store) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("postgres store: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("postgres store: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewStore creates a credential [Store] over the given pool. The pool is
// owned by the caller.
func NewStore(pool *pgxpool.Pool, opts ...Option) (*Store, error) {
	st := &Store{
		pool:   pool,
		schema: "public",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("postgres store: nil pool")
	}
	return st, nil
}

func (s *Store) table() string {
	return fmt.Sprintf("%q.credential_users", s.schema)
}

// FindUserByEmail describes the finduserbyemail operation and its observable behavior.
//
// FindUserByEmail may return an error when input validation, dependency calls, or security checks fail.
// FindUserByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (goCred.UserRecord, error) {
	query := fmt.Sprintf(
		`SELECT user_id, email, password_hash, time_joined FROM %s WHERE email = $1`,
		s.table(),
	)

	var (
		rec    goCred.UserRecord
		millis int64
	)
	err := s.pool.QueryRow(ctx, query, email).Scan(&rec.UserID, &rec.Email, &rec.PasswordHash, &millis)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goCred.UserRecord{}, goCred.ErrStoreUserNotFound
		}
		return goCred.UserRecord{}, fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}

	rec.TimeJoined = time.UnixMilli(millis).UTC()
	return rec, nil
}

// InsertUser describes the insertuser operation and its observable behavior.
//
// InsertUser may return an error when input validation, dependency calls, or security checks fail.
// InsertUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) InsertUser(ctx context.Context, user goCred.UserRecord) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, email, password_hash, time_joined) VALUES ($1, $2, $3, $4)`,
		s.table(),
	)

	_, err := s.pool.Exec(ctx, query, user.UserID, user.Email, user.PasswordHash, user.TimeJoined.UnixMilli())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "email") {
			return goCred.ErrStoreDuplicateEmail
		}
		return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}

	return nil
}

// UpdatePasswordHash describes the updatepasswordhash operation and its observable behavior.
//
// UpdatePasswordHash may return an error when input validation, dependency calls, or security checks fail.
// UpdatePasswordHash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID, newPasswordHash string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET password_hash = $1 WHERE user_id = $2`,
		s.table(),
	)

	tag, err := s.pool.Exec(ctx, query, newPasswordHash, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return goCred.ErrStoreUserNotFound
	}

	return nil
}
