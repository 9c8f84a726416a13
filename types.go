package goCred

import (
	"context"
	"time"
)

// HashAlgorithm selects the algorithm used when creating new hashes.
// Verification is always format-driven and accepts every supported family
// regardless of this setting.
//
//	Docs: docs/hashing.md
type HashAlgorithm string

const (
	// AlgorithmBcrypt is an exported constant or variable used by the credential engine.
	AlgorithmBcrypt HashAlgorithm = "bcrypt"
	// AlgorithmArgon2 is an exported constant or variable used by the credential engine.
	AlgorithmArgon2 HashAlgorithm = "argon2"
)

// UserStore is the persistence interface that callers must implement to
// integrate goCred with their user database. Implementations must report
// duplicate-email inserts with [ErrStoreDuplicateEmail] and missing users
// with [ErrStoreUserNotFound]; infrastructure failures should wrap
// [ErrStoreUnavailable]. Email matching is exact and case-sensitive.
//
//	Docs: docs/engine.md, docs/userstore.md
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (UserRecord, error)
	InsertUser(ctx context.Context, user UserRecord) error
	UpdatePasswordHash(ctx context.Context, userID string, newPasswordHash string) error
}

// UserRecord is the credential record held by a [UserStore]. UserID and
// TimeJoined are assigned once at creation and survive password-hash
// overwrites, including the import path.
type UserRecord struct {
	UserID       string
	Email        string
	PasswordHash string
	TimeJoined   time.Time
}

// ImportResult is returned by [Engine.ImportUserWithHash]. It reports
// whether the email already had a credential record (hash overwritten in
// place) or a fresh record was created.
type ImportResult struct {
	User                UserRecord
	DidUserAlreadyExist bool
}
