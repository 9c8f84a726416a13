package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goCred"
)

const (
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
	fieldTimeJoined   = "time_joined"
)

// watchRetries bounds the optimistic-locking loop in UpdatePasswordHash.
const watchRetries = 3

// Store defines a public type used by goCred APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis  goredis.UniversalClient
	prefix string
}

// NewStore creates a credential [Store] backed by the given Redis client.
// prefix sets the Redis key namespace; empty defaults to "cred".
func NewStore(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "cred"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":user:" + userID
}

func (s *Store) emailKey(email string) string {
	return s.prefix + ":email:" + email
}

// FindUserByEmail describes the finduserbyemail operation and its observable behavior.
//
// FindUserByEmail may return an error when input validation, dependency calls, or security checks fail.
// FindUserByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (goCred.UserRecord, error) {
	userID, err := s.redis.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return goCred.UserRecord{}, goCred.ErrStoreUserNotFound
		}
		return goCred.UserRecord{}, fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}

	fields, err := s.redis.HGetAll(ctx, s.userKey(userID)).Result()
	if err != nil {
		return goCred.UserRecord{}, fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		// Index entry without a user hash: treat as absent so an import
		// retried after a torn insert can recreate the record.
		return goCred.UserRecord{}, goCred.ErrStoreUserNotFound
	}

	millis, err := strconv.ParseInt(fields[fieldTimeJoined], 10, 64)
	if err != nil {
		return goCred.UserRecord{}, fmt.Errorf("%w: corrupt time_joined for user %s", goCred.ErrStoreUnavailable, userID)
	}

	return goCred.UserRecord{
		UserID:       userID,
		Email:        fields[fieldEmail],
		PasswordHash: fields[fieldPasswordHash],
		TimeJoined:   time.UnixMilli(millis).UTC(),
	}, nil
}

// InsertUser describes the insertuser operation and its observable behavior.
//
// InsertUser may return an error when input validation, dependency calls, or security checks fail.
// InsertUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) InsertUser(ctx context.Context, user goCred.UserRecord) error {
	ok, err := s.redis.SetNX(ctx, s.emailKey(user.Email), user.UserID, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}
	if !ok {
		return goCred.ErrStoreDuplicateEmail
	}

	err = s.redis.HSet(ctx, s.userKey(user.UserID), map[string]interface{}{
		fieldEmail:        user.Email,
		fieldPasswordHash: user.PasswordHash,
		fieldTimeJoined:   strconv.FormatInt(user.TimeJoined.UnixMilli(), 10),
	}).Err()
	if err != nil {
		// Release the email index so a failed insert does not squat on the
		// address forever.
		_ = s.redis.Del(ctx, s.emailKey(user.Email)).Err()
		return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
	}

	return nil
}

// UpdatePasswordHash describes the updatepasswordhash operation and its observable behavior.
//
// UpdatePasswordHash may return an error when input validation, dependency calls, or security checks fail.
// UpdatePasswordHash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID, newPasswordHash string) error {
	key := s.userKey(userID)

	for i := 0; i < watchRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *goredis.Tx) error {
			exists, existsErr := tx.Exists(ctx, key).Result()
			if existsErr != nil {
				return existsErr
			}
			if exists == 0 {
				return goCred.ErrStoreUserNotFound
			}

			_, txErr := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
				pipe.HSet(ctx, key, fieldPasswordHash, newPasswordHash)
				return nil
			})
			return txErr
		}, key)

		switch {
		case err == nil:
			return nil
		case errors.Is(err, goredis.TxFailedErr):
			// Key changed under us; take another pass.
			continue
		case errors.Is(err, goCred.ErrStoreUserNotFound):
			return goCred.ErrStoreUserNotFound
		default:
			return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, err)
		}
	}

	return fmt.Errorf("%w: %v", goCred.ErrStoreUnavailable, goredis.TxFailedErr)
}
