//go:build integration
// +build integration

package test

import (
	"testing"
	"time"

	goCred "github.com/MrEthical07/goCred"
	credredis "github.com/MrEthical07/goCred/userstore/redis"
	"github.com/MrEthical07/goCred/userstore/sqlite"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newIntegrationRedisStore(t *testing.T) (*credredis.Store, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := credredis.NewStore(rdb, "cred")

	return store, rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func newIntegrationSqliteStore(t *testing.T) (*sqlite.Store, func()) {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("sqlite open failed: %v", err)
	}

	return store, func() {
		_ = store.Close()
	}
}

func makeUserRecord(userID, email string) goCred.UserRecord {
	return goCred.UserRecord{
		UserID:       userID,
		Email:        email,
		PasswordHash: "$2a$04$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		TimeJoined:   time.Now().UTC().Truncate(time.Millisecond),
	}
}
