package goCred

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const (
	importedBcryptHash = "$2a$10$uV17z2rVB3W5Rp4MeJeB4OdRX/Z7oFMLpUbdzyX9bDrk6kvZiOT1G"
	importedBcryptPass = "newTestPass123"
)

func TestImportCreatesNewUser(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, fastTestConfig(), store)

	res, err := engine.ImportUserWithHash(context.Background(), "test@example.com", knownBcryptHash)
	if err != nil {
		t.Fatalf("ImportUserWithHash failed: %v", err)
	}
	if res.DidUserAlreadyExist {
		t.Fatal("expected a freshly created user")
	}
	if res.User.UserID == "" {
		t.Fatal("expected generated user id")
	}
	if res.User.TimeJoined.IsZero() {
		t.Fatal("expected join timestamp to be set")
	}
	if res.User.PasswordHash != knownBcryptHash {
		t.Fatalf("expected hash stored verbatim, got %s", res.User.PasswordHash)
	}

	stored, ok := store.userByEmail("test@example.com")
	if !ok {
		t.Fatal("expected user persisted in store")
	}
	verified, err := engine.VerifyPassword(context.Background(), knownBcryptPass, stored.PasswordHash)
	if err != nil || !verified {
		t.Fatalf("expected imported hash to verify, ok=%v err=%v", verified, err)
	}
}

func TestImportArgon2HashVerifiesAfterImport(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, fastTestConfig(), store)

	res, err := engine.ImportUserWithHash(context.Background(), "test@example.com", knownArgon2idHash)
	if err != nil {
		t.Fatalf("ImportUserWithHash failed: %v", err)
	}
	if res.DidUserAlreadyExist {
		t.Fatal("expected a freshly created user")
	}

	verified, err := engine.VerifyPassword(context.Background(), knownArgon2idPass, res.User.PasswordHash)
	if err != nil || !verified {
		t.Fatalf("expected imported hash to verify, ok=%v err=%v", verified, err)
	}
}

func TestImportExistingUserOverwritesHashInPlace(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, fastTestConfig(), store)

	created, err := engine.SignUp(context.Background(), "test@example.com", "testPass123")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	res, err := engine.ImportUserWithHash(context.Background(), "test@example.com", importedBcryptHash)
	if err != nil {
		t.Fatalf("ImportUserWithHash failed: %v", err)
	}
	if !res.DidUserAlreadyExist {
		t.Fatal("expected the existing user to be updated")
	}
	if res.User.UserID != created.UserID {
		t.Fatalf("expected identifier preserved, got %s want %s", res.User.UserID, created.UserID)
	}
	if !res.User.TimeJoined.Equal(created.TimeJoined) {
		t.Fatalf("expected join timestamp preserved, got %v want %v", res.User.TimeJoined, created.TimeJoined)
	}

	if _, err := engine.SignIn(context.Background(), "test@example.com", "testPass123"); !errors.Is(err, ErrCredentialsInvalid) {
		t.Fatalf("expected old password to be rejected after import, got %v", err)
	}
	if _, err := engine.SignIn(context.Background(), "test@example.com", importedBcryptPass); err != nil {
		t.Fatalf("expected imported password to sign in, got %v", err)
	}
}

func TestImportRejectsUnsupportedFormatBeforeStoreAccess(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, fastTestConfig(), store)

	for _, hash := range []string{
		"",
		"plaintext-not-a-hash",
		"$pbkdf2-sha256$29000$salt$digest",
	} {
		_, err := engine.ImportUserWithHash(context.Background(), "test@example.com", hash)
		if !errors.Is(err, ErrUnsupportedHashFormat) {
			t.Fatalf("hash %q: expected ErrUnsupportedHashFormat, got %v", hash, err)
		}
	}

	if store.findCalls != 0 || store.insertCalls != 0 || store.updateCalls != 0 {
		t.Fatalf("expected format rejection before any store access, got find=%d insert=%d update=%d",
			store.findCalls, store.insertCalls, store.updateCalls)
	}
}

func TestImportAcceptsArgon2dHash(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, fastTestConfig(), store)

	hash := "$argon2d$v=19$m=16,t=2,p=1$VG1Oa1lMbzZLbzk5azQ2Qg$kjcNNtZ/b0t/8HgXUiQ76A"
	res, err := engine.ImportUserWithHash(context.Background(), "legacy@example.com", hash)
	if err != nil {
		t.Fatalf("ImportUserWithHash failed: %v", err)
	}
	if res.DidUserAlreadyExist {
		t.Fatal("expected a freshly created user")
	}
	if !engine.IsSupportedHashFormat(res.User.PasswordHash) {
		t.Fatal("expected argon2d to be a recognized import format")
	}
}

func TestImportRetriesAfterLosingCreateRace(t *testing.T) {
	cfg := fastTestConfig()
	cfg.Metrics.Enabled = true
	store := newMockUserStore()
	store.conflictInserts = 1
	engine := newTestEngine(t, cfg, store)

	res, err := engine.ImportUserWithHash(context.Background(), "raced@example.com", importedBcryptHash)
	if err != nil {
		t.Fatalf("ImportUserWithHash failed: %v", err)
	}
	if !res.DidUserAlreadyExist {
		t.Fatal("expected the retry to take the update path")
	}
	if !strings.HasPrefix(res.User.UserID, "winner-") {
		t.Fatalf("expected the concurrent winner's record to be updated, got %s", res.User.UserID)
	}
	if res.User.PasswordHash != importedBcryptHash {
		t.Fatalf("expected imported hash applied to winner, got %s", res.User.PasswordHash)
	}

	if got := engine.metrics.Value(MetricImportConflictRetry); got != 1 {
		t.Fatalf("expected MetricImportConflictRetry=1, got %d", got)
	}
	if got := engine.metrics.Value(MetricImportUpdated); got != 1 {
		t.Fatalf("expected MetricImportUpdated=1, got %d", got)
	}
}

func TestImportRetriesAfterLosingUpdateRace(t *testing.T) {
	cfg := fastTestConfig()
	cfg.Metrics.Enabled = true
	store := newMockUserStore()
	engine := newTestEngine(t, cfg, store)

	created, err := engine.SignUp(context.Background(), "raced@example.com", "testPass123")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	store.missingUpdates = 1

	res, err := engine.ImportUserWithHash(context.Background(), "raced@example.com", importedBcryptHash)
	if err != nil {
		t.Fatalf("ImportUserWithHash failed: %v", err)
	}
	if res.DidUserAlreadyExist {
		t.Fatal("expected the retry to take the create path after the record vanished")
	}
	if res.User.UserID == created.UserID {
		t.Fatal("expected a fresh identifier for the recreated record")
	}

	if got := engine.metrics.Value(MetricImportConflictRetry); got != 1 {
		t.Fatalf("expected MetricImportConflictRetry=1, got %d", got)
	}
	if got := engine.metrics.Value(MetricImportCreated); got != 1 {
		t.Fatalf("expected MetricImportCreated=1, got %d", got)
	}
}

func TestImportContentionExhaustsRetries(t *testing.T) {
	cfg := fastTestConfig()
	cfg.Import.MaxRetries = 3
	store := newMockUserStore()
	store.insertErr = ErrStoreDuplicateEmail
	engine := newTestEngine(t, cfg, store)

	_, err := engine.ImportUserWithHash(context.Background(), "hot@example.com", knownBcryptHash)
	if !errors.Is(err, ErrImportContention) {
		t.Fatalf("expected ErrImportContention, got %v", err)
	}
	if store.insertCalls != 3 {
		t.Fatalf("expected exactly 3 insert attempts, got %d", store.insertCalls)
	}
}

func TestImportStoreErrorPropagation(t *testing.T) {
	store := newMockUserStore()
	store.findErr = ErrStoreUnavailable
	engine := newTestEngine(t, fastTestConfig(), store)

	_, err := engine.ImportUserWithHash(context.Background(), "test@example.com", knownBcryptHash)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
