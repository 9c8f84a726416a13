package goCred

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/MrEthical07/goCred/hashformat"
)

const (
	knownBcryptHash   = "$2a$10$GzEm3vKoAqnJCTWesRARCe/ovjt/07qjvcH9jbLUg44Fn77gMZkmm"
	knownBcryptPass   = "testPass123"
	knownArgon2idHash = "$argon2id$v=19$m=16,t=2,p=1$VG1Oa1lMbzZLbzk5azQ2Qg$kjcNNtZ/b0t/8HgXUiQ76A"
	knownArgon2idPass = "testPass123"
)

func fastTestConfig() Config {
	cfg := defaultConfig()
	cfg.Hashing.BcryptLogRounds = 4
	cfg.Hashing.Argon2MemoryKB = 16
	cfg.Hashing.Argon2Iterations = 2
	cfg.Hashing.Argon2Parallelism = 1
	cfg.Hashing.Argon2SaltLength = 16
	cfg.Hashing.Argon2KeyLength = 16
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, store UserStore) *Engine {
	t.Helper()

	builder := New().WithConfig(cfg)
	if store != nil {
		builder = builder.WithUserStore(store)
	}

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func TestHashPasswordBcryptRoundTrip(t *testing.T) {
	engine := newTestEngine(t, fastTestConfig(), nil)

	hash, err := engine.HashPassword(context.Background(), "correct-password-123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("expected $2a$ prefix, got %s", hash)
	}

	ok, err := engine.VerifyPassword(context.Background(), "correct-password-123", hash)
	if err != nil || !ok {
		t.Fatalf("expected round-trip verify, ok=%v err=%v", ok, err)
	}

	ok, err = engine.VerifyPassword(context.Background(), "wrong-password", hash)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestHashPasswordArgon2RoundTrip(t *testing.T) {
	cfg := fastTestConfig()
	cfg.Hashing.Algorithm = AlgorithmArgon2
	engine := newTestEngine(t, cfg, nil)

	hash, err := engine.HashPassword(context.Background(), "correct-password-123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected $argon2id$ prefix, got %s", hash)
	}

	ok, err := engine.VerifyPassword(context.Background(), "correct-password-123", hash)
	if err != nil || !ok {
		t.Fatalf("expected round-trip verify, ok=%v err=%v", ok, err)
	}
}

func TestVerifyKnownBcryptVector(t *testing.T) {
	engine := newTestEngine(t, fastTestConfig(), nil)

	ok, err := engine.VerifyPassword(context.Background(), knownBcryptPass, knownBcryptHash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Fatal("expected known bcrypt vector to verify")
	}
}

func TestVerifyKnownArgon2Vector(t *testing.T) {
	// The engine is configured with different Argon2 parameters than the
	// stored hash; verification must read parameters from the hash itself.
	cfg := fastTestConfig()
	cfg.Hashing.Argon2MemoryKB = 64
	cfg.Hashing.Argon2Iterations = 3
	engine := newTestEngine(t, cfg, nil)

	ok, err := engine.VerifyPassword(context.Background(), knownArgon2idPass, knownArgon2idHash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Fatal("expected known argon2id vector to verify")
	}

	ok, err = engine.VerifyPassword(context.Background(), "wrongPass123", knownArgon2idHash)
	if err != nil || ok {
		t.Fatalf("expected clean mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerifyBcryptVariantIdentifiers(t *testing.T) {
	engine := newTestEngine(t, fastTestConfig(), nil)

	for _, prefix := range []string{"$2b$", "$2x$", "$2y$"} {
		variant := prefix + strings.TrimPrefix(knownBcryptHash, "$2a$")
		ok, err := engine.VerifyPassword(context.Background(), knownBcryptPass, variant)
		if err != nil {
			t.Fatalf("VerifyPassword failed for %s: %v", prefix, err)
		}
		if !ok {
			t.Fatalf("expected %s variant to verify after normalization", prefix)
		}
	}
}

func TestVerifyArgon2dRejected(t *testing.T) {
	engine := newTestEngine(t, fastTestConfig(), nil)

	hash := "$argon2d$v=19$m=16,t=2,p=1$VG1Oa1lMbzZLbzk5azQ2Qg$kjcNNtZ/b0t/8HgXUiQ76A"
	ok, err := engine.VerifyPassword(context.Background(), "testPass123", hash)
	if !errors.Is(err, ErrUnsupportedHashFormat) {
		t.Fatalf("expected ErrUnsupportedHashFormat, got %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail closed")
	}
}

func TestVerifyUnrecognizedFormatFailsClosed(t *testing.T) {
	engine := newTestEngine(t, fastTestConfig(), nil)

	for _, hash := range []string{
		"",
		"plaintext-not-a-hash",
		"$sha512$rounds=5000$salt$digest",
		"2a$10$missing-leading-dollar",
	} {
		ok, err := engine.VerifyPassword(context.Background(), "testPass123", hash)
		if !errors.Is(err, ErrUnsupportedHashFormat) {
			t.Fatalf("hash %q: expected ErrUnsupportedHashFormat, got %v", hash, err)
		}
		if ok {
			t.Fatalf("hash %q: expected verification to fail closed", hash)
		}
	}
}

func TestHashPasswordOutputIsSupportedFormat(t *testing.T) {
	for _, algorithm := range []HashAlgorithm{AlgorithmBcrypt, AlgorithmArgon2} {
		cfg := fastTestConfig()
		cfg.Hashing.Algorithm = algorithm
		engine := newTestEngine(t, cfg, nil)

		hash, err := engine.HashPassword(context.Background(), "correct-password-123")
		if err != nil {
			t.Fatalf("%s: HashPassword failed: %v", algorithm, err)
		}
		if !engine.IsSupportedHashFormat(hash) {
			t.Fatalf("%s: engine emitted a hash it does not recognize: %s", algorithm, hash)
		}
	}
}

func TestCheckAlgorithmMatchesFormat(t *testing.T) {
	engine := newTestEngine(t, fastTestConfig(), nil)

	cases := []struct {
		name      string
		algorithm HashAlgorithm
		hash      string
		wantErr   bool
		contains  string
	}{
		{name: "bcrypt matches", algorithm: AlgorithmBcrypt, hash: knownBcryptHash, wantErr: false},
		{name: "argon2 matches id", algorithm: AlgorithmArgon2, hash: knownArgon2idHash, wantErr: false},
		{name: "argon2 matches d variant", algorithm: AlgorithmArgon2, hash: "$argon2d$v=19$m=16,t=2,p=1$c$k", wantErr: false},
		{name: "bcrypt against argon2 hash", algorithm: AlgorithmBcrypt, hash: knownArgon2idHash, wantErr: true, contains: "does not match"},
		{name: "argon2 against bcrypt hash", algorithm: AlgorithmArgon2, hash: knownBcryptHash, wantErr: true, contains: "does not match"},
		{name: "unknown algorithm name", algorithm: HashAlgorithm("scrypt"), hash: knownBcryptHash, wantErr: true, contains: "unknown algorithm"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := engine.CheckAlgorithmMatchesFormat(tc.algorithm, tc.hash)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrUnsupportedHashFormat) {
				t.Fatalf("expected ErrUnsupportedHashFormat, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("expected message containing %q, got %q", tc.contains, err.Error())
			}
		})
	}
}

func TestHashPasswordGateSerializesArgon2(t *testing.T) {
	cfg := fastTestConfig()
	cfg.Hashing.Algorithm = AlgorithmArgon2
	cfg.Hashing.Argon2PoolSize = 1
	engine := newTestEngine(t, cfg, nil)

	if got := engine.GateCapacity(); got != 1 {
		t.Fatalf("expected gate capacity 1, got %d", got)
	}

	const workers = 4
	hashes := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(idx int) {
			defer wg.Done()
			hashes[idx], errs[idx] = engine.HashPassword(context.Background(), "correct-password-123")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: HashPassword failed: %v", i, errs[i])
		}
		ok, err := engine.VerifyPassword(context.Background(), "correct-password-123", hashes[i])
		if err != nil || !ok {
			t.Fatalf("worker %d: round-trip failed, ok=%v err=%v", i, ok, err)
		}
	}

	if got := engine.GateOccupancy(); got != 0 {
		t.Fatalf("expected all gate slots released, occupancy %d", got)
	}
}

func TestHashPasswordCancelledWhileWaitingForGate(t *testing.T) {
	cfg := fastTestConfig()
	cfg.Hashing.Algorithm = AlgorithmArgon2
	cfg.Hashing.Argon2PoolSize = 1
	cfg.Metrics.Enabled = true
	engine := newTestEngine(t, cfg, nil)

	// Occupy the only slot so the next caller has to wait.
	if err := engine.argonGate.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer engine.argonGate.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.HashPassword(ctx, "correct-password-123")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if got := engine.metrics.Value(MetricGateWaitAbandoned); got != 1 {
		t.Fatalf("expected MetricGateWaitAbandoned=1, got %d", got)
	}
	if got := engine.GateOccupancy(); got != 1 {
		t.Fatalf("expected only the held slot occupied, got %d", got)
	}
}

func TestVerifyDispatchCountsPerFamily(t *testing.T) {
	cfg := fastTestConfig()
	cfg.Metrics.Enabled = true
	engine := newTestEngine(t, cfg, nil)

	_, _ = engine.VerifyPassword(context.Background(), knownBcryptPass, knownBcryptHash)
	_, _ = engine.VerifyPassword(context.Background(), knownArgon2idPass, knownArgon2idHash)
	_, _ = engine.VerifyPassword(context.Background(), "x", "not-a-hash")

	if got := engine.metrics.Value(MetricVerifyBcrypt); got != 1 {
		t.Fatalf("expected MetricVerifyBcrypt=1, got %d", got)
	}
	if got := engine.metrics.Value(MetricVerifyArgon2id); got != 1 {
		t.Fatalf("expected MetricVerifyArgon2id=1, got %d", got)
	}
	if got := engine.metrics.Value(MetricUnsupportedFormat); got != 1 {
		t.Fatalf("expected MetricUnsupportedFormat=1, got %d", got)
	}
	if got := engine.metrics.Value(MetricVerifySuccess); got != 2 {
		t.Fatalf("expected MetricVerifySuccess=2, got %d", got)
	}
}

func TestHashPasswordNilEngineNotReady(t *testing.T) {
	var engine *Engine

	if _, err := engine.HashPassword(context.Background(), "x"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := engine.VerifyPassword(context.Background(), "x", knownBcryptHash); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
}

func TestDetectFamilyThroughEngineOutputs(t *testing.T) {
	cfg := fastTestConfig()
	cfg.Hashing.Algorithm = AlgorithmArgon2
	engine := newTestEngine(t, cfg, nil)

	hash, err := engine.HashPassword(context.Background(), "correct-password-123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if family := hashformat.Detect(hash); family != hashformat.FamilyArgon2id {
		t.Fatalf("expected FamilyArgon2id, got %s", family)
	}
}
