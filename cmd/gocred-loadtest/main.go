package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goCred "github.com/MrEthical07/goCred"
	credredis "github.com/MrEthical07/goCred/userstore/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// importedHash is a low-cost bcrypt hash used by the import phase. Imports
// store the hash as-is, so its cost never shows up in the measurements.
const importedHash = "$2a$04$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

const seedPassword = "load-test-password-1"

func main() {
	var (
		users       = flag.Int("users", 5000, "number of users to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "operations per phase (sign-in + import)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, GOCRED_TEST_REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "cred", "credential key prefix")
		algorithm   = flag.String("algorithm", "bcrypt", "hashing algorithm for seeding and sign-in (bcrypt or argon2)")
		logRounds   = flag.Int("log-rounds", 4, "bcrypt log rounds for seeded hashes")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("GOCRED_TEST_REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := goCred.DefaultConfig()
	cfg.Hashing.BcryptLogRounds = *logRounds
	switch *algorithm {
	case "bcrypt":
	case "argon2":
		cfg.Hashing.Algorithm = goCred.AlgorithmArgon2
		// Loadtest-sized memory cost; the stock parameters hold tens of
		// megabytes per computation.
		cfg.Hashing.Argon2MemoryKB = 16384
	default:
		fmt.Fprintf(os.Stderr, "unknown algorithm %q\n", *algorithm)
		os.Exit(2)
	}
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	store := credredis.NewStore(client, *prefix)
	engine, err := goCred.New().WithConfig(cfg).WithUserStore(store).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	emails := make([]string, *users)
	fmt.Printf("seeding %d users (%s)...\n", *users, *algorithm)
	startSeed := time.Now()
	for i := 0; i < *users; i++ {
		email := fmt.Sprintf("user-%d@load.test", i)
		emails[i] = email
		if _, err := engine.SignUp(ctx, email, seedPassword); err != nil {
			fmt.Fprintf(os.Stderr, "seed sign-up failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	stopSampler := make(chan struct{})
	gateHigh := sampleGateHighWater(engine, stopSampler)

	signInStats := runSignInPhase(ctx, engine, emails, *ops, *concurrency)
	importStats := runImportPhase(ctx, engine, *ops, *concurrency)
	close(stopSampler)

	fmt.Println("---- results ----")
	printStats("sign-in", signInStats)
	printStats("import", importStats)
	fmt.Printf("gate high water: %d/%d\n", <-gateHigh, engine.GateCapacity())
	printMetrics(engine.MetricsSnapshot())
}

// sampleGateHighWater polls gate occupancy until stop closes and reports
// the highest value seen. With bcrypt the gate is never entered, so the
// high water stays at zero.
func sampleGateHighWater(engine *goCred.Engine, stop <-chan struct{}) <-chan int64 {
	out := make(chan int64, 1)
	go func() {
		var high int64
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				out <- high
				return
			case <-ticker.C:
				if n := engine.GateOccupancy(); n > high {
					high = n
				}
			}
		}
	}()
	return out
}

func runSignInPhase(ctx context.Context, engine *goCred.Engine, emails []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(emails))
				t0 := time.Now()
				_, err := engine.SignIn(ctx, emails[idx], seedPassword)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runImportPhase(ctx context.Context, engine *goCred.Engine, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	// A pool smaller than the op count makes repeat imports hit the
	// overwrite path, so both create and update get measured.
	pool := ops / 10
	if pool < 1 {
		pool = 1
	}

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				email := fmt.Sprintf("import-%d@load.test", r.Intn(pool))
				t0 := time.Now()
				_, err := engine.ImportUserWithHash(ctx, email, importedHash)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func printMetrics(snap goCred.MetricsSnapshot) {
	c := snap.Counters
	fmt.Println("---- engine metrics ----")
	fmt.Printf("hash: bcrypt=%d argon2=%d gate_abandoned=%d\n",
		c[goCred.MetricHashBcrypt], c[goCred.MetricHashArgon2], c[goCred.MetricGateWaitAbandoned])
	fmt.Printf("verify: bcrypt=%d argon2id=%d success=%d mismatch=%d\n",
		c[goCred.MetricVerifyBcrypt], c[goCred.MetricVerifyArgon2id], c[goCred.MetricVerifySuccess], c[goCred.MetricVerifyMismatch])
	fmt.Printf("sign-in: ok=%d fail=%d\n",
		c[goCred.MetricSignInSuccess], c[goCred.MetricSignInFailure])
	fmt.Printf("import: created=%d updated=%d conflict_retries=%d\n",
		c[goCred.MetricImportCreated], c[goCred.MetricImportUpdated], c[goCred.MetricImportConflictRetry])
	if buckets, ok := snap.Histograms[goCred.MetricHashLatency]; ok {
		fmt.Printf("hash latency buckets: %v\n", buckets)
	}
}
