package goCred

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config defines a public type used by goCred APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Hashing HashingConfig
	Import  ImportConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
HASHING CONFIG
====================================
*/

// HashingConfig defines a public type used by goCred APIs.
//
// HashingConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HashingConfig struct {
	Algorithm         HashAlgorithm `env:"GOCRED_HASHING_ALGORITHM" envDefault:"bcrypt"`
	BcryptLogRounds   int           `env:"GOCRED_BCRYPT_LOG_ROUNDS" envDefault:"11"`
	Argon2Iterations  uint32        `env:"GOCRED_ARGON2_ITERATIONS" envDefault:"1"`
	Argon2MemoryKB    uint32        `env:"GOCRED_ARGON2_MEMORY_KB" envDefault:"87795"`
	Argon2Parallelism uint8         `env:"GOCRED_ARGON2_PARALLELISM" envDefault:"2"`
	Argon2SaltLength  uint32        `env:"GOCRED_ARGON2_SALT_LENGTH" envDefault:"16"`
	Argon2KeyLength   uint32        `env:"GOCRED_ARGON2_KEY_LENGTH" envDefault:"32"`
	Argon2PoolSize    int           `env:"GOCRED_ARGON2_POOL_SIZE" envDefault:"1"`
}

/*
====================================
IMPORT CONFIG
====================================
*/

// ImportConfig defines a public type used by goCred APIs.
//
// ImportConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ImportConfig struct {
	MaxRetries int `env:"GOCRED_IMPORT_MAX_RETRIES" envDefault:"4"`
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goCred APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool `env:"GOCRED_AUDIT_ENABLED" envDefault:"false"`
	BufferSize int  `env:"GOCRED_AUDIT_BUFFER_SIZE" envDefault:"1024"`
	DropIfFull bool `env:"GOCRED_AUDIT_DROP_IF_FULL" envDefault:"true"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goCred APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool `env:"GOCRED_METRICS_ENABLED" envDefault:"false"`
	EnableLatencyHistograms bool `env:"GOCRED_METRICS_LATENCY_HISTOGRAMS" envDefault:"false"`
}

func defaultConfig() Config {
	return Config{
		Hashing: HashingConfig{
			Algorithm:         AlgorithmBcrypt,
			BcryptLogRounds:   11,
			Argon2Iterations:  1,
			Argon2MemoryKB:    87795,
			Argon2Parallelism: 2,
			Argon2SaltLength:  16,
			Argon2KeyLength:   32,
			Argon2PoolSize:    1,
		},
		Import: ImportConfig{
			MaxRetries: 4,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the baseline configuration: bcrypt hashing at log
// rounds 11, Argon2 tuned to the stock memory-hard parameters for verifying
// imported hashes, auditing and metrics disabled.
func DefaultConfig() Config {
	return defaultConfig()
}

// MemoryHardConfig returns the baseline configuration with Argon2id
// selected for new hashes. The single-slot hashing pool is deliberate:
// each computation holds the configured memory, so raise Argon2PoolSize
// together with available RAM, not request volume.
func MemoryHardConfig() Config {
	cfg := defaultConfig()
	cfg.Hashing.Algorithm = AlgorithmArgon2
	return cfg
}

// LoadConfigFromEnv builds a [Config] from GOCRED_* environment variables,
// falling back to the baseline defaults for anything unset.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Hashing
	switch c.Hashing.Algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2:
		// valid
	default:
		return errors.New("Hashing Algorithm must be 'bcrypt' or 'argon2'")
	}

	if c.Hashing.BcryptLogRounds <= 0 {
		return errors.New("Hashing BcryptLogRounds must be > 0")
	}
	if c.Hashing.Argon2Iterations == 0 {
		return errors.New("Hashing Argon2Iterations must be > 0")
	}
	if c.Hashing.Argon2MemoryKB == 0 {
		return errors.New("Hashing Argon2MemoryKB must be > 0")
	}
	if c.Hashing.Argon2Parallelism == 0 {
		return errors.New("Hashing Argon2Parallelism must be > 0")
	}
	if c.Hashing.Argon2SaltLength == 0 {
		return errors.New("Hashing Argon2SaltLength must be > 0")
	}
	if c.Hashing.Argon2KeyLength == 0 {
		return errors.New("Hashing Argon2KeyLength must be > 0")
	}
	if c.Hashing.Argon2PoolSize <= 0 {
		return errors.New("Hashing Argon2PoolSize must be > 0")
	}

	// Import
	if c.Import.MaxRetries <= 0 {
		return errors.New("Import MaxRetries must be > 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}
