package goCred

import (
	"errors"
	"fmt"
	"strings"
)

// LintSeverity defines a public type used by goCred APIs.
//
// LintSeverity instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LintSeverity int

const (
	// LintInfo is an exported constant or variable used by the credential engine.
	LintInfo LintSeverity = iota
	// LintWarn is an exported constant or variable used by the credential engine.
	LintWarn
	// LintHigh is an exported constant or variable used by the credential engine.
	LintHigh
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning defines a public type used by goCred APIs.
//
// LintWarning instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintWarnings defines a public type used by goCred APIs.
//
// LintWarnings instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LintWarnings []LintWarning

// Codes describes the codes operation and its observable behavior.
//
// Codes may return an error when input validation, dependency calls, or security checks fail.
// Codes does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (ws LintWarnings) Codes() []string {
	codes := make([]string, 0, len(ws))
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}

// BySeverity returns the warnings at or above the given severity.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	var out LintWarnings
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError returns a single error describing the warnings at or above the
// given severity, or nil when there are none. Useful for hosts that want
// to refuse to start on a weakened configuration.
func (ws LintWarnings) AsError(min LintSeverity) error {
	matched := ws.BySeverity(min)
	if len(matched) == 0 {
		return nil
	}

	var b strings.Builder
	for i, w := range matched {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "[%s] %s: %s", w.Severity, w.Code, w.Message)
	}
	return errors.New(b.String())
}

// Lint inspects the configuration for settings that validate but weaken the
// deployment. Unlike [Config.Validate], none of these block [Builder.Build];
// hosts decide what to do with the findings (log them, or fail start-up via
// [LintWarnings.AsError]).
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings

	add := func(code string, severity LintSeverity, format string, args ...any) {
		ws = append(ws, LintWarning{
			Code:     code,
			Severity: severity,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if c.Hashing.BcryptLogRounds > 0 && c.Hashing.BcryptLogRounds < 10 {
		add("bcrypt_rounds_low", LintHigh,
			"bcrypt log rounds %d is below 10; offline cracking of leaked hashes becomes practical", c.Hashing.BcryptLogRounds)
	}
	if c.Hashing.BcryptLogRounds > 15 {
		add("bcrypt_rounds_high", LintWarn,
			"bcrypt log rounds %d pushes each sign-in past a second of CPU", c.Hashing.BcryptLogRounds)
	}

	if c.Hashing.Argon2MemoryKB > 0 && c.Hashing.Argon2MemoryKB < 64*1024 {
		add("argon2_memory_low", LintWarn,
			"argon2 memory %d KB is below the 64 MB floor recommended for password hashing", c.Hashing.Argon2MemoryKB)
	}

	// Peak hashing RAM is pool size times per-computation memory.
	poolKB := uint64(c.Hashing.Argon2PoolSize) * uint64(c.Hashing.Argon2MemoryKB)
	if c.Hashing.Argon2PoolSize > 0 && poolKB > 1<<20 {
		add("argon2_pool_memory_high", LintWarn,
			"argon2 pool of %d at %d KB each holds %d KB at peak; size the pool to available RAM", c.Hashing.Argon2PoolSize, c.Hashing.Argon2MemoryKB, poolKB)
	}

	if c.Import.MaxRetries == 1 {
		add("import_retries_low", LintWarn,
			"a single import attempt cannot absorb any concurrent-write race")
	}

	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo,
			"auditing is off; credential operations leave no trail")
	} else if !c.Audit.DropIfFull {
		add("audit_blocking", LintWarn,
			"a full audit buffer will back-pressure credential operations instead of dropping events")
	}

	return ws
}
