package goCred

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goCred/hashformat"
)

// HashPassword describes the hashpassword operation and its observable behavior.
//
// HashPassword may return an error when input validation, dependency calls, or security checks fail.
// HashPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) HashPassword(ctx context.Context, plaintext string) (string, error) {
	if e == nil || e.bcrypt == nil || e.argon2 == nil {
		return "", ErrEngineNotReady
	}

	start := time.Now()

	var hash string

	switch e.config.Hashing.Algorithm {
	case AlgorithmArgon2:
		err := e.argonGate.Do(ctx, func() error {
			h, hashErr := e.argon2.Hash(plaintext)
			if hashErr != nil {
				return hashErr
			}
			hash = h
			return nil
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				e.metricInc(MetricGateWaitAbandoned)
			}
			e.emitAudit(ctx, auditEventHashCreated, false, "", "", string(AlgorithmArgon2), err, nil)
			return "", err
		}
		e.metricInc(MetricHashArgon2)
	case AlgorithmBcrypt:
		h, err := e.bcrypt.Hash(plaintext)
		if err != nil {
			e.emitAudit(ctx, auditEventHashCreated, false, "", "", string(AlgorithmBcrypt), err, nil)
			return "", err
		}
		hash = h
		e.metricInc(MetricHashBcrypt)
	default:
		return "", ErrEngineNotReady
	}

	// The engine must never emit a hash it cannot later verify.
	if !hashformat.IsSupportedFormat(hash) {
		e.emitAudit(ctx, auditEventHashCreated, false, "", "", string(e.config.Hashing.Algorithm), ErrHashSelfCheckFailed, nil)
		return "", ErrHashSelfCheckFailed
	}

	e.metricObserve(MetricHashLatency, time.Since(start))
	e.emitAudit(ctx, auditEventHashCreated, true, "", "", string(e.config.Hashing.Algorithm), nil, nil)

	return hash, nil
}

// VerifyPassword describes the verifypassword operation and its observable behavior.
//
// VerifyPassword may return an error when input validation, dependency calls, or security checks fail.
// VerifyPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifyPassword(ctx context.Context, plaintext, hash string) (bool, error) {
	if e == nil || e.bcrypt == nil || e.argon2 == nil {
		return false, ErrEngineNotReady
	}

	start := time.Now()
	family := hashformat.Detect(hash)

	var (
		ok  bool
		err error
	)

	switch family {
	case hashformat.FamilyArgon2id:
		e.metricInc(MetricVerifyArgon2id)
		ok, err = e.verifyArgon2Gated(ctx, plaintext, hash)
	case hashformat.FamilyArgon2i:
		e.metricInc(MetricVerifyArgon2i)
		ok, err = e.verifyArgon2Gated(ctx, plaintext, hash)
	case hashformat.FamilyArgon2d:
		// Recognized on import for compatibility, but no verification
		// primitive exists for the d variant here.
		e.metricInc(MetricUnsupportedFormat)
		e.emitAudit(ctx, auditEventHashFormatRejected, false, "", "", family.String(), ErrUnsupportedHashFormat, nil)
		return false, ErrUnsupportedHashFormat
	case hashformat.FamilyBcrypt:
		e.metricInc(MetricVerifyBcrypt)
		ok, err = e.bcrypt.Verify(plaintext, hashformat.NormalizeBcryptIdentifier(hash))
	default:
		e.metricInc(MetricUnsupportedFormat)
		e.emitAudit(ctx, auditEventHashFormatRejected, false, "", "", family.String(), ErrUnsupportedHashFormat, nil)
		return false, ErrUnsupportedHashFormat
	}

	if err != nil {
		e.emitAudit(ctx, auditEventPasswordVerify, false, "", "", family.String(), err, nil)
		return false, err
	}

	if ok {
		e.metricInc(MetricVerifySuccess)
	} else {
		e.metricInc(MetricVerifyMismatch)
	}
	e.metricObserve(MetricHashLatency, time.Since(start))
	e.emitAudit(ctx, auditEventPasswordVerify, ok, "", "", family.String(), nil, nil)

	return ok, nil
}

// IsSupportedHashFormat describes the issupportedhashformat operation and its observable behavior.
//
// IsSupportedHashFormat may return an error when input validation, dependency calls, or security checks fail.
// IsSupportedHashFormat does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsSupportedHashFormat(hash string) bool {
	return hashformat.IsSupportedFormat(hash)
}

// CheckAlgorithmMatchesFormat describes the checkalgorithmmatchesformat operation and its observable behavior.
//
// CheckAlgorithmMatchesFormat may return an error when input validation, dependency calls, or security checks fail.
// CheckAlgorithmMatchesFormat does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CheckAlgorithmMatchesFormat(algorithm HashAlgorithm, hash string) error {
	family := hashformat.Detect(hash)

	switch algorithm {
	case AlgorithmArgon2:
		if !hashformat.IsArgon2Format(hash) {
			return fmt.Errorf("%w: hash format %s does not match declared algorithm %q", ErrUnsupportedHashFormat, family, algorithm)
		}
	case AlgorithmBcrypt:
		if !hashformat.IsBcryptFormat(hash) {
			return fmt.Errorf("%w: hash format %s does not match declared algorithm %q", ErrUnsupportedHashFormat, family, algorithm)
		}
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrUnsupportedHashFormat, algorithm)
	}

	return nil
}

func (e *Engine) verifyArgon2Gated(ctx context.Context, plaintext, hash string) (bool, error) {
	var ok bool
	err := e.argonGate.Do(ctx, func() error {
		var verifyErr error
		ok, verifyErr = e.argon2.Verify(plaintext, hash)
		return verifyErr
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			e.metricInc(MetricGateWaitAbandoned)
		}
		return false, err
	}
	return ok, nil
}
