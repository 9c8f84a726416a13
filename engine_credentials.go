package goCred

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SignUp describes the signup operation and its observable behavior.
//
// SignUp may return an error when input validation, dependency calls, or security checks fail.
// SignUp does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SignUp(ctx context.Context, email, password string) (*UserRecord, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	hash, err := e.HashPassword(ctx, password)
	if err != nil {
		e.emitAudit(ctx, auditEventSignUp, false, "", email, "", err, nil)
		return nil, err
	}

	record := UserRecord{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		TimeJoined:   time.Now().UTC(),
	}

	if err := e.store.InsertUser(ctx, record); err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.metricInc(MetricSignUpDuplicate)
			e.emitAudit(ctx, auditEventSignUp, false, "", email, "", ErrEmailAlreadyExists, nil)
			return nil, ErrEmailAlreadyExists
		}
		e.emitAudit(ctx, auditEventSignUp, false, "", email, "", err, nil)
		return nil, err
	}

	e.metricInc(MetricSignUpSuccess)
	e.emitAudit(ctx, auditEventSignUp, true, record.UserID, email, string(e.config.Hashing.Algorithm), nil, nil)

	return &record, nil
}

// SignIn describes the signin operation and its observable behavior.
//
// SignIn may return an error when input validation, dependency calls, or security checks fail.
// SignIn does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SignIn(ctx context.Context, email, password string) (*UserRecord, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStoreUserNotFound) {
			// Unknown email and wrong password are indistinguishable to the
			// caller so sign-in cannot be used as an account probe.
			e.metricInc(MetricSignInFailure)
			e.emitAudit(ctx, auditEventSignIn, false, "", email, "", ErrCredentialsInvalid, func() map[string]string {
				return map[string]string{
					"reason": "user_not_found",
				}
			})
			return nil, ErrCredentialsInvalid
		}
		e.emitAudit(ctx, auditEventSignIn, false, "", email, "", err, nil)
		return nil, err
	}

	ok, err := e.VerifyPassword(ctx, password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// A stored hash the engine cannot verify can never match; the audit
		// event keeps the underlying cause.
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, auditEventSignIn, false, user.UserID, email, "", err, func() map[string]string {
			return map[string]string{
				"reason": "verify_failed",
			}
		})
		return nil, ErrCredentialsInvalid
	}
	if !ok {
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, auditEventSignIn, false, user.UserID, email, "", ErrCredentialsInvalid, func() map[string]string {
			return map[string]string{
				"reason": "password_mismatch",
			}
		})
		return nil, ErrCredentialsInvalid
	}

	e.metricInc(MetricSignInSuccess)
	e.emitAudit(ctx, auditEventSignIn, true, user.UserID, email, "", nil, nil)

	return &user, nil
}

// UpdatePassword describes the updatepassword operation and its observable behavior.
//
// UpdatePassword may return an error when input validation, dependency calls, or security checks fail.
// UpdatePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	hash, err := e.HashPassword(ctx, newPassword)
	if err != nil {
		e.emitAudit(ctx, auditEventPasswordUpdate, false, userID, "", "", err, nil)
		return err
	}

	if err := e.store.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, ErrStoreUserNotFound) {
			e.emitAudit(ctx, auditEventPasswordUpdate, false, userID, "", "", ErrUserNotFound, nil)
			return ErrUserNotFound
		}
		e.emitAudit(ctx, auditEventPasswordUpdate, false, userID, "", "", err, nil)
		return err
	}

	e.metricInc(MetricPasswordUpdateSuccess)
	e.emitAudit(ctx, auditEventPasswordUpdate, true, userID, "", "", nil, nil)

	return nil
}
