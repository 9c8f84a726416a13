package goCred

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goCred/hashformat"
)

// ImportUserWithHash describes the importuserwithhash operation and its observable behavior.
//
// ImportUserWithHash may return an error when input validation, dependency calls, or security checks fail.
// ImportUserWithHash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ImportUserWithHash(ctx context.Context, email, hash string) (ImportResult, error) {
	if e == nil || e.store == nil {
		return ImportResult{}, ErrEngineNotReady
	}

	if !hashformat.IsSupportedFormat(hash) {
		e.metricInc(MetricUnsupportedFormat)
		e.emitAudit(ctx, auditEventHashFormatRejected, false, "", email, "", ErrUnsupportedHashFormat, nil)
		return ImportResult{}, ErrUnsupportedHashFormat
	}

	family := hashformat.Detect(hash)

	for attempt := 0; attempt < e.config.Import.MaxRetries; attempt++ {
		existing, err := e.store.FindUserByEmail(ctx, email)

		switch {
		case err == nil:
			// Administrative override: replace the stored hash without
			// checking it against the previous one. Identifier and join
			// timestamp stay as they were.
			if updateErr := e.store.UpdatePasswordHash(ctx, existing.UserID, hash); updateErr != nil {
				if errors.Is(updateErr, ErrStoreUserNotFound) {
					// Deleted between lookup and update. Retry from the top
					// so the next pass takes the create path.
					e.metricInc(MetricImportConflictRetry)
					continue
				}
				e.emitAudit(ctx, auditEventUserImport, false, existing.UserID, email, family.String(), updateErr, nil)
				return ImportResult{}, updateErr
			}

			existing.PasswordHash = hash
			e.metricInc(MetricImportUpdated)
			e.emitAudit(ctx, auditEventUserImport, true, existing.UserID, email, family.String(), nil, func() map[string]string {
				return map[string]string{
					"did_user_already_exist": "true",
				}
			})
			return ImportResult{User: existing, DidUserAlreadyExist: true}, nil

		case errors.Is(err, ErrStoreUserNotFound):
			record := UserRecord{
				UserID:       uuid.NewString(),
				Email:        email,
				PasswordHash: hash,
				TimeJoined:   time.Now().UTC(),
			}

			insertErr := e.store.InsertUser(ctx, record)
			if insertErr == nil {
				e.metricInc(MetricImportCreated)
				e.emitAudit(ctx, auditEventUserImport, true, record.UserID, email, family.String(), nil, func() map[string]string {
					return map[string]string{
						"did_user_already_exist": "false",
					}
				})
				return ImportResult{User: record, DidUserAlreadyExist: false}, nil
			}
			if errors.Is(insertErr, ErrStoreDuplicateEmail) {
				// Lost a concurrent create race. Retry from the top so the
				// next pass takes the update path.
				e.metricInc(MetricImportConflictRetry)
				continue
			}
			e.emitAudit(ctx, auditEventUserImport, false, record.UserID, email, family.String(), insertErr, nil)
			return ImportResult{}, insertErr

		default:
			e.emitAudit(ctx, auditEventUserImport, false, "", email, family.String(), err, nil)
			return ImportResult{}, err
		}
	}

	e.emitAudit(ctx, auditEventUserImport, false, "", email, family.String(), ErrImportContention, nil)
	return ImportResult{}, ErrImportContention
}
