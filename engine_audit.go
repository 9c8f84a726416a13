package goCred

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventHashCreated        = "password_hash_created"
	auditEventPasswordVerify     = "password_verify"
	auditEventUserImport         = "user_import"
	auditEventSignUp             = "sign_up"
	auditEventSignIn             = "sign_in"
	auditEventPasswordUpdate     = "password_update"
	auditEventHashFormatRejected = "hash_format_rejected"
)

// AuditErrorCode defines a public type used by goCred APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrUnsupportedFormat  AuditErrorCode = "unsupported_hash_format"
	auditErrSelfCheckFailed    AuditErrorCode = "hash_self_check_failed"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrContention         AuditErrorCode = "import_contention"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	email string,
	algorithm string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		Algorithm: algorithm,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrCredentialsInvalid):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrUnsupportedHashFormat):
		return auditErrUnsupportedFormat
	case errors.Is(err, ErrHashSelfCheckFailed):
		return auditErrSelfCheckFailed
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrStoreUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrStoreDuplicateEmail):
		return auditErrDuplicate
	case errors.Is(err, ErrImportContention):
		return auditErrContention
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
