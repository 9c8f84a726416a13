package goCred

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the credential engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrUnsupportedHashFormat is an exported constant or variable used by the credential engine.
	ErrUnsupportedHashFormat = errors.New("unsupported password hash format")
	// ErrHashSelfCheckFailed is an exported constant or variable used by the credential engine.
	ErrHashSelfCheckFailed = errors.New("generated password hash failed format self-check")
	// ErrCredentialsInvalid is an exported constant or variable used by the credential engine.
	ErrCredentialsInvalid = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the credential engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailAlreadyExists is an exported constant or variable used by the credential engine.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrImportContention is an exported constant or variable used by the credential engine.
	ErrImportContention = errors.New("import retries exhausted under concurrent writes")
	// ErrStoreDuplicateEmail is an exported constant or variable used by the credential engine.
	ErrStoreDuplicateEmail = errors.New("store duplicate email")
	// ErrStoreUserNotFound is an exported constant or variable used by the credential engine.
	ErrStoreUserNotFound = errors.New("store user not found")
	// ErrStoreUnavailable is an exported constant or variable used by the credential engine.
	ErrStoreUnavailable = errors.New("store unavailable")
)
