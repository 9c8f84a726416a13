// Package goCred provides a credential hashing and verification engine with
// bcrypt and Argon2id password hashing, legacy hash import, and pluggable
// user storage.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goCred is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (UserRecord, ImportResult, MetricsSnapshot, etc.). Hash-format detection lives in the
// hashformat sub-package; the hashers themselves live in password. The Argon2 admission
// gate lives under internal/ and is never exported; audit dispatch stays in this package
// behind the [AuditSink] interface.
//
// # What this package must NOT do
//
//   - Expose store clients, hasher internals, or gate handles in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//   - Import any sub-package that re-imports goCred (no import cycles).
//
// # Performance contract
//
// VerifyPassword against a bcrypt hash is the hot path for migrated user bases. It must
// dispatch on the hash format without allocating intermediate parse state and must not
// touch the Argon2 admission gate. Argon2 computations are memory-bound and always pass
// through the gate, bounding worst-case resident memory at roughly
// Argon2MemoryKB * Argon2PoolSize.
package goCred
