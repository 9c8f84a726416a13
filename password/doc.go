// Package password implements the bcrypt and Argon2 hashing primitives the
// credential engine dispatches to.
//
// # Output formats
//
// Bcrypt hashes use the standard modular crypt format with the $2a
// identifier. Argon2 hashes are encoded in PHC string format with unpadded
// standard base64:
//
//	$argon2id$v=19$m=<memoryKB>,t=<iterations>,p=<parallelism>$<salt>$<hash>
//
// # Verification contract
//
// Verification always re-derives with the cost parameters carried inside
// the encoded hash, never with the hasher's configured parameters, so
// hashes imported from external systems verify regardless of local tuning.
// [Argon2.NeedsRehash] and [Bcrypt.NeedsRehash] report when a stored hash
// is weaker than the current configuration so callers can re-hash on the
// next successful verification.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy,
// algorithm selection, and concurrency admission are enforced by the
// Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other goCred package.
//   - Reject a parseable hash because its recorded cost is below current policy.
package password
