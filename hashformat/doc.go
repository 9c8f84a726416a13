// Package hashformat classifies encoded password hashes by their
// self-describing prefix.
//
// # Recognized families
//
// Bcrypt hashes carry one of four historical identifiers ($2a, $2b, $2x,
// $2y); Argon2 hashes carry a variant identifier ($argon2id, $argon2i,
// $argon2d). Classification is a cheap prefix sniff, not a structural or
// cryptographic validation — malformed bodies are rejected later by the
// verification primitives.
//
// # What this package must NOT do
//
//   - Parse cost parameters, salts, or digests.
//   - Import any other goCred package.
//   - Perform I/O.
package hashformat
