// Package redis provides a Redis-backed credential store implementing
// the goCred UserStore contract.
//
// Layout: one hash per user at <prefix>:user:<id> and a string index at
// <prefix>:email:<email> holding the user id. The index is written with
// SetNX so a concurrent insert for the same email loses deterministically.
//
// # What this package must NOT do
//
//   - Inspect or validate password hashes; it stores opaque strings.
//   - Retry beyond its own optimistic-locking loop; callers own backoff.
//   - Leak go-redis errors; infra failures wrap goCred.ErrStoreUnavailable.
package redis
