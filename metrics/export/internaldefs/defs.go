package internaldefs

import (
	goCred "github.com/MrEthical07/goCred"
)

// CounterDef defines a public type used by goCred APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goCred.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goCred APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goCred.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the credential engine.
var CounterDefs = []CounterDef{
	{ID: goCred.MetricHashBcrypt, Name: "gocred_hash_bcrypt_total", Help: "Bcrypt hash computations."},
	{ID: goCred.MetricHashArgon2, Name: "gocred_hash_argon2_total", Help: "Argon2id hash computations."},
	{ID: goCred.MetricVerifyBcrypt, Name: "gocred_verify_bcrypt_total", Help: "Verifications dispatched to bcrypt."},
	{ID: goCred.MetricVerifyArgon2id, Name: "gocred_verify_argon2id_total", Help: "Verifications dispatched to Argon2id."},
	{ID: goCred.MetricVerifyArgon2i, Name: "gocred_verify_argon2i_total", Help: "Verifications dispatched to Argon2i."},
	{ID: goCred.MetricVerifySuccess, Name: "gocred_verify_success_total", Help: "Verifications where the password matched."},
	{ID: goCred.MetricVerifyMismatch, Name: "gocred_verify_mismatch_total", Help: "Verifications where the password did not match."},
	{ID: goCred.MetricUnsupportedFormat, Name: "gocred_unsupported_format_total", Help: "Operations rejected for unrecognized or unverifiable hash formats."},
	{ID: goCred.MetricGateWaitAbandoned, Name: "gocred_gate_wait_abandoned_total", Help: "Argon2 gate waits abandoned by context cancellation."},
	{ID: goCred.MetricImportCreated, Name: "gocred_import_created_total", Help: "Imports that created a new user."},
	{ID: goCred.MetricImportUpdated, Name: "gocred_import_updated_total", Help: "Imports that overwrote an existing user's hash."},
	{ID: goCred.MetricImportConflictRetry, Name: "gocred_import_conflict_retry_total", Help: "Import attempts retried after losing a store race."},
	{ID: goCred.MetricSignUpSuccess, Name: "gocred_sign_up_success_total", Help: "Successful sign-ups."},
	{ID: goCred.MetricSignUpDuplicate, Name: "gocred_sign_up_duplicate_total", Help: "Sign-up attempts rejected as duplicate email."},
	{ID: goCred.MetricSignInSuccess, Name: "gocred_sign_in_success_total", Help: "Successful sign-ins."},
	{ID: goCred.MetricSignInFailure, Name: "gocred_sign_in_failure_total", Help: "Failed sign-ins."},
	{ID: goCred.MetricPasswordUpdateSuccess, Name: "gocred_password_update_success_total", Help: "Successful password updates."},
}

// HistogramDefs is an exported constant or variable used by the credential engine.
var HistogramDefs = []HistogramDef{
	{ID: goCred.MetricHashLatency, Name: "gocred_hash_latency_seconds", Help: "Hash operation latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the credential engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the credential engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
