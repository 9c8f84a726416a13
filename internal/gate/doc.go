// Package gate bounds the number of concurrently executing expensive hash
// computations.
//
// # Semantics
//
// A [Gate] holds a fixed number of slots. Acquire blocks until a slot frees
// or the caller's context is cancelled; a cancelled wait holds nothing.
// Release frees exactly one slot and never blocks. Do wraps a function in
// acquire/release so the slot is returned on every exit path. Acquisition
// order is not FIFO; any waiter may win a freed slot.
//
// # What this package must NOT do
//
//   - Know which algorithm it is throttling.
//   - Be imported outside the goCred module.
package gate
