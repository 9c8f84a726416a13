package goCred

import (
	"time"

	"github.com/MrEthical07/goCred/internal/gate"
	"github.com/MrEthical07/goCred/password"
)

// Engine defines a public type used by goCred APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config    Config
	bcrypt    *password.Bcrypt
	argon2    *password.Argon2
	argonGate *gate.Gate
	store     UserStore
	audit     *auditDispatcher
	metrics   *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// GateOccupancy reports how many Argon2 computations currently hold a
// slot in the admission gate. Intended for operational dashboards; the
// value is already stale by the time the caller reads it.
//
//	Docs: docs/hashing.md
func (e *Engine) GateOccupancy() int64 {
	if e == nil || e.argonGate == nil {
		return 0
	}
	return e.argonGate.Occupancy()
}

// GateCapacity reports the configured Argon2 admission gate size.
//
//	Docs: docs/hashing.md
func (e *Engine) GateCapacity() int64 {
	if e == nil || e.argonGate == nil {
		return 0
	}
	return e.argonGate.Capacity()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}
