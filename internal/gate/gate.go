package gate

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate is a counting-semaphore admission gate with a fixed capacity.
type Gate struct {
	sem       *semaphore.Weighted
	capacity  int64
	occupancy atomic.Int64
}

// New creates a Gate with the given slot capacity. Capacity below one is
// raised to one so a misconfigured gate degrades to serial execution
// instead of deadlocking every caller.
func New(capacity int64) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		sem:      semaphore.NewWeighted(capacity),
		capacity: capacity,
	}
}

// Acquire blocks until a slot is available or ctx is cancelled. On
// cancellation it returns ctx.Err() and holds no slot.
func (g *Gate) Acquire(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.occupancy.Add(1)
	return nil
}

// Release frees exactly one previously acquired slot. It never blocks.
func (g *Gate) Release() {
	g.occupancy.Add(-1)
	g.sem.Release(1)
}

// Do runs fn inside an acquired slot. The slot is released on every exit
// path, including a panic inside fn. If the wait is cancelled fn never
// runs and the context error is returned.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn()
}

// Occupancy returns the number of currently held slots.
func (g *Gate) Occupancy() int64 {
	return g.occupancy.Load()
}

// Capacity returns the configured slot ceiling.
func (g *Gate) Capacity() int64 {
	return g.capacity
}
