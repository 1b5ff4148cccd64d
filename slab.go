package fount

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// allocate is the Slab Allocator's entire job: call factory.SpawnOne
// sequentially slabSize times, timing the whole run, and return exactly one
// Slab. Any non-worker return from SpawnOne (including ctx cancellation
// surfaced as an error) aborts the slab; a cancellation is reported as-is
// so the caller can distinguish an expected shutdown from a real failure.
func allocate(ctx context.Context, ref CoreRef, factory Factory, slabSize int, nextID *atomic.Uint64) (Slab, error) {
	start := time.Now()
	workers := make([]Worker, 0, slabSize)

	for i := 0; i < slabSize; i++ {
		if err := ctx.Err(); err != nil {
			return Slab{}, err
		}

		handle, err := factory.SpawnOne(ctx, ref)
		if err != nil {
			return Slab{}, fmt.Errorf(`fount: slab allocator: spawn-one: %w`, err)
		}
		if handle == nil {
			return Slab{}, fmt.Errorf(`%w: spawn-one returned a nil handle`, ErrBadWorker)
		}

		workers = append(workers, Worker{id: nextID.Add(1), handle: handle})
	}

	return Slab{Workers: workers, Elapsed: time.Since(start)}, nil
}
