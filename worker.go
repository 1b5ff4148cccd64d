package fount

import "context"

type (
	// Worker is a dispensed, independently-scheduled task. It wraps whatever
	// handle the [Factory] produced, plus a core-local ID used only for log
	// correlation - it has no bearing on dispense order or any invariant.
	Worker struct {
		id     uint64
		handle any
	}

	// Factory is the external worker-factory contract. The reservoir only
	// invokes these two methods; it does not define worker behavior.
	Factory interface {
		// SpawnOne produces one live worker, owned by the reservoir until
		// dispensed. Implementations must link the worker's lifetime to
		// core, so it terminates if core terminates while the worker is
		// still idle (see [CoreRef.Linked]).
		//
		// Anything other than a live worker (a nil handle, or a non-nil
		// error) is treated as a fatal programming error: the allocator,
		// and thus the reservoir, fails fast rather than retrying.
		SpawnOne(ctx context.Context, core CoreRef) (handle any, err error)

		// Deliver hands msg to the worker identified by handle, transferring
		// ownership away from the reservoir. Errors are caught by the
		// reservoir and reported per-worker; they do not abort a batch.
		// A worker that has received its message no longer belongs to the
		// reservoir: implementations stop selecting on [CoreRef.Linked] for
		// it from then on.
		Deliver(ctx context.Context, handle any, msg any) error
	}

	// CoreRef is an opaque back-reference from a worker to the reservoir
	// core, handed to Factory.SpawnOne. It is a lookup and a lifetime link,
	// never an ownership handle or a channel for mutating core state.
	CoreRef interface {
		// Linked returns a channel closed when the reservoir wants this
		// worker's idle lifetime torn down, which happens when the core
		// itself terminates (on Close or on an invariant breach). Factories
		// must select on this alongside their own worker loop.
		Linked() <-chan struct{}
	}

	// TaskResult pairs a dispensed Worker with the outcome of delivering its
	// message: Err is nil unless Factory.Deliver failed for that worker,
	// in which case the worker is still valid (ownership still flipped) but
	// the caller-supplied message was not successfully handed off.
	TaskResult struct {
		Worker Worker
		Err    error
	}
)

// Handle returns the opaque value the Factory produced for this worker.
func (w Worker) Handle() any { return w.handle }

// ID returns a core-local identifier, minted at spawn time, for log
// correlation. It carries no ordering or uniqueness guarantee beyond a
// single Fount instance's lifetime.
func (w Worker) ID() uint64 { return w.id }
