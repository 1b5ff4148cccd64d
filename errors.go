package fount

import "errors"

var (
	// ErrOverfull indicates a slab delivery arrived while the reservoir was
	// already FULL - an invariant breach (spec: "overfull"), never a normal
	// runtime condition. It is fatal: see core.crash.
	ErrOverfull = errors.New(`fount: overfull: slab delivered while reservoir full`)

	// ErrBadWorker indicates Factory.SpawnOne returned something other than
	// a live worker. Per the Factory contract this is a programmer error in
	// the factory, not a condition the reservoir recovers from.
	ErrBadWorker = errors.New(`fount: spawn-one did not return a live worker`)

	// ErrClosed is returned by facade operations issued against a Fount that
	// has been (or is being) closed via [Fount.Close].
	ErrClosed = errors.New(`fount: closed`)

	// ErrInvalidConfig is returned by [New] and [NewNamed] when slabSize or
	// depth fail their minimums (slabSize >= 1, depth >= 2).
	ErrInvalidConfig = errors.New(`fount: invalid configuration`)

	// ErrNameTaken is returned by [NewNamed] when name is already registered.
	ErrNameTaken = errors.New(`fount: name already registered`)
)

// crashError wraps an invariant breach that terminated a core goroutine,
// so observers can distinguish "the core crashed" from an ordinary error
// returned by a single request, and recover the underlying cause via
// errors.Is/errors.As.
type crashError struct {
	cause error
}

func (e *crashError) Error() string { return `fount: core terminated: ` + e.cause.Error() }

func (e *crashError) Unwrap() error { return e.cause }
