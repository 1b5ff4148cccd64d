package fount

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// defaultReplyTimeout is applied to a caller-supplied context.Background()
// (or any context with no deadline of its own) by every synchronous facade
// operation. An explicit caller deadline is always honored instead.
const defaultReplyTimeout = 500 * time.Millisecond

// Option configures a Fount at construction time.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger overrides the zerolog.Logger used for the reservoir's
// structured logs. Defaults to a logger writing to os.Stderr at info level.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Fount is a pre-allocated worker reservoir. Construct with [New] or
// [NewNamed]; call [Fount.Close] when done.
type Fount struct {
	core *core
	name string
}

// New constructs a Fount backed by factory, with slabSize workers per slab
// and depth total slabs (including the partial fount) at steady state.
// slabSize must be >= 1 and depth must be >= 2. depth allocators start
// immediately in the background; the Fount begins in state EMPTY.
func New(factory Factory, slabSize, depth int, opts ...Option) (*Fount, error) {
	if factory == nil || slabSize < 1 || depth < 2 {
		return nil, fmt.Errorf(`%w: slabSize=%d depth=%d factory-nil=%v`, ErrInvalidConfig, slabSize, depth, factory == nil)
	}

	cfg := options{logger: zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Str(`component`, `fount`).Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := newCore(context.Background(), factory, slabSize, depth, cfg.logger)
	go c.run()

	f := &Fount{core: c}
	c.spawnReplacements(depth)
	return f, nil
}

// NewNamed is [New], plus registering the resulting Fount under name, so it
// can later be found via [Lookup]. Returns [ErrNameTaken] if name is
// already registered.
func NewNamed(name string, factory Factory, slabSize, depth int, opts ...Option) (*Fount, error) {
	if err := registerName(name); err != nil {
		return nil, err
	}
	f, err := New(factory, slabSize, depth, opts...)
	if err != nil {
		unregisterName(name)
		return nil, err
	}
	f.name = name
	registry.Store(name, f)
	return f, nil
}

// Close stops accepting new requests, tears down every idle worker and
// in-flight Slab Allocator (linked to the core's lifetime), and waits for
// the core goroutine to exit or ctx to expire.
func (f *Fount) Close(ctx context.Context) error {
	f.core.cancel()
	if f.name != `` {
		unregisterName(f.name)
	}
	select {
	case <-f.core.exited:
		if f.core.crashErr != nil {
			return f.core.crashErr
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// withDeadline applies defaultReplyTimeout if ctx has no deadline of its
// own; an explicit caller deadline always wins.
func withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultReplyTimeout)
}

// call sends msg built by build (which closes over a fresh, 1-buffered
// reply channel so the core never blocks sending its reply even if this
// call abandons the wait due to ctx/closure) and waits for the reply.
func call[T any](f *Fount, ctx context.Context, build func(reply chan T) coreMsg) (T, error) {
	var zero T

	reply := make(chan T, 1)
	msg := build(reply)

	select {
	case f.core.cmdCh <- msg:
	case <-f.core.ctx.Done():
		return zero, f.closedErr()
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case v := <-reply:
		return v, nil
	case <-f.core.ctx.Done():
		return zero, f.closedErr()
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (f *Fount) closedErr() error {
	if f.core.crashErr != nil {
		return f.core.crashErr
	}
	return ErrClosed
}

// GetOne requests a single worker. ok is false if the request was refused
// (the reservoir's current inventory is empty) - not an error.
func (f *Fount) GetOne(ctx context.Context) (w Worker, ok bool, err error) {
	workers, err := f.GetMany(ctx, 1)
	if err != nil {
		return Worker{}, false, err
	}
	if len(workers) == 0 {
		return Worker{}, false, nil
	}
	return workers[0], true, nil
}

// GetMany requests n workers. A nil, non-error result means the request was
// refused: n exceeds current inventory. n must be >= 0.
func (f *Fount) GetMany(ctx context.Context, n int) ([]Worker, error) {
	if n < 0 {
		return nil, fmt.Errorf(`fount: n must be >= 0, got %d`, n)
	}
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	res, err := call(f, ctx, func(reply chan dispenseResult) coreMsg {
		return dispenseReq{n: n, reply: reply}
	})
	if err != nil {
		return nil, err
	}
	return res.workers, nil
}

// TaskOne requests one worker and delivers msg to it. ok is false if the
// request was refused. A non-nil TaskResult.Err means the worker was
// dispensed but Factory.Deliver failed for it.
func (f *Fount) TaskOne(ctx context.Context, msg any) (result TaskResult, ok bool, err error) {
	results, err := f.TaskMany(ctx, []any{msg})
	if err != nil {
		return TaskResult{}, false, err
	}
	if len(results) == 0 {
		return TaskResult{}, false, nil
	}
	return results[0], true, nil
}

// TaskMany requests len(msgs) workers and delivers msgs to them
// position-wise. A nil, non-error result means the request was refused. One
// faulty Factory.Deliver does not abort the batch - it surfaces as that
// position's TaskResult.Err.
func (f *Fount) TaskMany(ctx context.Context, msgs []any) ([]TaskResult, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	res, err := call(f, ctx, func(reply chan taskResult) coreMsg {
		return taskReq{msgs: msgs, reply: reply}
	})
	if err != nil {
		return nil, err
	}
	if len(res.results) == 0 {
		return nil, nil
	}

	// Delivery happens here, outside the core: ownership already flipped
	// when the dispense reply was built (see core.handleTask).
	for i := range res.results {
		w := res.results[i].Worker
		if dErr := f.core.factory.Deliver(ctx, w.Handle(), msgs[i]); dErr != nil {
			res.results[i].Err = fmt.Errorf(`fount: deliver: %w`, dErr)
		}
	}
	return res.results, nil
}

// Status returns a point-in-time snapshot of the reservoir.
func (f *Fount) Status(ctx context.Context) (Status, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	return call(f, ctx, func(reply chan Status) coreMsg {
		return statusReq{reply: reply}
	})
}

// SpawnRatePerSlab is the average elapsed microseconds across every slab
// currently held (including the fount's elapsed time iff the fount is
// non-empty), rounded to hundredths.
func (f *Fount) SpawnRatePerSlab(ctx context.Context) (float64, error) {
	return f.rate(ctx, ratePerSlab)
}

// SpawnRatePerProcess is total elapsed microseconds divided by total
// workers held, rounded to hundredths.
func (f *Fount) SpawnRatePerProcess(ctx context.Context) (float64, error) {
	return f.rate(ctx, ratePerProcess)
}

func (f *Fount) rate(ctx context.Context, kind rateKind) (float64, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	return call(f, ctx, func(reply chan float64) coreMsg {
		return rateReq{kind: kind, reply: reply}
	})
}
