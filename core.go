package fount

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

type (
	// coreMsg is the sum type of everything that crosses the core's command
	// channel: synchronous requests and asynchronous slab deliveries alike,
	// all on the same channel so they serialize in true arrival order - no
	// two-channel select bias between requests and slab events.
	coreMsg any

	dispenseReq struct {
		n     int
		reply chan dispenseResult
	}

	dispenseResult struct {
		workers []Worker
	}

	taskReq struct {
		msgs  []any
		reply chan taskResult
	}

	taskResult struct {
		results []TaskResult
	}

	statusReq struct {
		reply chan Status
	}

	rateKind int

	rateReq struct {
		kind  rateKind
		reply chan float64
	}

	slabMsg struct {
		slab Slab
		err  error
	}
)

const (
	ratePerSlab rateKind = iota
	ratePerProcess
)

// core is the reservoir's single-threaded cooperative state machine. The
// inventory is mutated exclusively by the goroutine running [core.run], and
// crashErr is written only there; other goroutines reach the state machine
// only via cmdCh.
type core struct {
	inv      inventory
	factory  Factory
	logger   zerolog.Logger
	cmdCh    chan coreMsg
	ctx      context.Context
	cancel   context.CancelFunc
	exited   chan struct{}
	sem      *semaphore.Weighted
	nextID   atomic.Uint64
	crashErr error
}

func newCore(parent context.Context, factory Factory, slabSize, depth int, logger zerolog.Logger) *core {
	ctx, cancel := context.WithCancel(parent)
	return &core{
		inv:     inventory{slabSize: slabSize, depth: depth},
		factory: factory,
		logger:  logger,
		cmdCh:   make(chan coreMsg),
		ctx:     ctx,
		cancel:  cancel,
		exited:  make(chan struct{}),
		sem:     semaphore.NewWeighted(int64(depth)),
	}
}

// Linked implements [CoreRef]. All resident workers share the core's own
// done channel: there is no per-worker unlink step, because "ownership
// release" for a Go worker goroutine is structural - once Deliver hands it
// a message (or it's otherwise dispensed), a well-behaved worker stops
// selecting on Linked and gets on with its one job, per the Factory
// contract. See DESIGN.md for the rationale.
func (c *core) Linked() <-chan struct{} { return c.ctx.Done() }

func (c *core) run() {
	defer close(c.exited)
	for {
		select {
		case <-c.ctx.Done():
			return
		case msg := <-c.cmdCh:
			c.handle(msg)
			if c.crashErr != nil {
				return
			}
		}
	}
}

func (c *core) handle(msg coreMsg) {
	switch m := msg.(type) {
	case dispenseReq:
		c.handleDispense(m)
	case taskReq:
		c.handleTask(m)
	case statusReq:
		m.reply <- c.status()
	case rateReq:
		c.handleRate(m)
	case slabMsg:
		c.handleSlab(m)
	default:
		c.logger.Error().Type(`type`, msg).Msg(`fount: ignored unrecognized core message`)
	}
}

func (c *core) handleDispense(req dispenseReq) {
	workers, spawn := dispense(&c.inv, req.n)
	c.logger.Debug().
		Int(`requested`, req.n).
		Int(`dispensed`, len(workers)).
		Int(`spawn`, spawn).
		Str(`state`, c.inv.state().String()).
		Msg(`fount: dispense`)
	req.reply <- dispenseResult{workers: workers}
	c.spawnReplacements(spawn)
}

// handleTask mirrors handleDispense: the core only performs the dispense
// half of task-pids. Delivery happens after the reply leaves the core,
// never inside this handler - a core handler must run to completion
// without awaiting (spec.md §5), and Factory.Deliver may block on I/O.
// Ownership has already flipped by the time the facade starts delivering,
// so the core has nothing further to do with these workers.
func (c *core) handleTask(req taskReq) {
	workers, spawn := dispense(&c.inv, len(req.msgs))
	c.logger.Debug().
		Int(`requested`, len(req.msgs)).
		Int(`dispensed`, len(workers)).
		Int(`spawn`, spawn).
		Msg(`fount: task-dispense`)
	results := make([]TaskResult, len(workers))
	for i, w := range workers {
		results[i] = TaskResult{Worker: w}
	}
	req.reply <- taskResult{results: results}
	c.spawnReplacements(spawn)
}

func (c *core) handleRate(req rateReq) {
	var v float64
	switch req.kind {
	case ratePerSlab:
		v = spawnRatePerSlab(&c.inv)
	case ratePerProcess:
		v = spawnRatePerProcess(&c.inv)
	}
	req.reply <- v
}

func (c *core) handleSlab(m slabMsg) {
	if m.err != nil {
		if errors.Is(m.err, context.Canceled) {
			// expected during shutdown: the allocator's context was
			// cancelled before it finished. Not an invariant breach.
			return
		}
		c.crash(m.err)
		return
	}

	if err := c.inv.absorb(m.slab); err != nil {
		c.crash(err)
		return
	}

	c.logger.Debug().
		Int(`slab_size`, len(m.slab.Workers)).
		Dur(`elapsed`, m.slab.Elapsed).
		Str(`state`, c.inv.state().String()).
		Msg(`fount: slab delivered`)
}

func (c *core) crash(err error) {
	c.crashErr = &crashError{cause: err}
	c.logger.Error().Err(err).Msg(`fount: core terminating: invariant breach`)
	c.cancel()
}

func (c *core) status() Status {
	return Status{
		State:      c.inv.state(),
		Factory:    c.factory,
		FountCount: c.inv.fountCount(),
		NumSlabs:   c.inv.numSlabs(),
		SlabSize:   c.inv.slabSize,
		Depth:      c.inv.depth,
		MaxPids:    c.inv.depth * c.inv.slabSize,
		PidCount:   c.inv.total(),
	}
}

// spawnReplacements starts n Slab Allocator goroutines, linked to the
// core's own lifetime, each reporting back over cmdCh exactly once.
func (c *core) spawnReplacements(n int) {
	for i := 0; i < n; i++ {
		go c.runAllocator()
	}
}

func (c *core) runAllocator() {
	if err := c.sem.Acquire(c.ctx, 1); err != nil {
		// core is shutting down; nothing to report.
		return
	}
	defer c.sem.Release(1)

	slab, err := allocate(c.ctx, c, c.factory, c.inv.slabSize, &c.nextID)

	select {
	case c.cmdCh <- slabMsg{slab: slab, err: err}:
	case <-c.ctx.Done():
	}
}

// Status is a point-in-time snapshot of the reservoir, per spec.md §4.5.
type Status struct {
	State      State
	Factory    Factory
	FountCount int
	NumSlabs   int
	SlabSize   int
	Depth      int
	MaxPids    int
	PidCount   int
}
