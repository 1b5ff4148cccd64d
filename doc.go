// Package fount implements a pre-allocated worker reservoir.
//
// A Fount dispenses ready-to-use workers on demand, built from fixed-size
// slabs plus one partial slab (the "fount"). It refills itself in the
// background via short-lived Slab Allocator goroutines, and refuses
// requests that exceed current inventory rather than queuing callers - see
// [New] and the [Fount] methods for the request/reply surface.
//
// The reservoir itself is a single-threaded cooperative state machine: one
// goroutine owns all mutable state and processes exactly one request or
// slab delivery to completion before the next, the same pattern this
// module's sibling package [github.com/joeycumines/go-microbatch] uses for
// its own single-goroutine batcher loop.
package fount
