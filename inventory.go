package fount

import "time"

// Slab is an ordered sequence of workers produced atomically by one
// allocator, together with the elapsed time it took to produce them. Slabs
// are immutable once delivered: the reservoir never mutates Workers or
// Elapsed in place, only replaces the Slab value that holds them.
type Slab struct {
	Workers []Worker
	Elapsed time.Duration
}

// inventory is the reservoir's mutable state: the fount (partial top) plus
// the push-down stack of full slabs below it. It carries no synchronization
// of its own - exactly one goroutine (the core) ever touches it.
type inventory struct {
	fount     Slab   // partial top; fount.Workers may be empty
	reservoir []Slab // stack of full slabs; reservoir[len-1] is the top
	slabSize  int
	depth     int
}

func (inv *inventory) fountCount() int { return len(inv.fount.Workers) }

func (inv *inventory) numSlabs() int { return len(inv.reservoir) }

func (inv *inventory) total() int { return inv.numSlabs()*inv.slabSize + inv.fountCount() }

func (inv *inventory) state() State {
	return deriveState(inv.fountCount(), inv.numSlabs(), inv.slabSize, inv.depth)
}

// absorb delivers a newly-allocated slab: if the fount is empty the slab
// becomes the fount (carrying its elapsed time forward); otherwise it is
// pushed onto the reservoir stack. Returns [ErrOverfull] without mutating
// anything if the reservoir was already FULL - the caller is the core,
// which treats that as fatal.
func (inv *inventory) absorb(s Slab) error {
	if inv.state() == StateFull {
		return ErrOverfull
	}
	if inv.fountCount() == 0 {
		inv.fount = s
	} else {
		inv.reservoir = append(inv.reservoir, s)
	}
	return nil
}

// peelFront removes the first n workers from the fount, leaving the
// remainder (and the fount's existing elapsed-time label) in place. n must
// be <= the current fount count.
func (inv *inventory) peelFront(n int) []Worker {
	if n == 0 {
		return nil
	}
	prefix := inv.fount.Workers[:n:n]
	remainder := inv.fount.Workers[n:]
	inv.fount = Slab{Workers: remainder, Elapsed: inv.fount.Elapsed}
	return prefix
}

// takeFount empties the fount, returning its entire contents.
func (inv *inventory) takeFount() []Worker {
	w := inv.fount.Workers
	inv.fount = Slab{}
	return w
}

// popTop pops the top slab off the reservoir stack.
func (inv *inventory) popTop() Slab {
	top := inv.reservoir[len(inv.reservoir)-1]
	inv.reservoir = inv.reservoir[:len(inv.reservoir)-1]
	return top
}

// popN pops the top n slabs off the reservoir stack, returning them in pop
// order (first popped first). Use [flatten] to get their workers.
func (inv *inventory) popN(n int) []Slab {
	if n == 0 {
		return nil
	}
	popped := make([]Slab, n)
	for i := 0; i < n; i++ {
		popped[i] = inv.popTop()
	}
	return popped
}

// setFount reconstructs the fount from a popped slab's residue, after a
// partial take from that slab's front. The result is always the current
// fount followed by the residue. When the residue is the shorter (or equal)
// side it is appended to the current fount; when it is longer, both are
// copied into a fresh slice, so that branch costs the whole merged length.
func (inv *inventory) setFount(residue []Worker, elapsed time.Duration) {
	current := inv.fount.Workers
	if len(current) == 0 {
		inv.fount = Slab{Workers: residue, Elapsed: elapsed}
		return
	}
	var merged []Worker
	if len(residue) > len(current) {
		// current is the smaller side: always a fresh copy of both
		// current and residue.
		merged = make([]Worker, 0, len(current)+len(residue))
		merged = append(merged, current...)
		merged = append(merged, residue...)
	} else {
		// residue is the smaller (or equal) side: grow current in place,
		// reusing its backing array's spare capacity when it has any.
		merged = append(current, residue...)
	}
	inv.fount = Slab{Workers: merged, Elapsed: elapsed}
}

func flatten(slabs []Slab) []Worker {
	if len(slabs) == 0 {
		return nil
	}
	n := 0
	for _, s := range slabs {
		n += len(s.Workers)
	}
	out := make([]Worker, 0, n)
	for _, s := range slabs {
		out = append(out, s.Workers...)
	}
	return out
}
