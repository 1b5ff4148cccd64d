package fount

// dispense implements get-pids: it satisfies a request for n workers from
// inv, mutating inv in place, and reports how many replacement Slab
// Allocators the caller must spawn. It never blocks and never touches
// anything outside inv - see core.go for the goroutine that serializes
// calls to this function and turns spawn into actual allocator goroutines.
//
// Cases are evaluated in the order given in the reservoir's dispense
// algorithm; the first matching case applies.
func dispense(inv *inventory, n int) (reply []Worker, spawn int) {
	total := inv.total()

	switch {
	case n == 0:
		// case 1: empty reply, no state change.
		return nil, 0

	case n > total:
		// case 2: refused. No replacement spawned - a sustained refusal
		// regime does not itself accelerate refill.
		return nil, 0

	case n == total:
		// case 3: drain everything.
		spawn = inv.numSlabs() + 1
		reply = append(inv.takeFount(), flatten(inv.popN(inv.numSlabs()))...)
		return reply, spawn
	}

	fc := inv.fountCount()

	switch {
	case n < fc:
		// case 4: peel from the fount only. No replacement: the fount isn't
		// depleted, just shrunk.
		return inv.peelFront(n), 0

	case n == fc:
		// case 5: the entire fount, and nothing else.
		return inv.takeFount(), 1
	}

	if fc < n && n <= inv.slabSize && inv.numSlabs() > 0 {
		// case 6.
		top := inv.popTop()
		if n == inv.slabSize {
			return top.Workers, 1
		}
		prefix := top.Workers[:n:n]
		residue := top.Workers[n:]
		inv.setFount(residue, top.Elapsed)
		return prefix, 1
	}

	// case 7: n > slabSize && n < total (the only remaining possibility,
	// given cases 1-6 above have been ruled out).
	excess := n % inv.slabSize
	slabsNeeded := (n - excess) / inv.slabSize
	spawn = slabsNeeded

	var prefix []Worker
	switch {
	case fc == excess:
		prefix = inv.takeFount()

	case fc > excess:
		prefix = inv.peelFront(excess)

	default: // fc < excess
		spawn++
		top := inv.popTop()
		needed := excess - fc
		combined := append(inv.takeFount(), top.Workers[:needed:needed]...)
		residue := top.Workers[needed:]
		prefix = combined
		inv.setFount(residue, top.Elapsed)
	}

	popped := inv.popN(slabsNeeded)
	reply = append(prefix, flatten(popped)...)
	return reply, spawn
}
