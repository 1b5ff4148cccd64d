package fount

import "math"

// spawnRatePerSlab averages the elapsed microseconds over every slab
// currently held, including the fount's associated elapsed time iff the
// fount is non-empty (the resolved reading of the spec's open question:
// the source inconsistently includes or omits the fount's time across
// handlers - this module always includes it when the fount holds at least
// one worker, and never when it is empty).
func spawnRatePerSlab(inv *inventory) float64 {
	count := inv.numSlabs()
	var total float64
	for _, s := range inv.reservoir {
		total += float64(s.Elapsed.Microseconds())
	}
	if inv.fountCount() > 0 {
		count++
		total += float64(inv.fount.Elapsed.Microseconds())
	}
	if count == 0 {
		return 0
	}
	return round2(total / float64(count))
}

// spawnRatePerProcess divides total elapsed microseconds, across whatever
// is currently resident, by the total number of workers held. Same
// fount-inclusion rule as spawnRatePerSlab.
func spawnRatePerProcess(inv *inventory) float64 {
	var totalElapsed float64
	for _, s := range inv.reservoir {
		totalElapsed += float64(s.Elapsed.Microseconds())
	}
	totalWorkers := inv.numSlabs() * inv.slabSize
	if inv.fountCount() > 0 {
		totalElapsed += float64(inv.fount.Elapsed.Microseconds())
		totalWorkers += inv.fountCount()
	}
	if totalWorkers == 0 {
		return 0
	}
	return round2(totalElapsed / float64(totalWorkers))
}

// round2 rounds to two decimal places (hundredths), per spec.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
