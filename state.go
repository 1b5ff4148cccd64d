package fount

// State is the reservoir's observable lifecycle label. It is always a pure
// function of the current fount/reservoir contents (see [deriveState]); it
// is stored explicitly on [Status] only so it is observable without
// recomputing it from raw counts.
type State int

const (
	// StateEmpty: fount-count = 0 and num-slabs = 0.
	StateEmpty State = iota
	// StateLow: any content, not yet full.
	StateLow
	// StateFull: fount-count >= slab-size and num-slabs = depth-1 (capacity reached).
	StateFull
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return `EMPTY`
	case StateLow:
		return `LOW`
	case StateFull:
		return `FULL`
	default:
		return `UNKNOWN`
	}
}

// deriveState is the pure function from (fountCount, numSlabs, slabSize,
// depth) to a [State], per spec: EMPTY iff both counts are zero, FULL iff
// the fount alone meets a slab and the reservoir holds depth-1 slabs
// (capacity reached), LOW otherwise.
func deriveState(fountCount, numSlabs, slabSize, depth int) State {
	switch {
	case fountCount == 0 && numSlabs == 0:
		return StateEmpty
	case fountCount >= slabSize && numSlabs == depth-1:
		return StateFull
	default:
		return StateLow
	}
}
