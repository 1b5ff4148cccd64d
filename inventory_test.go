package fount

import (
	"errors"
	"testing"
	"time"
)

func TestAbsorbIntoEmptyFountBecomesFount(t *testing.T) {
	inv := &inventory{slabSize: 4, depth: 3}
	s := Slab{Workers: mkWorkers(4, 1), Elapsed: time.Millisecond}
	if err := inv.absorb(s); err != nil {
		t.Fatalf(`absorb: %v`, err)
	}
	if inv.fountCount() != 4 || inv.numSlabs() != 0 {
		t.Fatalf(`fountCount=%d numSlabs=%d, want 4,0`, inv.fountCount(), inv.numSlabs())
	}
}

func TestAbsorbPushesOntoReservoirWhenFountOccupied(t *testing.T) {
	inv := &inventory{slabSize: 4, depth: 3}
	inv.fount = Slab{Workers: mkWorkers(1, 1)}
	s := Slab{Workers: mkWorkers(4, 2), Elapsed: time.Millisecond}
	if err := inv.absorb(s); err != nil {
		t.Fatalf(`absorb: %v`, err)
	}
	if inv.fountCount() != 1 || inv.numSlabs() != 1 {
		t.Fatalf(`fountCount=%d numSlabs=%d, want 1,1`, inv.fountCount(), inv.numSlabs())
	}
}

func TestAbsorbOverfullIsRefusedAndNonMutating(t *testing.T) {
	inv := &inventory{slabSize: 4, depth: 2} // depth=2: full at numSlabs==1 with fount>=4
	inv.fount = Slab{Workers: mkWorkers(4, 1)}
	inv.reservoir = []Slab{{Workers: mkWorkers(4, 5)}}
	if inv.state() != StateFull {
		t.Fatalf(`precondition: state = %s, want FULL`, inv.state())
	}
	before := inv.total()
	err := inv.absorb(Slab{Workers: mkWorkers(4, 9)})
	if !errors.Is(err, ErrOverfull) {
		t.Fatalf(`absorb on full reservoir: err = %v, want ErrOverfull`, err)
	}
	if inv.total() != before {
		t.Fatalf(`overfull absorb mutated inventory: total=%d, want %d`, inv.total(), before)
	}
}

func TestPeelFrontLeavesRemainderAndElapsed(t *testing.T) {
	inv := &inventory{slabSize: 4, depth: 3}
	inv.fount = Slab{Workers: mkWorkers(4, 1), Elapsed: 7 * time.Microsecond}
	got := inv.peelFront(1)
	if len(got) != 1 || got[0].ID() != 1 {
		t.Fatalf(`peelFront(1) = %v`, got)
	}
	if inv.fountCount() != 3 || inv.fount.Elapsed != 7*time.Microsecond {
		t.Fatalf(`remainder: count=%d elapsed=%v`, inv.fountCount(), inv.fount.Elapsed)
	}
}

func TestSetFountResidueLongerThanCurrent(t *testing.T) {
	inv := &inventory{slabSize: 8, depth: 3}
	inv.fount = Slab{Workers: mkWorkers(1, 100)}
	residue := mkWorkers(5, 1)
	inv.setFount(residue, 3*time.Microsecond)
	if inv.fountCount() != 6 {
		t.Fatalf(`fountCount = %d, want 6`, inv.fountCount())
	}
	if inv.fount.Workers[0].ID() != 100 {
		t.Fatalf(`merged fount should retain pre-existing worker first, got ids %v`, idsOf(inv.fount.Workers))
	}
	if inv.fount.Elapsed != 3*time.Microsecond {
		t.Fatalf(`elapsed = %v, want 3us (the popped slab's elapsed, per reconstruction)`, inv.fount.Elapsed)
	}
}

func TestSetFountResidueShorterThanCurrent(t *testing.T) {
	inv := &inventory{slabSize: 8, depth: 3}
	inv.fount = Slab{Workers: mkWorkers(5, 1)}
	residue := mkWorkers(1, 100)
	inv.setFount(residue, 4*time.Microsecond)
	if inv.fountCount() != 6 {
		t.Fatalf(`fountCount = %d, want 6`, inv.fountCount())
	}
	if inv.fount.Workers[5].ID() != 100 {
		t.Fatalf(`residue should be appended after current, got ids %v`, idsOf(inv.fount.Workers))
	}
}

func TestSetFountOntoEmptyFount(t *testing.T) {
	inv := &inventory{slabSize: 8, depth: 3}
	residue := mkWorkers(3, 1)
	inv.setFount(residue, 2*time.Microsecond)
	if inv.fountCount() != 3 || inv.fount.Elapsed != 2*time.Microsecond {
		t.Fatalf(`fountCount=%d elapsed=%v`, inv.fountCount(), inv.fount.Elapsed)
	}
}

func TestFlatten(t *testing.T) {
	slabs := []Slab{
		{Workers: mkWorkers(2, 1)},
		{Workers: mkWorkers(3, 10)},
	}
	got := flatten(slabs)
	if len(got) != 5 || got[0].ID() != 1 || got[4].ID() != 12 {
		t.Fatalf(`flatten ids = %v`, idsOf(got))
	}
	if flatten(nil) != nil {
		t.Fatalf(`flatten(nil) should be nil`)
	}
}
