package fount

import (
	"testing"
	"time"
)

func TestSpawnRatePerSlabExcludesEmptyFount(t *testing.T) {
	inv := &inventory{slabSize: 4, depth: 3}
	inv.reservoir = []Slab{
		{Workers: mkWorkers(4, 1), Elapsed: 100 * time.Microsecond},
		{Workers: mkWorkers(4, 5), Elapsed: 300 * time.Microsecond},
	}
	// fount empty: not counted.
	got := spawnRatePerSlab(inv)
	want := round2((100.0 + 300.0) / 2)
	if got != want {
		t.Fatalf(`spawnRatePerSlab = %v, want %v`, got, want)
	}
}

func TestSpawnRatePerSlabIncludesNonEmptyFount(t *testing.T) {
	inv := &inventory{slabSize: 4, depth: 3}
	inv.fount = Slab{Workers: mkWorkers(2, 1), Elapsed: 50 * time.Microsecond}
	inv.reservoir = []Slab{
		{Workers: mkWorkers(4, 3), Elapsed: 150 * time.Microsecond},
	}
	got := spawnRatePerSlab(inv)
	want := round2((50.0 + 150.0) / 2)
	if got != want {
		t.Fatalf(`spawnRatePerSlab = %v, want %v`, got, want)
	}
}

func TestSpawnRatePerSlabEmptyReservoir(t *testing.T) {
	inv := &inventory{slabSize: 4, depth: 3}
	if got := spawnRatePerSlab(inv); got != 0 {
		t.Fatalf(`spawnRatePerSlab on empty reservoir = %v, want 0`, got)
	}
}

func TestSpawnRatePerProcess(t *testing.T) {
	inv := &inventory{slabSize: 4, depth: 3}
	inv.fount = Slab{Workers: mkWorkers(2, 1), Elapsed: 40 * time.Microsecond}
	inv.reservoir = []Slab{
		{Workers: mkWorkers(4, 3), Elapsed: 400 * time.Microsecond},
	}
	got := spawnRatePerProcess(inv)
	want := round2((40.0 + 400.0) / 6)
	if got != want {
		t.Fatalf(`spawnRatePerProcess = %v, want %v`, got, want)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.005, 1.0}, // float64 representation of 1.005 rounds down
		{1.2345, 1.23},
		{1.2355, 1.24},
		{0, 0},
	}
	for _, c := range cases {
		if got := round2(c.in); got != c.want {
			t.Errorf(`round2(%v) = %v, want %v`, c.in, got, c.want)
		}
	}
}
