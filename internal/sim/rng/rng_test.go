package rng

import "testing"

func TestSource_Deterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		x, y := a.Uniform(), b.Uniform()
		if x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, x)
		}
	}
	if New(1).Uniform() == New(2).Uniform() {
		t.Fatalf("different seeds produced the same first draw")
	}
}
