package domain

import (
	"testing"

	"cellseed.ai/internal/sim/model"
)

func TestNew_TwoDCollapsesZ(t *testing.T) {
	b, err := New(model.Vec3{X: -10, Y: -20, Z: -30}, model.Vec3{X: 10, Y: 20, Z: 30}, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.Min.Z != 0 || b.Max.Z != 0 {
		t.Fatalf("z bounds not collapsed: %v", b)
	}
	if b.Min.X != -10 || b.Max.Y != 20 {
		t.Fatalf("x/y bounds changed: %v", b)
	}
}

func TestNew_RejectsInvertedAxis(t *testing.T) {
	if _, err := New(model.Vec3{X: 5}, model.Vec3{X: -5}, false); err == nil {
		t.Fatalf("expected error for inverted x axis")
	}
	// Inverted z is irrelevant once collapsed.
	if _, err := New(model.Vec3{Z: 5}, model.Vec3{Z: -5}, true); err != nil {
		t.Fatalf("2D should ignore native z extent: %v", err)
	}
}

func TestSample_Extremes(t *testing.T) {
	b, _ := New(model.Vec3{X: -1, Y: 2, Z: -3}, model.Vec3{X: 1, Y: 4, Z: 3}, false)
	p := b.Sample(func() float64 { return 0 })
	if p != b.Min {
		t.Fatalf("u=0 should sample min, got %v", p)
	}
	p = b.Sample(func() float64 { return 0.5 })
	if p != (model.Vec3{X: 0, Y: 3, Z: 0}) {
		t.Fatalf("u=0.5 should sample centre, got %v", p)
	}
	if !b.Contains(p) {
		t.Fatalf("centre not contained")
	}
	if b.Contains(model.Vec3{X: 2}) {
		t.Fatalf("outside point reported contained")
	}
}
