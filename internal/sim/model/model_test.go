package model

import (
	"errors"
	"testing"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()
	if _, err := s.AddVector("rest_position", "microns", []float64{0, 0, 0}); err != nil {
		t.Fatalf("AddVector: %v", err)
	}
	if _, err := s.AddScalar("cell_ID", "dimensionless", 0); err != nil {
		t.Fatalf("AddScalar: %v", err)
	}
	s.Freeze()
	return s
}

func TestSchema_IndexStableAndFrozen(t *testing.T) {
	s := testSchema(t)
	i, ok := s.Index("cell_ID")
	if !ok || i != 1 {
		t.Fatalf("Index(cell_ID)=%d,%v want 1,true", i, ok)
	}
	if _, err := s.AddScalar("late", "", 0); !errors.Is(err, ErrSchemaFrozen) {
		t.Fatalf("expected ErrSchemaFrozen, got %v", err)
	}
	if j, _ := s.Index("cell_ID"); j != i {
		t.Fatalf("index moved: %d -> %d", i, j)
	}
}

func TestSchema_DuplicateName(t *testing.T) {
	s := NewSchema()
	_, _ = s.AddScalar("a", "", 1)
	if _, err := s.AddVector("a", "", nil); !errors.Is(err, ErrDuplicateVariable) {
		t.Fatalf("expected ErrDuplicateVariable, got %v", err)
	}
}

func TestTemplate_InstancesDoNotShareDefaults(t *testing.T) {
	s := testSchema(t)
	tmpl, err := NewTemplate(3, "fibroblast", s, map[string][]float64{"cell_ID": {7}}, Hooks{})
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	a := tmpl.Instantiate(0)
	b := tmpl.Instantiate(1)

	idx, _ := s.Index("cell_ID")
	if got := a.Custom.Scalar(idx); got != 7 {
		t.Fatalf("override default: got %v want 7", got)
	}
	a.Custom.SetScalar(idx, 99)
	rp, _ := s.Index("rest_position")
	a.Custom.SetVector(rp, []float64{1, 2, 3})

	if got := b.Custom.Scalar(idx); got != 7 {
		t.Fatalf("sibling mutated: got %v", got)
	}
	if got := b.Custom.Vector(rp); got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Fatalf("sibling vector mutated: %v", got)
	}
	if got := tmpl.Default(idx); got[0] != 7 {
		t.Fatalf("template default mutated: %v", got)
	}
	if a.Phase != PhaseLive || a.Dead {
		t.Fatalf("new agent should be live, got phase=%v dead=%v", a.Phase, a.Dead)
	}
}

func TestTemplate_RejectsUnfrozenSchemaAndBadOverrides(t *testing.T) {
	if _, err := NewTemplate(0, "x", NewSchema(), nil, Hooks{}); err == nil {
		t.Fatalf("expected error for unfrozen schema")
	}
	s := testSchema(t)
	if _, err := NewTemplate(0, "x", s, map[string][]float64{"nope": {1}}, Hooks{}); err == nil {
		t.Fatalf("expected error for unknown variable")
	}
	if _, err := NewTemplate(0, "x", s, map[string][]float64{"cell_ID": {1, 2}}, Hooks{}); err == nil {
		t.Fatalf("expected error for scalar with two values")
	}
}

func TestPhaseCode_Necrotic(t *testing.T) {
	for _, p := range []PhaseCode{PhaseNecroticSwelling, PhaseNecroticLysed, PhaseNecrotic} {
		if !p.Necrotic() {
			t.Fatalf("%v should be necrotic", p)
		}
	}
	for _, p := range []PhaseCode{PhaseApoptotic, PhaseLive, PhaseDebris, PhaseG0G1} {
		if p.Necrotic() {
			t.Fatalf("%v should not be necrotic", p)
		}
	}
}
