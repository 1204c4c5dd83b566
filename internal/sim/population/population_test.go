package population

import (
	"testing"

	"cellseed.ai/internal/sim/model"
)

func template(t *testing.T, typ int) *model.Template {
	t.Helper()
	s := model.NewSchema()
	s.Freeze()
	tmpl, err := model.NewTemplate(typ, "t", s, nil, model.Hooks{})
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	return tmpl
}

func TestPopulation_CreateAssignsSequentialIDs(t *testing.T) {
	p := New()
	a := template(t, 0)
	b := template(t, 1)
	p.Create(a, model.Vec3{X: 1})
	p.Create(b, model.Vec3{X: 2})
	p.Create(b, model.Vec3{X: 3})

	if p.Len() != 3 {
		t.Fatalf("Len=%d want 3", p.Len())
	}
	for i, ag := range p.All() {
		if ag.ID != i {
			t.Fatalf("agent %d has id %d", i, ag.ID)
		}
	}
	if got := p.At(2).Pos.X; got != 3 {
		t.Fatalf("position not assigned: %v", got)
	}
	counts := p.CountByType()
	if counts[0] != 1 || counts[1] != 2 {
		t.Fatalf("CountByType=%v", counts)
	}
	if got := len(p.Since(1)); got != 2 {
		t.Fatalf("Since(1) len=%d want 2", got)
	}
	if p.Since(3) != nil {
		t.Fatalf("Since(len) should be nil")
	}
}

func TestPopulation_RestoreKeepsIDs(t *testing.T) {
	p := New()
	tmpl := template(t, 0)
	a := tmpl.Instantiate(5)
	if err := p.Restore(a); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if err := p.Restore(tmpl.Instantiate(5)); err == nil {
		t.Fatalf("expected error restoring a reused id")
	}
	if next := p.Create(tmpl, model.Vec3{}); next.ID != 6 {
		t.Fatalf("next id=%d want 6", next.ID)
	}
}
