package snapshot

import (
	"path/filepath"
	"testing"

	"cellseed.ai/internal/sim/catalogs"
	"cellseed.ai/internal/sim/domain"
	"cellseed.ai/internal/sim/model"
	"cellseed.ai/internal/sim/population"
)

func testRegistry(t *testing.T) *catalogs.Registry {
	t.Helper()
	reg, err := catalogs.Parse([]byte(`[{"type":0,"name":"default"},{"type":3,"name":"immune","custom_data":[{"name":"speed","units":"micron/min","value":2}]}]`), model.Hooks{})
	if err != nil {
		t.Fatalf("catalogs.Parse: %v", err)
	}
	return reg
}

func TestSnapshotWriteReadRestore(t *testing.T) {
	reg := testRegistry(t)
	b, err := domain.New(model.Vec3{X: -1, Y: -1}, model.Vec3{X: 1, Y: 1}, true)
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}

	pop := population.New()
	def, _ := reg.Resolve(0)
	imm, _ := reg.Resolve(3)
	pop.Create(def, model.Vec3{X: 0.5})
	dead := pop.Create(imm, model.Vec3{X: -0.25, Y: 0.75})
	dead.Dead, dead.Phase = true, model.PhaseNecrotic
	speed, _ := reg.Schema().Index("speed")
	dead.Custom.SetScalar(speed, 9)

	path := filepath.Join(t.TempDir(), "snap", "population.snap.zst")
	if err := WriteSnapshot(path, FromPopulation("run-1", 42, b, reg, pop)); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Version != Version || h.RunID != "run-1" || h.Agents != 2 {
		t.Fatalf("header=%+v", h)
	}

	snap, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.Seed != 42 || snap.CatalogDigest != reg.Digest || !snap.Bounds.TwoD {
		t.Fatalf("snapshot meta: seed=%d digest=%q bounds=%+v", snap.Seed, snap.CatalogDigest, snap.Bounds)
	}
	if len(snap.Templates) != 2 || snap.Templates[1].Name != "immune" {
		t.Fatalf("templates=%+v", snap.Templates)
	}

	got, err := snap.Restore(reg)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("restored %d agents", got.Len())
	}
	a := got.At(1)
	if a.ID != 1 || a.TypeName() != "immune" || !a.Dead || a.Phase != model.PhaseNecrotic {
		t.Fatalf("restored agent=%+v", a)
	}
	if a.Pos != (model.Vec3{X: -0.25, Y: 0.75}) || a.Custom.Scalar(speed) != 9 {
		t.Fatalf("restored pos=%v speed=%v", a.Pos, a.Custom.Scalar(speed))
	}
	// New agents continue after the restored IDs.
	if next := got.Create(def, model.Vec3{}); next.ID != 2 {
		t.Fatalf("next id=%d", next.ID)
	}
}

func TestRestoreRejectsSchemaMismatch(t *testing.T) {
	reg := testRegistry(t)
	pop := population.New()
	def, _ := reg.Resolve(0)
	pop.Create(def, model.Vec3{})
	snap := FromPopulation("run-2", 1, domain.Bounds{}, reg, pop)

	other, err := catalogs.Parse([]byte(`[{"type":0,"name":"default"}]`), model.Hooks{})
	if err != nil {
		t.Fatalf("catalogs.Parse: %v", err)
	}
	if _, err := snap.Restore(other); err == nil {
		t.Fatalf("expected schema mismatch error")
	}
}
