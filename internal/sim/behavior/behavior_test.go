package behavior

import (
	"testing"

	"cellseed.ai/internal/sim/model"
)

func TestBaseThenApplyCustom(t *testing.T) {
	volume := func(*model.Agent, float64) {}
	motion := func(*model.Agent, float64) {}
	elastic := func(*model.Agent, float64) {}

	h := Base(Engine{VolumeModel: volume, HeterotypicMotion: motion, PlastoElasticRules: elastic})
	if h.VolumeUpdate == nil || h.UpdateVelocity == nil || h.CustomRule == nil {
		t.Fatalf("engine hooks not assigned: %+v", h)
	}
	if h.UpdatePhenotype != nil || h.Contact != nil || h.UpdateMigrationBias != nil || h.MembraneInteraction != nil || h.MembraneDistance != nil {
		t.Fatalf("unexpected hooks set on base: %+v", h)
	}

	h = ApplyCustom(h)
	if h.UpdatePhenotype == nil || h.CustomRule == nil || h.Contact == nil {
		t.Fatalf("custom hooks not assigned")
	}
	if h.VolumeUpdate == nil || h.UpdateVelocity == nil {
		t.Fatalf("ApplyCustom dropped engine hooks")
	}
}
