// Package behavior assigns the per-type hooks that the simulation engine calls.
// Nothing in the setup path invokes them.
package behavior

import "cellseed.ai/internal/sim/model"

// Engine carries the mechanics entry points owned by the simulation engine.
type Engine struct {
	VolumeModel        model.CellFunc
	HeterotypicMotion  model.CellFunc
	PlastoElasticRules model.CellFunc
}

// Base returns the hooks every template starts from before its definition is read.
func Base(e Engine) model.Hooks {
	return model.Hooks{
		VolumeUpdate:   e.VolumeModel,
		UpdateVelocity: e.HeterotypicMotion,
		CustomRule:     e.PlastoElasticRules,
		// migration bias, phenotype, contact and membrane hooks stay nil
	}
}

// ApplyCustom installs this model's phenotype, custom and contact rules.
func ApplyCustom(h model.Hooks) model.Hooks {
	h.UpdatePhenotype = Phenotype
	h.CustomRule = Custom
	h.Contact = Contact
	return h
}

func Phenotype(a *model.Agent, dt float64)         {}
func Custom(a *model.Agent, dt float64)            {}
func Contact(self, other *model.Agent, dt float64) {}
