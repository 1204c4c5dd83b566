package model

import "fmt"

type (
	CellFunc     func(a *Agent, dt float64)
	ContactFunc  func(self, other *Agent, dt float64)
	DistanceFunc func(a *Agent) float64
)

// Hooks are the per-type behavior entry points driven by the simulation engine.
// A nil hook means the engine falls back to doing nothing for that step.
type Hooks struct {
	VolumeUpdate        CellFunc
	UpdateVelocity      CellFunc
	UpdateMigrationBias CellFunc
	UpdatePhenotype     CellFunc
	CustomRule          CellFunc
	Contact             ContactFunc
	MembraneInteraction CellFunc
	MembraneDistance    DistanceFunc
}

// Template is an agent type. Templates are immutable once registered; agents get
// their own copy of the default custom data.
type Template struct {
	Type  int
	Name  string
	Hooks Hooks

	schema   *Schema
	defaults [][]float64
}

// NewTemplate builds a template over a frozen schema. overrides replaces the
// schema default of the named variables for agents of this type only.
func NewTemplate(typ int, name string, schema *Schema, overrides map[string][]float64, hooks Hooks) (*Template, error) {
	if schema == nil || !schema.Frozen() {
		return nil, fmt.Errorf("template %s: schema must be frozen before templates are built", name)
	}
	t := &Template{Type: typ, Name: name, Hooks: hooks, schema: schema, defaults: schema.defaults()}
	for varName, v := range overrides {
		i, ok := schema.Index(varName)
		if !ok {
			return nil, fmt.Errorf("template %s: unknown custom data variable %q", name, varName)
		}
		sv := schema.vars[i]
		if !sv.Vector && len(v) != 1 {
			return nil, fmt.Errorf("template %s: scalar %q needs exactly one value, got %d", name, varName, len(v))
		}
		t.defaults[i] = append([]float64(nil), v...)
	}
	return t, nil
}

func (t *Template) Schema() *Schema { return t.schema }

// Default returns a copy of the template's default value for slot i.
func (t *Template) Default(i int) []float64 {
	return append([]float64(nil), t.defaults[i]...)
}

// Instantiate creates a live agent of this type at the origin.
func (t *Template) Instantiate(id int) *Agent {
	return &Agent{
		ID:       id,
		Template: t,
		Custom:   newCustomData(t.schema, t.defaults),
		Phase:    PhaseLive,
	}
}
