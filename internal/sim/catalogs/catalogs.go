package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cellseed.ai/internal/sim/model"
)

const DefinitionsFile = "cell_definitions.json"

// Names of the custom data every template carries.
const (
	VarRestPosition  = "rest_position"
	VarBMAttachPoint = "BM_attach_point"
	VarCellID        = "cell_ID"
)

type CellDef struct {
	Type       int            `json:"type"`
	Name       string         `json:"name"`
	CustomData []CustomVarDef `json:"custom_data,omitempty"`
}

// CustomVarDef declares or overrides one custom data variable. Value makes it a
// scalar, Vector a vector.
type CustomVarDef struct {
	Name   string    `json:"name"`
	Units  string    `json:"units,omitempty"`
	Value  *float64  `json:"value,omitempty"`
	Vector []float64 `json:"vector,omitempty"`
}

func (d CustomVarDef) isVector() bool { return d.Vector != nil }

func (d CustomVarDef) values() []float64 {
	if d.isVector() {
		return append([]float64(nil), d.Vector...)
	}
	if d.Value == nil {
		return []float64{0}
	}
	return []float64{*d.Value}
}

// Registry is the set of agent templates, built once at startup.
type Registry struct {
	schema    *model.Schema
	templates []*model.Template
	byType    map[int]*model.Template
	byName    map[string]*model.Template

	Digest string
	Raw    []byte
}

// Load reads <configDir>/cell_definitions.json and builds the registry. Every
// template gets hooks as its behavior hooks.
func Load(configDir string, hooks model.Hooks) (*Registry, error) {
	raw, err := os.ReadFile(filepath.Join(configDir, DefinitionsFile))
	if err != nil {
		return nil, err
	}
	return Parse(raw, hooks)
}

func Parse(raw []byte, hooks model.Hooks) (*Registry, error) {
	if err := validateDefinitions(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", DefinitionsFile, err)
	}
	var defs []CellDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("%s: %w", DefinitionsFile, err)
	}
	r, err := Build(defs, hooks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DefinitionsFile, err)
	}
	r.Digest = sha256Hex(raw)
	r.Raw = append([]byte(nil), raw...)
	return r, nil
}

// Build registers defs in order. The shared schema starts with the base
// variables; variables first declared by a definition are appended in the
// order they are seen, then the schema is frozen.
func Build(defs []CellDef, hooks model.Hooks) (*Registry, error) {
	schema, err := baseSchema()
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		for _, v := range d.CustomData {
			if strings.TrimSpace(v.Name) == "" {
				return nil, fmt.Errorf("cell definition %q: empty custom data name", d.Name)
			}
			if i, ok := schema.Index(v.Name); ok {
				if schema.Variable(i).Vector != v.isVector() {
					return nil, fmt.Errorf("cell definition %q: custom data %q changes kind", d.Name, v.Name)
				}
				continue
			}
			if v.isVector() {
				_, err = schema.AddVector(v.Name, v.Units, v.values())
			} else {
				_, err = schema.AddScalar(v.Name, v.Units, v.values()[0])
			}
			if err != nil {
				return nil, err
			}
		}
	}
	schema.Freeze()

	r := &Registry{
		schema: schema,
		byType: map[int]*model.Template{},
		byName: map[string]*model.Template{},
	}
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("cell definition type %d: empty name", d.Type)
		}
		if _, dup := r.byType[d.Type]; dup {
			return nil, fmt.Errorf("duplicate cell definition type: %d", d.Type)
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("duplicate cell definition name: %s", name)
		}
		overrides := map[string][]float64{}
		for _, v := range d.CustomData {
			overrides[v.Name] = v.values()
		}
		t, err := model.NewTemplate(d.Type, name, schema, overrides, hooks)
		if err != nil {
			return nil, err
		}
		r.templates = append(r.templates, t)
		r.byType[t.Type] = t
		r.byName[t.Name] = t
	}
	return r, nil
}

func baseSchema() (*model.Schema, error) {
	s := model.NewSchema()
	zero := []float64{0, 0, 0}
	if _, err := s.AddVector(VarRestPosition, "microns", zero); err != nil {
		return nil, err
	}
	if _, err := s.AddVector(VarBMAttachPoint, "microns", zero); err != nil {
		return nil, err
	}
	if _, err := s.AddScalar(VarCellID, "dimensionless", 0); err != nil {
		return nil, err
	}
	return s, nil
}

// Resolve finds the template registered under a type code.
func (r *Registry) Resolve(typ int) (*model.Template, bool) {
	t, ok := r.byType[typ]
	return t, ok
}

func (r *Registry) ByName(name string) (*model.Template, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Templates returns the templates in registration order.
func (r *Registry) Templates() []*model.Template {
	return append([]*model.Template(nil), r.templates...)
}

func (r *Registry) Schema() *model.Schema { return r.schema }
func (r *Registry) Len() int              { return len(r.templates) }

// Describe writes a human readable summary of every template.
func (r *Registry) Describe(w io.Writer) {
	vars := r.schema.Variables()
	for _, t := range r.templates {
		fmt.Fprintf(w, "=====================================================\n")
		fmt.Fprintf(w, "%s (type=%d)\n", t.Name, t.Type)
		fmt.Fprintf(w, "  hooks: %s\n", describeHooks(t.Hooks))
		fmt.Fprintf(w, "  custom data:\n")
		for i, v := range vars {
			fmt.Fprintf(w, "    %s: %v %s\n", v.Name, formatValue(t.Default(i), v.Vector), v.Units)
		}
	}
	fmt.Fprintln(w)
}

func describeHooks(h model.Hooks) string {
	set := map[string]bool{
		"volume_update":         h.VolumeUpdate != nil,
		"update_velocity":       h.UpdateVelocity != nil,
		"update_migration_bias": h.UpdateMigrationBias != nil,
		"update_phenotype":      h.UpdatePhenotype != nil,
		"custom_rule":           h.CustomRule != nil,
		"contact":               h.Contact != nil,
		"membrane_interaction":  h.MembraneInteraction != nil,
		"membrane_distance":     h.MembraneDistance != nil,
	}
	names := make([]string, 0, len(set))
	for name, ok := range set {
		if ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func formatValue(v []float64, vector bool) string {
	if !vector && len(v) == 1 {
		return fmt.Sprintf("%g", v[0])
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%g", x)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
