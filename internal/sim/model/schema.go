package model

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaFrozen      = errors.New("custom data schema is frozen")
	ErrDuplicateVariable = errors.New("duplicate custom data variable")
)

// Variable is one named slot of custom data. Scalars carry a single default value.
type Variable struct {
	Name    string
	Units   string
	Vector  bool
	Default []float64
}

func (v Variable) clone() Variable {
	v.Default = append([]float64(nil), v.Default...)
	return v
}

// Schema is the ordered set of custom data variables shared by every template in a
// registry. Indices handed out by Index stay valid for the lifetime of the schema:
// variables are only appended, never removed or reordered, and Freeze stops appends.
type Schema struct {
	vars   []Variable
	index  map[string]int
	frozen bool
}

func NewSchema() *Schema {
	return &Schema{index: map[string]int{}}
}

func (s *Schema) AddScalar(name, units string, def float64) (int, error) {
	return s.add(Variable{Name: name, Units: units, Default: []float64{def}})
}

func (s *Schema) AddVector(name, units string, def []float64) (int, error) {
	return s.add(Variable{Name: name, Units: units, Vector: true, Default: def})
}

func (s *Schema) add(v Variable) (int, error) {
	if s.frozen {
		return -1, fmt.Errorf("add %q: %w", v.Name, ErrSchemaFrozen)
	}
	if v.Name == "" {
		return -1, fmt.Errorf("custom data variable name must not be empty")
	}
	if _, ok := s.index[v.Name]; ok {
		return -1, fmt.Errorf("%w: %s", ErrDuplicateVariable, v.Name)
	}
	i := len(s.vars)
	s.vars = append(s.vars, v.clone())
	s.index[v.Name] = i
	return i, nil
}

func (s *Schema) Freeze()      { s.frozen = true }
func (s *Schema) Frozen() bool { return s.frozen }
func (s *Schema) Len() int     { return len(s.vars) }

// Index resolves a variable name to its slot.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

func (s *Schema) Variable(i int) Variable { return s.vars[i].clone() }

func (s *Schema) Variables() []Variable {
	out := make([]Variable, len(s.vars))
	for i, v := range s.vars {
		out[i] = v.clone()
	}
	return out
}

// defaults returns a freshly allocated value block holding every variable's default.
func (s *Schema) defaults() [][]float64 {
	out := make([][]float64, len(s.vars))
	for i, v := range s.vars {
		out[i] = append([]float64(nil), v.Default...)
	}
	return out
}

// CustomData is the per-agent value block addressed by schema index.
type CustomData struct {
	schema *Schema
	values [][]float64
}

func newCustomData(s *Schema, values [][]float64) CustomData {
	c := CustomData{schema: s, values: make([][]float64, len(values))}
	for i, v := range values {
		c.values[i] = append([]float64(nil), v...)
	}
	return c
}

func (c *CustomData) Schema() *Schema { return c.schema }
func (c *CustomData) Len() int        { return len(c.values) }

// Scalar returns the first component of slot i.
func (c *CustomData) Scalar(i int) float64 {
	if len(c.values[i]) == 0 {
		return 0
	}
	return c.values[i][0]
}

func (c *CustomData) SetScalar(i int, v float64) {
	if len(c.values[i]) == 0 {
		c.values[i] = []float64{v}
		return
	}
	c.values[i][0] = v
}

func (c *CustomData) Vector(i int) []float64 {
	return append([]float64(nil), c.values[i]...)
}

func (c *CustomData) SetVector(i int, v []float64) {
	c.values[i] = append(c.values[i][:0], v...)
}

// Values returns a deep copy of the whole block.
func (c *CustomData) Values() [][]float64 {
	out := make([][]float64, len(c.values))
	for i, v := range c.values {
		out[i] = append([]float64(nil), v...)
	}
	return out
}

// RestoreCustomData rebuilds a value block, e.g. from a persisted population.
func RestoreCustomData(s *Schema, values [][]float64) (CustomData, error) {
	if s != nil && len(values) != s.Len() {
		return CustomData{}, fmt.Errorf("custom data has %d slots, schema has %d", len(values), s.Len())
	}
	return newCustomData(s, values), nil
}
