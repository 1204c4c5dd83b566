package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cellseed.ai/internal/sim/domain"
	"cellseed.ai/internal/sim/model"
)

type Tuning struct {
	RandomSeed    int64  `yaml:"random_seed" json:"random_seed"`
	NumberOfCells int    `yaml:"number_of_cells" json:"number_of_cells"`
	Domain        Domain `yaml:"domain" json:"domain"`

	// InitialConditions is nil when the block is missing or could not be
	// decoded; InitialConditionsErr says which.
	InitialConditions    *InitialConditions `yaml:"-" json:"initial_conditions,omitempty"`
	InitialConditionsErr error              `yaml:"-" json:"-"`
}

type Domain struct {
	XMin  float64 `yaml:"x_min" json:"x_min"`
	XMax  float64 `yaml:"x_max" json:"x_max"`
	YMin  float64 `yaml:"y_min" json:"y_min"`
	YMax  float64 `yaml:"y_max" json:"y_max"`
	ZMin  float64 `yaml:"z_min" json:"z_min"`
	ZMax  float64 `yaml:"z_max" json:"z_max"`
	Use2D bool    `yaml:"use_2D" json:"use_2D"`
}

// Bounds applies the 2D collapse and checks the axes.
func (d Domain) Bounds() (domain.Bounds, error) {
	return domain.New(
		model.Vec3{X: d.XMin, Y: d.YMin, Z: d.ZMin},
		model.Vec3{X: d.XMax, Y: d.YMax, Z: d.ZMax},
		d.Use2D,
	)
}

type InitialConditions struct {
	CellPositions *CellPositions `yaml:"cell_positions" json:"cell_positions,omitempty"`
}

type CellPositions struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Type     string `yaml:"type" json:"type"`
	Folder   string `yaml:"folder" json:"folder"`
	Filename string `yaml:"filename" json:"filename"`
}

// Path is folder and filename joined by a slash.
func (c CellPositions) Path() string { return c.Folder + "/" + c.Filename }

// document mirrors Tuning but keeps initial_conditions undecoded so a broken
// block only disables the import instead of failing the whole file.
type document struct {
	RandomSeed        int64     `yaml:"random_seed"`
	NumberOfCells     int       `yaml:"number_of_cells"`
	Domain            Domain    `yaml:"domain"`
	InitialConditions yaml.Node `yaml:"initial_conditions"`
}

func Defaults() Tuning {
	return Tuning{
		RandomSeed:    0,
		NumberOfCells: 0,
		Domain: Domain{
			XMin: -500, XMax: 500,
			YMin: -500, YMax: 500,
			ZMin: -10, ZMax: 10,
			Use2D: true,
		},
		InitialConditionsErr: errMissingInitialConditions,
	}
}

var (
	errMissingInitialConditions = fmt.Errorf("initial_conditions block missing")
	errMissingCellPositions     = fmt.Errorf("initial_conditions.cell_positions block missing")
)

func Load(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	t, err := Parse(raw)
	if err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func Parse(raw []byte) (Tuning, error) {
	t := Defaults()
	if err := validateDocument(raw); err != nil {
		return t, err
	}
	doc := document{
		RandomSeed:    t.RandomSeed,
		NumberOfCells: t.NumberOfCells,
		Domain:        t.Domain,
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return t, err
	}
	t.RandomSeed = doc.RandomSeed
	t.NumberOfCells = doc.NumberOfCells
	t.Domain = doc.Domain
	t.InitialConditions, t.InitialConditionsErr = decodeInitialConditions(&doc.InitialConditions)
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func decodeInitialConditions(n *yaml.Node) (*InitialConditions, error) {
	if n.Kind == 0 {
		return nil, errMissingInitialConditions
	}
	var ic InitialConditions
	if err := n.Decode(&ic); err != nil {
		return nil, fmt.Errorf("initial_conditions: %w", err)
	}
	if ic.CellPositions == nil {
		return nil, errMissingCellPositions
	}
	return &ic, nil
}

func (t *Tuning) Normalize() {
	if t == nil || t.InitialConditions == nil || t.InitialConditions.CellPositions == nil {
		return
	}
	cp := t.InitialConditions.CellPositions
	cp.Type = strings.TrimSpace(cp.Type)
	cp.Folder = strings.TrimSpace(cp.Folder)
	cp.Filename = strings.TrimSpace(cp.Filename)
}

func (t Tuning) Validate() error {
	if t.NumberOfCells < 0 {
		return fmt.Errorf("number_of_cells must be >= 0")
	}
	if _, err := t.Domain.Bounds(); err != nil {
		return err
	}
	return nil
}
