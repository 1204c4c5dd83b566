package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_RepoTuning(t *testing.T) {
	tune, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tune.NumberOfCells != 5 {
		t.Fatalf("number_of_cells=%d want 5", tune.NumberOfCells)
	}
	if !tune.Domain.Use2D {
		t.Fatalf("use_2D should be true")
	}
	if tune.InitialConditions == nil || tune.InitialConditionsErr != nil {
		t.Fatalf("initial conditions not decoded: %v", tune.InitialConditionsErr)
	}
	cp := tune.InitialConditions.CellPositions
	if !cp.Enabled || cp.Type != "csv" || cp.Path() != "./configs/cells.csv" {
		t.Fatalf("cell_positions=%+v path=%s", cp, cp.Path())
	}
	b, err := tune.Domain.Bounds()
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if b.Min.Z != 0 || b.Max.Z != 0 {
		t.Fatalf("2D bounds should collapse z: %v", b)
	}
}

func TestParse_MissingOrBrokenInitialConditionsIsNotFatal(t *testing.T) {
	cases := map[string]string{
		"missing": `
number_of_cells: 2
domain: {x_min: 0, x_max: 1, y_min: 0, y_max: 1}
`,
		"missing cell_positions": `
number_of_cells: 2
domain: {x_min: 0, x_max: 1, y_min: 0, y_max: 1}
initial_conditions: {}
`,
		"wrong shape": `
number_of_cells: 2
domain: {x_min: 0, x_max: 1, y_min: 0, y_max: 1}
initial_conditions: "load everything"
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			tune, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if tune.InitialConditions != nil {
				t.Fatalf("expected no initial conditions, got %+v", tune.InitialConditions)
			}
			if tune.InitialConditionsErr == nil {
				t.Fatalf("expected a reason for the missing block")
			}
			if tune.NumberOfCells != 2 {
				t.Fatalf("rest of the document lost: %+v", tune)
			}
		})
	}
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":              ``,
		"negative count":     "number_of_cells: -1\ndomain: {x_min: 0, x_max: 1, y_min: 0, y_max: 1}\n",
		"fractional count":   "number_of_cells: 1.5\ndomain: {x_min: 0, x_max: 1, y_min: 0, y_max: 1}\n",
		"missing domain":     "number_of_cells: 1\n",
		"unknown domain key": "number_of_cells: 1\ndomain: {x_min: 0, x_max: 1, y_min: 0, y_max: 1, w_min: 3}\n",
		"inverted axis":      "number_of_cells: 1\ndomain: {x_min: 2, x_max: 1, y_min: 0, y_max: 1}\n",
		"bad yaml":           "number_of_cells: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	tune, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if tune.Domain.XMax != 500 || !tune.Domain.Use2D {
		t.Fatalf("defaults not returned: %+v", tune)
	}
}
