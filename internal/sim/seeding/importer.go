package seeding

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"cellseed.ai/internal/sim/catalogs"
	"cellseed.ai/internal/sim/model"
	"cellseed.ai/internal/sim/population"
	"cellseed.ai/internal/sim/tuning"
)

// recordFields is the arity of a cell position row: x,y,z,typeID,cellID.
const recordFields = 5

// Registry is the template lookup the seeding steps need.
type Registry interface {
	Resolve(typ int) (*model.Template, bool)
	Templates() []*model.Template
	Schema() *model.Schema
}

type Record struct {
	Pos        model.Vec3
	Type       int
	ExternalID int
}

// RowWarning is a record that parsed fine but named no registered template.
type RowWarning struct {
	Source string
	Line   int
	Type   int
	Pos    model.Vec3
}

func (w RowWarning) String() string {
	return fmt.Sprintf("no cell definition found for type %d; ignoring cell in %s:%d at position %v", w.Type, w.Source, w.Line, w.Pos)
}

type ImportResult struct {
	Source   string
	Created  int
	Skipped  int
	Warnings []RowWarning
}

// Importer creates agents from cell position records.
type Importer struct {
	reg  Registry
	pop  *population.Population
	log  *log.Logger
	sink EventSink

	cellID slot
}

func NewImporter(reg Registry, pop *population.Population, logger *log.Logger, sink EventSink) *Importer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Importer{
		reg:    reg,
		pop:    pop,
		log:    logger,
		sink:   sink,
		cellID: slot{name: catalogs.VarCellID},
	}
}

// ImportFrom dispatches on the configured format. Only CSV is implemented; every
// other selector fails so a misconfigured run never starts half-populated.
func (im *Importer) ImportFrom(cp tuning.CellPositions) (ImportResult, error) {
	path := cp.Path()
	switch cp.Type {
	case "csv", "CSV":
		im.log.Printf("loading cells from CSV file %s ...", path)
		return im.Import(path)
	case "matlab", "mat", "MAT":
		return ImportResult{Source: path}, fmt.Errorf("%w: load cell positions from matlab not yet supported. Try CSV", ErrUnsupportedFormat)
	case "scene":
		return ImportResult{Source: path}, fmt.Errorf("%w: load cell positions from scene not yet supported. Try CSV", ErrUnsupportedFormat)
	case "physicell", "PhysiCell":
		return ImportResult{Source: path}, fmt.Errorf("%w: load cell positions from PhysiCell snapshot not yet supported. Try CSV", ErrUnsupportedFormat)
	default:
		return ImportResult{Source: path}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, cp.Type)
	}
}

// Import reads a record file. Files ending in .zst are decompressed on the fly.
func (im *Importer) Import(path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Source: path}, fmt.Errorf("%w: %s: %w", ErrRecordFileNotFound, path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return ImportResult{Source: path}, fmt.Errorf("%s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}
	return im.ImportReader(r, path)
}

// ImportReader processes records until EOF or the first malformed row. Agents
// created before a malformed row stay in the population.
func (im *Importer) ImportReader(r io.Reader, source string) (ImportResult, error) {
	res := ImportResult{Source: source}

	idx, err := im.cellID.index(im.reg.Schema())
	if err != nil {
		return res, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return res, &MalformedRecordError{Source: source, Line: pe.Line, Reason: pe.Err.Error()}
			}
			return res, fmt.Errorf("%s: %w", source, err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRecord(fields)
		if err != nil {
			var me *MalformedRecordError
			if errors.As(err, &me) {
				me.Source, me.Line = source, line
			}
			return res, err
		}

		t, ok := im.reg.Resolve(rec.Type)
		if !ok {
			w := RowWarning{Source: source, Line: line, Type: rec.Type, Pos: rec.Pos}
			im.log.Printf("warning: %s", w)
			res.Skipped++
			res.Warnings = append(res.Warnings, w)
			im.emit(Event{
				Kind:       EventSkipped,
				AgentID:    -1,
				Type:       rec.Type,
				Pos:        [3]float64{rec.Pos.X, rec.Pos.Y, rec.Pos.Z},
				ExternalID: rec.ExternalID,
				Source:     source,
				Line:       line,
			})
			continue
		}

		im.log.Printf("creating %s (type=%d) at %v", t.Name, t.Type, rec.Pos)
		a := im.pop.Create(t, rec.Pos)
		a.Custom.SetScalar(idx, float64(rec.ExternalID))
		res.Created++

		ev := agentEvent(EventImported, a)
		ev.ExternalID = rec.ExternalID
		ev.Source = source
		ev.Line = line
		im.emit(ev)
	}
	return res, nil
}

func parseRecord(fields []string) (Record, error) {
	if len(fields) != recordFields {
		return Record{}, &MalformedRecordError{Fields: len(fields)}
	}
	var v [recordFields]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return Record{}, &MalformedRecordError{Fields: len(fields), Reason: fmt.Sprintf("field %d (%q) is not a finite number", i+1, f)}
		}
		v[i] = x
	}
	return Record{
		Pos:        model.Vec3{X: v[0], Y: v[1], Z: v[2]},
		Type:       int(v[3]),
		ExternalID: int(v[4]),
	}, nil
}

func (im *Importer) emit(e Event) {
	if im.sink == nil {
		return
	}
	if err := im.sink.WriteSetupEvent(e); err != nil {
		im.log.Printf("warning: setup event log: %v", err)
	}
}
