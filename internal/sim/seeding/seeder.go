package seeding

import (
	"io"
	"log"

	"cellseed.ai/internal/sim/catalogs"
	"cellseed.ai/internal/sim/domain"
	"cellseed.ai/internal/sim/population"
	"cellseed.ai/internal/sim/rng"
	"cellseed.ai/internal/sim/tuning"
)

// Seeder builds the initial tissue: random placement per template, then the
// optional record import.
type Seeder struct {
	reg    Registry
	bounds domain.Bounds
	pop    *population.Population
	rnd    *rng.Source
	log    *log.Logger
	sink   EventSink

	importer     *Importer
	restPosition slot
}

type Report struct {
	Random          int
	ImportPerformed bool
	Import          ImportResult
	RestPinned      int
}

// Total is the number of agents this setup added.
func (r Report) Total() int { return r.Random + r.Import.Created }

func NewSeeder(reg Registry, bounds domain.Bounds, pop *population.Population, rnd *rng.Source, logger *log.Logger, sink EventSink) *Seeder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Seeder{
		reg:          reg,
		bounds:       bounds,
		pop:          pop,
		rnd:          rnd,
		log:          logger,
		sink:         sink,
		importer:     NewImporter(reg, pop, logger, sink),
		restPosition: slot{name: catalogs.VarRestPosition},
	}
}

func (s *Seeder) Importer() *Importer { return s.importer }

// RandomSeed places count agents of every template, in registry order, at
// uniformly random positions inside the bounds. Each agent's rest_position is
// its placement position.
func (s *Seeder) RandomSeed(count int) (int, error) {
	rp, err := s.restPosition.index(s.reg.Schema())
	if err != nil {
		return 0, err
	}
	created := 0
	for _, t := range s.reg.Templates() {
		s.log.Printf("placing cells of type %s ...", t.Name)
		for n := 0; n < count; n++ {
			pos := s.bounds.Sample(s.rnd.Uniform)
			a := s.pop.Create(t, pos)
			a.Custom.SetVector(rp, pos.Slice())
			created++
			s.emit(agentEvent(EventPlaced, a))
		}
	}
	return created, nil
}

// ImportSeed runs the record import when the configuration enables it. A missing
// or unreadable initial_conditions block is a warning, not an error.
func (s *Seeder) ImportSeed(tune tuning.Tuning) (ImportResult, bool, error) {
	if tune.InitialConditions == nil || tune.InitialConditions.CellPositions == nil {
		reason := "initial_conditions missing"
		if tune.InitialConditionsErr != nil {
			reason = tune.InitialConditionsErr.Error()
		}
		s.log.Printf("warning: cell positions config has wrong formatting (%s); skipping import", reason)
		return ImportResult{}, false, nil
	}
	cp := *tune.InitialConditions.CellPositions
	if !cp.Enabled {
		return ImportResult{}, false, nil
	}
	res, err := s.importer.ImportFrom(cp)
	return res, true, err
}

// Seed is the whole setup step. On error the report holds what was created
// before the failure.
func (s *Seeder) Seed(tune tuning.Tuning) (Report, error) {
	var rep Report
	mark := s.pop.Len()

	n, err := s.RandomSeed(tune.NumberOfCells)
	rep.Random = n
	if err != nil {
		return rep, err
	}

	rep.Import, rep.ImportPerformed, err = s.ImportSeed(tune)
	if err != nil {
		return rep, err
	}

	rep.RestPinned, err = s.pinRestPositions(mark)
	return rep, err
}

// pinRestPositions sets rest_position to the current position for every agent
// created since mark, imported ones included.
func (s *Seeder) pinRestPositions(mark int) (int, error) {
	rp, err := s.restPosition.index(s.reg.Schema())
	if err != nil {
		return 0, err
	}
	agents := s.pop.Since(mark)
	for _, a := range agents {
		a.Custom.SetVector(rp, a.Pos.Slice())
	}
	return len(agents), nil
}

func (s *Seeder) emit(e Event) {
	if s.sink == nil {
		return
	}
	if err := s.sink.WriteSetupEvent(e); err != nil {
		s.log.Printf("warning: setup event log: %v", err)
	}
}
