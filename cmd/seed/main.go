package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cellseed.ai/internal/persistence/indexdb"
	persistlog "cellseed.ai/internal/persistence/log"
	"cellseed.ai/internal/persistence/snapshot"
	"cellseed.ai/internal/sim/behavior"
	"cellseed.ai/internal/sim/catalogs"
	"cellseed.ai/internal/sim/coloring"
	"cellseed.ai/internal/sim/population"
	"cellseed.ai/internal/sim/rng"
	"cellseed.ai/internal/sim/seeding"
	"cellseed.ai/internal/sim/tuning"
)

func main() {
	var (
		configDir  = flag.String("configs", "./configs", "config directory (cell_definitions.json)")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		seed       = flag.Int64("seed", -1, "random seed override (negative: use random_seed from tuning)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite run index")
		snapOut    = flag.String("snapshot_out", "", "population snapshot path (default: <data>/runs/<run>/population.snap.zst)")
		describe   = flag.Bool("describe", true, "print the cell definitions before seeding")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.Lmicroseconds)
	ctx := context.Background()

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	if *seed >= 0 {
		tune.RandomSeed = *seed
	}

	reg, err := catalogs.Load(*configDir, behavior.ApplyCustom(behavior.Base(behavior.Engine{})))
	if err != nil {
		logger.Fatalf("load cell definitions: %v", err)
	}
	if *describe {
		reg.Describe(os.Stdout)
	}

	bounds, err := tune.Domain.Bounds()
	if err != nil {
		logger.Fatalf("domain: %v", err)
	}

	runID := uuid.NewString()
	runDir := filepath.Join(*dataDir, "runs", runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		logger.Fatalf("create run dir: %v", err)
	}
	started := time.Now()
	logger.Printf("run %s seed=%d domain=%s", runID, tune.RandomSeed, bounds)

	events := persistlog.NewSetupLogger(runDir, runID)
	fatal := func(format string, args ...any) {
		_ = events.Close()
		logger.Fatalf(format, args...)
	}

	idx, err := openRunIndex(*dataDir, *disableDB)
	if err != nil {
		fatal("open run index: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(ctx, reg.Digest, reg.Raw, tune); err != nil {
			logger.Printf("warning: index catalogs: %v", err)
		}
	}

	pop := population.New()
	seeder := seeding.NewSeeder(reg, bounds, pop, rng.New(tune.RandomSeed), logger, events)
	rep, err := seeder.Seed(tune)
	if err != nil {
		fatal("seed population: %v", err)
	}
	if err := events.Close(); err != nil {
		logger.Printf("warning: close event log: %v", err)
	}
	logger.Printf("seeded %d agents (random=%d imported=%d skipped=%d) events=%d",
		pop.Len(), rep.Random, rep.Import.Created, rep.Import.Skipped, events.Written())

	painter := coloring.NewPainter()
	for _, c := range painter.Tally(pop.All()) {
		logger.Printf("  %-14s %d", c.Color, c.N)
	}

	sp := strings.TrimSpace(*snapOut)
	if sp == "" {
		sp = filepath.Join(runDir, "population.snap.zst")
	}
	if err := snapshot.WriteSnapshot(sp, snapshot.FromPopulation(runID, tune.RandomSeed, bounds, reg, pop)); err != nil {
		logger.Fatalf("write snapshot: %v", err)
	}
	logger.Printf("snapshot written: %s", sp)

	cellID, _ := reg.Schema().Index(catalogs.VarCellID)
	run := indexdb.RunRow{
		ID:            runID,
		Seed:          tune.RandomSeed,
		CatalogDigest: reg.Digest,
		Bounds:        bounds.String(),
		Random:        rep.Random,
		Imported:      rep.Import.Created,
		Skipped:       rep.Import.Skipped,
		ImportSource:  rep.Import.Source,
		SnapshotPath:  sp,
		StartedAt:     started,
	}
	if err := indexRun(ctx, idx, run, pop, painter, cellID, rep); err != nil {
		logger.Printf("warning: run index: %v", err)
	}
}
