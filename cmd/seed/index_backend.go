package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cellseed.ai/internal/persistence/indexdb"
	"cellseed.ai/internal/sim/coloring"
	"cellseed.ai/internal/sim/population"
	"cellseed.ai/internal/sim/seeding"
)

func openRunIndex(dataDir string, disableDB bool) (*indexdb.SQLiteIndex, error) {
	if disableDB {
		return nil, nil
	}
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("CS_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}
	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		return indexdb.OpenSQLite(filepath.Join(dataDir, "index", "runs.sqlite"))
	default:
		return nil, fmt.Errorf("unsupported CS_INDEX_BACKEND: %s", backend)
	}
}

func indexRun(ctx context.Context, idx *indexdb.SQLiteIndex, run indexdb.RunRow, pop *population.Population, painter *coloring.Painter, cellID int, rep seeding.Report) error {
	if idx == nil {
		return nil
	}
	if err := idx.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	rows := make([]indexdb.AgentRow, 0, pop.Len())
	for _, a := range pop.All() {
		rows = append(rows, indexdb.AgentRow{
			ID:       a.ID,
			Type:     a.TypeCode(),
			TypeName: a.TypeName(),
			X:        a.Pos.X,
			Y:        a.Pos.Y,
			Z:        a.Pos.Z,
			CellID:   a.Custom.Scalar(cellID),
			Color:    painter.ColorOf(a).Cytoplasm(),
		})
	}
	if err := idx.RecordAgents(ctx, run.ID, rows); err != nil {
		return fmt.Errorf("record agents: %w", err)
	}
	if err := idx.RecordWarnings(ctx, run.ID, rep.Import.Warnings); err != nil {
		return fmt.Errorf("record import warnings: %w", err)
	}
	return nil
}
