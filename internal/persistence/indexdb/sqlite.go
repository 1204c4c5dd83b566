package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cellseed.ai/internal/sim/seeding"
	"cellseed.ai/internal/sim/tuning"
)

// SQLiteIndex is a queryable secondary index over seeding runs. The snapshot
// and the event log stay the source of truth.
type SQLiteIndex struct {
	db *sql.DB
}

type RunRow struct {
	ID            string
	Seed          int64
	CatalogDigest string
	Bounds        string
	Random        int
	Imported      int
	Skipped       int
	ImportSource  string
	SnapshotPath  string
	StartedAt     time.Time
}

type AgentRow struct {
	ID       int
	Type     int
	TypeName string
	X, Y, Z  float64
	CellID   float64
	Color    string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			catalog_digest TEXT NOT NULL,
			bounds TEXT NOT NULL,
			random_agents INTEGER NOT NULL,
			imported_agents INTEGER NOT NULL,
			skipped_rows INTEGER NOT NULL,
			import_source TEXT,
			snapshot_path TEXT,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS agents (
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			agent_id INTEGER NOT NULL,
			type INTEGER NOT NULL,
			type_name TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			cell_id REAL NOT NULL,
			color TEXT NOT NULL,
			PRIMARY KEY (run_id, agent_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_agents_run_type ON agents(run_id, type);`,
		`CREATE TABLE IF NOT EXISTS import_warnings (
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			source TEXT NOT NULL,
			line INTEGER NOT NULL,
			type INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			PRIMARY KEY (run_id, source, line)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UpsertCatalogs stores the cell definitions as loaded and the tuning values
// actually applied (canonical JSON).
func (s *SQLiteIndex) UpsertCatalogs(ctx context.Context, defsDigest string, defsJSON []byte, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	rows := []kv{{name: "cell_definitions", digest: defsDigest, json: defsJSON}}
	if b, err := json.Marshal(tune); err == nil {
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) RecordRun(ctx context.Context, r RunRow) error {
	if s == nil {
		return nil
	}
	if r.ID == "" {
		return fmt.Errorf("record run: empty run id")
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs(run_id,seed,catalog_digest,bounds,random_agents,imported_agents,skipped_rows,import_source,snapshot_path,started_at) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.Seed, r.CatalogDigest, r.Bounds, r.Random, r.Imported, r.Skipped, r.ImportSource, r.SnapshotPath,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// SetSnapshotPath records where the run's population snapshot was written.
func (s *SQLiteIndex) SetSnapshotPath(ctx context.Context, runID, path string) error {
	if s == nil {
		return nil
	}
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET snapshot_path=? WHERE run_id=?`, path, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set snapshot path: unknown run %s", runID)
	}
	return nil
}

func (s *SQLiteIndex) RecordAgents(ctx context.Context, runID string, agents []AgentRow) error {
	if s == nil || len(agents) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO agents(run_id,agent_id,type,type_name,x,y,z,cell_id,color) VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, a := range agents {
		if _, err := stmt.ExecContext(ctx, runID, a.ID, a.Type, a.TypeName, a.X, a.Y, a.Z, a.CellID, a.Color); err != nil {
			return fmt.Errorf("agent %d: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) RecordWarnings(ctx context.Context, runID string, warnings []seeding.RowWarning) error {
	if s == nil || len(warnings) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO import_warnings(run_id,source,line,type,x,y,z) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, w := range warnings {
		if _, err := stmt.ExecContext(ctx, runID, w.Source, w.Line, w.Type, w.Pos.X, w.Pos.Y, w.Pos.Z); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LookupRun returns sql.ErrNoRows for unknown ids.
func (s *SQLiteIndex) LookupRun(ctx context.Context, runID string) (RunRow, error) {
	var (
		r       RunRow
		src     sql.NullString
		snap    sql.NullString
		started string
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id,seed,catalog_digest,bounds,random_agents,imported_agents,skipped_rows,import_source,snapshot_path,started_at FROM runs WHERE run_id=?`,
		runID)
	if err := row.Scan(&r.ID, &r.Seed, &r.CatalogDigest, &r.Bounds, &r.Random, &r.Imported, &r.Skipped, &src, &snap, &started); err != nil {
		return r, err
	}
	r.ImportSource, r.SnapshotPath = src.String, snap.String
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	return r, nil
}

// CountByType returns agents per type code for one run.
func (s *SQLiteIndex) CountByType(ctx context.Context, runID string) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM agents WHERE run_id=? GROUP BY type`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int]int{}
	for rows.Next() {
		var typ, n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		out[typ] = n
	}
	return out, rows.Err()
}
