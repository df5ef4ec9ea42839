// Package store handles SQLite persistence of training run histories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/thumbkey/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Store wraps SQLite access for run data.
type Store struct {
	db *sql.DB
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	Preset string
	Since  *time.Time
	// Last keeps only the most recent N runs. Zero keeps all.
	Last int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL DEFAULT '',
			preset TEXT NOT NULL,
			grid_columns INTEGER NOT NULL,
			grid_rows INTEGER NOT NULL,
			charset TEXT NOT NULL,
			seed INTEGER NOT NULL,
			population_size INTEGER NOT NULL,
			parents INTEGER NOT NULL,
			generations INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			corpus_entries INTEGER NOT NULL,
			control_fitness REAL NOT NULL DEFAULT 0,
			best_fitness REAL NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			best REAL NOT NULL,
			mean REAL NOT NULL,
			stddev REAL NOT NULL,
			min REAL NOT NULL,
			control REAL NOT NULL,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateRun stores the start of a run and returns its id. A new id is generated when run.ID is empty.
func (s *Store) CreateRun(ctx context.Context, run model.RunRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, preset, grid_columns, grid_rows, charset, seed, population_size, parents, generations, corpus_entries)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(time.RFC3339Nano),
		run.Preset,
		run.Columns,
		run.Rows,
		run.Charset,
		run.Seed,
		run.PopulationSize,
		run.Parents,
		run.Generations,
		run.CorpusEntries,
	)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// AppendGeneration records one generation of a run.
func (s *Store) AppendGeneration(ctx context.Context, runID string, gen model.GenerationStats) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO generations (run_id, generation, best, mean, stddev, min, control, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, gen.Generation, gen.Best, gen.Mean, gen.StdDev, gen.Min, gen.Control, gen.DurationMs,
	)
	return err
}

// FinishRun stores the outcome of a run.
func (s *Store) FinishRun(ctx context.Context, run model.RunRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET ended_at = ?, completed = ?, control_fitness = ?, best_fitness = ? WHERE id = ?`,
		run.EndedAt.Format(time.RFC3339Nano), run.Completed, run.ControlFitness, run.BestFitness, run.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return nil
}

const runColumns = `id, started_at, ended_at, preset, grid_columns, grid_rows, charset, seed, population_size, parents,
	generations, completed, corpus_entries, control_fitness, best_fitness`

// GetRun loads one run.
func (s *Store) GetRun(ctx context.Context, id string) (model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// ListRuns returns runs oldest first.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Preset != "" {
		clauses = append(clauses, "preset = ?")
		args = append(args, filter.Preset)
	}
	if filter.Since != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT %s FROM runs WHERE %s ORDER BY started_at DESC`, runColumns, strings.Join(clauses, " AND "))
	if filter.Last > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// ListGenerations returns the generations of a run in order.
func (s *Store) ListGenerations(ctx context.Context, runID string) ([]model.GenerationStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT generation, best, mean, stddev, min, control, duration_ms
		 FROM generations WHERE run_id = ? ORDER BY generation ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var gens []model.GenerationStats
	for rows.Next() {
		var g model.GenerationStats
		if err := rows.Scan(&g.Generation, &g.Best, &g.Mean, &g.StdDev, &g.Min, &g.Control, &g.DurationMs); err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return gens, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.RunRecord, error) {
	var run model.RunRecord
	var startedAt, endedAt string
	if err := row.Scan(&run.ID, &startedAt, &endedAt, &run.Preset, &run.Columns, &run.Rows, &run.Charset,
		&run.Seed, &run.PopulationSize, &run.Parents, &run.Generations, &run.Completed, &run.CorpusEntries,
		&run.ControlFitness, &run.BestFitness); err != nil {
		return model.RunRecord{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return model.RunRecord{}, err
	}
	run.StartedAt = parsed
	if endedAt != "" {
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return model.RunRecord{}, err
		}
		run.EndedAt = parsed
	}
	return run, nil
}
