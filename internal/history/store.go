// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite record of extraction runs: which notebook
// was extracted when, into which folder, and which cell files were written.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ipynb-extractor/pkg/types"
)

const (
	// DBFile is the database file name inside the default history directory.
	DBFile = "history.db"

	defaultMaxResults = 20

	// timeLayout is fixed width so that stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the history database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the history database at cfg.Path, creating the
// parent directory and schema as needed.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			notebook TEXT NOT NULL,
			folder TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			markdown INTEGER NOT NULL DEFAULT 0,
			code INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0,
			replaced INTEGER NOT NULL DEFAULT 0,
			changes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			cell_index INTEGER NOT NULL,
			cell_type TEXT NOT NULL,
			path TEXT NOT NULL,
			bytes INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, cell_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_notebook ON runs(notebook)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one extraction result with its files in a single
// transaction and returns the new run ID.
func (s *Store) Record(ctx context.Context, r types.ExtractionResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var changesJSON sql.NullString
	if r.Changes != nil {
		data, err := json.Marshal(r.Changes)
		if err != nil {
			return 0, fmt.Errorf("encoding changes: %w", err)
		}
		changesJSON = sql.NullString{String: string(data), Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (notebook, folder, started_at, duration_ms, markdown, code, skipped, total, replaced, changes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Notebook, r.Folder, r.StartedAt.UTC().Format(timeLayout),
		r.Duration.Milliseconds(), r.Markdown, r.Code, r.Skipped, r.Total,
		r.Replaced, changesJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, cell_index, cell_type, path, bytes) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range r.Files {
		if _, err := stmt.ExecContext(ctx, runID, f.Index, f.CellType, f.Path, f.Bytes); err != nil {
			return 0, fmt.Errorf("inserting file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}
