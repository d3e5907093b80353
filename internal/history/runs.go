// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/ipynb-extractor/pkg/types"
)

// QueryOptions filters the runs returned by Runs.
type QueryOptions struct {
	// Notebook restricts results to one notebook name.
	Notebook string

	// Limit caps the number of runs. Zero uses the store default.
	Limit int

	// WithFiles loads the file list of every run.
	WithFiles bool
}

// Run is a recorded extraction.
type Run struct {
	ID                     int64 `json:"id" yaml:"id"`
	types.ExtractionResult `yaml:",inline"`
}

// Runs returns recorded runs, newest first.
func (s *Store) Runs(ctx context.Context, opts QueryOptions) ([]Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT id, notebook, folder, started_at, duration_ms, markdown, code,
			skipped, total, replaced, changes
		FROM runs WHERE 1=1`)
	if opts.Notebook != "" {
		qb.WriteString(` AND notebook = ?`)
		args = append(args, opts.Notebook)
	}
	qb.WriteString(` ORDER BY started_at DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  string
			durationMS int64
			changes    sql.NullString
		)
		if err := rows.Scan(
			&r.ID, &r.Notebook, &r.Folder, &startedAt, &durationMS,
			&r.Markdown, &r.Code, &r.Skipped, &r.Total, &r.Replaced, &changes,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		t, err := time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("decoding run %d: %w", r.ID, err)
		}
		r.StartedAt = t
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if changes.Valid {
			if err := json.Unmarshal([]byte(changes.String), &r.Changes); err != nil {
				return nil, fmt.Errorf("decoding run %d: %w", r.ID, err)
			}
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if opts.WithFiles {
		for i := range runs {
			files, err := s.Files(ctx, runs[i].ID)
			if err != nil {
				return nil, err
			}
			runs[i].Files = files
		}
	}
	return runs, nil
}

// Files returns the files written by a run in cell order.
func (s *Store) Files(ctx context.Context, runID int64) ([]types.ExtractedFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cell_index, cell_type, path, bytes FROM files WHERE run_id = ? ORDER BY cell_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files of run %d: %w", runID, err)
	}
	defer rows.Close()

	var files []types.ExtractedFile
	for rows.Next() {
		var f types.ExtractedFile
		if err := rows.Scan(&f.Index, &f.CellType, &f.Path, &f.Bytes); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
