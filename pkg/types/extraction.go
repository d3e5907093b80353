// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractedFile describes one file written for a notebook cell.
type ExtractedFile struct {
	// Index is the 1-based position of the cell in the notebook, counting
	// skipped cells.
	Index int `json:"index" yaml:"index"`

	// CellType is the notebook cell type ("markdown" or "code").
	CellType string `json:"cell_type" yaml:"cell_type"`

	// Path is the written file path.
	Path string `json:"path" yaml:"path"`

	// Bytes is the size of the written content.
	Bytes int `json:"bytes" yaml:"bytes"`
}

// ChangeKind classifies a file when an output folder is replaced.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeRemoved   ChangeKind = "removed"
	ChangeModified  ChangeKind = "changed"
	ChangeUnchanged ChangeKind = "unchanged"
)

// FileChange compares one file of a replaced folder with its new version.
type FileChange struct {
	Name     string     `json:"name" yaml:"name"`
	Kind     ChangeKind `json:"kind" yaml:"kind"`
	Inserted int        `json:"inserted,omitempty" yaml:"inserted,omitempty"`
	Deleted  int        `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// ExtractionResult holds the outcome of extracting one notebook.
type ExtractionResult struct {
	// Notebook is the notebook file name as given.
	Notebook string `json:"notebook" yaml:"notebook"`

	// Folder is the output folder path.
	Folder string `json:"folder" yaml:"folder"`

	// Files lists written files in cell order.
	Files []ExtractedFile `json:"files" yaml:"files"`

	Markdown int `json:"markdown" yaml:"markdown"`
	Code     int `json:"code" yaml:"code"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Total    int `json:"total" yaml:"total"`

	// Replaced reports whether an existing folder was replaced.
	Replaced bool `json:"replaced" yaml:"replaced"`

	// Changes is the change report, set only when a folder was replaced
	// with the diff option on.
	Changes []FileChange `json:"changes,omitempty" yaml:"changes,omitempty"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}
