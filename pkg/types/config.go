// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"log/slog"
)

// NotebookExtension is the file extension (without dot) of Jupyter notebooks.
const NotebookExtension = "ipynb"

// OverwritePolicy decides what happens when a notebook's output folder
// already exists.
type OverwritePolicy string

const (
	// OverwritePrompt asks the user, defaulting to no.
	OverwritePrompt OverwritePolicy = "prompt"
	// OverwriteAlways replaces the folder without asking.
	OverwriteAlways OverwritePolicy = "always"
	// OverwriteNever refuses to replace an existing folder.
	OverwriteNever OverwritePolicy = "never"
)

// ParseOverwritePolicy converts a config or flag value to an OverwritePolicy.
// The empty string maps to OverwritePrompt.
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	switch p := OverwritePolicy(s); p {
	case "":
		return OverwritePrompt, nil
	case OverwritePrompt, OverwriteAlways, OverwriteNever:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported overwrite policy %q: use prompt, always, or never", s)
	}
}

// ExtractorConfig holds settings for the extraction engine.
type ExtractorConfig struct {
	// WorkDir is the directory notebooks are read from and output folders
	// are created in. It is resolved once at startup.
	WorkDir string `json:"dir" yaml:"dir"`

	// Overwrite selects how an existing output folder is handled (default prompt).
	Overwrite OverwritePolicy `json:"overwrite" yaml:"overwrite"`

	// Diff enables the change report when an existing folder is replaced.
	Diff bool `json:"diff" yaml:"diff"`

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Defaults fills unset fields.
func (c *ExtractorConfig) Defaults() {
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	if c.Overwrite == "" {
		c.Overwrite = OverwritePrompt
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// HistoryConfig holds settings for the extraction history database.
type HistoryConfig struct {
	// Path is the SQLite database file.
	Path string `json:"history_db" yaml:"history_db"`

	// Disabled turns off recording of extraction runs.
	Disabled bool `json:"no_history" yaml:"no_history"`

	// MaxResults is the default number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
