// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pdiddy/ipynb-extractor/internal/history"
	"github.com/pdiddy/ipynb-extractor/pkg/types"
)

// extractorConfig resolves the extraction settings. The working directory
// is made absolute here, once, and passed down from then on.
func extractorConfig(v *viper.Viper) (types.ExtractorConfig, error) {
	dir := v.GetString("dir")
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return types.ExtractorConfig{}, fmt.Errorf("resolving working directory %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return types.ExtractorConfig{}, fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return types.ExtractorConfig{}, fmt.Errorf("working directory %s is not a directory", abs)
	}

	policy, err := types.ParseOverwritePolicy(v.GetString("overwrite"))
	if err != nil {
		return types.ExtractorConfig{}, err
	}

	return types.ExtractorConfig{
		WorkDir:   abs,
		Overwrite: policy,
		Diff:      v.GetBool("diff"),
		Logger:    newLogger(os.Stderr, v.GetBool("verbose")),
	}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// historyConfig resolves the history database settings.
func historyConfig(v *viper.Viper) types.HistoryConfig {
	path := v.GetString("history_db")
	if path == "" {
		path = defaultHistoryPath()
	}
	return types.HistoryConfig{
		Path:       path,
		Disabled:   v.GetBool("no_history"),
		MaxResults: v.GetInt("history_max_results"),
	}
}

// defaultHistoryPath is history.db next to the user config file.
func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ipynb-extractor", history.DBFile)
	}
	return filepath.Join(home, ".config", "ipynb-extractor", history.DBFile)
}

// openHistory opens the history store for recording. It returns nil when
// recording is disabled or the store cannot be opened; the latter is only
// a warning because extraction does not depend on it.
func openHistory(v *viper.Viper, w io.Writer) *history.Store {
	cfg := historyConfig(v)
	if cfg.Disabled {
		return nil
	}
	store, err := history.Open(cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: extraction history disabled: %v\n", err)
		return nil
	}
	return store
}
