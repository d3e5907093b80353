// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ipynb-extractor/internal/history"
	"github.com/pdiddy/ipynb-extractor/internal/prompt"
	"github.com/pdiddy/ipynb-extractor/pkg/types"
)

const demoNotebook = `{"cells":[{"cell_type":"markdown","source":["# Title\n"]},{"cell_type":"code","source":["x = 1\n","print(x)\n"]}]}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestHelpText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
		ok   bool
	}{
		{"no args", nil, "", false},
		{"brief", []string{"-h"}, helpBrief, true},
		{"brief prefix", []string{"-hx"}, helpBrief, true},
		{"full", []string{"--help"}, helpFull, true},
		{"full prefix", []string{"--hlp"}, helpFull, true},
		{"notebook first", []string{"a.ipynb", "-h"}, "", false},
		{"other flag", []string{"--dir"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := helpText(tt.args)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHelpTextsAreEmbedded(t *testing.T) {
	assert.NotEmpty(t, helpBrief)
	assert.NotEmpty(t, helpFull)
	assert.Greater(t, len(helpFull), len(helpBrief))
}

func TestValidateNotebookArgs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ipynb", demoNotebook)
	writeFile(t, dir, "b.ipynb", demoNotebook)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.ipynb"), 0o755))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "c.ipynb", demoNotebook)

	parent := filepath.Dir(dir)
	writeFile(t, parent, ".ipynb", demoNotebook)
	elsewhere := t.TempDir()
	writeFile(t, elsewhere, "d.ipynb", demoNotebook)
	absolute := filepath.Join(elsewhere, "d.ipynb")

	tests := []struct {
		name    string
		args    []string
		wantErr string
		wantOut string
	}{
		{
			name:    "all present",
			args:    []string{"a.ipynb", "b.ipynb"},
			wantOut: "a.ipynb exists in: " + dir + "\nb.ipynb exists in: " + dir + "\n",
		},
		{
			name:    "wrong extension checked before existence",
			args:    []string{"missing.ipynb", "notes.txt"},
			wantErr: "must be a .ipynb file: notes.txt is not valid",
		},
		{
			name:    "no extension",
			args:    []string{"ipynb"},
			wantErr: "must be a .ipynb file: ipynb is not valid",
		},
		{
			name:    "missing file",
			args:    []string{"a.ipynb", "missing.ipynb"},
			wantErr: "missing.ipynb not in directory " + dir,
			wantOut: "a.ipynb exists in: " + dir + "\n",
		},
		{
			name:    "directory is not a notebook",
			args:    []string{"folder.ipynb"},
			wantErr: "folder.ipynb not in directory " + dir,
		},
		{
			name:    "absolute path elsewhere",
			args:    []string{absolute},
			wantErr: absolute + " not in directory " + dir,
		},
		{
			name:    "parent directory",
			args:    []string{"../.ipynb"},
			wantErr: "../.ipynb not in directory " + dir,
		},
		{
			name:    "subdirectory",
			args:    []string{"a.ipynb", "sub/c.ipynb"},
			wantErr: "sub/c.ipynb not in directory " + dir,
			wantOut: "a.ipynb exists in: " + dir + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := validateNotebookArgs(tt.args, dir, &out)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func TestSelectNotebook(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.ipynb", demoNotebook)
	writeFile(t, dir, "a.ipynb", demoNotebook)
	writeFile(t, dir, "notes.txt", "x")

	var out bytes.Buffer
	p := prompt.New(strings.NewReader("2\n"), &out)
	name, err := selectNotebook(p, dir, &out)
	require.NoError(t, err)
	assert.Equal(t, "b.ipynb", name)
	assert.Contains(t, out.String(), "  1. a.ipynb\n  2. b.ipynb\n")
	assert.Contains(t, out.String(), "File selected for extraction of cells: b.ipynb\n")
	assert.NotContains(t, out.String(), "notes.txt")
}

func TestSelectNotebookNoCandidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "x")

	var out bytes.Buffer
	p := prompt.New(strings.NewReader(""), &out)
	_, err := selectNotebook(p, dir, &out)
	require.EqualError(t, err, "no files with extension of .ipynb were found in "+dir)
	assert.Empty(t, out.String())
}

func TestExtractorConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	writeFile(t, dir, "file", "x")

	tests := []struct {
		name     string
		settings map[string]any
		wantErr  string
		wantDir  string
		wantPol  types.OverwritePolicy
		wantDiff bool
	}{
		{
			name:     "defaults to prompt",
			settings: map[string]any{"dir": dir},
			wantDir:  dir,
			wantPol:  types.OverwritePrompt,
		},
		{
			name:     "always with diff",
			settings: map[string]any{"dir": dir, "overwrite": "always", "diff": true},
			wantDir:  dir,
			wantPol:  types.OverwriteAlways,
			wantDiff: true,
		},
		{
			name:     "unknown policy",
			settings: map[string]any{"dir": dir, "overwrite": "sometimes"},
			wantErr:  "sometimes",
		},
		{
			name:     "missing directory",
			settings: map[string]any{"dir": filepath.Join(dir, "nope")},
			wantErr:  "working directory",
		},
		{
			name:     "file is not a directory",
			settings: map[string]any{"dir": file},
			wantErr:  "is not a directory",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.settings {
				v.Set(k, val)
			}
			cfg, err := extractorConfig(v)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, cfg.WorkDir)
			assert.Equal(t, tt.wantPol, cfg.Overwrite)
			assert.Equal(t, tt.wantDiff, cfg.Diff)
			assert.NotNil(t, cfg.Logger)
		})
	}
}

func TestHistoryConfig(t *testing.T) {
	v := viper.New()
	cfg := historyConfig(v)
	assert.Equal(t, history.DBFile, filepath.Base(cfg.Path))
	assert.False(t, cfg.Disabled)

	v.Set("history_db", "/tmp/custom.db")
	v.Set("no_history", true)
	v.Set("history_max_results", 5)
	cfg = historyConfig(v)
	assert.Equal(t, "/tmp/custom.db", cfg.Path)
	assert.True(t, cfg.Disabled)
	assert.Equal(t, 5, cfg.MaxResults)
}

func TestOpenHistoryDisabled(t *testing.T) {
	v := viper.New()
	v.Set("no_history", true)
	var out bytes.Buffer
	assert.Nil(t, openHistory(v, &out))
	assert.Empty(t, out.String())
}

func TestFormatRunsEmpty(t *testing.T) {
	var out bytes.Buffer
	formatRuns(&out, nil, false)
	assert.Equal(t, "No extraction runs recorded.\n", out.String())
}

func TestFormatRunsWithFiles(t *testing.T) {
	runs := []history.Run{{
		ID: 3,
		ExtractionResult: types.ExtractionResult{
			Notebook: "demo.ipynb",
			Markdown: 1,
			Code:     1,
			Total:    2,
			Replaced: true,
			Files: []types.ExtractedFile{
				{Index: 1, CellType: "markdown", Path: "demo_01.md", Bytes: 8},
			},
		},
	}}
	var out bytes.Buffer
	formatRuns(&out, runs, true)
	assert.Contains(t, out.String(), "demo.ipynb")
	assert.Contains(t, out.String(), "yes")
	assert.Contains(t, out.String(), "01  markdown  demo_01.md (8 bytes)")
	assert.True(t, strings.HasSuffix(out.String(), "\n1 runs\n"))
}

func TestRootCommandExtractsAndRecords(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(t.TempDir(), "history.db")
	writeFile(t, dir, "demo.ipynb", demoNotebook)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{
		"--dir", dir, "--history-db", db, "--no-history=false", "--overwrite", "never", "demo.ipynb",
	})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "demo.ipynb exists in: "+dir)
	assert.Contains(t, out.String(), "Markdown files: 1, Python files: 1")
	md, err := os.ReadFile(filepath.Join(dir, "demo", "demo_01.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(md))
	py, err := os.ReadFile(filepath.Join(dir, "demo", "demo_02.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\nprint(x)\n", string(py))

	// A second run with the never policy leaves the folder alone.
	out.Reset()
	rootCmd.SetArgs([]string{"--dir", dir, "--history-db", db, "--overwrite", "never", "demo.ipynb"})
	require.ErrorContains(t, rootCmd.Execute(), "opted not to delete folder")

	out.Reset()
	rootCmd.SetArgs([]string{"history", "--history-db", db})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "demo.ipynb")
	assert.Contains(t, out.String(), "\n1 runs\n")
}
