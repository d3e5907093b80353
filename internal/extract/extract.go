// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract writes the markdown and code cells of Jupyter notebooks
// into per-notebook folders, one file per cell.
//
// For a notebook demo.ipynb the folder is demo/ under the working directory
// and cell i (1-based, counting every cell) goes to demo/demo_NN.md or
// demo/demo_NN.py. Cells of any other type are reported and skipped, leaving
// a gap in the numbering.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/ipynb-extractor/internal/notebook"
	"github.com/pdiddy/ipynb-extractor/pkg/types"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string, def bool) (bool, error)
}

// Recorder persists the result of a finished extraction.
type Recorder interface {
	Record(ctx context.Context, result types.ExtractionResult) (int64, error)
}

// Extractor extracts notebook cells into files.
type Extractor struct {
	cfg      types.ExtractorConfig
	confirm  Confirmer
	recorder Recorder
	out      io.Writer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConfirmer sets the prompt used when an output folder already exists.
// Without one, the prompt policy behaves like never.
func WithConfirmer(c Confirmer) Option {
	return func(e *Extractor) { e.confirm = c }
}

// WithRecorder records every successful extraction.
func WithRecorder(r Recorder) Option {
	return func(e *Extractor) { e.recorder = r }
}

// WithOutput sets the writer for progress messages (default io.Discard).
func WithOutput(w io.Writer) Option {
	return func(e *Extractor) { e.out = w }
}

// New creates an Extractor.
func New(cfg types.ExtractorConfig, opts ...Option) *Extractor {
	cfg.Defaults()
	e := &Extractor{
		cfg:    cfg,
		out:    io.Discard,
		logger: cfg.Logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FolderName returns the output folder name for a notebook file: its base
// name without the final extension. Leading dots do not start an extension,
// so ".ipynb" and "..ipynb" keep their full names.
func FolderName(notebookPath string) string {
	base := filepath.Base(notebookPath)
	stem := strings.TrimLeft(base, ".")
	dot := strings.LastIndex(stem, ".")
	if dot < 0 {
		return base
	}
	return base[:len(base)-len(stem)+dot]
}

// outputFolder returns the folder for folderName, which must be a direct
// child of the working directory.
func (e *Extractor) outputFolder(folderName string) (string, error) {
	switch folderName {
	case "", ".", "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidFolder, folderName)
	}
	folder := filepath.Join(e.cfg.WorkDir, folderName)
	if filepath.Dir(folder) != filepath.Clean(e.cfg.WorkDir) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFolder, folderName)
	}
	return folder, nil
}

// ExtractAll extracts the notebooks in order and stops at the first failure.
// Results of the notebooks completed before the failure are returned with
// the error.
func (e *Extractor) ExtractAll(ctx context.Context, names []string) ([]types.ExtractionResult, error) {
	results := make([]types.ExtractionResult, 0, len(names))
	for _, name := range names {
		r, err := e.Extract(ctx, name)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Extract writes the cells of one notebook into its output folder. A
// relative name is resolved against the working directory.
//
// If the folder already exists it is replaced only when the overwrite policy
// allows. Any failure after that point restores the previous folder, and a
// new folder is removed again, so the working directory is either fully
// updated or unchanged.
func (e *Extractor) Extract(ctx context.Context, name string) (types.ExtractionResult, error) {
	start := e.now()
	folderName := FolderName(name)
	result := types.ExtractionResult{
		Notebook:  name,
		StartedAt: start,
	}

	folder, err := e.outputFolder(folderName)
	if err != nil {
		return result, &Error{Notebook: name, Op: "prepare folder", Err: err}
	}
	result.Folder = folder

	st, err := e.prepareFolder(result.Folder)
	if err != nil {
		return result, &Error{Notebook: name, Op: "prepare folder", Err: err}
	}
	result.Replaced = st.replacing()
	fmt.Fprintf(e.out, "Created folder `%s`.\n", folderName)

	if err := e.extractCells(ctx, e.notebookPath(name), folderName, &result); err != nil {
		if rbErr := st.rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		} else if result.Replaced {
			fmt.Fprintf(e.out, "Restored previous contents of folder `%s`.\n", folderName)
		}
		return result, &Error{Notebook: name, Op: "extract cells", Err: err}
	}

	if e.cfg.Diff && result.Replaced {
		changes, err := compareFolders(st.oldDir(), result.Folder)
		if err != nil {
			e.logger.Warn("comparing with replaced folder", "folder", result.Folder, "error", err)
		} else {
			result.Changes = changes
		}
	}

	if err := st.commit(); err != nil {
		return result, &Error{Notebook: name, Op: "commit folder", Err: err}
	}
	result.Duration = e.now().Sub(start)

	fmt.Fprintf(e.out, "ipynb file: `%s` cells extracted to folder `%s`\n", name, folderName)
	fmt.Fprintf(e.out, "Markdown files: %d, Python files: %d, total cells: %d\n",
		result.Markdown, result.Code, result.Total)
	if result.Skipped > 0 {
		fmt.Fprintf(e.out, "Skipped cells: %d\n", result.Skipped)
	}
	if result.Changes != nil {
		printChanges(e.out, result.Changes)
	}

	if e.recorder != nil {
		id, err := e.recorder.Record(ctx, result)
		if err != nil {
			fmt.Fprintf(e.out, "warning: extraction history not recorded: %v\n", err)
			e.logger.Warn("recording extraction", "notebook", name, "error", err)
		} else {
			e.logger.Debug("recorded extraction", "notebook", name, "run", id)
		}
	}

	return result, nil
}

func (e *Extractor) notebookPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.cfg.WorkDir, name)
}

// extractCells decodes the notebook and writes one file per supported cell.
func (e *Extractor) extractCells(ctx context.Context, path, folderName string, result *types.ExtractionResult) error {
	doc, err := notebook.Load(path)
	if err != nil {
		return err
	}
	result.Total = len(doc.Cells)
	fmt.Fprintf(e.out, "ipynb file: %s, total cells: %d\n", result.Notebook, result.Total)

	for i, cell := range doc.Cells {
		if err := ctx.Err(); err != nil {
			return err
		}
		index := i + 1

		ext, ok := cell.Type.Extension()
		if !ok {
			fmt.Fprintf(e.out, "Cell type: %s is invalid. Skipping cell %d.\n", cell.Type, index)
			result.Skipped++
			continue
		}

		text := cell.Text()
		filePath := filepath.Join(result.Folder, fmt.Sprintf("%s_%02d.%s", folderName, index, ext))
		if err := os.WriteFile(filePath, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing cell %d: %w", index, err)
		}
		e.logger.Debug("wrote cell", "notebook", result.Notebook, "cell", index, "type", cell.Type, "bytes", len(text))

		if cell.Type == notebook.Markdown {
			result.Markdown++
		} else {
			result.Code++
		}
		result.Files = append(result.Files, types.ExtractedFile{
			Index:    index,
			CellType: string(cell.Type),
			Path:     filePath,
			Bytes:    len(text),
		})
	}
	return nil
}
