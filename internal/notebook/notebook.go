// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook decodes Jupyter notebook (.ipynb) documents into the
// cell structure the extractor works on. Only the top-level cells array and
// each cell's cell_type and source are read.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CellType is a notebook cell's type tag.
type CellType string

const (
	Markdown CellType = "markdown"
	Code     CellType = "code"
	Raw      CellType = "raw"
)

// ErrNoCells is returned for documents without a top-level cells array.
var ErrNoCells = errors.New("notebook has no cells array")

// Extension returns the output file extension for the cell type and whether
// the type is supported.
func (t CellType) Extension() (string, bool) {
	switch t {
	case Markdown:
		return "md", true
	case Code:
		return "py", true
	default:
		return "", false
	}
}

// Source is a cell's ordered text fragments. In JSON it is either an array
// of strings or a single string.
type Source []string

// UnmarshalJSON accepts both encodings nbformat allows for multiline text.
func (s *Source) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*s = Source{}
			return nil
		}
		*s = Source{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("source must be a string or an array of strings: %w", err)
	}
	if many == nil {
		many = []string{}
	}
	*s = Source(many)
	return nil
}

// Cell is one unit of a notebook.
type Cell struct {
	Type   CellType `json:"cell_type"`
	Source Source   `json:"source"`
}

// Text returns the cell's fragments joined with no separator.
func (c Cell) Text() string {
	return strings.Join(c.Source, "")
}

// Document is a decoded notebook.
type Document struct {
	Cells []Cell `json:"cells"`
}

// Decode reads a notebook document from r.
func Decode(r io.Reader) (*Document, error) {
	var raw struct {
		Cells *[]Cell `json:"cells"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding notebook: %w", err)
	}
	if raw.Cells == nil {
		return nil, ErrNoCells
	}
	return &Document{Cells: *raw.Cells}, nil
}

// Load opens and decodes the notebook at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening notebook %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return doc, nil
}
