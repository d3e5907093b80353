// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
)

// ErrOverwriteDeclined is returned when an output folder already exists and
// replacing it was refused.
var ErrOverwriteDeclined = errors.New("opted not to delete folder, unable to continue")

// ErrInvalidFolder is returned when a notebook name does not give a folder
// directly inside the working directory.
var ErrInvalidFolder = errors.New("output folder must be a folder inside the working directory")

// Error records which notebook and which stage of its extraction failed.
type Error struct {
	Notebook string
	Op       string // "prepare folder", "extract cells", "commit folder"
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Notebook, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
