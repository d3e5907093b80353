// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/ipynb-extractor/pkg/types"
)

// stagingMarker is part of the name of the hidden directory that holds a
// replaced output folder until the new one is complete.
const stagingMarker = "-replaced-"

const overwriteQuestion = "Delete contents of folder?"

// staging tracks an output folder that is being (re)created. When an
// existing folder is replaced, its old contents live in backup until commit
// or rollback.
type staging struct {
	path   string
	backup string
}

func (s *staging) replacing() bool { return s.backup != "" }

// oldDir is where the replaced folder sits while staged.
func (s *staging) oldDir() string {
	return filepath.Join(s.backup, filepath.Base(s.path))
}

// commit drops the replaced folder.
func (s *staging) commit() error {
	if s.backup == "" {
		return nil
	}
	if err := os.RemoveAll(s.backup); err != nil {
		return fmt.Errorf("removing replaced folder %s: %w", s.backup, err)
	}
	return nil
}

// rollback removes the new folder and puts the replaced one back.
func (s *staging) rollback() error {
	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("removing partial folder %s: %w", s.path, err)
	}
	if s.backup == "" {
		return nil
	}
	if err := os.Rename(s.oldDir(), s.path); err != nil {
		return fmt.Errorf("restoring %s from %s: %w", s.path, s.backup, err)
	}
	return os.Remove(s.backup)
}

// prepareFolder creates an empty output folder at path. An existing folder
// is only replaced after approval; it is moved into a staging directory
// next to it rather than deleted, so the caller can commit or roll back.
func (e *Extractor) prepareFolder(path string) (*staging, error) {
	name := filepath.Base(path)
	parent := filepath.Dir(path)
	e.reportLeftovers(parent, name)

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.Mkdir(path, 0o755); err != nil {
			return nil, fmt.Errorf("creating folder %s: %w", name, err)
		}
		return &staging{path: path}, nil
	case err != nil:
		return nil, fmt.Errorf("checking folder %s: %w", name, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%s exists and is not a folder", path)
	}

	fmt.Fprintf(e.out, "Folder `%s` already exists\n", name)
	ok, err := e.approveOverwrite()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOverwriteDeclined
	}

	backup, err := os.MkdirTemp(parent, "."+name+stagingMarker)
	if err != nil {
		return nil, fmt.Errorf("creating staging directory for %s: %w", name, err)
	}
	s := &staging{path: path, backup: backup}
	if err := os.Rename(path, s.oldDir()); err != nil {
		os.Remove(backup)
		return nil, fmt.Errorf("moving %s aside: %w", name, err)
	}
	e.logger.Debug("moved existing folder aside", "folder", path, "staging", backup)

	if err := os.Mkdir(path, 0o755); err != nil {
		err = fmt.Errorf("creating folder %s: %w", name, err)
		if rbErr := s.rollback(); rbErr != nil {
			return nil, errors.Join(err, rbErr)
		}
		return nil, err
	}
	return s, nil
}

func (e *Extractor) approveOverwrite() (bool, error) {
	switch e.cfg.Overwrite {
	case types.OverwriteAlways:
		return true, nil
	case types.OverwriteNever:
		return false, nil
	}
	if e.confirm == nil {
		e.logger.Warn("overwrite needs confirmation but no prompt is available")
		return false, nil
	}
	return e.confirm.Confirm(overwriteQuestion, false)
}

// reportLeftovers warns about staging directories left behind by a run that
// died between moving a folder aside and committing the new one. They hold
// the previous folder contents and are never removed automatically.
func (e *Extractor) reportLeftovers(parent, name string) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return
	}
	prefix := "." + name + stagingMarker
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		leftover := filepath.Join(parent, entry.Name())
		fmt.Fprintf(e.out, "warning: %s was left by an interrupted run and holds an earlier copy of `%s`\n", leftover, name)
		e.logger.Warn("found staging directory from interrupted run", "folder", name, "staging", leftover)
	}
}
