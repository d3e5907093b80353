// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pdiddy/ipynb-extractor/pkg/types"
)

// compareFolders classifies every file of oldDir and newDir by name and
// counts inserted and deleted characters for files whose content differs.
func compareFolders(oldDir, newDir string) ([]types.FileChange, error) {
	oldFiles, err := regularFiles(oldDir)
	if err != nil {
		return nil, err
	}
	newFiles, err := regularFiles(newDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(oldFiles)+len(newFiles))
	for name := range oldFiles {
		names = append(names, name)
	}
	for name := range newFiles {
		if !oldFiles[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	dmp := diffmatchpatch.New()
	changes := make([]types.FileChange, 0, len(names))
	for _, name := range names {
		switch {
		case !newFiles[name]:
			changes = append(changes, types.FileChange{Name: name, Kind: types.ChangeRemoved})
			continue
		case !oldFiles[name]:
			changes = append(changes, types.FileChange{Name: name, Kind: types.ChangeAdded})
			continue
		}

		before, err := os.ReadFile(filepath.Join(oldDir, name))
		if err != nil {
			return nil, fmt.Errorf("reading previous %s: %w", name, err)
		}
		after, err := os.ReadFile(filepath.Join(newDir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if string(before) == string(after) {
			changes = append(changes, types.FileChange{Name: name, Kind: types.ChangeUnchanged})
			continue
		}

		fc := types.FileChange{Name: name, Kind: types.ChangeModified}
		diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(string(before), string(after), false))
		for _, d := range diffs {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fc.Inserted += utf8.RuneCountInString(d.Text)
			case diffmatchpatch.DiffDelete:
				fc.Deleted += utf8.RuneCountInString(d.Text)
			}
		}
		changes = append(changes, fc)
	}
	return changes, nil
}

func regularFiles(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	files := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files[e.Name()] = true
		}
	}
	return files, nil
}

// printChanges writes a one-line summary followed by every file that is not
// unchanged.
func printChanges(w io.Writer, changes []types.FileChange) {
	counts := make(map[types.ChangeKind]int)
	for _, c := range changes {
		counts[c.Kind]++
	}
	fmt.Fprintf(w, "Changes: %d added, %d removed, %d changed, %d unchanged\n",
		counts[types.ChangeAdded], counts[types.ChangeRemoved],
		counts[types.ChangeModified], counts[types.ChangeUnchanged])

	for _, c := range changes {
		switch c.Kind {
		case types.ChangeUnchanged:
			continue
		case types.ChangeModified:
			fmt.Fprintf(w, "  %-9s %s (+%d -%d)\n", c.Kind, c.Name, c.Inserted, c.Deleted)
		default:
			fmt.Fprintf(w, "  %-9s %s\n", c.Kind, c.Name)
		}
	}
}
