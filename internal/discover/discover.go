// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover finds candidate input files in a directory.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HasExtension reports whether the final dot-delimited segment of name is
// exactly ext. A name without a dot has no extension.
func HasExtension(name, ext string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	return name[i+1:] == ext
}

// Files returns the names of the regular files in dir whose extension is
// ext, sorted lexicographically.
func Files(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !HasExtension(e.Name(), ext) {
			continue
		}
		// Symlinks count when they point at a regular file.
		if !e.Type().IsRegular() {
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}
