// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	_ "embed"
	"strings"
)

var (
	//go:embed help/brief.txt
	helpBrief string

	//go:embed help/full.txt
	helpFull string
)

// helpText returns the help requested by the first argument: any argument
// starting with --h selects the full help, one starting with -h the brief
// help. These are handled before flag parsing, so -hx or --hlp also work.
func helpText(args []string) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	switch {
	case strings.HasPrefix(args[0], "--h"):
		return helpFull, true
	case strings.HasPrefix(args[0], "-h"):
		return helpBrief, true
	}
	return "", false
}
