// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt implements line-based terminal prompts: yes/no
// confirmations and numbered menus with defaults and input re-validation.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const defaultMenuPrompt = "Enter the number of the item"

// ErrNoInput is returned when the input stream ends before an answer is read.
var ErrNoInput = errors.New("no input: prompt closed")

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next input line without its line terminator.
// A final line without a newline is still returned.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question. Empty input selects def. Answers are
// matched on their first character: y, t, 1 mean yes; n, f, 0 mean no.
// Anything else is rejected and the question is asked again.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	suffix := " [N/y]: "
	if def {
		suffix = " [Y/n]: "
	}
	for {
		fmt.Fprint(p.out, question+suffix)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer == "" {
			return def, nil
		}
		switch answer[0] {
		case 'y', 't', '1':
			return true, nil
		case 'n', 'f', '0':
			return false, nil
		}
		fmt.Fprintf(p.out, "Invalid response %q. Answer y or n.\n", line)
	}
}

// Select prints items as a numbered menu and reads a 1-based choice until a
// valid one is entered. Empty input selects def. It returns the 0-based index
// of the choice, or -1 when items is empty. An empty prompt uses a generic
// one; a def outside the list falls back to 1.
func (p *Prompter) Select(items []string, prompt string, def int) (int, error) {
	if len(items) == 0 {
		return -1, nil
	}
	if def < 1 || def > len(items) {
		def = 1
	}
	if prompt == "" {
		prompt = defaultMenuPrompt
	}

	fmt.Fprintln(p.out)
	for i, item := range items {
		fmt.Fprintf(p.out, "%3d. %s\n", i+1, item)
	}

	for {
		fmt.Fprintf(p.out, "\n%s [%d]: ", prompt, def)
		line, err := p.readLine()
		if err != nil {
			return -1, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return def - 1, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(p.out, "Value Error. Requires a value between 1 and %d\n", len(items))
			continue
		}
		if n < 1 || n > len(items) {
			fmt.Fprintf(p.out, "Invalid.  Requires a value between 1 and %d\n", len(items))
			continue
		}
		return n - 1, nil
	}
}
