// Package diffutil summarizes changes between two settings documents.
package diffutil

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summary lists the lines removed and added between two texts.
type Summary struct {
	Removed []string
	Added   []string
}

// Empty reports whether the texts were identical line by line.
func (s Summary) Empty() bool {
	return len(s.Removed) == 0 && len(s.Added) == 0
}

// String renders the summary as a unified-style list of changed lines.
func (s Summary) String() string {
	if s.Empty() {
		return "No changes"
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Settings changed: %d line(s) removed, %d line(s) added\n", len(s.Removed), len(s.Added))
	for _, line := range s.Removed {
		fmt.Fprintf(&buf, "- %s\n", line)
	}
	for _, line := range s.Added {
		fmt.Fprintf(&buf, "+ %s\n", line)
	}
	return buf.String()
}

// Summarize computes a line-level diff of original and modified.
// Whitespace-only lines are ignored.
func Summarize(original, modified string) Summary {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 5 * time.Second

	a, b, lineArray := dmp.DiffLinesToChars(original, modified)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var s Summary
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			s.Removed = append(s.Removed, splitLines(d.Text)...)
		case diffmatchpatch.DiffInsert:
			s.Added = append(s.Added, splitLines(d.Text)...)
		}
	}
	return s
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
