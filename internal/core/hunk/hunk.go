// Package hunk splits the difference between two texts into independently
// selectable hunks and rebuilds text from any subset of them.
package hunk

import (
	"fmt"
	"strings"
)

// ContextLines is the number of unchanged lines kept around each change region.
const ContextLines = 3

// OperationKind is the file-level change a diff represents.
type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpUpdate OperationKind = "update"
	OpDelete OperationKind = "delete"
)

// IsValid reports whether the operation is one of the supported kinds.
func (op OperationKind) IsValid() bool {
	switch op {
	case OpCreate, OpUpdate, OpDelete:
		return true
	default:
		return false
	}
}

// ParseOperation converts a string such as "update" into an OperationKind.
func ParseOperation(s string) (OperationKind, error) {
	op := OperationKind(strings.ToLower(strings.TrimSpace(s)))
	if !op.IsValid() {
		return "", fmt.Errorf("invalid operation %q: must be create, update, or delete", s)
	}
	return op, nil
}

// LineKind tags a line inside a hunk.
type LineKind string

const (
	LineContext LineKind = "context"
	LineAdded   LineKind = "added"
	LineRemoved LineKind = "removed"
)

// Line is a single marked line of a hunk. Text never includes the +/-/space
// marker or the line terminator.
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
	// NoNewline marks the last line of a side that has no trailing newline
	// ("\ No newline at end of file" in unified diff output).
	NoNewline bool `json:"noNewline,omitempty"`
}

// Hunk is one contiguous change region within a file's diff.
type Hunk struct {
	Index    int    `json:"index"`
	OldStart int    `json:"oldStart"`
	OldLines int    `json:"oldLines"`
	NewStart int    `json:"newStart"`
	NewLines int    `json:"newLines"`
	Lines    []Line `json:"lines"`
	Header   string `json:"header"`
}

// FormatHeader renders the range header for the given counts.
func FormatHeader(oldStart, oldLines, newStart, newLines int) string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldLines, newStart, newLines)
}

// Added returns the number of added lines in the hunk.
func (h Hunk) Added() int { return h.count(LineAdded) }

// Removed returns the number of removed lines in the hunk.
func (h Hunk) Removed() int { return h.count(LineRemoved) }

func (h Hunk) count(kind LineKind) int {
	n := 0
	for _, l := range h.Lines {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

// ParsedHunks is the diff of one file. It is never mutated after Parse returns.
type ParsedHunks struct {
	Path      string        `json:"path"`
	Operation OperationKind `json:"operationKind"`
	Hunks     []Hunk        `json:"hunks"`
}

// Len returns the number of hunks.
func (p ParsedHunks) Len() int { return len(p.Hunks) }

// Indices returns every hunk index in ascending order.
func (p ParsedHunks) Indices() []int {
	out := make([]int, len(p.Hunks))
	for i := range p.Hunks {
		out[i] = p.Hunks[i].Index
	}
	return out
}

// Stats returns the total added and removed line counts across all hunks.
func (p ParsedHunks) Stats() (added, removed int) {
	for _, h := range p.Hunks {
		added += h.Added()
		removed += h.Removed()
	}
	return added, removed
}

// Unified renders the parse result as unified diff text.
func (p ParsedHunks) Unified() string {
	var b strings.Builder

	oldName, newName := "a/"+p.Path, "b/"+p.Path
	switch p.Operation {
	case OpCreate:
		oldName = "/dev/null"
	case OpDelete:
		newName = "/dev/null"
	}
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldName, newName)

	for _, h := range p.Hunks {
		b.WriteString(h.Header)
		b.WriteByte('\n')
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				b.WriteByte('+')
			case LineRemoved:
				b.WriteByte('-')
			default:
				b.WriteByte(' ')
			}
			b.WriteString(l.Text)
			b.WriteByte('\n')
			if l.NoNewline {
				b.WriteString(NoNewlineSentinel)
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}

// NoNewlineSentinel is the unified diff marker for a missing final newline.
const NoNewlineSentinel = `\ No newline at end of file`

// splitLines splits text into lines without terminators and reports whether
// the text ended with a newline. Empty text has zero lines.
func splitLines(s string) (lines []string, finalNewline bool) {
	if s == "" {
		return nil, false
	}
	finalNewline = strings.HasSuffix(s, "\n")
	if finalNewline {
		s = s[:len(s)-1]
	}
	return strings.Split(s, "\n"), finalNewline
}

// CountLines returns the number of lines in s using the same rules as Parse.
func CountLines(s string) int {
	lines, _ := splitLines(s)
	return len(lines)
}
