package hunk

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Parse computes the hunks that turn oldContent into newContent. Create and
// delete produce a single whole-file hunk; any other operation is treated as
// an update and diffed with ContextLines lines of context. The result depends
// only on the arguments.
func Parse(oldContent, newContent, path string, op OperationKind) ParsedHunks {
	result := ParsedHunks{
		Path:      path,
		Operation: op,
		Hunks:     []Hunk{},
	}

	switch op {
	case OpDelete:
		result.Hunks = append(result.Hunks, wholeFile(oldContent, LineRemoved))
	case OpCreate:
		result.Hunks = append(result.Hunks, wholeFile(newContent, LineAdded))
	default:
		result.Operation = OpUpdate
		result.Hunks = diffHunks(oldContent, newContent)
	}

	return result
}

func wholeFile(content string, kind LineKind) Hunk {
	lines, finalNewline := splitLines(content)

	h := Hunk{Index: 0, Lines: make([]Line, 0, len(lines))}
	for i, text := range lines {
		h.Lines = append(h.Lines, Line{
			Kind:      kind,
			Text:      text,
			NoNewline: i == len(lines)-1 && !finalNewline,
		})
	}

	n := len(lines)
	if kind == LineRemoved {
		h.OldStart, h.OldLines = rangeStart(0, n), n
	} else {
		h.NewStart, h.NewLines = rangeStart(0, n), n
	}
	h.Header = FormatHeader(h.OldStart, h.OldLines, h.NewStart, h.NewLines)

	return h
}

func diffHunks(oldContent, newContent string) []Hunk {
	hunks := []Hunk{}
	if oldContent == newContent {
		return hunks
	}

	oldLines, oldEOL := splitLines(oldContent)
	newLines, newEOL := splitLines(newContent)

	m := difflib.NewMatcherWithJunk(diffKeys(oldLines, oldEOL), diffKeys(newLines, newEOL), false, nil)

	for _, group := range m.GetGroupedOpCodes(ContextLines) {
		if !hasChange(group) {
			continue
		}

		first, last := group[0], group[len(group)-1]
		h := Hunk{
			Index:    len(hunks),
			OldLines: last.I2 - first.I1,
			NewLines: last.J2 - first.J1,
		}
		h.OldStart = rangeStart(first.I1, h.OldLines)
		h.NewStart = rangeStart(first.J1, h.NewLines)

		for _, code := range group {
			switch code.Tag {
			case 'e':
				for i := code.I1; i < code.I2; i++ {
					h.Lines = append(h.Lines, Line{
						Kind:      LineContext,
						Text:      oldLines[i],
						NoNewline: i == len(oldLines)-1 && !oldEOL,
					})
				}
			case 'd', 'r', 'i':
				for i := code.I1; i < code.I2; i++ {
					h.Lines = append(h.Lines, Line{
						Kind:      LineRemoved,
						Text:      oldLines[i],
						NoNewline: i == len(oldLines)-1 && !oldEOL,
					})
				}
				for j := code.J1; j < code.J2; j++ {
					h.Lines = append(h.Lines, Line{
						Kind:      LineAdded,
						Text:      newLines[j],
						NoNewline: j == len(newLines)-1 && !newEOL,
					})
				}
			}
		}

		h.Header = FormatHeader(h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		hunks = append(hunks, h)
	}

	return hunks
}

// diffKeys returns the sequence handed to the matcher: each line with its
// terminator restored. Only an unterminated last line lacks the "\n", so a
// change in final-newline state is a changed line and no line text can
// collide with it.
func diffKeys(lines []string, finalNewline bool) []string {
	keys := make([]string, len(lines))
	for i, l := range lines {
		if i == len(lines)-1 && !finalNewline {
			keys[i] = l
			continue
		}
		keys[i] = l + "\n"
	}
	return keys
}

func hasChange(group []difflib.OpCode) bool {
	for _, code := range group {
		if code.Tag != 'e' {
			return true
		}
	}
	return false
}

// rangeStart converts a zero-based offset into a unified diff start line. An
// empty range points at the line before it, as diff -u does.
func rangeStart(offset, count int) int {
	if count == 0 {
		return offset
	}
	return offset + 1
}
