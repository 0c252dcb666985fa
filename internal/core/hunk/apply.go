package hunk

import (
	"sort"
	"strings"
)

type outLine struct {
	text      string
	noNewline bool
}

// Apply rebuilds text from oldContent and the hunks whose index appears in
// selected. Unselected hunks leave their span of the original untouched.
// Indices that do not exist in parsed are ignored.
//
// With nothing selected the result is oldContent, except for a create where
// there is no original and the result is empty.
func Apply(oldContent string, parsed ParsedHunks, selected []int) string {
	chosen := make(map[int]bool, len(selected))
	for _, idx := range selected {
		for _, h := range parsed.Hunks {
			if h.Index == idx {
				chosen[idx] = true
				break
			}
		}
	}

	if len(chosen) == 0 {
		if parsed.Operation == OpCreate {
			return ""
		}
		return oldContent
	}

	switch parsed.Operation {
	case OpCreate:
		var out []outLine
		for _, l := range parsed.Hunks[0].Lines {
			if l.Kind == LineAdded {
				out = append(out, outLine{text: l.Text, noNewline: l.NoNewline})
			}
		}
		return render(out)
	case OpDelete:
		if chosen[0] {
			return ""
		}
		return oldContent
	}

	return applyUpdate(oldContent, parsed.Hunks, chosen)
}

func applyUpdate(oldContent string, hunks []Hunk, chosen map[int]bool) string {
	orig, origEOL := splitLines(oldContent)

	ordered := make([]Hunk, len(hunks))
	copy(ordered, hunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OldStart < ordered[j].OldStart
	})

	out := make([]outLine, 0, len(orig))
	cursor := 1 // 1-indexed position of the next unread original line

	copyUntil := func(line int) {
		for cursor < line && cursor <= len(orig) {
			out = append(out, outLine{
				text:      orig[cursor-1],
				noNewline: cursor == len(orig) && !origEOL,
			})
			cursor++
		}
	}

	for _, h := range ordered {
		start := h.OldStart
		if h.OldLines == 0 {
			// pure insertion after line OldStart
			start++
		}
		copyUntil(start)

		if !chosen[h.Index] {
			copyUntil(cursor + h.OldLines)
			continue
		}

		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				out = append(out, outLine{text: l.Text, noNewline: l.NoNewline})
			case LineRemoved:
				cursor++
			case LineContext:
				out = append(out, outLine{text: l.Text, noNewline: l.NoNewline})
				cursor++
			default:
				// marker lines such as "\ No newline at end of file" carry
				// no kind; they neither emit nor advance
			}
		}
	}

	copyUntil(len(orig) + 1)

	return render(out)
}

func render(lines []outLine) string {
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.text)
	}
	if !lines[len(lines)-1].noNewline {
		b.WriteByte('\n')
	}
	return b.String()
}
