package hunk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// ErrBinaryPatch is returned when a patch contains a binary file change.
var ErrBinaryPatch = errors.New("binary patches are not supported")

// FromPatch converts a git-style unified diff into one ParsedHunks per file.
// Fragments keep their order and receive sequential indices.
func FromPatch(patch string) ([]ParsedHunks, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(patch))
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}

	result := make([]ParsedHunks, 0, len(files))
	for _, f := range files {
		if f.IsBinary {
			return nil, fmt.Errorf("%s: %w", patchPath(f), ErrBinaryPatch)
		}

		parsed := ParsedHunks{
			Path:      patchPath(f),
			Operation: OpUpdate,
			Hunks:     make([]Hunk, 0, len(f.TextFragments)),
		}
		switch {
		case f.IsNew:
			parsed.Operation = OpCreate
		case f.IsDelete:
			parsed.Operation = OpDelete
		}

		for i, frag := range f.TextFragments {
			parsed.Hunks = append(parsed.Hunks, fragmentHunk(i, frag))
		}

		result = append(result, parsed)
	}

	return result, nil
}

func patchPath(f *gitdiff.File) string {
	if f.IsDelete || f.NewName == "" {
		return f.OldName
	}
	return f.NewName
}

func fragmentHunk(index int, frag *gitdiff.TextFragment) Hunk {
	h := Hunk{
		Index:    index,
		OldStart: int(frag.OldPosition),
		OldLines: int(frag.OldLines),
		NewStart: int(frag.NewPosition),
		NewLines: int(frag.NewLines),
		Lines:    make([]Line, 0, len(frag.Lines)),
	}

	for _, l := range frag.Lines {
		line := Line{
			Text:      strings.TrimSuffix(l.Line, "\n"),
			NoNewline: !strings.HasSuffix(l.Line, "\n"),
		}
		switch l.Op {
		case gitdiff.OpAdd:
			line.Kind = LineAdded
		case gitdiff.OpDelete:
			line.Kind = LineRemoved
		default:
			line.Kind = LineContext
		}
		h.Lines = append(h.Lines, line)
	}

	h.Header = FormatHeader(h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	return h
}
