// Package selection tracks which files and hunks of a pending multi-file
// change are included in the next apply.
//
// Model is a value type. Every transition returns a new Model and leaves the
// receiver untouched, so a host can keep the previous selection around for
// undo or comparison.
//
// A file counts as included whenever at least one of its hunks is selected;
// partial selection is still inclusion.
package selection

import "sort"

// Model holds per-file inclusion flags and per-file sets of selected hunk indices.
type Model struct {
	files map[int]bool
	hunks map[int]map[int]struct{}
}

// New returns an empty selection where nothing is included.
func New() Model {
	return Model{
		files: map[int]bool{},
		hunks: map[int]map[int]struct{}{},
	}
}

// NewFull returns a selection where every hunk of every file is included.
// hunkCounts[i] is the number of hunks parsed for file i.
func NewFull(hunkCounts []int) Model {
	m := New()
	for file, count := range hunkCounts {
		m.files[file] = true
		m.hunks[file] = fullRange(count)
	}
	return m
}

// SetFileSelected includes every hunk of the file when selected is true, or
// clears the file entirely when false. hunkCount is ignored when deselecting.
func (m Model) SetFileSelected(file int, selected bool, hunkCount int) Model {
	next := m.clone()
	if selected {
		next.files[file] = true
		next.hunks[file] = fullRange(hunkCount)
		return next
	}
	next.files[file] = false
	next.hunks[file] = map[int]struct{}{}
	return next
}

// SetHunkSelected adds or removes a single hunk. The file stays included as
// long as any of its hunks remain selected.
func (m Model) SetHunkSelected(file, hunk int, selected bool) Model {
	next := m.clone()

	set := next.hunks[file]
	if set == nil {
		set = map[int]struct{}{}
		next.hunks[file] = set
	}
	if selected {
		set[hunk] = struct{}{}
	} else {
		delete(set, hunk)
	}

	next.files[file] = len(set) > 0
	return next
}

// ToggleHunk flips the selection of a single hunk.
func (m Model) ToggleHunk(file, hunk int) Model {
	return m.SetHunkSelected(file, hunk, !m.HunkSelected(file, hunk))
}

// SelectAllHunksInFile selects hunks [0, hunkCount) and marks the file
// included, even when hunkCount is zero.
func (m Model) SelectAllHunksInFile(file, hunkCount int) Model {
	next := m.SetFileSelected(file, true, hunkCount)
	next.files[file] = true
	return next
}

// DeselectAllHunksInFile clears the file's hunks and marks it excluded.
func (m Model) DeselectAllHunksInFile(file int) Model {
	next := m.SetFileSelected(file, false, 0)
	next.files[file] = false
	return next
}

// FileSelected reports whether the file is included in the next apply.
func (m Model) FileSelected(file int) bool {
	return m.files[file]
}

// HunkSelected reports whether a single hunk is selected.
func (m Model) HunkSelected(file, hunk int) bool {
	_, ok := m.hunks[file][hunk]
	return ok
}

// Hunks returns the selected hunk indices of a file in ascending order.
func (m Model) Hunks(file int) []int {
	set := m.hunks[file]
	out := make([]int, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// IncludedFiles returns the indices of included files in ascending order.
func (m Model) IncludedFiles() []int {
	out := make([]int, 0, len(m.files))
	for file, ok := range m.files {
		if ok {
			out = append(out, file)
		}
	}
	sort.Ints(out)
	return out
}

// IsPartial reports whether the file is included with fewer than hunkCount
// hunks selected.
func (m Model) IsPartial(file, hunkCount int) bool {
	return m.files[file] && len(m.hunks[file]) < hunkCount
}

func (m Model) clone() Model {
	next := Model{
		files: make(map[int]bool, len(m.files)+1),
		hunks: make(map[int]map[int]struct{}, len(m.hunks)+1),
	}
	for k, v := range m.files {
		next.files[k] = v
	}
	for k, set := range m.hunks {
		cp := make(map[int]struct{}, len(set))
		for idx := range set {
			cp[idx] = struct{}{}
		}
		next.hunks[k] = cp
	}
	return next
}

func fullRange(n int) map[int]struct{} {
	set := make(map[int]struct{}, max(n, 0))
	for i := 0; i < n; i++ {
		set[i] = struct{}{}
	}
	return set
}
