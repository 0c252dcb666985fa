package reviewer

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/colonyops/patchwork/internal/core/changeset"
	"github.com/colonyops/patchwork/internal/core/hunk"
	"github.com/colonyops/patchwork/internal/core/logging"
	"github.com/colonyops/patchwork/internal/core/review"
	"github.com/colonyops/patchwork/internal/core/selection"
	"github.com/colonyops/patchwork/internal/offload"
)

// File is one reviewable file: the proposed operation, the original text it
// applies to, and the hunks parsed from the pair.
type File struct {
	Change   changeset.FileChange
	Original string
	Parsed   hunk.ParsedHunks
}

// Summary counts what a commit would touch.
type Summary struct {
	Files         int
	IncludedFiles int
	PartialFiles  int
	SelectedHunks int
	TotalHunks    int
}

// Session is an open review. All methods are safe for concurrent use.
type Session struct {
	ID      string
	Title   string
	Skipped []string // excluded paths

	svc *Service

	mu        sync.Mutex
	files     []File
	selection selection.Model
	machine   *review.Machine
	latest    offload.Latest[string]
}

// State returns the cursor and totals.
func (s *Session) State() review.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Selection returns the current selection.
func (s *Session) Selection() selection.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Files returns the reviewable files in review order.
func (s *Session) Files() []File {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]File, len(s.files))
	copy(out, s.files)
	return out
}

// Current returns the file under the cursor.
func (s *Session) Current() (File, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.machine.State().CurrentFileIndex
	return s.files[i], i
}

// AcceptFile selects every hunk of the current file and moves to the next
// file, ending the review after the last one.
func (s *Session) AcceptFile() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.machine.State().CurrentFileIndex
	s.selection = s.selection.SelectAllHunksInFile(cur, s.files[cur].Parsed.Len())
	s.advanceLocked()
}

// RejectFile deselects every hunk of the current file and moves to the next
// file, ending the review after the last one.
func (s *Session) RejectFile() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.machine.State().CurrentFileIndex
	s.selection = s.selection.DeselectAllHunksInFile(cur)
	s.advanceLocked()
}

func (s *Session) advanceLocked() {
	if !s.machine.State().IsReviewing {
		return
	}
	if s.machine.IsLastFile() {
		_ = s.machine.EndReview()
		return
	}
	s.gotoFileLocked(s.machine.State().CurrentFileIndex + 1)
}

// ToggleHunk flips the selection of the hunk under the cursor. It reports
// false when the current file has no hunks.
func (s *Session) ToggleHunk() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.machine.State()
	if st.CurrentHunkIndex < 0 || st.CurrentHunkIndex >= st.TotalHunks {
		return false
	}
	s.selection = s.selection.ToggleHunk(st.CurrentFileIndex, st.CurrentHunkIndex)
	return true
}

// NextFile moves to the following file. Out-of-range moves and moves after
// the review ended are no-ops reporting false.
func (s *Session) NextFile() bool {
	return s.GotoFile(s.State().CurrentFileIndex + 1)
}

// PrevFile moves to the preceding file.
func (s *Session) PrevFile() bool {
	return s.GotoFile(s.State().CurrentFileIndex - 1)
}

// GotoFile moves to file i and resets the hunk cursor.
func (s *Session) GotoFile(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.machine.State()
	if !st.IsReviewing || i < 0 || i >= st.TotalFiles {
		return false
	}
	s.gotoFileLocked(i)
	return true
}

func (s *Session) gotoFileLocked(i int) {
	_ = s.machine.NavigateToFile(i)
	_ = s.machine.SetTotalHunks(s.files[i].Parsed.Len())
}

// NextHunk moves the hunk cursor forward within the current file.
func (s *Session) NextHunk() bool {
	return s.moveHunk(1)
}

// PrevHunk moves the hunk cursor back within the current file.
func (s *Session) PrevHunk() bool {
	return s.moveHunk(-1)
}

func (s *Session) moveHunk(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.machine.State()
	next := st.CurrentHunkIndex + delta
	if !st.IsReviewing || next < 0 || next >= st.TotalHunks {
		return false
	}
	_ = s.machine.NavigateToHunk(next)
	return true
}

// Resume restarts navigation at the current file after the review ended.
// The selection is kept.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.machine.State()
	if st.IsReviewing {
		return
	}
	s.machine.StartReview(st.CurrentFileIndex, len(s.files))
	_ = s.machine.SetTotalHunks(s.files[st.CurrentFileIndex].Parsed.Len())
}

// Summary counts selected files and hunks.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{Files: len(s.files)}
	for i, f := range s.files {
		n := f.Parsed.Len()
		sum.TotalHunks += n
		if !s.selection.FileSelected(i) {
			continue
		}
		sum.IncludedFiles++
		sum.SelectedHunks += len(s.selection.Hunks(i))
		if s.selection.IsPartial(i, n) {
			sum.PartialFiles++
		}
	}
	return sum
}

// Reparse replaces the proposed content of file i and parses it again. When
// a newer Reparse for the same path starts before this one finishes, this
// result is discarded and Reparse reports false. An accepted reparse selects
// every new hunk of the file.
func (s *Session) Reparse(ctx context.Context, i int, content string) (bool, error) {
	s.mu.Lock()
	if i < 0 || i >= len(s.files) {
		s.mu.Unlock()
		return false, fmt.Errorf("file index %d out of range", i)
	}
	f := s.files[i]
	gen := s.latest.Next(f.Change.Path)
	s.mu.Unlock()

	ctx = logging.WithPath(logging.WithReviewID(ctx, s.ID), f.Change.Path)

	parsed, err := s.svc.bridge.Parse(ctx, offload.ParseRequest{
		OldContent:    f.Original,
		NewContent:    content,
		Path:          f.Change.Path,
		OperationKind: f.Change.Operation,
	})
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", f.Change.Path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.latest.IsCurrent(f.Change.Path, gen) {
		s.svc.log.Debug().Ctx(ctx).Uint64("generation", gen).Msg("dropping stale parse result")
		return false, nil
	}

	f.Change.Content = &content
	f.Parsed = parsed
	s.files[i] = f
	s.selection = s.selection.SelectAllHunksInFile(i, parsed.Len())

	st := s.machine.State()
	if st.IsReviewing && st.CurrentFileIndex == i {
		_ = s.machine.NavigateToFile(i)
		_ = s.machine.SetTotalHunks(parsed.Len())
	}
	return true, nil
}

// Commit reconstructs every included file from its selected hunks and writes
// it to the store. Excluded files are left untouched. Per-file failures are
// reported in the results; the returned error covers cancellation and
// reconstruction failures only. The review ends.
func (s *Session) Commit(ctx context.Context) ([]changeset.Result, error) {
	s.mu.Lock()
	files := make([]File, len(s.files))
	copy(files, s.files)
	sel := s.selection
	if s.machine.State().IsReviewing {
		_ = s.machine.EndReview()
	}
	s.mu.Unlock()

	ctx = logging.WithReviewID(ctx, s.ID)

	results := make([]changeset.Result, 0, len(sel.IncludedFiles()))
	for _, i := range sel.IncludedFiles() {
		if i >= len(files) {
			continue
		}
		f := files[i]
		fctx := logging.WithPath(ctx, f.Change.Path)

		fc, err := s.resolve(fctx, f, sel.Hunks(i))
		if err != nil {
			return results, err
		}

		res := changeset.ApplyFile(fctx, s.svc.store, fc)
		if res.Success {
			s.svc.log.Info().Ctx(fctx).Str("operation", string(fc.Operation)).Msg("file committed")
		} else {
			s.svc.log.Warn().Ctx(fctx).Str("error", res.Error).Msg("file commit failed")
		}
		results = append(results, res)
	}

	return results, nil
}

// resolve turns a file and its selected hunks into the whole-file operation
// to perform.
func (s *Session) resolve(ctx context.Context, f File, selected []int) (changeset.FileChange, error) {
	path := f.Change.Path

	if f.Change.Operation == hunk.OpDelete {
		if slices.Contains(selected, 0) {
			return changeset.Delete(path), nil
		}
		return changeset.Update(path, f.Original), nil
	}

	text, err := s.svc.bridge.Apply(ctx, offload.ApplyRequest{
		OldContent:          f.Original,
		ParsedHunks:         f.Parsed,
		SelectedHunkIndices: selected,
	})
	if err != nil {
		return changeset.FileChange{}, fmt.Errorf("apply %s: %w", path, err)
	}

	if f.Change.Operation == hunk.OpCreate {
		return changeset.Create(path, text), nil
	}
	return changeset.Update(path, text), nil
}
