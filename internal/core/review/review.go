// Package review sequences a human review across the files of a pending
// change and across the hunks of the file on screen.
package review

import "errors"

// ErrNotReviewing is returned when a transition other than Start is
// requested while no review is active.
var ErrNotReviewing = errors.New("review session is not active")

// State is the review cursor. It is only changed through Reduce.
type State struct {
	IsReviewing      bool `json:"isReviewing"`
	CurrentFileIndex int  `json:"currentFileIndex"`
	CurrentHunkIndex int  `json:"currentHunkIndex"`
	TotalFiles       int  `json:"totalFiles"`
	// TotalHunks is the hunk count of the file on screen. Callers push it with
	// SetTotalHunks after loading a file; navigation does not recompute it.
	TotalHunks int `json:"totalHunks"`
}

// Action is a transition request handled by Reduce.
type Action interface {
	isAction()
}

// Start begins a review at InitialFile.
type Start struct {
	InitialFile int
	TotalFiles  int
}

// NavigateToFile moves to another file and rewinds the hunk cursor.
type NavigateToFile struct{ Index int }

// NavigateToHunk moves the hunk cursor within the current file.
type NavigateToHunk struct{ Index int }

// SetTotalHunks records the hunk count of the current file.
type SetTotalHunks struct{ Count int }

// End stops the review. Cursors are kept so a host can resume.
type End struct{}

func (Start) isAction()          {}
func (NavigateToFile) isAction() {}
func (NavigateToHunk) isAction() {}
func (SetTotalHunks) isAction()  {}
func (End) isAction()            {}

// Reduce applies a single action and returns the next state. No bounds
// checks are made; callers guard indices against TotalFiles and TotalHunks.
// Actions other than Start leave an idle state unchanged.
func Reduce(s State, a Action) State {
	if start, ok := a.(Start); ok {
		return State{
			IsReviewing:      true,
			CurrentFileIndex: start.InitialFile,
			CurrentHunkIndex: 0,
			TotalFiles:       start.TotalFiles,
			TotalHunks:       s.TotalHunks,
		}
	}

	if !s.IsReviewing {
		return s
	}

	switch a := a.(type) {
	case NavigateToFile:
		s.CurrentFileIndex = a.Index
		s.CurrentHunkIndex = 0
	case NavigateToHunk:
		s.CurrentHunkIndex = a.Index
	case SetTotalHunks:
		s.TotalHunks = a.Count
	case End:
		s.IsReviewing = false
	}

	return s
}

// Machine wraps Reduce with a held state and reports transitions attempted
// while idle.
type Machine struct {
	state State
}

// NewMachine returns an idle machine.
func NewMachine() *Machine {
	return &Machine{}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// StartReview begins reviewing totalFiles files at initialFile. It may be
// called at any time and always reinitializes the cursors.
func (m *Machine) StartReview(initialFile, totalFiles int) {
	m.state = Reduce(m.state, Start{InitialFile: initialFile, TotalFiles: totalFiles})
}

// NavigateToFile sets the current file and resets the hunk cursor to 0.
func (m *Machine) NavigateToFile(i int) error {
	return m.dispatch(NavigateToFile{Index: i})
}

// NavigateToHunk sets the current hunk.
func (m *Machine) NavigateToHunk(i int) error {
	return m.dispatch(NavigateToHunk{Index: i})
}

// SetTotalHunks records the number of hunks in the current file.
func (m *Machine) SetTotalHunks(n int) error {
	return m.dispatch(SetTotalHunks{Count: n})
}

// EndReview marks the review finished without touching the cursors.
func (m *Machine) EndReview() error {
	return m.dispatch(End{})
}

// IsLastFile reports whether the current file is the final one.
func (m *Machine) IsLastFile() bool {
	return m.state.CurrentFileIndex >= m.state.TotalFiles-1
}

func (m *Machine) dispatch(a Action) error {
	if !m.state.IsReviewing {
		return ErrNotReviewing
	}
	m.state = Reduce(m.state, a)
	return nil
}
