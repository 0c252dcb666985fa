// Package review is the interactive terminal host for a review session.
package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/patchwork/internal/core/changeset"
	"github.com/colonyops/patchwork/internal/core/config"
	"github.com/colonyops/patchwork/internal/core/keymap"
	"github.com/colonyops/patchwork/internal/reviewer"
)

type commitDoneMsg struct {
	results []changeset.Result
	err     error
}

// Model drives a reviewer.Session from key presses.
type Model struct {
	ctx  context.Context
	sess *reviewer.Session
	keys *keymap.Handler

	gotoInput textinput.Model
	status    string

	committing bool
	committed  bool
	results    []changeset.Result
	err        error

	width  int
	height int
}

// New creates a model for sess using the given key map.
func New(ctx context.Context, sess *reviewer.Session, keys *keymap.Handler) Model {
	in := textinput.New()
	in.Prompt = "go to file #: "
	in.CharLimit = 6
	in.Placeholder = "1"

	return Model{
		ctx:       ctx,
		sess:      sess,
		keys:      keys,
		gotoInput: in,
	}
}

// Init initializes the model (no commands needed).
func (m Model) Init() tea.Cmd {
	return nil
}

// Committed reports whether the session was committed, with the per-file
// results and any commit error.
func (m Model) Committed() (bool, []changeset.Result, error) {
	return m.committed, m.results, m.err
}

// InputFocused reports whether the go-to-file input holds keyboard focus.
func (m Model) InputFocused() bool {
	return m.gotoInput.Focused()
}

// Update handles keyboard input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.gotoInput.Width = max(msg.Width-20, 10)
		return m, nil

	case commitDoneMsg:
		m.committing = false
		m.committed = true
		m.results, m.err = msg.results, msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.committing {
			return m, nil
		}
		if m.gotoInput.Focused() {
			return m.updateGotoInput(msg)
		}
		return m.handleKey(msg.String())
	}

	return m, nil
}

func (m Model) updateGotoInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.gotoInput.Blur()
		m.gotoInput.Reset()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.gotoInput.Value())
		m.gotoInput.Blur()
		m.gotoInput.Reset()

		n, err := strconv.Atoi(value)
		if err != nil || !m.sess.GotoFile(n-1) {
			m.status = fmt.Sprintf("no file #%s", value)
			return m, nil
		}
		m.status = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	action, ok := m.keys.Resolve(key, m.gotoInput.Focused())
	if !ok {
		return m, nil
	}

	m.status = ""
	if !m.sess.State().IsReviewing && isNavigation(action) {
		m.sess.Resume()
	}

	switch action {
	case config.ActionAcceptFile:
		m.sess.AcceptFile()
	case config.ActionRejectFile:
		m.sess.RejectFile()
	case config.ActionPrevHunk:
		m.sess.PrevHunk()
	case config.ActionNextHunk:
		m.sess.NextHunk()
	case config.ActionPrevFile:
		m.sess.PrevFile()
	case config.ActionNextFile:
		m.sess.NextFile()
	case config.ActionToggleHunk:
		if !m.sess.ToggleHunk() {
			m.status = "no hunk to toggle"
		}
	case config.ActionGotoFile:
		cmd := m.gotoInput.Focus()
		return m, cmd
	case config.ActionCommit:
		m.committing = true
		return m, m.commit()
	case config.ActionQuit:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) commit() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		results, err := sess.Commit(ctx)
		return commitDoneMsg{results: results, err: err}
	}
}

func isNavigation(action string) bool {
	switch action {
	case config.ActionPrevHunk, config.ActionNextHunk,
		config.ActionPrevFile, config.ActionNextFile,
		config.ActionToggleHunk:
		return true
	default:
		return false
	}
}
