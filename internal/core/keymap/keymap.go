// Package keymap resolves key presses in a review session to review actions.
package keymap

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/colonyops/patchwork/internal/core/config"
)

var actionHelp = map[string]string{
	config.ActionAcceptFile: "accept file",
	config.ActionRejectFile: "reject file",
	config.ActionPrevHunk:   "prev hunk",
	config.ActionNextHunk:   "next hunk",
	config.ActionPrevFile:   "prev file",
	config.ActionNextFile:   "next file",
	config.ActionToggleHunk: "toggle hunk",
	config.ActionGotoFile:   "go to file",
	config.ActionCommit:     "commit",
	config.ActionQuit:       "quit",
}

// Handler maps keys to review actions.
type Handler struct {
	bindings map[string]string
}

// New creates a handler from a key -> action map. Entries with unknown
// actions are dropped.
func New(bindings map[string]string) *Handler {
	h := &Handler{bindings: make(map[string]string, len(bindings))}
	for k, action := range bindings {
		if config.IsValidAction(action) {
			h.bindings[k] = action
		}
	}
	return h
}

// Resolve returns the action bound to key. While a text input has focus every
// key belongs to the input, so navigation keys (arrows included) resolve to
// nothing.
func (h *Handler) Resolve(key string, inputFocused bool) (string, bool) {
	if inputFocused {
		return "", false
	}
	action, ok := h.bindings[key]
	return action, ok
}

// KeysFor returns the keys bound to action, sorted.
func (h *Handler) KeysFor(action string) []string {
	var keys []string
	for k, a := range h.bindings {
		if a == action {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// HelpEntries returns one entry per bound action in declaration order,
// listing every key bound to it.
func (h *Handler) HelpEntries() []string {
	entries := make([]string, 0, len(config.Actions))
	for _, action := range config.Actions {
		keys := h.KeysFor(action)
		if len(keys) == 0 {
			continue
		}
		labels := make([]string, len(keys))
		for i, k := range keys {
			labels[i] = displayKey(k)
		}
		entries = append(entries, fmt.Sprintf("[%s] %s", strings.Join(labels, "/"), actionHelp[action]))
	}
	return entries
}

// HelpString returns a formatted help string for all keybindings.
func (h *Handler) HelpString() string {
	return strings.Join(h.HelpEntries(), "  ")
}

// KeyBindings returns key.Binding objects for integration with bubbles help system.
func (h *Handler) KeyBindings() []key.Binding {
	keys := slices.Sorted(maps.Keys(h.bindings))
	bindings := make([]key.Binding, 0, len(keys))

	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(displayKey(k), actionHelp[h.bindings[k]]),
		))
	}

	return bindings
}

func displayKey(k string) string {
	switch k {
	case " ":
		return "space"
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "left":
		return "←"
	case "right":
		return "→"
	default:
		return k
	}
}
