// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette colors.
var (
	ColorPrimary    = lipgloss.Color("#7aa2f7")
	ColorSecondary  = lipgloss.Color("#7dcfff")
	ColorForeground = lipgloss.Color("#c0caf5")
	ColorMuted      = lipgloss.Color("#565f89")
	ColorSurface    = lipgloss.Color("#3b4261")
	ColorSuccess    = lipgloss.Color("#9ece6a")
	ColorWarning    = lipgloss.Color("#e0af68")
	ColorError      = lipgloss.Color("#f7768e")
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)
	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Diff line styles.
	DiffAddedStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	DiffRemovedStyle = lipgloss.NewStyle().Foreground(ColorError)
	DiffContextStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	DiffHeaderStyle  = lipgloss.NewStyle().Foreground(ColorSecondary)

	// TUI shared styles.
	TextMutedStyle       = lipgloss.NewStyle().Foreground(ColorMuted)
	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	TextWarningStyle     = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle       = lipgloss.NewStyle().Foreground(ColorError)
	TextSuccessStyle     = lipgloss.NewStyle().Foreground(ColorSuccess)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(ColorSurface).
				Foreground(ColorForeground)
	CursorHunkStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorPrimary).
			PaddingLeft(1)
	HunkStyle = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder(), false, false, false, true).
			PaddingLeft(1)
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorSurface).
			Foreground(ColorForeground)
)
