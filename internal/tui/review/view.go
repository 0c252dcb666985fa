package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/patchwork/internal/core/hunk"
	"github.com/colonyops/patchwork/internal/core/styles"
	"github.com/colonyops/patchwork/internal/reviewer"
)

// View renders the file list, the hunks of the current file, and a status bar.
func (m Model) View() string {
	if m.committed {
		return ""
	}

	st := m.sess.State()
	files := m.sess.Files()
	sel := m.sess.Selection()

	header := styles.TextPrimaryBoldStyle.Render("patchwork review")
	if m.sess.Title != "" {
		header += " " + styles.TextMutedStyle.Render(m.sess.Title)
	}

	var list strings.Builder
	for i, f := range files {
		mark := "[ ]"
		switch {
		case sel.IsPartial(i, f.Parsed.Len()):
			mark = "[~]"
		case sel.FileSelected(i):
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", mark, opBadge(f.Change.Operation), f.Change.Path)
		if i == st.CurrentFileIndex {
			line = styles.SelectedRowStyle.Render(line)
		}
		list.WriteString(line)
		list.WriteByte('\n')
	}

	var body string
	if st.IsReviewing {
		cur := files[st.CurrentFileIndex]
		body = renderFile(cur, st.CurrentFileIndex, st.CurrentHunkIndex, sel.HunkSelected, m.bodyHeight())
	} else {
		body = renderSummary(m.sess.Summary())
	}

	listWidth := m.width * 30 / 100
	if listWidth < 20 {
		listWidth = 20
	}
	left := lipgloss.NewStyle().Width(listWidth).Render(strings.TrimRight(list.String(), "\n"))
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, styles.DividerStyle.Render(" │ "), body)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		content,
		m.renderStatusBar(),
	)
}

func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 40
	}
	return max(m.height-3, 5)
}

func (m Model) renderStatusBar() string {
	if m.gotoInput.Focused() {
		return m.gotoInput.View()
	}

	left := m.status
	if m.committing {
		left = "committing..."
	}
	if left == "" {
		st := m.sess.State()
		left = fmt.Sprintf("file %d/%d  hunk %d/%d", st.CurrentFileIndex+1, st.TotalFiles, min(st.CurrentHunkIndex+1, st.TotalHunks), st.TotalHunks)
	}

	bar := styles.TextWarningStyle.Render(left) + "  " + styles.TextMutedStyle.Render(m.keys.HelpString())
	if m.width > 0 {
		return styles.StatusBarStyle.Width(m.width).Render(bar)
	}
	return bar
}

func renderFile(f reviewer.File, file, cursor int, selected func(file, hunk int) bool, height int) string {
	if f.Parsed.Len() == 0 {
		return styles.TextMutedStyle.Render("no changes")
	}

	var blocks []string
	lines := 0
	for _, h := range f.Parsed.Hunks[cursor:] {
		block := RenderHunk(h, selected(file, h.Index))
		if h.Index == cursor {
			block = styles.CursorHunkStyle.Render(block)
		} else {
			block = styles.HunkStyle.Render(block)
		}
		blocks = append(blocks, block)
		lines += lipgloss.Height(block)
		if lines >= height {
			break
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// RenderHunk renders a hunk header and its lines with diff colors. Unselected
// hunks render muted.
func RenderHunk(h hunk.Hunk, selected bool) string {
	var b strings.Builder

	header := h.Header
	if header == "" {
		header = hunk.FormatHeader(h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	}
	if !selected {
		header += " (skipped)"
	}
	b.WriteString(styles.DiffHeaderStyle.Render(header))

	for _, l := range h.Lines {
		b.WriteByte('\n')
		var prefix string
		style := styles.DiffContextStyle
		switch l.Kind {
		case hunk.LineAdded:
			prefix, style = "+", styles.DiffAddedStyle
		case hunk.LineRemoved:
			prefix, style = "-", styles.DiffRemovedStyle
		default:
			prefix = " "
		}
		if !selected {
			style = styles.TextMutedStyle
		}
		b.WriteString(style.Render(prefix + l.Text))
	}
	return b.String()
}

func renderSummary(sum reviewer.Summary) string {
	return strings.Join([]string{
		styles.TextSuccessStyle.Render("review complete"),
		fmt.Sprintf("%d of %d files included (%d partial)", sum.IncludedFiles, sum.Files, sum.PartialFiles),
		fmt.Sprintf("%d of %d hunks selected", sum.SelectedHunks, sum.TotalHunks),
		"",
		styles.TextMutedStyle.Render("commit to write the selection, or navigate to keep reviewing"),
	}, "\n")
}

func opBadge(op hunk.OperationKind) string {
	switch op {
	case hunk.OpCreate:
		return styles.DiffAddedStyle.Render("A")
	case hunk.OpDelete:
		return styles.DiffRemovedStyle.Render("D")
	default:
		return styles.DiffHeaderStyle.Render("M")
	}
}
