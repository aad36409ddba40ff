package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/vgrep/internal/ui/style"
)

// RenderHelp renders the help overlay.
func RenderHelp(theme style.Theme, width, height int) string {
	boxWidth := 60
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	title := theme.ModalTitle.Render("  vgrep - Keyboard Shortcuts")

	sections := []struct {
		name  string
		binds []struct{ key, desc string }
	}{
		{
			name: "Results",
			binds: []struct{ key, desc string }{
				{"j/k", "Move up/down"},
				{"g/G", "First / last file"},
				{"Enter/Tab", "Switch focus to preview"},
			},
		},
		{
			name: "Preview",
			binds: []struct{ key, desc string }{
				{"j/k", "Scroll line by line"},
				{"PgUp/PgDn", "Scroll a page"},
				{"]/[", "Next / previous match"},
				{"Esc/Tab", "Back to results"},
			},
		},
		{
			name: "Sorting",
			binds: []struct{ key, desc string }{
				{"n", "Sort by name"},
				{"c", "Sort by match count"},
				{"m", "Sort by modification time"},
				{"p", "Sort by path"},
			},
		},
		{
			name: "General",
			binds: []struct{ key, desc string }{
				{"t", "Toggle file type breakdown"},
				{"E", "Export to JSON"},
				{"?", "Toggle help"},
				{"q", "Quit"},
			},
		},
	}

	var lines []string
	lines = append(lines, title)
	lines = append(lines, "")

	for _, sec := range sections {
		secTitle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent).
			Render("  " + sec.name)
		lines = append(lines, secTitle)

		for _, b := range sec.binds {
			key := theme.HelpKey.
				Width(14).
				Render("    " + b.key)
			desc := lipgloss.NewStyle().
				Foreground(theme.TextSecondary).
				Render(b.desc)
			lines = append(lines, fmt.Sprintf("%s %s", key, desc))
		}
		lines = append(lines, "")
	}

	lines = append(lines, theme.HelpDesc.Render("  Press ? or Esc to close"))

	box := theme.ModalStyle.
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
