package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/vgrep/internal/ui/style"
	"github.com/sadopc/vgrep/internal/util"
)

// RenderOverwriteDialog asks before an export replaces an existing file.
func RenderOverwriteDialog(theme style.Theme, path string, width, height int) string {
	boxWidth := 60
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	var lines []string

	lines = append(lines, theme.ModalTitle.Render("  Export Results"))

	warning := lipgloss.NewStyle().
		Foreground(theme.Warning).
		Render("  This file already exists and will be replaced:")
	lines = append(lines, warning)
	lines = append(lines, "")

	name := util.TruncateLeft(path, max(boxWidth-8, 1))
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.TextPrimary).Render("  "+name))
	lines = append(lines, "")

	prompt := lipgloss.NewStyle().
		Foreground(theme.TextPrimary).
		Render("  Press ") +
		lipgloss.NewStyle().Bold(true).Foreground(theme.Success).Render("y") +
		lipgloss.NewStyle().Foreground(theme.TextPrimary).Render(" to overwrite, ") +
		lipgloss.NewStyle().Bold(true).Foreground(theme.Error).Render("n/esc") +
		lipgloss.NewStyle().Foreground(theme.TextPrimary).Render(" to cancel")
	lines = append(lines, prompt)

	box := theme.ModalStyle.
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
