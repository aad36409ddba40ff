package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/ui/style"
)

// StatusInfo holds the current state for the status bar.
type StatusInfo struct {
	Totals   model.Totals
	Sort     model.SortConfig
	ErrorMsg string
	Notice   string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(theme style.Theme, info StatusInfo, width int) string {
	if info.ErrorMsg != "" {
		errLine := " " + lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(info.ErrorMsg)
		return theme.StatusBarStyle.Width(width).Render(errLine)
	}

	t := info.Totals
	parts := []string{
		fmt.Sprintf("Found %d Matches in %d Files", t.Matches, t.FilesMatched),
		fmt.Sprintf("Processed %d/%d", t.FilesDone, t.FilesTotal),
	}
	if t.Errors > 0 {
		parts = append(parts, theme.ErrorText.Render(fmt.Sprintf("%d unreadable", t.Errors)))
	}
	if info.Notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render(info.Notice))
	}
	left := " " + strings.Join(parts, " | ")

	hints := []struct{ key, desc string }{
		{"?", "help"},
		{"E", "export"},
		{"q", "quit"},
	}

	var rightParts []string
	for _, h := range hints {
		k := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(h.key)
		d := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(" " + h.desc)
		rightParts = append(rightParts, k+d)
	}
	right := strings.Join(rightParts, "  ") + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Drop the hints before the counts.
		right = ""
		gap = max(width-lipgloss.Width(left), 0)
	}

	line := left + strings.Repeat(" ", gap) + right
	return theme.StatusBarStyle.Width(width).Render(line)
}

// SortLabel renders the active sort as "Sort: Name ↑".
func SortLabel(cfg model.SortConfig) string {
	arrow := "↓"
	if cfg.Order == model.SortAsc {
		arrow = "↑"
	}
	return "Sort: " + cfg.Field.String() + " " + arrow
}
