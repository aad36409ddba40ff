package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/vgrep/internal/scanner"
	"github.com/sadopc/vgrep/internal/ui/style"
	"github.com/sadopc/vgrep/internal/util"
)

// SearchProgress is a snapshot of a running search.
type SearchProgress struct {
	// Enumerating is true until the file list is complete.
	Enumerating bool
	Enum        scanner.Progress

	Processed    int64
	Total        int64
	Matches      int64
	FilesMatched int64
	Errors       int64
	Elapsed      time.Duration
}

// RenderSearchProgress renders the centered progress panel shown while a
// search runs.
func RenderSearchProgress(theme style.Theme, p SearchProgress, pattern string, width, height int) string {
	boxWidth := 54
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	if boxWidth < 10 {
		boxWidth = 10
	}

	var lines []string

	titleText := "  Searching..."
	if p.Enumerating {
		titleText = "  Listing files..."
	}
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(titleText))
	lines = append(lines, theme.PatternStyle.UnsetBackground().Render("  "+util.TruncateString(pattern, boxWidth-8)))
	lines = append(lines, "")

	statStyle := lipgloss.NewStyle().Foreground(theme.TextSecondary)
	if p.Enumerating {
		lines = append(lines, statStyle.Render(fmt.Sprintf("  Files found:  %s", util.FormatCount(p.Enum.FilesFound))))
		lines = append(lines, statStyle.Render(fmt.Sprintf("  Directories:  %s", util.FormatCount(p.Enum.DirsScanned))))
	} else {
		lines = append(lines, statStyle.Render(fmt.Sprintf("  Processed %d/%d files", p.Processed, p.Total)))
		barWidth := boxWidth - 8
		lines = append(lines, "  "+theme.BarGradient(barWidth, util.Ratio(p.Processed, p.Total)))
		lines = append(lines, statStyle.Render(fmt.Sprintf("  Files found:  %s", util.FormatCount(p.Total))))
		lines = append(lines, statStyle.Render(fmt.Sprintf("  Matches:      %s in %s files",
			util.FormatCount(p.Matches), util.FormatCount(p.FilesMatched))))
	}

	if errs := p.Errors + p.Enum.Errors; errs > 0 {
		lines = append(lines, theme.ErrorText.Render(fmt.Sprintf("  Errors: %d", errs)))
	}

	lines = append(lines, "")
	elapsed := "  Elapsed: " + util.FormatElapsed(p.Elapsed)
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).Render(elapsed))

	box := theme.ModalStyle.
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
