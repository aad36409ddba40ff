package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/ui/style"
	"github.com/sadopc/vgrep/internal/util"
)

// CategoryStats holds the matches aggregated for one file category.
type CategoryStats struct {
	Category  model.FileCategory
	FileCount int64
	Matches   int64
	TopExts   map[string]int64
}

// AggregateFileTypes groups results by category, biggest match count first.
func AggregateFileTypes(files []*model.FileResult) []CategoryStats {
	catMap := make(map[model.FileCategory]*CategoryStats)
	for _, f := range files {
		st, ok := catMap[f.Category]
		if !ok {
			st = &CategoryStats{Category: f.Category, TopExts: make(map[string]int64)}
			catMap[f.Category] = st
		}
		st.FileCount++
		st.Matches += int64(f.Count())
		if ext := f.Ext(); ext != "" {
			st.TopExts[ext] += int64(f.Count())
		}
	}

	result := make([]CategoryStats, 0, len(catMap))
	for _, s := range catMap {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Matches != result[j].Matches {
			return result[i].Matches > result[j].Matches
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// RenderFileTypes renders the per-category breakdown of matches.
func RenderFileTypes(theme style.Theme, files []*model.FileResult, width, height int) string {
	stats := AggregateFileTypes(files)

	var total int64
	for _, s := range stats {
		total += s.Matches
	}

	if total == 0 {
		return lipgloss.NewStyle().
			Foreground(theme.TextMuted).
			Render("  (no matches)")
	}

	catW := 14
	countW := 10
	matchW := 10
	barW := width - catW - countW - matchW - 10
	if barW < 10 {
		barW = 10
	}
	if barW > 30 {
		barW = 30
	}

	var lines []string

	hdrStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.TextPrimary)
	header := fmt.Sprintf("  %-*s %*s %*s  %s",
		catW, "Type",
		countW, "Files",
		matchW, "Matches",
		"Distribution",
	)
	lines = append(lines, hdrStyle.Render(header))

	sep := lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  " + strings.Repeat("-", max(width-4, 0)))
	lines = append(lines, sep)

	for _, s := range stats {
		ratio := util.Ratio(s.Matches, total)

		catColor := lipgloss.Color(model.CategoryColor(s.Category))
		catName := lipgloss.NewStyle().Foreground(catColor).Bold(true).Width(catW).Render(model.CategoryName(s.Category))
		count := lipgloss.NewStyle().Foreground(theme.TextSecondary).Width(countW).Align(lipgloss.Right).Render(util.FormatCount(s.FileCount))
		matches := lipgloss.NewStyle().Foreground(theme.TextSecondary).Width(matchW).Align(lipgloss.Right).Render(util.FormatCount(s.Matches))

		bar := renderCategoryBar(barW, ratio, catColor, theme.TextMuted)
		pctStr := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(fmt.Sprintf(" %5.1f%%", ratio*100))

		lines = append(lines, fmt.Sprintf("  %s %s %s  %s%s", catName, count, matches, bar, pctStr))

		if topExts := topExtensions(s.TopExts, 3); len(topExts) > 0 {
			extStr := lipgloss.NewStyle().Foreground(theme.TextMuted).
				Render("    " + strings.Join(topExts, ", "))
			lines = append(lines, extStr)
		}
	}

	lines = append(lines, sep)
	totalLine := fmt.Sprintf("  %-*s %*s %*s",
		catW, "Total",
		countW, util.FormatCount(int64(len(files))),
		matchW, util.FormatCount(total),
	)
	lines = append(lines, hdrStyle.Render(totalLine))

	for len(lines) < height {
		lines = append(lines, "")
	}
	if height < 0 {
		height = 0
	}
	if height > len(lines) {
		height = len(lines)
	}

	bgStyle := lipgloss.NewStyle().
		Background(theme.BgDark).
		Width(max(width, 0))
	for i := range lines[:height] {
		lines[i] = bgStyle.Render(lines[i])
	}

	return strings.Join(lines[:height], "\n")
}

func topExtensions(exts map[string]int64, n int) []string {
	type extEntry struct {
		ext     string
		matches int64
	}
	var entries []extEntry
	for ext, m := range exts {
		entries = append(entries, extEntry{ext, m})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].matches != entries[j].matches {
			return entries[i].matches > entries[j].matches
		}
		return entries[i].ext < entries[j].ext
	})

	var result []string
	for i := 0; i < n && i < len(entries); i++ {
		result = append(result, fmt.Sprintf("%s (%s)", entries[i].ext, util.FormatCount(entries[i].matches)))
	}
	return result
}

func renderCategoryBar(width int, ratio float64, color, dimColor lipgloss.Color) string {
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}

	var buf strings.Builder
	filledStyle := lipgloss.NewStyle().Foreground(color)
	dimStyle := lipgloss.NewStyle().Foreground(dimColor)

	for i := 0; i < filled; i++ {
		buf.WriteString(filledStyle.Render("="))
	}
	for i := filled; i < width; i++ {
		buf.WriteString(dimStyle.Render("-"))
	}
	return buf.String()
}
