package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/ui/style"
	"github.com/sadopc/vgrep/internal/util"
)

// ResultList renders the list of files with at least one match.
type ResultList struct {
	Theme  style.Theme
	Layout style.Layout
	Items  []*model.FileResult
	Sort   model.SortConfig
	Cursor int
	Offset int
	// Focused is false while the preview pane has the keyboard.
	Focused bool
}

// RenderColumnHeader renders the column titles with the active sort marked.
func (rl *ResultList) RenderColumnHeader() string {
	width := rl.Layout.ContentWidth()
	cols := rl.Layout.Columns()

	title := func(name string, field model.SortField, w int) string {
		if rl.Sort.Field == field {
			arrow := "↓"
			if rl.Sort.Order == model.SortAsc {
				arrow = "↑"
			}
			name += " " + arrow
		}
		return style.FullWidth(util.TruncateString(name, w), w)
	}

	row := strings.Repeat(" ", style.CursorWidth+style.IconWidth) +
		title("Filename", model.SortByName, cols.Name) + " " +
		title("Path", model.SortByPath, cols.Path) + " " +
		style.FullWidth("Type", style.TypeWidth) + " " +
		title("Count", model.SortByCount, style.CountWidth)
	if cols.Mtime > 0 {
		row += " " + title("Modified", model.SortByMtime, cols.Mtime)
	}
	return rl.Theme.ColumnHeader.Render(style.FullWidth(row, width))
}

// Render renders the visible rows of the list.
func (rl *ResultList) Render() string {
	width := rl.Layout.ContentWidth()
	height := rl.Layout.ListHeight()

	if len(rl.Items) == 0 {
		empty := lipgloss.NewStyle().Foreground(rl.Theme.TextMuted).Render("  (no matches)")
		lines := []string{style.FullWidth(empty, width)}
		for len(lines) < height {
			lines = append(lines, strings.Repeat(" ", width))
		}
		return strings.Join(lines, "\n")
	}

	cols := rl.Layout.Columns()
	start := rl.Offset
	end := start + height
	if end > len(rl.Items) {
		end = len(rl.Items)
	}

	maxCount := 0
	for _, f := range rl.Items {
		maxCount = max(maxCount, f.Count())
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, rl.renderRow(rl.Items[i], i == rl.Cursor, maxCount, cols, width))
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

func (rl *ResultList) renderRow(f *model.FileResult, selected bool, maxCount int, cols style.Columns, totalWidth int) string {
	indicator := "  "
	if selected {
		indicator = rl.Theme.CursorIndicator.Render(" >")
	}

	icon := style.FullWidth(util.FileIcon(f.Path), style.IconWidth)
	name := style.FullWidth(util.TruncateString(f.Name(), cols.Name), cols.Name)
	dir := style.FullWidth(util.TruncateLeft(f.Dir(), cols.Path), cols.Path)
	typ := style.FullWidth(model.CategoryName(f.Category), style.TypeWidth)
	count := fmt.Sprintf("%*d", style.CountWidth, f.Count())

	row := indicator + icon +
		rl.Theme.FileName.Render(name) + " " +
		rl.Theme.PathText.Render(dir) + " " +
		rl.Theme.CategoryStyle(model.CategoryColor(f.Category)).Render(typ) + " " +
		rl.countStyle(f.Count(), maxCount).Render(count)
	if cols.Mtime > 0 {
		row += " " + rl.Theme.MtimeText.Render(util.FormatTime(f.Mtime))
	}

	row = style.FullWidth(row, totalWidth)

	switch {
	case selected && rl.Focused:
		return rl.Theme.SelectedRow.Width(totalWidth).Render(row)
	case selected:
		return rl.Theme.InactiveRow.Width(totalWidth).Render(row)
	}
	return row
}

// countStyle shades a match count along the theme gradient, relative to the
// largest count in the list.
func (rl *ResultList) countStyle(count, maxCount int) lipgloss.Style {
	ratio := 1.0
	if maxCount > 0 {
		ratio = float64(count) / float64(maxCount)
	}
	return rl.Theme.CountText.Foreground(rl.Theme.GradientColor(ratio))
}

// EnsureVisible adjusts offset to keep cursor visible.
func (rl *ResultList) EnsureVisible() {
	height := rl.Layout.ListHeight()
	if rl.Cursor < rl.Offset {
		rl.Offset = rl.Cursor
	}
	if rl.Cursor >= rl.Offset+height {
		rl.Offset = rl.Cursor - height + 1
	}
	if rl.Offset < 0 {
		rl.Offset = 0
	}
}

// Selected returns the file under the cursor, or nil.
func (rl *ResultList) Selected() *model.FileResult {
	if rl.Cursor < 0 || rl.Cursor >= len(rl.Items) {
		return nil
	}
	return rl.Items[rl.Cursor]
}
