package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fixed column widths of a result row.
const (
	CursorWidth = 2
	IconWidth   = 3
	TypeWidth   = 9
	CountWidth  = 7
	MtimeWidth  = 22
)

// Layout manages the arrangement of UI components within terminal dimensions.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentHeight returns the rows between the header and the status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - 3 // header + status bar + column header
	if h < 2 {
		h = 2
	}
	return h
}

// ContentWidth returns the width available for the main content area.
func (l Layout) ContentWidth() int {
	if l.Width < 20 {
		return 20
	}
	return l.Width
}

// ListHeight is the number of result rows shown above the preview pane.
// The list gets about two fifths of the content area.
func (l Layout) ListHeight() int {
	h := l.ContentHeight() * 2 / 5
	if h < 1 {
		h = 1
	}
	return h
}

// PreviewHeight is the outer height of the preview pane, border included.
func (l Layout) PreviewHeight() int {
	h := l.ContentHeight() - l.ListHeight()
	if h < 1 {
		h = 1
	}
	return h
}

// Columns holds the resolved widths of the flexible columns.
type Columns struct {
	Name  int
	Path  int
	Mtime int
}

// Columns splits the row width between name and path once the fixed
// columns are placed. Mtime is dropped on narrow terminals.
func (l Layout) Columns() Columns {
	w := l.ContentWidth()
	c := Columns{Mtime: MtimeWidth}
	fixed := CursorWidth + IconWidth + TypeWidth + CountWidth + 4 // column gaps
	if w-fixed-c.Mtime < 30 {
		c.Mtime = 0
	}
	rest := w - fixed - c.Mtime
	if rest < 8 {
		rest = 8
	}
	c.Name = rest * 2 / 5
	if c.Name < 4 {
		c.Name = 4
	}
	c.Path = rest - c.Name
	if c.Path < 4 {
		c.Path = 4
	}
	return c
}

// Center centers content in the available width.
func (l Layout) Center(content string) string {
	return lipgloss.PlaceHorizontal(l.Width, lipgloss.Center, content)
}

// FullWidth pads a string with spaces to reach exactly the target visual width.
// If the string is already wider, it is returned as-is (no truncation).
func FullWidth(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}
