package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sadopc/vgrep/internal/pattern"
	"github.com/sadopc/vgrep/internal/report"
	"github.com/sadopc/vgrep/internal/ui/style"
	"github.com/sadopc/vgrep/internal/util"
)

const tabWidth = 4

// Preview shows one file with every occurrence of the pattern highlighted.
type Preview struct {
	Theme style.Theme

	vp      viewport.Model
	width   int
	height  int
	path    string
	lines   []string
	matches []int // 0-based indexes of matching lines
	current int
	matcher pattern.Matcher
	err     error
}

// NewPreview creates an empty preview pane.
func NewPreview(theme style.Theme) Preview {
	return Preview{Theme: theme, vp: viewport.New(0, 0)}
}

// SetSize sets the outer size of the pane, border and title included.
func (p *Preview) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.vp.Width = max(width-2, 1)
	p.vp.Height = max(height-3, 1)
	p.render()
}

// SetContent replaces the previewed file. lines are the file's lines
// without terminators; matchLines are the 1-based numbers of matching lines.
func (p *Preview) SetContent(path string, lines []string, matchLines []int, m pattern.Matcher) {
	p.path = path
	p.lines = lines
	p.matcher = m
	p.err = nil
	p.matches = p.matches[:0]
	for _, n := range matchLines {
		if n >= 1 && n <= len(lines) {
			p.matches = append(p.matches, n-1)
		}
	}
	p.current = 0
	p.render()
	p.scrollToCurrent()
}

// SetError shows err in place of the file content.
func (p *Preview) SetError(path string, err error) {
	p.path = path
	p.lines = nil
	p.matches = p.matches[:0]
	p.err = err
	p.render()
}

// Path returns the file currently shown.
func (p *Preview) Path() string { return p.path }

// YOffset returns the first visible line.
func (p *Preview) YOffset() int { return p.vp.YOffset }

// NextMatch scrolls to the following matching line, wrapping around.
func (p *Preview) NextMatch() {
	if len(p.matches) == 0 {
		return
	}
	p.current = (p.current + 1) % len(p.matches)
	p.scrollToCurrent()
}

// PrevMatch scrolls to the preceding matching line, wrapping around.
func (p *Preview) PrevMatch() {
	if len(p.matches) == 0 {
		return
	}
	p.current = (p.current - 1 + len(p.matches)) % len(p.matches)
	p.scrollToCurrent()
}

// Update forwards scrolling keys and mouse wheel events to the viewport.
func (p *Preview) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

// The current match sits a third of the way down the pane.
func (p *Preview) scrollToCurrent() {
	if len(p.matches) == 0 {
		p.vp.GotoTop()
		return
	}
	p.vp.SetYOffset(max(p.matches[p.current]-p.vp.Height/3, 0))
}

func (p *Preview) render() {
	if p.err != nil {
		p.vp.SetContent(p.Theme.ErrorText.Render(util.TruncateString(p.err.Error(), p.vp.Width)))
		p.vp.GotoTop()
		return
	}

	gutter := len(strconv.Itoa(len(p.lines)))
	textWidth := p.vp.Width - gutter - 3
	hit := func(a ...interface{}) string {
		return p.Theme.MatchHighlight.Render(fmt.Sprint(a...))
	}

	isMatch := make(map[int]bool, len(p.matches))
	for _, i := range p.matches {
		isMatch[i] = true
	}

	var b strings.Builder
	for i, line := range p.lines {
		num := fmt.Sprintf("%*d", gutter, i+1)
		if isMatch[i] {
			b.WriteString(p.Theme.MatchLineNumber.Render(num))
		} else {
			b.WriteString(p.Theme.LineNumber.Render(num))
		}
		b.WriteString(p.Theme.LineNumber.Render(" │ "))

		text := strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
		if isMatch[i] {
			text = report.Highlight(text, p.matcher, hit)
		}
		if textWidth > 0 {
			b.WriteString(ansi.Truncate(text, textWidth, "…"))
		}
		if i < len(p.lines)-1 {
			b.WriteByte('\n')
		}
	}
	p.vp.SetContent(b.String())
}

// View renders the pane with its title and border.
func (p *Preview) View(focused bool) string {
	border := p.Theme.PreviewBorder
	if focused {
		border = p.Theme.PreviewFocused
	}

	title := ""
	if p.path != "" {
		count := ""
		if len(p.matches) > 0 {
			count = fmt.Sprintf("  match %d/%d", p.current+1, len(p.matches))
		}
		avail := max(p.vp.Width-lipgloss.Width(count)-1, 1)
		title = p.Theme.PreviewTitle.Render(" "+util.TruncateLeft(p.path, avail)) +
			lipgloss.NewStyle().Foreground(p.Theme.TextMuted).Render(count)
	}
	title = style.FullWidth(util.TruncateString(title, p.vp.Width), p.vp.Width)

	return border.
		Width(p.vp.Width).
		Render(title + "\n" + p.vp.View())
}
