package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/vgrep/internal/ui/style"
	"github.com/sadopc/vgrep/internal/util"
)

// HeaderInfo is what the top bar shows about the run.
type HeaderInfo struct {
	Root    string
	Pattern string
	Engine  string
	Remote  string // user@host for remote searches
}

// RenderHeader renders the top header bar.
func RenderHeader(theme style.Theme, info HeaderInfo, width int) string {
	if width < 10 {
		return ""
	}

	titleStyled := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Background(theme.BgMedium).Render(" vgrep")

	engine := ""
	if info.Engine != "" {
		engine = "[" + info.Engine + "] "
	}
	engineStyled := lipgloss.NewStyle().Foreground(theme.TextMuted).Background(theme.BgMedium).Render(engine)

	titleW := lipgloss.Width(titleStyled)
	engineW := lipgloss.Width(engineStyled)

	// Pattern first, the root gets what is left.
	avail := width - titleW - engineW - 5
	pat := ""
	if avail > 4 {
		pat = util.TruncateString(info.Pattern, max(avail/2, 4))
		avail -= lipgloss.Width(pat)
	}
	patStyled := theme.PatternStyle.Render("  " + pat)

	root := info.Root
	if info.Remote != "" {
		root = info.Remote + ":" + root
	}
	if avail > 5 {
		root = util.TruncateLeft(root, avail)
	} else {
		root = ""
	}
	rootStyled := lipgloss.NewStyle().Foreground(theme.TextPrimary).Background(theme.BgMedium).Render("  " + root)

	left := titleStyled + patStyled + rootStyled
	gap := width - lipgloss.Width(left) - engineW
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + engineStyled
	return theme.HeaderStyle.Width(width).Render(line)
}
