// Package report renders search events for the terminal and collects them
// into a model.ResultSet.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/pattern"
)

// ColorMode controls ANSI highlighting of matches.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Enabled resolves the mode against the destination file.
func (m ColorMode) Enabled(f *os.File) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TextSink prints matches and progress lines to Out and file errors to Err.
// Every line goes out in a single Write under a lock so concurrent workers
// never interleave partial lines.
type TextSink struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer

	matcher pattern.Matcher
	color   bool

	pathColor *color.Color
	lineColor *color.Color
	hitColor  *color.Color
}

// NewTextSink creates a sink. When useColor is set, matched substrings found
// by m are highlighted.
func NewTextSink(out, errOut io.Writer, m pattern.Matcher, useColor bool) *TextSink {
	s := &TextSink{out: out, err: errOut, matcher: m, color: useColor}
	if useColor {
		s.pathColor = color.New(color.FgMagenta)
		s.lineColor = color.New(color.FgGreen)
		s.hitColor = color.New(color.FgRed, color.Bold)
		for _, c := range []*color.Color{s.pathColor, s.lineColor, s.hitColor} {
			c.EnableColor()
		}
	}
	return s
}

func (s *TextSink) Match(m model.Match) {
	var line string
	if s.color {
		line = s.colorize(m)
	} else {
		line = m.String()
	}
	s.writeLine(s.out, line)
}

func (s *TextSink) colorize(m model.Match) string {
	var b strings.Builder
	b.WriteString(s.pathColor.Sprint(m.Path))
	b.WriteByte(':')
	b.WriteString(s.lineColor.Sprint(strconv.Itoa(m.Line)))
	b.WriteString(": ")
	b.WriteString(Highlight(m.Text, s.matcher, s.hitColor.Sprint))
	return b.String()
}

func (s *TextSink) FileError(path string, err error) {
	s.writeLine(s.err, fmt.Sprintf("Error reading file %s: %s", path, errorMessage(err)))
}

func (s *TextSink) FileDone(string, []model.Match) {}

func (s *TextSink) Progress(n, total int64, _ string) {
	s.writeLine(s.out, fmt.Sprintf("Processed %d/%d files", n, total))
}

func (s *TextSink) writeLine(w io.Writer, line string) {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')

	s.mu.Lock()
	_, _ = w.Write(buf)
	s.mu.Unlock()
}

// errorMessage drops the operation and path from *os.PathError, since the
// caller already prints the path.
func errorMessage(err error) string {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

// Highlight wraps every match of m in text with wrap. Overlapping and empty
// spans are ignored.
func Highlight(text string, m pattern.Matcher, wrap func(a ...interface{}) string) string {
	if m == nil {
		return text
	}
	spans := m.FindAllStringIndex(text)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		start, end := sp[0], sp[1]
		if start < last || end <= start || end > len(text) {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(wrap(text[start:end]))
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
