package ui

import (
	"bufio"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/vgrep/internal/scanner"
)

// maxPreviewLines caps how much of a file the preview pane loads.
const maxPreviewLines = 200_000

// PreviewMsg carries the lines of a file loaded for the preview pane.
type PreviewMsg struct {
	Path  string
	Lines []string
	Err   error
}

func loadPreviewCmd(src scanner.Source, path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := readLines(src, path, maxPreviewLines)
		return PreviewMsg{Path: path, Lines: lines, Err: err}
	}
}

// readLines reads up to limit lines of path. Undecodable bytes are shown as
// U+FFFD rather than dropped so line numbers stay aligned with the file.
func readLines(src scanner.Source, path string, limit int) ([]string, error) {
	f, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	r := bufio.NewReader(f)
	for len(lines) < limit {
		line, err := r.ReadString('\n')
		if len(line) > 0 || err == nil {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			lines = append(lines, strings.ToValidUTF8(line, "�"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return lines, err
		}
	}
	return lines, nil
}
