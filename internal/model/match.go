package model

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Match is one line of one file that satisfied the search pattern.
type Match struct {
	Path string // File path as enumerated
	Line int    // 1-based line number
	Text string // Full line without its terminator
}

// String formats the match as "<path>:<line>: <text>".
func (m Match) String() string {
	var b strings.Builder
	b.Grow(len(m.Path) + len(m.Text) + 16)
	b.WriteString(m.Path)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(m.Line))
	b.WriteString(": ")
	b.WriteString(m.Text)
	return b.String()
}

// FileResult aggregates the matches found in a single file.
type FileResult struct {
	Path     string
	Size     int64
	Mtime    time.Time
	Matches  []Match
	Category FileCategory
}

// NewFileResult builds a FileResult and classifies it by extension.
func NewFileResult(path string, matches []Match) *FileResult {
	return &FileResult{
		Path:     path,
		Matches:  matches,
		Category: ClassifyFile(path),
	}
}

// Name returns the base name of the file.
func (f *FileResult) Name() string { return filepath.Base(f.Path) }

// Ext returns the lowercase extension, including the leading dot.
func (f *FileResult) Ext() string { return GetExtension(f.Path) }

// Count returns the number of matching lines.
func (f *FileResult) Count() int { return len(f.Matches) }

// Dir returns the directory portion of the path.
func (f *FileResult) Dir() string { return filepath.Dir(f.Path) }
