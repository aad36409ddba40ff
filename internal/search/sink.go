package search

import "github.com/sadopc/vgrep/internal/model"

// Sink receives search events from concurrent workers. Implementations must
// be safe for concurrent use.
type Sink interface {
	// Match is called once per matching line.
	Match(m model.Match)
	// FileError is called when a file could not be opened.
	FileError(path string, err error)
	// FileDone is called after a file has been read, with all its matches.
	FileDone(path string, matches []model.Match)
	// Progress is called after each file with the completed count.
	Progress(n, total int64, path string)
}

// MultiSink fans every event out to each sink in order.
type MultiSink []Sink

func (ms MultiSink) Match(m model.Match) {
	for _, s := range ms {
		s.Match(m)
	}
}

func (ms MultiSink) FileError(path string, err error) {
	for _, s := range ms {
		s.FileError(path, err)
	}
}

func (ms MultiSink) FileDone(path string, matches []model.Match) {
	for _, s := range ms {
		s.FileDone(path, matches)
	}
}

func (ms MultiSink) Progress(n, total int64, path string) {
	for _, s := range ms {
		s.Progress(n, total, path)
	}
}

// DiscardSink ignores every event.
type DiscardSink struct{}

func (DiscardSink) Match(model.Match)              {}
func (DiscardSink) FileError(string, error)        {}
func (DiscardSink) FileDone(string, []model.Match) {}
func (DiscardSink) Progress(int64, int64, string)  {}
