package search

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/pattern"
	"github.com/sadopc/vgrep/internal/scanner"
)

// ScanFile reads path line by line and returns every line m matches, in
// ascending line order. Only a failure to open the file is returned as an
// error. Lines that are not valid UTF-8 are skipped but still numbered, and a
// read error part way through ends the scan with the matches found so far.
func ScanFile(src scanner.Source, path string, m pattern.Matcher, log logr.Logger) ([]model.Match, error) {
	f, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var matches []model.Match
	lineNo := 0
	for {
		raw, readErr := r.ReadString('\n')
		if len(raw) > 0 {
			lineNo++
			text := trimEOL(raw)
			switch {
			case !utf8.ValidString(text):
				log.V(2).Info("skipping undecodable line", "path", path, "line", lineNo)
			case m.MatchString(text):
				matches = append(matches, model.Match{Path: path, Line: lineNo, Text: text})
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				log.V(1).Info("stopped reading file", "path", path, "line", lineNo, "error", readErr.Error())
			}
			break
		}
	}
	return matches, nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
