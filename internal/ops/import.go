package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/vgrep/internal/model"
)

// ImportJSON loads a file written by ExportJSON.
func ImportJSON(path string) (*model.ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open import file: %w", err)
	}

	var doc exportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported export version %d (want %d)", doc.Version, FormatVersion)
	}

	rs := model.NewResultSet(doc.Root, doc.Pattern, doc.Engine)
	for i, ef := range doc.Files {
		if ef.Path == "" {
			return nil, fmt.Errorf("file entry at index %d has no path", i)
		}
		matches := make([]model.Match, 0, len(ef.Matches))
		for _, em := range ef.Matches {
			if em.Line < 1 {
				return nil, fmt.Errorf("file %s: invalid line number %d", ef.Path, em.Line)
			}
			matches = append(matches, model.Match{Path: ef.Path, Line: em.Line, Text: em.Text})
		}
		fr := model.NewFileResult(ef.Path, matches)
		fr.Size = ef.Size
		if ef.Mtime != 0 {
			fr.Mtime = time.Unix(ef.Mtime, 0)
		}
		rs.Add(fr)
	}

	t := rs.Totals()
	t.FilesTotal = doc.FilesTotal
	t.FilesDone = doc.FilesTotal
	t.Errors = doc.Errors
	rs.RestoreTotals(t)
	return rs, nil
}
