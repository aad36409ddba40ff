package ops

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/vgrep/internal/model"
)

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, avoiding verbose per-call checks.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) WriteString(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// writeJSON marshals v and writes it, recording any error.
func (ew *errWriter) writeJSON(v any) {
	if ew.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		ew.err = err
		return
	}
	_, ew.err = ew.w.Write(data)
}

// ExportJSON writes results to path. The file is written to a temp file in
// the same directory and renamed on success, so a partial file is never left
// behind on error.
func ExportJSON(results *model.ResultSet, path string, version string) (retErr error) {
	if path == "" || path == "-" {
		return fmt.Errorf("export needs a file path")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".vgrep-export-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := exportToWriter(results, tmp, version); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		// On Windows, Rename cannot replace an existing destination.
		if runtime.GOOS != "windows" {
			return err
		}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("cannot replace export file %s: %w", path, err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			return err
		}
	}
	return nil
}

func exportToWriter(results *model.ResultSet, out io.Writer, version string) error {
	bw := bufio.NewWriterSize(out, 64*1024)
	ew := &errWriter{w: bw}

	if version == "" {
		version = "dev"
	}
	totals := results.Totals()

	// Header fields in document order
	fields := []struct {
		key   string
		value any
	}{
		{"version", FormatVersion},
		{"run_id", uuid.NewString()},
		{"progname", "vgrep"},
		{"progver", version},
		{"timestamp", time.Now().Unix()},
		{"root", results.Root},
		{"pattern", results.Pattern},
		{"engine", results.Engine},
		{"files_total", totals.FilesTotal},
		{"errors", totals.Errors},
	}

	ew.WriteString("{")
	for _, f := range fields {
		ew.WriteString(strconv.Quote(f.key))
		ew.WriteString(":")
		ew.writeJSON(f.value)
		ew.WriteString(",")
	}
	ew.WriteString("\n\"files\":[")

	files := results.Files()
	model.SortFiles(files, model.SortConfig{Field: model.SortByPath, Order: model.SortAsc})
	for i, f := range files {
		if ew.err != nil {
			break
		}
		if i > 0 {
			ew.WriteString(",")
		}
		ew.WriteString("\n")
		ew.writeJSON(toExportFile(f))
	}

	ew.WriteString("\n]}\n")
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

func toExportFile(f *model.FileResult) exportFile {
	ef := exportFile{
		Path:    f.Path,
		Size:    f.Size,
		Matches: make([]exportMatch, len(f.Matches)),
	}
	if !f.Mtime.IsZero() {
		ef.Mtime = f.Mtime.Unix()
	}
	for i, m := range f.Matches {
		ef.Matches[i] = exportMatch{Line: m.Line, Text: m.Text}
	}
	return ef
}
