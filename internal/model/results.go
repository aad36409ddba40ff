package model

import (
	"sync"
)

// Totals summarizes a result set.
type Totals struct {
	FilesTotal   int64 // Files enumerated for the run
	FilesDone    int64 // Files fully processed
	FilesMatched int64 // Files with at least one match
	Matches      int64 // Matching lines across all files
	Errors       int64 // Files that could not be read
}

// ResultSet collects per-file results from concurrent workers.
type ResultSet struct {
	Root    string
	Pattern string
	Engine  string

	mu     sync.RWMutex
	files  []*FileResult
	byPath map[string]*FileResult
	totals Totals
}

// NewResultSet creates an empty result set for a run.
func NewResultSet(root, pattern, engine string) *ResultSet {
	return &ResultSet{
		Root:    root,
		Pattern: pattern,
		Engine:  engine,
		byPath:  make(map[string]*FileResult),
	}
}

// SetTotal records the number of files enumerated for the run.
func (r *ResultSet) SetTotal(n int64) {
	r.mu.Lock()
	r.totals.FilesTotal = n
	r.mu.Unlock()
}

// Add records a processed file. Files without matches only bump counters.
func (r *ResultSet) Add(f *FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals.FilesDone++
	if f == nil || len(f.Matches) == 0 {
		return
	}
	if existing, ok := r.byPath[f.Path]; ok {
		r.totals.Matches -= int64(len(existing.Matches))
		*existing = *f
	} else {
		r.files = append(r.files, f)
		r.byPath[f.Path] = f
		r.totals.FilesMatched++
	}
	r.totals.Matches += int64(len(f.Matches))
}

// AddError records a file that could not be read.
func (r *ResultSet) AddError() {
	r.mu.Lock()
	r.totals.FilesDone++
	r.totals.Errors++
	r.mu.Unlock()
}

// Files returns a copy of the file results in insertion order.
func (r *ResultSet) Files() []*FileResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*FileResult, len(r.files))
	copy(out, r.files)
	return out
}

// Lookup returns the result for path, if any.
func (r *ResultSet) Lookup(path string) (*FileResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byPath[path]
	return f, ok
}

// Totals returns a snapshot of the counters.
func (r *ResultSet) Totals() Totals {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totals
}

// RestoreTotals overwrites the counters, used when loading an export.
func (r *ResultSet) RestoreTotals(t Totals) {
	r.mu.Lock()
	r.totals = t
	r.mu.Unlock()
}
