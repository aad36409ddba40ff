// Package search runs the per-file scan across a worker pool and reports
// matches and progress to a Sink.
package search

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/vgrep/internal/pattern"
	"github.com/sadopc/vgrep/internal/scanner"
)

// Summary describes a completed run.
type Summary struct {
	Files        int64 // Files handed to the pool
	Processed    int64 // Files completed, including those that failed to open
	Matches      int64
	FilesMatched int64
	Errors       int64 // Files that could not be opened
	Duration     time.Duration
}

// Searcher scans a list of files in parallel.
type Searcher struct {
	Source  scanner.Source
	Matcher pattern.Matcher
	// Workers bounds concurrent file scans (0 = GOMAXPROCS).
	Workers int
	Logger  logr.Logger
}

// Run scans files and blocks until every file has been processed or ctx is
// done. Files not yet started when ctx is canceled are skipped.
func (s *Searcher) Run(ctx context.Context, files []string, sink Sink) Summary {
	start := time.Now()
	if sink == nil {
		sink = DiscardSink{}
	}
	log := s.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	total := int64(len(files))
	var (
		counter      Counter
		matchCount   atomic.Int64
		filesMatched atomic.Int64
		errCount     atomic.Int64
	)

	var g errgroup.Group
	g.SetLimit(workers)

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			matches, err := ScanFile(s.Source, path, s.Matcher, log)
			if err != nil {
				errCount.Add(1)
				sink.FileError(path, err)
			} else {
				for _, m := range matches {
					sink.Match(m)
				}
				if len(matches) > 0 {
					matchCount.Add(int64(len(matches)))
					filesMatched.Add(1)
				}
				sink.FileDone(path, matches)
			}
			sink.Progress(counter.Inc(), total, path)
			return nil
		})
	}
	_ = g.Wait()

	return Summary{
		Files:        total,
		Processed:    counter.Load(),
		Matches:      matchCount.Load(),
		FilesMatched: filesMatched.Load(),
		Errors:       errCount.Load(),
		Duration:     time.Since(start),
	}
}
