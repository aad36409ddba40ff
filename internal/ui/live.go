package ui

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/scanner"
	"github.com/sadopc/vgrep/internal/ui/components"
)

// liveProgress is the search.Sink behind the progress panel. Workers write
// it, the tick handler reads it.
type liveProgress struct {
	start       time.Time
	enumerating atomic.Bool

	mu   sync.Mutex
	enum scanner.Progress

	processed    atomic.Int64
	total        atomic.Int64
	matches      atomic.Int64
	filesMatched atomic.Int64
	errors       atomic.Int64
}

func newLiveProgress() *liveProgress {
	lp := &liveProgress{start: time.Now()}
	lp.enumerating.Store(true)
	return lp
}

func (lp *liveProgress) setEnum(p scanner.Progress) {
	lp.mu.Lock()
	lp.enum = p
	lp.mu.Unlock()
}

func (lp *liveProgress) beginSearch(total int64) {
	lp.total.Store(total)
	lp.enumerating.Store(false)
}

func (lp *liveProgress) Match(model.Match) { lp.matches.Add(1) }

func (lp *liveProgress) FileError(string, error) { lp.errors.Add(1) }

func (lp *liveProgress) FileDone(_ string, matches []model.Match) {
	if len(matches) > 0 {
		lp.filesMatched.Add(1)
	}
}

func (lp *liveProgress) Progress(int64, int64, string) { lp.processed.Add(1) }

func (lp *liveProgress) snapshot() components.SearchProgress {
	lp.mu.Lock()
	enum := lp.enum
	lp.mu.Unlock()
	return components.SearchProgress{
		Enumerating:  lp.enumerating.Load(),
		Enum:         enum,
		Processed:    lp.processed.Load(),
		Total:        lp.total.Load(),
		Matches:      lp.matches.Load(),
		FilesMatched: lp.filesMatched.Load(),
		Errors:       lp.errors.Load(),
		Elapsed:      time.Since(lp.start),
	}
}
