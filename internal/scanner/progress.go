package scanner

import (
	"sync"
	"sync/atomic"
	"time"
)

// Progress reports enumeration progress.
type Progress struct {
	// FilesFound is the number of regular files found so far.
	FilesFound int64
	// DirsScanned is the number of directories listed so far.
	DirsScanned int64
	// Errors is the count of entries dropped because they could not be read.
	Errors int64
	// Done indicates enumeration is complete.
	Done bool
	// StartTime is when enumeration began.
	StartTime time.Time
	// Duration is elapsed time.
	Duration time.Duration
}

// ItemsPerSecond returns the enumeration rate.
func (p Progress) ItemsPerSecond() float64 {
	if p.Duration.Seconds() == 0 {
		return 0
	}
	return float64(p.FilesFound+p.DirsScanned) / p.Duration.Seconds()
}

// Counters are the live totals behind a Progress snapshot.
type Counters struct {
	FilesFound  atomic.Int64
	DirsScanned atomic.Int64
	Errors      atomic.Int64
	start       time.Time
}

// Snapshot captures the counters at this instant.
func (c *Counters) Snapshot(done bool) Progress {
	return Progress{
		FilesFound:  c.FilesFound.Load(),
		DirsScanned: c.DirsScanned.Load(),
		Errors:      c.Errors.Load(),
		Done:        done,
		StartTime:   c.start,
		Duration:    time.Since(c.start),
	}
}

// StartReporter publishes snapshots of c to progress every 50ms until the
// returned stop function is called, which also sends a final Done snapshot.
// Snapshots are dropped rather than blocking when the channel is full.
// A nil channel yields a no-op reporter.
func StartReporter(c *Counters, progress chan<- Progress) (stop func()) {
	c.start = time.Now()
	if progress == nil {
		return func() {}
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case progress <- c.Snapshot(false):
				default:
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			select {
			case progress <- c.Snapshot(true):
			default:
			}
		})
	}
}
