package search

import "sync/atomic"

// Counter is the shared count of completed files. It only moves forward.
type Counter struct {
	n atomic.Int64
}

// Inc adds one and returns the new value. Concurrent callers each observe a
// distinct value.
func (c *Counter) Inc() int64 { return c.n.Add(1) }

// Load returns the current value.
func (c *Counter) Load() int64 { return c.n.Load() }
