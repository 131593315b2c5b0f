package engine

import "sync/atomic"

// Clock is a monotonic counter stamped onto structured log lines so a
// run's ticks can be correlated without relying on wall-clock time.
//
// The engine's single-writer tick loop means only one goroutine ever
// calls Next(), but the counter is kept atomic for cheap safety if a
// caller inspects it concurrently with Tick.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
