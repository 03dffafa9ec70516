package scheduler

import "sync/atomic"

// Clock is the scheduler's logical clock: a monotonic tick counter that
// advances only while a quantum executes, never while the dispatcher idles.
type Clock struct {
	ticks atomic.Int64
}

// Now returns the current tick count.
func (c *Clock) Now() int64 {
	return c.ticks.Load()
}

// Advance moves the clock forward by n ticks and returns the new reading.
func (c *Clock) Advance(n int64) int64 {
	return c.ticks.Add(n)
}
