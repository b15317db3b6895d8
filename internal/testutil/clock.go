package testutil

import (
	"sync"
	"time"
)

// DeterministicTime is a wall clock for tests that advances by a fixed step
// on every reading.
//
// The first call to Now returns the start time. It can be reset so the same
// scenario replays with identical timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicTime struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	n     int64
}

// NewDeterministicTime creates a clock reading start, start+step, ...
func NewDeterministicTime(start time.Time, step time.Duration) *DeterministicTime {
	return &DeterministicTime{start: start, step: step}
}

// Now returns the next reading.
func (c *DeterministicTime) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Readings returns how many times Now has been called.
func (c *DeterministicTime) Readings() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset rewinds the clock to its start time.
func (c *DeterministicTime) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
