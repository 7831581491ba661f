package testutil

import (
	"sync"
	"time"
)

// FixedClock hands out deterministic timestamps for tests.
//
// Each call to Now advances the clock by a fixed step, so repeated board
// generations in one test get distinct, ordered CreatedAt values without
// touching the wall clock.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

// NewFixedClock creates a clock starting at the given instant.
// Each Now call advances it by step.
func NewFixedClock(start time.Time, step time.Duration) *FixedClock {
	return &FixedClock{at: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.at
	c.at = c.at.Add(c.step)
	return t
}

// Peek returns the next instant without advancing.
func (c *FixedClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}
