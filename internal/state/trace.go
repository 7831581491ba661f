package state

import "sync/atomic"

// Clock is a monotonic logical clock stamping trace events.
//
// Every mutation trace event carries a strictly increasing seq so scenario
// traces have a deterministic, wall-clock-free order that survives replay
// and golden-file comparison.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the clock position without advancing it.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// Trace event types.
const (
	EventBoardCreated = "board_created"
	EventToggle       = "toggle"
	EventSubgoal      = "subgoal_toggle"
	EventCelebration  = "celebration"
	EventReset        = "reset"
)

// TraceEvent records one observable board mutation.
type TraceEvent struct {
	Seq   int64  `json:"seq"`
	Type  string `json:"type"`
	Board string `json:"board,omitempty"`
	Cell  *int   `json:"cell,omitempty"`
	Done  *bool  `json:"done,omitempty"`
	Line  []int  `json:"line,omitempty"`
}
