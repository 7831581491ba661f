// Package testutil provides deterministic helpers shared by tests:
// sequential ID generation, a fixed clock and scripted remote collaborators.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates "prefix-1", "prefix-2", ... for deterministic
// board and placement IDs in tests.
//
// Thread-safe: safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator with the given prefix.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// NewID returns the next ID in sequence.
func (s *SequentialIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// Count returns how many IDs have been handed out.
func (s *SequentialIDs) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
