// Package state holds the authoritative in-memory board collection and the
// auxiliary library/preference state, with pure update-by-id semantics.
//
// The Store is the single owner of all Board instances. Mutation happens
// only through its methods under a single mutex (single-writer discipline);
// every update replaces structures rather than aliasing them, so change
// observers can treat each notification as a settled snapshot.
package state

import (
	"sort"
	"sync"
	"time"

	"github.com/roach88/bingo/internal/game"
)

// IDGenerator produces IDs for custom goal templates created through the
// store. Matches the generator package's interface so one implementation
// serves both.
type IDGenerator interface {
	NewID() string
}

// UIState is the persisted user-preference slice of the snapshot. It is
// logically independent of board correctness.
type UIState struct {
	Frequency     game.Frequency `json:"frequency"`
	BoardSize     int            `json:"boardSize"`
	CustomOnly    bool           `json:"customOnly"`
	LibraryFilter string         `json:"libraryFilter,omitempty"`
}

// DefaultUIState returns the preferences used before any persisted state
// exists.
func DefaultUIState() UIState {
	return UIState{Frequency: game.Weekly, BoardSize: game.Weekly.DefaultSize()}
}

// Store is the board collection plus auxiliary state.
type Store struct {
	mu          sync.Mutex
	boards      []game.Board // newest first
	currentID   string
	customGoals []game.GoalTemplate
	dismissed   map[string]bool
	ui          UIState

	ids   IDGenerator
	now   func() time.Time
	clock *Clock
	trace []TraceEvent

	listeners   []func()
	celebraters []func(boardID string, line []int)

	// pendingCelebrations buffers celebrations detected under the lock
	// until mutate can fire them outside it.
	pendingCelebrations []celebration
}

// NewStore creates an empty store with default preferences.
func NewStore(ids IDGenerator) *Store {
	return NewStoreAt(ids, time.Now)
}

// NewStoreAt creates a store with an injected wall clock, for tests.
func NewStoreAt(ids IDGenerator, now func() time.Time) *Store {
	return &Store{
		dismissed: map[string]bool{},
		ui:        DefaultUIState(),
		ids:       ids,
		now:       now,
		clock:     NewClock(),
	}
}

// OnChange registers a callback invoked after every settled mutation.
// Callbacks run outside the store lock, in registration order.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// OnCelebrate registers a callback for the one-shot first-bingo event.
// The presentation layer owns the actual celebration side effect.
func (s *Store) OnCelebrate(fn func(boardID string, line []int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.celebraters = append(s.celebraters, fn)
}

// mutate runs fn under the lock, then notifies change listeners and fires
// any celebration recorded during fn, both outside the lock.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	listeners := append([]func(){}, s.listeners...)
	fired := s.pendingCelebrations
	s.pendingCelebrations = nil
	celebraters := append([]func(string, []int){}, s.celebraters...)
	s.mu.Unlock()

	for _, c := range fired {
		for _, fn := range celebraters {
			fn(c.boardID, c.line)
		}
	}
	for _, fn := range listeners {
		fn()
	}
}

type celebration struct {
	boardID string
	line    []int
}

// traceEvent appends an event with the next clock seq. Caller holds the lock.
func (s *Store) traceEvent(ev TraceEvent) {
	ev.Seq = s.clock.Next()
	s.trace = append(s.trace, ev)
}

// Trace returns a copy of the recorded mutation trace.
func (s *Store) Trace() []TraceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TraceEvent, len(s.trace))
	copy(out, s.trace)
	return out
}

// Boards returns a deep copy of the board list, newest first.
func (s *Store) Boards() []game.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBoards(s.boards)
}

// CurrentBoardID returns the selected board's ID, or "" if none.
func (s *Store) CurrentBoardID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Current returns a copy of the selected board.
func (s *Store) Current() (game.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(s.currentID); idx >= 0 {
		return s.boards[idx].Clone(), true
	}
	return game.Board{}, false
}

// Board returns a copy of the board with the given ID.
func (s *Store) Board(id string) (game.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.boards[idx].Clone(), true
	}
	return game.Board{}, false
}

// indexOf locates a board by ID. Caller holds the lock.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.boards {
		if s.boards[i].ID == id {
			return i
		}
	}
	return -1
}

// AddBoard prepends a freshly generated (or accepted) board and selects it.
func (s *Store) AddBoard(b game.Board) {
	s.mutate(func() {
		s.boards = append([]game.Board{b.Clone()}, s.boards...)
		s.currentID = b.ID
		s.traceEvent(TraceEvent{Type: EventBoardCreated, Board: b.ID})
	})
}

// OpenBoard switches the current selection. Unknown IDs are ignored.
func (s *Store) OpenBoard(id string) bool {
	ok := false
	s.mutate(func() {
		if s.indexOf(id) >= 0 {
			s.currentID = id
			ok = true
		}
	})
	return ok
}

// DeleteBoard removes a board from history. If it was the current board the
// selection falls back to the newest remaining board.
func (s *Store) DeleteBoard(id string) bool {
	ok := false
	s.mutate(func() {
		idx := s.indexOf(id)
		if idx < 0 {
			return
		}
		s.boards = append(s.boards[:idx], s.boards[idx+1:]...)
		if s.currentID == id {
			s.currentID = ""
			if len(s.boards) > 0 {
				s.currentID = s.boards[0].ID
			}
		}
		ok = true
	})
	return ok
}

// RenameBoard sets a board's title after sanitization.
// An empty sanitized title is rejected and the prior title retained.
func (s *Store) RenameBoard(id, title string) bool {
	clean := game.Sanitize(title, game.MaxTitleLen)
	if clean == "" {
		return false
	}
	ok := false
	s.mutate(func() {
		if idx := s.indexOf(id); idx >= 0 {
			b := s.boards[idx].Clone()
			b.Title = clean
			s.boards[idx] = b
			ok = true
		}
	})
	return ok
}

// UpdateCurrent applies a pure transformation to the currently selected
// board, replacing it in place. No-op when no board is selected.
//
// After the update the subgoal-completion invariant is re-derived and the
// one-shot celebration transition evaluated.
func (s *Store) UpdateCurrent(fn func(game.Board) game.Board) bool {
	ok := false
	s.mutate(func() {
		ok = s.updateCurrentLocked(fn)
	})
	return ok
}

// updateCurrentLocked is UpdateCurrent without the mutate wrapper, for
// composition with other locked operations. Caller holds the lock.
func (s *Store) updateCurrentLocked(fn func(game.Board) game.Board) bool {
	idx := s.indexOf(s.currentID)
	if idx < 0 {
		return false
	}
	updated := fn(s.boards[idx].Clone())
	for i := range updated.Goals {
		updated.Goals[i].DeriveCompleted()
	}
	s.boards[idx] = updated
	s.checkCelebrationLocked(idx)
	return true
}

// checkCelebrationLocked latches Celebrated and queues the one-shot event
// when the current board transitions to a winning state.
func (s *Store) checkCelebrationLocked(idx int) {
	b := &s.boards[idx]
	line := game.WinningLine(b.Goals, b.EffectiveSize())
	if line == nil || b.Celebrated {
		return
	}
	b.Celebrated = true
	s.traceEvent(TraceEvent{Type: EventCelebration, Board: b.ID, Line: line})
	s.pendingCelebrations = append(s.pendingCelebrations, celebration{boardID: b.ID, line: line})
}

// ToggleGoal flips completion of one cell on the current board.
// Empty padding tiles and cells governed by subgoals are not toggleable.
func (s *Store) ToggleGoal(cell int) bool {
	ok := false
	s.mutate(func() {
		ok = s.updateCurrentLocked(func(b game.Board) game.Board {
			if cell < 0 || cell >= len(b.Goals) {
				return b
			}
			g := &b.Goals[cell]
			if g.IsEmpty() || g.HasSubgoals() {
				return b
			}
			g.Completed = !g.Completed
			done := g.Completed
			s.traceEvent(TraceEvent{Type: EventToggle, Board: b.ID, Cell: &cell, Done: &done})
			return b
		})
	})
	return ok
}

// ToggleSubgoal flips one checklist item of one cell on the current board.
// The parent goal's Completed flag is re-derived automatically.
func (s *Store) ToggleSubgoal(cell, sub int) bool {
	ok := false
	s.mutate(func() {
		ok = s.updateCurrentLocked(func(b game.Board) game.Board {
			if cell < 0 || cell >= len(b.Goals) {
				return b
			}
			g := &b.Goals[cell]
			if sub < 0 || sub >= len(g.Subgoals) {
				return b
			}
			g.Subgoals[sub].Done = !g.Subgoals[sub].Done
			done := g.Subgoals[sub].Done
			s.traceEvent(TraceEvent{Type: EventSubgoal, Board: b.ID, Cell: &cell, Done: &done})
			return b
		})
	})
	return ok
}

// ResetProgress clears all completion state on the current board, including
// the Celebrated latch, so a future win celebrates again.
func (s *Store) ResetProgress() bool {
	ok := false
	s.mutate(func() {
		ok = s.updateCurrentLocked(func(b game.Board) game.Board {
			for i := range b.Goals {
				b.Goals[i].Completed = false
				for j := range b.Goals[i].Subgoals {
					b.Goals[i].Subgoals[j].Done = false
				}
			}
			b.Celebrated = false
			s.traceEvent(TraceEvent{Type: EventReset, Board: b.ID})
			return b
		})
	})
	return ok
}

// AddCustomGoal creates a library template from sanitized input.
// Returns false when the sanitized text is empty or the frequency invalid.
func (s *Store) AddCustomGoal(text string, freq game.Frequency, subgoalTexts []string) (game.GoalTemplate, bool) {
	clean := game.Sanitize(text, game.MaxGoalTextLen)
	if clean == "" || !freq.Valid() {
		return game.GoalTemplate{}, false
	}

	tpl := game.GoalTemplate{ID: s.ids.NewID(), Text: clean, Frequency: freq, DateCreated: s.now()}
	for _, st := range subgoalTexts {
		sc := game.Sanitize(st, game.MaxGoalTextLen)
		if sc == "" {
			continue
		}
		tpl.Subgoals = append(tpl.Subgoals, game.Subgoal{ID: s.ids.NewID(), Text: sc})
	}

	s.mutate(func() {
		s.customGoals = append(s.customGoals, tpl)
	})
	return tpl, true
}

// RemoveCustomGoal deletes a template from the library.
// Placed copies on boards are unaffected (they are independent clones).
func (s *Store) RemoveCustomGoal(id string) bool {
	ok := false
	s.mutate(func() {
		for i := range s.customGoals {
			if s.customGoals[i].ID == id {
				s.customGoals = append(s.customGoals[:i], s.customGoals[i+1:]...)
				ok = true
				return
			}
		}
	})
	return ok
}

// CustomGoals returns a copy of the custom goal library.
func (s *Store) CustomGoals() []game.GoalTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTemplates(s.customGoals)
}

// DismissRecent hides a Goal Key from the recently-incomplete pool.
func (s *Store) DismissRecent(key string) {
	if key == "" {
		return
	}
	s.mutate(func() {
		s.dismissed[key] = true
	})
}

// RestoreRecent undoes a dismissal.
func (s *Store) RestoreRecent(key string) {
	s.mutate(func() {
		delete(s.dismissed, key)
	})
}

// DismissedSet returns a copy of the dismissed Goal Key set.
func (s *Store) DismissedSet() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.dismissed))
	for k := range s.dismissed {
		out[k] = true
	}
	return out
}

// UI returns the current preference state.
func (s *Store) UI() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui
}

// SetFrequency updates the generation frequency preference.
// Invalid values are dropped silently and the prior value retained.
func (s *Store) SetFrequency(f game.Frequency) {
	if !f.Valid() {
		return
	}
	s.mutate(func() {
		s.ui.Frequency = f
		s.ui.BoardSize = f.DefaultSize()
	})
}

// SetBoardSize updates the preferred grid size.
// Out-of-range values are dropped silently.
func (s *Store) SetBoardSize(size int) {
	if !game.ValidSize(size) {
		return
	}
	s.mutate(func() {
		s.ui.BoardSize = size
	})
}

// SetCustomOnly updates the custom-only generation flag.
func (s *Store) SetCustomOnly(v bool) {
	s.mutate(func() {
		s.ui.CustomOnly = v
	})
}

// SetLibraryFilter remembers the last selected library filter.
func (s *Store) SetLibraryFilter(filter string) {
	s.mutate(func() {
		s.ui.LibraryFilter = game.Sanitize(filter, game.MaxTitleLen)
	})
}

// DismissedKeys returns the dismissed Goal Keys in sorted order, for
// serialization.
func (s *Store) DismissedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.dismissed)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func cloneBoards(boards []game.Board) []game.Board {
	out := make([]game.Board, len(boards))
	for i, b := range boards {
		out[i] = b.Clone()
	}
	return out
}

func cloneTemplates(tpls []game.GoalTemplate) []game.GoalTemplate {
	out := make([]game.GoalTemplate, len(tpls))
	for i, tpl := range tpls {
		out[i] = tpl
		if len(tpl.Subgoals) > 0 {
			subs := make([]game.Subgoal, len(tpl.Subgoals))
			copy(subs, tpl.Subgoals)
			out[i].Subgoals = subs
		}
	}
	return out
}
