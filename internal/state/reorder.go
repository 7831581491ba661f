package state

import "github.com/roach88/bingo/internal/game"

// Reorder moves the goal with activeID to the position currently held by
// overID, shifting the goals in between. It is the pure contract the
// drag-and-drop presentation layer commits through UpdateCurrent.
//
// Unknown IDs or a no-op move return the board unchanged.
func Reorder(b game.Board, activeID, overID string) game.Board {
	from, to := -1, -1
	for i, g := range b.Goals {
		switch g.ID {
		case activeID:
			from = i
		case overID:
			to = i
		}
	}
	if from < 0 || to < 0 || from == to {
		return b
	}

	goals := make([]game.Goal, 0, len(b.Goals))
	goals = append(goals, b.Goals[:from]...)
	goals = append(goals, b.Goals[from+1:]...)

	moved := b.Goals[from]
	rest := make([]game.Goal, len(goals)-to)
	copy(rest, goals[to:])
	goals = append(goals[:to], moved)
	goals = append(goals, rest...)

	out := b
	out.Goals = goals
	return out
}

// Draft is a scratch copy of the current board's goal order for an editing
// session. The presentation layer reorders the draft freely and either
// commits it back or discards it.
type Draft struct {
	BoardID string
	Goals   []game.Goal
}

// BeginDraft opens an editing draft over the current board's goal order.
func (s *Store) BeginDraft() (Draft, bool) {
	b, ok := s.Current()
	if !ok {
		return Draft{}, false
	}
	return Draft{BoardID: b.ID, Goals: b.Goals}, true
}

// CommitDraft writes a draft's goal order back to its board.
// The commit is rejected if the board is no longer current or the draft
// does not hold exactly the same placements (no additions, removals or
// substitutions - reordering only).
func (s *Store) CommitDraft(d Draft) bool {
	b, ok := s.Current()
	if !ok || b.ID != d.BoardID || !samePlacements(b.Goals, d.Goals) {
		return false
	}
	return s.UpdateCurrent(func(cur game.Board) game.Board {
		goals := make([]game.Goal, len(d.Goals))
		copy(goals, d.Goals)
		cur.Goals = goals
		return cur
	})
}

// samePlacements reports whether two goal lists hold the same placement IDs
// as a multiset.
func samePlacements(a, b []game.Goal) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, g := range a {
		counts[g.ID]++
	}
	for _, g := range b {
		counts[g.ID]--
		if counts[g.ID] < 0 {
			return false
		}
	}
	return true
}
