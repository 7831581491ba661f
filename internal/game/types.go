package game

import (
	"math"
	"time"
)

// Frequency categorizes goals and boards by cadence.
// It scopes the goal pools and determines the default grid size.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Frequencies lists all valid frequencies in cadence order.
var Frequencies = []Frequency{Daily, Weekly, Monthly, Yearly}

// Valid reports whether f is one of the known frequencies.
// Used when adopting untrusted data from local or remote payloads.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// DefaultSize returns the default grid dimension for this frequency.
// Daily and weekly boards default to 3x3, monthly 4x4, yearly 5x5.
func (f Frequency) DefaultSize() int {
	switch f {
	case Monthly:
		return 4
	case Yearly:
		return 5
	default:
		return 3
	}
}

// Grid size bounds. Boards outside this range are rejected on input and
// recovered (or dropped) when loading persisted data.
const (
	MinSize = 3
	MaxSize = 5
)

// ValidSize reports whether size is an acceptable grid dimension.
func ValidSize(size int) bool {
	return size >= MinSize && size <= MaxSize
}

// Subgoal is a checklist item nested under a placed Goal or a template.
type Subgoal struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// GoalTemplate is a reusable goal definition held in the custom library or
// the built-in suggested catalog. Templates are never placed directly; the
// generator materializes an independent Goal copy per placement.
type GoalTemplate struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Frequency   Frequency `json:"frequency"`
	Subgoals    []Subgoal `json:"subgoals,omitempty"`
	DateCreated time.Time `json:"dateCreated,omitempty"`
}

// Goal is a placed cell on a board.
//
// The placement ID is unique per placement and distinct from any template
// ID. SourceGoalID links back to the originating custom-library template
// when one exists; recent- or suggested-sourced placements leave it empty.
//
// A Goal with empty Text is an "empty tile": it pads a board whose pools
// could not fill the grid and is excluded from win and selection logic.
type Goal struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Frequency    Frequency `json:"frequency"`
	Completed    bool      `json:"completed"`
	SourceGoalID string    `json:"sourceGoalId,omitempty"`
	Subgoals     []Subgoal `json:"subgoals,omitempty"`
}

// IsEmpty reports whether g is an empty padding tile.
func (g Goal) IsEmpty() bool {
	return g.Text == ""
}

// HasSubgoals reports whether g carries a non-empty checklist.
func (g Goal) HasSubgoals() bool {
	return len(g.Subgoals) > 0
}

// Incomplete reports whether g still counts as unfinished work.
// With subgoals the goal is incomplete while any item is not done;
// otherwise the Completed flag decides.
func (g Goal) Incomplete() bool {
	if g.HasSubgoals() {
		for _, s := range g.Subgoals {
			if !s.Done {
				return true
			}
		}
		return false
	}
	return !g.Completed
}

// DeriveCompleted re-establishes the invariant that a goal with subgoals is
// completed exactly when every subgoal is done. Goals without subgoals keep
// their Completed flag untouched.
func (g *Goal) DeriveCompleted() {
	if !g.HasSubgoals() {
		return
	}
	for _, s := range g.Subgoals {
		if !s.Done {
			g.Completed = false
			return
		}
	}
	g.Completed = true
}

// CloneSubgoals copies a subgoal list with every Done flag reset.
// IDs are preserved; callers that need fresh IDs assign them afterwards.
func CloneSubgoals(subs []Subgoal) []Subgoal {
	if len(subs) == 0 {
		return nil
	}
	out := make([]Subgoal, len(subs))
	for i, s := range subs {
		out[i] = Subgoal{ID: s.ID, Text: s.Text}
	}
	return out
}

// Board is one generated NxN grid with its own completion state.
//
// Invariant: len(Goals) == Size*Size. Celebrated latches true once the first
// winning line is detected and gates repeat celebration; ResetProgress
// clears it.
type Board struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	Goals      []Goal    `json:"goals"`
	Size       int       `json:"size"`
	Celebrated bool      `json:"celebrated"`
}

// EffectiveSize returns the grid dimension, recovering it from the goal
// count for legacy boards persisted without a size field.
func (b Board) EffectiveSize() int {
	if ValidSize(b.Size) {
		return b.Size
	}
	if len(b.Goals) == 0 {
		return 0
	}
	return int(math.Round(math.Sqrt(float64(len(b.Goals)))))
}

// Clone returns a deep copy of the board. Board Store updates always work
// on copies so change detection stays structural.
func (b Board) Clone() Board {
	out := b
	out.Goals = make([]Goal, len(b.Goals))
	for i, g := range b.Goals {
		out.Goals[i] = g
		if len(g.Subgoals) > 0 {
			subs := make([]Subgoal, len(g.Subgoals))
			copy(subs, g.Subgoals)
			out.Goals[i].Subgoals = subs
		}
	}
	return out
}
