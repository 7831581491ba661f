// Package harness executes play scenarios against the real board store and
// compares the resulting mutation trace against golden files.
//
// Scenarios are YAML files describing a fixed board and a sequence of play
// steps. Everything is deterministic: IDs are sequential, the board is laid
// out exactly as written, and trace sequence numbers come from the store's
// logical clock.
package harness

import (
	"fmt"

	"github.com/roach88/bingo/internal/game"
	"github.com/roach88/bingo/internal/state"
	"github.com/roach88/bingo/internal/testutil"
)

// Result holds the observable outcome of a scenario execution.
type Result struct {
	// Trace is the full mutation trace in seq order.
	Trace []state.TraceEvent

	// Final is the board after the last step.
	Final game.Board

	// Celebrations records every fired celebration line, in order.
	Celebrations [][]int
}

// Run executes a scenario against a fresh store and returns the outcome.
// A step addressing a cell that cannot be acted on fails the run; scenarios
// describe exact play sequences, so a refused step is a scenario bug.
func Run(scenario *Scenario) (*Result, error) {
	st := state.NewStore(testutil.NewSequentialIDs("h"))

	var celebrations [][]int
	st.OnCelebrate(func(_ string, line []int) {
		celebrations = append(celebrations, line)
	})

	st.AddBoard(buildBoard(scenario.Board))

	for i, step := range scenario.Steps {
		switch step.Action {
		case StepToggle:
			if !st.ToggleGoal(*step.Cell) {
				return nil, fmt.Errorf("steps[%d]: cell %d is not toggleable", i, *step.Cell)
			}
		case StepSubgoal:
			if !st.ToggleSubgoal(*step.Cell, *step.Sub) {
				return nil, fmt.Errorf("steps[%d]: cell %d has no subgoal %d", i, *step.Cell, *step.Sub)
			}
		case StepReset:
			if !st.ResetProgress() {
				return nil, fmt.Errorf("steps[%d]: no board to reset", i)
			}
		}
	}

	final, _ := st.Current()
	return &Result{
		Trace:        st.Trace(),
		Final:        final,
		Celebrations: celebrations,
	}, nil
}

// buildBoard lays out the scenario board exactly as written: goals row-major
// in declaration order, padded with empty tiles, deterministic cell IDs.
func buildBoard(spec BoardSpec) game.Board {
	freq := game.Frequency(spec.Frequency)
	size := spec.Size
	if size == 0 {
		size = freq.DefaultSize()
	}
	title := spec.Title
	if title == "" {
		title = "Scenario board"
	}

	b := game.Board{ID: "board", Title: title, Size: size}
	for i := 0; i < size*size; i++ {
		if i >= len(spec.Goals) {
			b.Goals = append(b.Goals, game.Goal{ID: fmt.Sprintf("cell-%d", i), Frequency: freq})
			continue
		}
		gs := spec.Goals[i]
		g := game.Goal{ID: fmt.Sprintf("cell-%d", i), Text: gs.Text, Frequency: freq}
		for j, sub := range gs.Subgoals {
			g.Subgoals = append(g.Subgoals, game.Subgoal{ID: fmt.Sprintf("cell-%d-s%d", i, j), Text: sub})
		}
		b.Goals = append(b.Goals, g)
	}
	return b
}
