package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/game"
	"github.com/roach88/bingo/internal/state"
)

// ToggleOptions holds flags for the toggle command.
type ToggleOptions struct {
	*RootOptions
	Subgoal int
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ToggleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "toggle <cell>",
		Short: "Toggle completion of a cell on the current board",
		Long: `Toggle completion of a cell on the current board.

Cells are numbered row-major from 0. A cell with subgoals cannot be
toggled directly; toggle its checklist items with --subgoal and the cell
completes when all of them are done.

Example:
  bingo toggle 4
  bingo toggle 4 --subgoal 1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cell, err := strconv.Atoi(args[0])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("cell must be a number, got %q", args[0]))
			}
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			celebrated := false
			var line []int
			e.st.OnCelebrate(func(boardID string, l []int) {
				celebrated = true
				line = l
			})

			if cmd.Flags().Changed("subgoal") {
				if !e.st.ToggleSubgoal(cell, opts.Subgoal) {
					return NewExitError(ExitFailure, "no such subgoal on that cell")
				}
			} else if !e.st.ToggleGoal(cell) {
				return NewExitError(ExitFailure, "cell is not toggleable (out of range, empty, or has subgoals)")
			}

			b, _ := e.st.Current()
			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return formatter(rootOpts, cmd).Success(struct {
					Board      game.Board `json:"board"`
					Celebrated bool       `json:"celebrated"`
					Line       []int      `json:"line,omitempty"`
				}{b, celebrated, line})
			}
			renderBoard(out, b)
			if celebrated {
				fmt.Fprintf(out, "BINGO! Line %v\n", line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Subgoal, "subgoal", 0, "toggle this checklist item instead of the cell")

	return cmd
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reset",
		Short:         "Clear all progress on the current board",
		Long:          "Clear all completion marks on the current board, including the celebration latch, so a future bingo celebrates again.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.st.ResetProgress() {
				return NewExitError(ExitFailure, "no current board")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared.")
			return nil
		},
	}
}

// NewReorderCommand creates the reorder command.
func NewReorderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <goal-id> <target-goal-id>",
		Short: "Move a goal to another goal's position on the current board",
		Long: `Move a goal to another goal's position on the current board.
The moved goal is inserted at the target's index and everything between
shifts by one; no cells are swapped or lost.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.st.UpdateCurrent(func(b game.Board) game.Board {
				return state.Reorder(b, args[0], args[1])
			}) {
				return NewExitError(ExitFailure, "no current board")
			}
			b, _ := e.st.Current()
			renderBoard(cmd.OutOrStdout(), b)
			return nil
		},
	}
}
