package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/game"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [board-id]",
		Short: "Show a board's grid and progress",
		Long: `Show a board's grid with completion marks, subgoal progress, and
whether it currently has a bingo. Defaults to the current board.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			var b game.Board
			var ok bool
			if len(args) == 1 {
				b, ok = e.st.Board(args[0])
			} else {
				b, ok = e.st.Current()
			}
			if !ok {
				return NewExitError(ExitFailure, "no such board")
			}

			if rootOpts.Format == "json" {
				return formatter(rootOpts, cmd).Success(struct {
					Board game.Board `json:"board"`
					Line  []int      `json:"winningLine,omitempty"`
				}{Board: b, Line: game.WinningLine(b.Goals, b.EffectiveSize())})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  [%s]\n", b.Title, b.ID)
			renderBoard(out, b)
			if line := game.WinningLine(b.Goals, b.EffectiveSize()); line != nil {
				fmt.Fprintf(out, "BINGO on cells %v\n", line)
			}
			return nil
		},
	}
	return cmd
}

// renderBoard prints the grid with per-cell completion marks.
func renderBoard(w io.Writer, b game.Board) {
	size := b.EffectiveSize()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			i := row*size + col
			if i >= len(b.Goals) {
				break
			}
			g := b.Goals[i]
			mark := " "
			switch {
			case g.IsEmpty():
				mark = "-"
			case g.Completed:
				mark = "x"
			}
			text := g.Text
			if g.IsEmpty() {
				text = "(empty)"
			}
			if g.HasSubgoals() {
				done := 0
				for _, sg := range g.Subgoals {
					if sg.Done {
						done++
					}
				}
				text = fmt.Sprintf("%s (%d/%d)", text, done, len(g.Subgoals))
			}
			fmt.Fprintf(w, "  [%s] %2d %s\n", mark, i, text)
		}
		fmt.Fprintln(w)
	}
}
