package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBoardsCommand creates the boards command.
func NewBoardsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "boards",
		Short:         "List board history, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			boards := e.st.Boards()
			if rootOpts.Format == "json" {
				return formatter(rootOpts, cmd).Success(boards)
			}

			current := e.st.CurrentBoardID()
			out := cmd.OutOrStdout()
			if len(boards) == 0 {
				fmt.Fprintln(out, "No boards yet. Run 'bingo new' to generate one.")
				return nil
			}
			for _, b := range boards {
				marker := " "
				if b.ID == current {
					marker = "*"
				}
				done := 0
				for _, g := range b.Goals {
					if !g.IsEmpty() && g.Completed {
						done++
					}
				}
				fmt.Fprintf(out, "%s %s  %dx%d  %d done  %s  %s\n",
					marker, b.ID, b.Size, b.Size, done,
					b.CreatedAt.Format("2006-01-02"), b.Title)
			}
			return nil
		},
	}
	return cmd
}

// NewOpenCommand creates the open command.
func NewOpenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "open <board-id>",
		Short:         "Select a board as current",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.st.OpenBoard(args[0]) {
				return NewExitError(ExitFailure, fmt.Sprintf("no board %q", args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", args[0])
			return nil
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <board-id>",
		Short:         "Delete a board from history",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.st.DeleteBoard(args[0]) {
				return NewExitError(ExitFailure, fmt.Sprintf("no board %q", args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rename <board-id> <title>",
		Short:         "Rename a board",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.st.RenameBoard(args[0], args[1]) {
				return NewExitError(ExitFailure, "rename rejected: unknown board or empty title")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s\n", args[0])
			return nil
		},
	}
}
