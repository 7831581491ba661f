package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/catalog"
	"github.com/roach88/bingo/internal/game"
)

// GoalAddOptions holds flags for goal add.
type GoalAddOptions struct {
	*RootOptions
	Frequency string
	Subgoals  []string
}

// NewGoalCommand creates the goal command group for managing the custom
// goal library and the dismissed-recent set.
func NewGoalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage the custom goal library",
	}
	cmd.AddCommand(newGoalAddCommand(rootOpts))
	cmd.AddCommand(newGoalListCommand(rootOpts))
	cmd.AddCommand(newGoalRemoveCommand(rootOpts))
	cmd.AddCommand(newGoalDismissCommand(rootOpts))
	cmd.AddCommand(newGoalRestoreCommand(rootOpts))
	return cmd
}

func newGoalAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GoalAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a custom goal to the library",
		Long: `Add a custom goal to the library for one frequency.

Repeat --sub to attach checklist items; a placed copy of the goal then
completes only when all of its items are done.

Example:
  bingo goal add "Run 5k" --freq weekly
  bingo goal add "Deep clean" --freq monthly --sub kitchen --sub bathroom`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			freq := game.Frequency(opts.Frequency)
			if !freq.Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown frequency %q", opts.Frequency))
			}
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			tpl, ok := e.st.AddCustomGoal(args[0], freq, opts.Subgoals)
			if !ok {
				return NewExitError(ExitFailure, "goal text is empty after sanitization")
			}
			if rootOpts.Format == "json" {
				return formatter(rootOpts, cmd).Success(tpl)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", tpl.ID, tpl.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Frequency, "freq", "weekly", "goal frequency (daily|weekly|monthly|yearly)")
	cmd.Flags().StringArrayVar(&opts.Subgoals, "sub", nil, "checklist item (repeatable)")

	return cmd
}

func newGoalListCommand(rootOpts *RootOptions) *cobra.Command {
	var suggested bool

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the custom goal library",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			var goals []game.GoalTemplate
			if suggested {
				cat, err := catalog.Load()
				if err != nil {
					return WrapExitError(ExitCommandError, "built-in goal catalog is broken", err)
				}
				goals = cat.All()
			} else {
				goals = e.st.CustomGoals()
			}

			if rootOpts.Format == "json" {
				return formatter(rootOpts, cmd).Success(goals)
			}
			out := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(out, "Library is empty. Add goals with 'bingo goal add'.")
				return nil
			}
			for _, tpl := range goals {
				fmt.Fprintf(out, "%s  [%s]  %s", tpl.ID, tpl.Frequency, tpl.Text)
				if len(tpl.Subgoals) > 0 {
					fmt.Fprintf(out, "  (%d items)", len(tpl.Subgoals))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&suggested, "suggested", false, "list the built-in suggestions instead")

	return cmd
}

func newGoalRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <goal-id>",
		Short:         "Remove a custom goal from the library",
		Long:          "Remove a custom goal from the library. Copies already placed on boards are unaffected.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.st.RemoveCustomGoal(args[0]) {
				return NewExitError(ExitFailure, fmt.Sprintf("no custom goal %q", args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newGoalDismissCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <freq> <text>",
		Short: "Hide a goal from the recently-incomplete pool",
		Long: `Hide a goal from the recently-incomplete pool by its frequency and
text. Dismissal is by goal identity, so every board copy of the goal is
covered at once.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			freq := game.Frequency(args[0])
			if !freq.Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown frequency %q", args[0]))
			}
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			key := game.Key(freq, args[1])
			e.st.DismissRecent(key)
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s\n", key)
			return nil
		},
	}
}

func newGoalRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "restore <freq> <text>",
		Short:         "Undo a dismissal",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			freq := game.Frequency(args[0])
			if !freq.Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown frequency %q", args[0]))
			}
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			key := game.Key(freq, args[1])
			e.st.RestoreRecent(key)
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", key)
			return nil
		},
	}
}
