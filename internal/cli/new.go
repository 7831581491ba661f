package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/catalog"
	"github.com/roach88/bingo/internal/game"
	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/pool"
)

// GenerateOptions holds flags for the new command.
type GenerateOptions struct {
	*RootOptions
	Frequency  string
	Size       int
	Title      string
	CustomOnly bool
}

// NewGenerateCommand creates the new command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new board",
		Long: `Generate a new board from the goal pools for a frequency.

Goals are drawn from three pools: recently incomplete goals mined from
board history, the custom goal library, and the built-in suggestions.
Recently incomplete goals that are also in the library come first.

Example:
  bingo new --freq weekly
  bingo new --freq yearly --size 5 --title "2026 goals" --custom-only`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateBoard(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Frequency, "freq", "", "goal frequency (daily|weekly|monthly|yearly, default: saved preference)")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "grid size 3-5 (default: frequency default)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "board title")
	cmd.Flags().BoolVar(&opts.CustomOnly, "custom-only", false, "draw from custom goals only")

	return cmd
}

func generateBoard(opts *GenerateOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	ui := e.st.UI()
	freq := ui.Frequency
	size := ui.BoardSize
	if opts.Frequency != "" {
		freq = game.Frequency(opts.Frequency)
		if !freq.Valid() {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown frequency %q", opts.Frequency))
		}
		// Switching frequency adopts its default size unless --size overrides.
		e.st.SetFrequency(freq)
		size = freq.DefaultSize()
	}
	if opts.Size != 0 {
		if !game.ValidSize(opts.Size) {
			return NewExitError(ExitCommandError, fmt.Sprintf("size must be %d-%d", game.MinSize, game.MaxSize))
		}
		size = opts.Size
		e.st.SetBoardSize(size)
	}
	if cmd.Flags().Changed("custom-only") {
		e.st.SetCustomOnly(opts.CustomOnly)
	}

	cat, err := catalog.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "built-in goal catalog is broken", err)
	}

	pools := pool.Build(e.st.Boards(), e.st.CustomGoals(), cat.Suggested(freq), freq, e.st.DismissedSet())
	sel := pool.NewSelection(pools)

	b := generator.New().Generate(generator.Input{
		Recent:     sel.Checked(pool.PoolRecent, pools.Recent),
		Custom:     sel.Checked(pool.PoolCustom, pools.Custom),
		Suggested:  sel.Checked(pool.PoolSuggested, pools.Suggested),
		Frequency:  freq,
		Size:       size,
		CustomOnly: opts.CustomOnly,
		Title:      opts.Title,
	})
	e.st.AddBoard(b)

	f := formatter(opts.RootOptions, cmd)
	if opts.Format == "json" {
		return f.Success(b)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created board %s (%dx%d %s)\n", b.ID, b.Size, b.Size, freq)
	renderBoard(cmd.OutOrStdout(), b)
	return nil
}
