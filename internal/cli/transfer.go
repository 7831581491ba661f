package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/state"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "export <file>",
		Short:         "Export the full snapshot to a JSON file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			data, err := json.MarshalIndent(e.st.Snapshot(), "", "  ")
			if err != nil {
				return WrapExitError(ExitFailure, "failed to serialize snapshot", err)
			}
			if err := os.WriteFile(args[0], append(data, '\n'), 0o644); err != nil {
				return WrapExitError(ExitCommandError, "failed to write file", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		},
	}
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all local state from a JSON snapshot file",
		Long: `Replace all local state from a previously exported JSON snapshot.

Import is all-or-nothing: the file is validated before any mutation and
an invalid shape leaves the store untouched. This is a full overwrite,
not a merge.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read file", err)
			}
			snap, err := state.DecodeSnapshot(data)
			if err != nil {
				return WrapExitError(ExitFailure, "file is not a valid snapshot", err)
			}

			e, err := openEnv(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()

			e.st.Restore(snap)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d boards from %s\n", len(snap.Boards), args[0])
			return nil
		},
	}
}
