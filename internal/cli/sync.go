package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/syncer"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the sync reconciler in the foreground",
		Long: `Run the sync reconciler in the foreground until interrupted.

The local lane always runs: every settled change is written to the local
database. The remote lane mirrors the snapshot to a per-identity remote
document when a backend is configured; without one this command stays in
local-only operation and reports that.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(rootOpts, cmd)
		},
	}
	return cmd
}

func runSync(opts *RootOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	e, err := openEnv(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer e.close()

	e.rec.OnStatus(func(s syncer.Status) {
		slog.Info("sync status", "status", s)
	})

	if err := e.rec.Start(cmd.Context()); err != nil {
		slog.Warn("remote lane unavailable", "error", err)
	}
	slog.Info("reconciler running", "boards", len(e.st.Boards()))

	// Setup signal handling for graceful shutdown
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	fmt.Fprintln(cmd.OutOrStdout(), "Reconciler running. Press Ctrl-C to stop.")

	select {
	case sig := <-sigChan:
		slog.Info("received signal, shutting down", "signal", sig)
	case <-ctx.Done():
	}

	slog.Info("reconciler stopped gracefully")
	return nil
}
