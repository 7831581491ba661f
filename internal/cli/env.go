package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/state"
	"github.com/roach88/bingo/internal/store"
	"github.com/roach88/bingo/internal/syncer"
)

// env bundles the collaborators every command needs: the local database,
// the hydrated board store, and the reconciler keeping them in sync.
type env struct {
	kv  *store.Store
	st  *state.Store
	rec *syncer.Reconciler
}

// openEnv opens the local database and hydrates the board store from it.
// After this returns, every store mutation is persisted automatically.
func openEnv(ctx context.Context, opts *RootOptions) (*env, error) {
	dir := opts.DataDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "cannot resolve config dir, pass --data", err)
		}
		dir = filepath.Join(base, "bingo")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot create data dir", err)
	}

	kv, err := store.Open(filepath.Join(dir, "bingo.db"))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	st := state.NewStore(generator.UUIDGenerator{})
	rec := syncer.New(st, kv, syncer.Options{})
	if err := rec.Load(ctx); err != nil {
		kv.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load state", err)
	}
	return &env{kv: kv, st: st, rec: rec}, nil
}

// close flushes in-flight work and releases the database.
func (e *env) close() {
	e.rec.Close()
	_ = e.kv.Close()
}

// formatter builds the output formatter for one command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
