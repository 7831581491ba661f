package syncer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/bingo/internal/state"
	"github.com/roach88/bingo/internal/store"
)

// DefaultSuppressDelay is how long after a remote emission the push-back of
// local changes stays suppressed. The window covers the listener cascade a
// remote adoption triggers, so the adoption is not echoed straight back.
const DefaultSuppressDelay = 50 * time.Millisecond

// Options configures a Reconciler beyond its required collaborators.
type Options struct {
	// Remote and Auth enable the remote lane. Both nil means local-only
	// operation; everything still works, nothing is mirrored.
	Remote DocumentStore
	Auth   Auth

	// SuppressDelay overrides DefaultSuppressDelay when positive.
	SuppressDelay time.Duration

	// After schedules a deferred call. Defaults to time.AfterFunc;
	// tests inject a manual scheduler.
	After func(d time.Duration, fn func())

	Logger *slog.Logger
}

// Reconciler owns the two persistence lanes of the board store.
//
// Local lane: after the initial load, every settled store mutation is
// serialized and written to the local key-value store, unconditionally.
//
// Remote lane: the local snapshot is mirrored to a per-identity remote
// document, and remote emissions overwrite local state wholesale (snapshot
// last-writer-wins). Pushes are suppressed until the first remote baseline
// has been adopted, and for a short window after every remote adoption so
// the client does not echo remote changes back.
type Reconciler struct {
	store  *state.Store
	kv     KV
	remote DocumentStore
	auth   Auth

	suppressDelay time.Duration
	after         func(d time.Duration, fn func())
	log           *slog.Logger

	loaded         atomic.Bool // initial local load finished
	baselineLoaded atomic.Bool // first remote emission adopted
	applyingRemote atomic.Bool // inside a remote adoption or its suppression window

	mu       sync.Mutex
	identity string
	status   Status
	onStatus []func(Status)
	unsub    func()
	closed   bool
	writes   sync.WaitGroup
}

// New creates a reconciler. Call Load before mutating the store, then
// Start to bring up the remote lane.
func New(st *state.Store, kv KV, opts Options) *Reconciler {
	r := &Reconciler{
		store:         st,
		kv:            kv,
		remote:        opts.Remote,
		auth:          opts.Auth,
		suppressDelay: opts.SuppressDelay,
		after:         opts.After,
		log:           opts.Logger,
		status:        StatusIdle,
	}
	if r.suppressDelay <= 0 {
		r.suppressDelay = DefaultSuppressDelay
	}
	if r.after == nil {
		r.after = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

// Status returns the current sync indicator value.
func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// OnStatus registers a callback for sync indicator transitions.
func (r *Reconciler) OnStatus(fn func(Status)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onStatus = append(r.onStatus, fn)
}

func (r *Reconciler) setStatus(s Status) {
	r.mu.Lock()
	if r.status == s {
		r.mu.Unlock()
		return
	}
	r.status = s
	fns := append([]func(Status){}, r.onStatus...)
	r.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

// Load hydrates the store from local durable storage and hooks the local
// persistence lane. Malformed persisted payloads are cleared and the store
// left at empty defaults; storage being unreadable is never fatal.
//
// A legacy pre-migration key is consulted once when the primary key is
// absent, then migrated forward and removed.
func (r *Reconciler) Load(ctx context.Context) error {
	if err := r.hydrate(ctx); err != nil {
		return err
	}
	r.loaded.Store(true)
	r.store.OnChange(r.onLocalChange)
	return nil
}

func (r *Reconciler) hydrate(ctx context.Context) error {
	body, ok, err := r.kv.Get(ctx, store.SnapshotKey)
	if err != nil {
		r.log.Warn("local snapshot read failed, starting empty", "error", err)
		return nil
	}
	if ok {
		snap, err := state.DecodeSnapshot([]byte(body))
		if err != nil {
			r.log.Warn("clearing corrupt local snapshot", "error", err)
			if derr := r.kv.Delete(ctx, store.SnapshotKey); derr != nil {
				r.log.Warn("clearing corrupt snapshot failed", "error", derr)
			}
			return nil
		}
		r.store.Restore(snap)
		return nil
	}
	return r.migrateLegacy(ctx)
}

// migrateLegacy reads the pre-migration key, rewrites its contents under the
// current key, and removes it. A corrupt legacy payload is removed without
// migration.
func (r *Reconciler) migrateLegacy(ctx context.Context) error {
	body, ok, err := r.kv.Get(ctx, store.LegacySnapshotKey)
	if err != nil || !ok {
		return nil
	}
	snap, derr := state.DecodeSnapshot([]byte(body))
	if derr != nil {
		r.log.Warn("clearing corrupt legacy snapshot", "error", derr)
		if err := r.kv.Delete(ctx, store.LegacySnapshotKey); err != nil {
			r.log.Warn("clearing legacy snapshot failed", "error", err)
		}
		return nil
	}
	r.store.Restore(snap)
	if err := r.persist(ctx); err != nil {
		return err
	}
	if err := r.kv.Delete(ctx, store.LegacySnapshotKey); err != nil {
		r.log.Warn("removing legacy snapshot failed", "error", err)
	}
	r.log.Info("migrated legacy snapshot")
	return nil
}

// persist writes the current snapshot under the primary key.
func (r *Reconciler) persist(ctx context.Context) error {
	data, err := state.EncodeSnapshot(r.store.Snapshot())
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, store.SnapshotKey, string(data))
}

// onLocalChange is the store change listener: persist locally always, then
// mirror to the remote document unless pushing is currently suppressed.
func (r *Reconciler) onLocalChange() {
	if !r.loaded.Load() {
		return
	}
	ctx := context.Background()
	if err := r.persist(ctx); err != nil {
		r.log.Error("local persist failed", "error", err)
	}

	if r.remote == nil || !r.baselineLoaded.Load() || r.applyingRemote.Load() {
		return
	}
	r.mu.Lock()
	id := r.identity
	push := !r.closed && id != ""
	if push {
		r.writes.Add(1)
	}
	r.mu.Unlock()
	if !push {
		return
	}

	data, err := state.EncodeSnapshot(r.store.Snapshot())
	if err != nil {
		r.writes.Done()
		r.log.Error("snapshot encode failed", "error", err)
		return
	}
	// Async and unqueued: concurrent pushes of the full snapshot are
	// harmless because the last write wins wholesale.
	go func() {
		defer r.writes.Done()
		r.setStatus(StatusSyncing)
		if err := r.remote.Write(ctx, id, data); err != nil {
			r.log.Warn("remote write failed", "error", err)
			r.setStatus(StatusError)
			return
		}
		r.setStatus(StatusSynced)
	}()
}

// Start brings up the remote lane: resolve the anonymous identity, then
// subscribe to that identity's document. With no remote configured it is a
// no-op. An identity or subscription failure leaves the reconciler in
// local-only operation with the status indicator set to error.
func (r *Reconciler) Start(ctx context.Context) error {
	if r.remote == nil || r.auth == nil {
		return nil
	}
	id, err := r.auth.Identity(ctx)
	if err != nil {
		r.log.Warn("identity unavailable, staying local-only", "error", err)
		r.setStatus(StatusError)
		return err
	}
	r.mu.Lock()
	r.identity = id
	r.mu.Unlock()

	unsub, err := r.remote.Subscribe(ctx, id, r.onRemote)
	if err != nil {
		r.log.Warn("remote subscription failed, staying local-only", "error", err)
		r.setStatus(StatusError)
		return err
	}
	r.mu.Lock()
	r.unsub = unsub
	r.mu.Unlock()
	r.log.Info("remote sync started", "identity", id)
	return nil
}

// onRemote handles one emission of the remote document. The emission
// overwrites local state wholesale; the suppression flag stays up for a
// short window afterwards so the resulting change cascade is persisted
// locally but not pushed back.
func (r *Reconciler) onRemote(payload []byte) {
	r.applyingRemote.Store(true)
	if err := r.store.AdoptRemote(payload); err != nil {
		r.log.Warn("ignoring malformed remote emission", "error", err)
	}
	r.baselineLoaded.Store(true)
	r.setStatus(StatusSynced)
	r.after(r.suppressDelay, func() {
		r.applyingRemote.Store(false)
	})
}

// Close tears down the remote subscription and waits for in-flight pushes.
// The local persistence lane stays attached; callers close the key-value
// store separately.
func (r *Reconciler) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	unsub := r.unsub
	r.unsub = nil
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	r.writes.Wait()
	r.setStatus(StatusIdle)
}
