package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bingo/internal/game"
	"github.com/roach88/bingo/internal/state"
	"github.com/roach88/bingo/internal/store"
	"github.com/roach88/bingo/internal/testutil"
)

// manualScheduler captures deferred calls so tests control when the echo
// suppression window closes.
type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (m *manualScheduler) After(_ time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, fn)
}

func (m *manualScheduler) Fire() {
	m.mu.Lock()
	fns := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func board3(id string) game.Board {
	b := game.Board{ID: id, Title: "Board " + id, Size: 3}
	for i := 0; i < 9; i++ {
		b.Goals = append(b.Goals, game.Goal{
			ID:        fmt.Sprintf("%s-g%d", id, i),
			Text:      fmt.Sprintf("goal %d", i),
			Frequency: game.Weekly,
		})
	}
	return b
}

func newTestStore() *state.Store {
	return state.NewStore(testutil.NewSequentialIDs("id"))
}

func snapshotJSON(t *testing.T, boardID string) string {
	t.Helper()
	s := newTestStore()
	s.AddBoard(board3(boardID))
	data, err := state.EncodeSnapshot(s.Snapshot())
	require.NoError(t, err)
	return string(data)
}

func TestLoad_EmptyStorage(t *testing.T) {
	st := newTestStore()
	r := New(st, testutil.NewMemoryKV(), Options{})

	require.NoError(t, r.Load(context.Background()))
	assert.Empty(t, st.Boards())
	assert.Equal(t, state.DefaultUIState(), st.UI())
}

func TestLoad_RestoresSnapshot(t *testing.T) {
	kv := testutil.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, store.SnapshotKey, snapshotJSON(t, "b1")))

	st := newTestStore()
	require.NoError(t, New(st, kv, Options{}).Load(ctx))

	require.Len(t, st.Boards(), 1)
	assert.Equal(t, "b1", st.CurrentBoardID())
}

func TestLoad_ClearsCorruptSnapshot(t *testing.T) {
	kv := testutil.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, store.SnapshotKey, "{corrupt"))

	st := newTestStore()
	require.NoError(t, New(st, kv, Options{}).Load(ctx))

	assert.Empty(t, st.Boards())
	_, ok, _ := kv.Get(ctx, store.SnapshotKey)
	assert.False(t, ok, "corrupt payload should be removed")
}

func TestLoad_MigratesLegacyKey(t *testing.T) {
	kv := testutil.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, store.LegacySnapshotKey, snapshotJSON(t, "old")))

	st := newTestStore()
	require.NoError(t, New(st, kv, Options{}).Load(ctx))

	require.Len(t, st.Boards(), 1)
	assert.Equal(t, "old", st.Boards()[0].ID)

	_, ok, _ := kv.Get(ctx, store.SnapshotKey)
	assert.True(t, ok, "snapshot migrated to the current key")
	_, ok, _ = kv.Get(ctx, store.LegacySnapshotKey)
	assert.False(t, ok, "legacy key removed after migration")
}

func TestLoad_LegacyIgnoredWhenPrimaryExists(t *testing.T) {
	kv := testutil.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, store.SnapshotKey, snapshotJSON(t, "new")))
	require.NoError(t, kv.Put(ctx, store.LegacySnapshotKey, snapshotJSON(t, "old")))

	st := newTestStore()
	require.NoError(t, New(st, kv, Options{}).Load(ctx))

	require.Len(t, st.Boards(), 1)
	assert.Equal(t, "new", st.Boards()[0].ID)
}

func TestLoad_UnreadableStorageFallsBackEmpty(t *testing.T) {
	kv := testutil.NewMemoryKV()
	kv.GetErr = errors.New("disk on fire")

	st := newTestStore()
	require.NoError(t, New(st, kv, Options{}).Load(context.Background()))
	assert.Empty(t, st.Boards())
}

func TestLocalLane_PersistsEveryMutation(t *testing.T) {
	kv := testutil.NewMemoryKV()
	ctx := context.Background()
	st := newTestStore()
	require.NoError(t, New(st, kv, Options{}).Load(ctx))

	st.AddBoard(board3("b1"))
	st.ToggleGoal(4)

	body, ok, err := kv.Get(ctx, store.SnapshotKey)
	require.NoError(t, err)
	require.True(t, ok)
	snap, err := state.DecodeSnapshot([]byte(body))
	require.NoError(t, err)
	require.Len(t, snap.Boards, 1)
	assert.True(t, snap.Boards[0].Goals[4].Completed)
}

// remoteFixture wires a reconciler with fakes and the manual scheduler.
func remoteFixture(t *testing.T) (*state.Store, *testutil.FakeRemote, *manualScheduler, *Reconciler) {
	t.Helper()
	st := newTestStore()
	remote := testutil.NewFakeRemote()
	sched := &manualScheduler{}
	r := New(st, testutil.NewMemoryKV(), Options{
		Remote: remote,
		Auth:   &testutil.FakeAuth{ID: "user-1"},
		After:  sched.After,
	})
	ctx := context.Background()
	require.NoError(t, r.Load(ctx))
	require.NoError(t, r.Start(ctx))
	return st, remote, sched, r
}

func TestRemote_AdoptsEmission(t *testing.T) {
	st, remote, sched, r := remoteFixture(t)
	defer r.Close()

	remote.Emit("user-1", []byte(snapshotJSON(t, "remote-board")))
	sched.Fire()

	require.Len(t, st.Boards(), 1)
	assert.Equal(t, "remote-board", st.Boards()[0].ID)
	assert.Equal(t, StatusSynced, r.Status())
}

func TestRemote_NoPushBeforeBaseline(t *testing.T) {
	st, remote, _, r := remoteFixture(t)

	st.AddBoard(board3("local"))
	r.Close()

	assert.Zero(t, remote.WriteCount(), "pushes must wait for the remote baseline")
}

func TestRemote_PushesAfterBaseline(t *testing.T) {
	st, remote, sched, r := remoteFixture(t)

	remote.Emit("user-1", []byte(`{"boards":[]}`))
	sched.Fire()
	st.AddBoard(board3("local"))
	r.Close()

	require.Equal(t, 1, remote.WriteCount())
	payload, ok := remote.Doc("user-1")
	require.True(t, ok)
	snap, err := state.DecodeSnapshot(payload)
	require.NoError(t, err)
	require.Len(t, snap.Boards, 1)
	assert.Equal(t, "local", snap.Boards[0].ID)
}

func TestRemote_EchoSuppressionWindow(t *testing.T) {
	st, remote, sched, r := remoteFixture(t)

	remote.Emit("user-1", []byte(snapshotJSON(t, "remote-board")))

	// The window has not elapsed: local mutations persist but do not push.
	st.ToggleGoal(0)
	assert.Zero(t, remote.WriteCount())

	sched.Fire()
	st.ToggleGoal(1)
	r.Close()
	assert.Equal(t, 1, remote.WriteCount())
}

func TestRemote_MalformedEmissionIgnored(t *testing.T) {
	st, remote, sched, r := remoteFixture(t)
	defer r.Close()

	st.AddBoard(board3("keep"))
	remote.Emit("user-1", []byte(`"nonsense"`))
	sched.Fire()

	require.Len(t, st.Boards(), 1)
	assert.Equal(t, "keep", st.Boards()[0].ID)
}

func TestRemote_WriteFailureSetsErrorStatus(t *testing.T) {
	st, remote, sched, r := remoteFixture(t)
	remote.WriteErr = errors.New("offline")

	remote.Emit("user-1", []byte(`{"boards":[]}`))
	sched.Fire()
	st.AddBoard(board3("local"))
	r.Close()

	assert.Equal(t, StatusIdle, r.Status(), "close resets the indicator")

	var seen []Status
	st2, remote2, sched2, r2 := remoteFixture(t)
	r2.OnStatus(func(s Status) { seen = append(seen, s) })
	remote2.WriteErr = errors.New("offline")
	remote2.Emit("user-1", []byte(`{"boards":[]}`))
	sched2.Fire()
	st2.AddBoard(board3("local"))
	r2.writes.Wait()
	assert.Contains(t, seen, StatusError)
	r2.Close()
}

func TestStart_IdentityFailureStaysLocal(t *testing.T) {
	st := newTestStore()
	kv := testutil.NewMemoryKV()
	r := New(st, kv, Options{
		Remote: testutil.NewFakeRemote(),
		Auth:   &testutil.FakeAuth{Err: errors.New("auth down")},
	})
	ctx := context.Background()
	require.NoError(t, r.Load(ctx))
	require.Error(t, r.Start(ctx))
	assert.Equal(t, StatusError, r.Status())

	// Local lane keeps working.
	st.AddBoard(board3("b1"))
	_, ok, _ := kv.Get(ctx, store.SnapshotKey)
	assert.True(t, ok)
}

func TestClose_Unsubscribes(t *testing.T) {
	_, remote, _, r := remoteFixture(t)
	require.True(t, remote.Subscribed("user-1"))
	r.Close()
	assert.False(t, remote.Subscribed("user-1"))
	r.Close() // idempotent
}
