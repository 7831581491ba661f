package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bingo/internal/game"
)

func goalIDs(b game.Board) []string {
	out := make([]string, len(b.Goals))
	for i, g := range b.Goals {
		out[i] = g.ID
	}
	return out
}

func TestReorder_MoveForward(t *testing.T) {
	b := board3("b1")

	got := Reorder(b, "b1-g0", "b1-g2")

	assert.Equal(t, []string{
		"b1-g1", "b1-g2", "b1-g0", "b1-g3", "b1-g4", "b1-g5", "b1-g6", "b1-g7", "b1-g8",
	}, goalIDs(got))
	// Pure: the input board is untouched.
	assert.Equal(t, "b1-g0", b.Goals[0].ID)
}

func TestReorder_MoveBackward(t *testing.T) {
	b := board3("b1")

	got := Reorder(b, "b1-g5", "b1-g1")

	assert.Equal(t, []string{
		"b1-g0", "b1-g5", "b1-g1", "b1-g2", "b1-g3", "b1-g4", "b1-g6", "b1-g7", "b1-g8",
	}, goalIDs(got))
}

func TestReorder_UnknownOrSameID(t *testing.T) {
	b := board3("b1")

	assert.Equal(t, goalIDs(b), goalIDs(Reorder(b, "nope", "b1-g2")))
	assert.Equal(t, goalIDs(b), goalIDs(Reorder(b, "b1-g2", "nope")))
	assert.Equal(t, goalIDs(b), goalIDs(Reorder(b, "b1-g2", "b1-g2")))
}

func TestDraft_CommitReorderedGoals(t *testing.T) {
	s := newTestStore()
	s.AddBoard(board3("b1"))

	d, ok := s.BeginDraft()
	require.True(t, ok)

	d.Goals[0], d.Goals[8] = d.Goals[8], d.Goals[0]
	require.True(t, s.CommitDraft(d))

	b, _ := s.Current()
	assert.Equal(t, "b1-g8", b.Goals[0].ID)
	assert.Equal(t, "b1-g0", b.Goals[8].ID)
}

func TestDraft_RejectsTamperedPlacements(t *testing.T) {
	s := newTestStore()
	s.AddBoard(board3("b1"))

	d, _ := s.BeginDraft()
	d.Goals[0].ID = "smuggled"
	assert.False(t, s.CommitDraft(d), "substituted placement rejected")

	d, _ = s.BeginDraft()
	d.Goals = d.Goals[:8]
	assert.False(t, s.CommitDraft(d), "dropped placement rejected")
}

func TestDraft_RejectsStaleBoard(t *testing.T) {
	s := newTestStore()
	s.AddBoard(board3("b1"))

	d, _ := s.BeginDraft()
	s.AddBoard(board3("b2")) // selection moved on

	assert.False(t, s.CommitDraft(d))
}

func TestDraft_NoBoard(t *testing.T) {
	s := newTestStore()
	_, ok := s.BeginDraft()
	assert.False(t, ok)
}
