package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequency_Valid(t *testing.T) {
	for _, f := range Frequencies {
		assert.True(t, f.Valid(), "%s", f)
	}
	assert.False(t, Frequency("hourly").Valid())
	assert.False(t, Frequency("").Valid())
}

func TestFrequency_DefaultSize(t *testing.T) {
	assert.Equal(t, 3, Daily.DefaultSize())
	assert.Equal(t, 3, Weekly.DefaultSize())
	assert.Equal(t, 4, Monthly.DefaultSize())
	assert.Equal(t, 5, Yearly.DefaultSize())
}

func TestGoal_DeriveCompleted(t *testing.T) {
	g := Goal{
		ID:   "g1",
		Text: "read a book",
		Subgoals: []Subgoal{
			{ID: "s1", Text: "chapter 1", Done: true},
			{ID: "s2", Text: "chapter 2", Done: true},
			{ID: "s3", Text: "chapter 3", Done: false},
		},
	}

	g.DeriveCompleted()
	assert.False(t, g.Completed, "2 of 3 subgoals done must not complete the goal")
	assert.True(t, g.Incomplete())

	g.Subgoals[2].Done = true
	g.DeriveCompleted()
	assert.True(t, g.Completed, "all subgoals done must complete the goal")
	assert.False(t, g.Incomplete())
}

func TestGoal_DeriveCompleted_NoSubgoals(t *testing.T) {
	g := Goal{ID: "g1", Text: "walk", Completed: true}
	g.DeriveCompleted()
	assert.True(t, g.Completed, "plain goals keep their flag")
}

func TestCloneSubgoals_ResetsDone(t *testing.T) {
	src := []Subgoal{
		{ID: "s1", Text: "a", Done: true},
		{ID: "s2", Text: "b", Done: false},
	}

	cloned := CloneSubgoals(src)
	assert.Len(t, cloned, 2)
	for _, s := range cloned {
		assert.False(t, s.Done)
	}

	// The clone must be independent of the source.
	cloned[0].Done = true
	assert.True(t, src[0].Done)
	assert.False(t, src[1].Done)

	assert.Nil(t, CloneSubgoals(nil))
}

func TestBoard_EffectiveSize(t *testing.T) {
	b := Board{Size: 4, Goals: make([]Goal, 16)}
	assert.Equal(t, 4, b.EffectiveSize())

	// Legacy boards persisted without a size field recover it from the
	// goal count.
	legacy := Board{Goals: make([]Goal, 9)}
	assert.Equal(t, 3, legacy.EffectiveSize())

	assert.Equal(t, 0, Board{}.EffectiveSize())
}

func TestBoard_Clone_Independent(t *testing.T) {
	b := Board{
		ID:    "b1",
		Size:  3,
		Goals: []Goal{{ID: "g1", Text: "x", Subgoals: []Subgoal{{ID: "s1", Text: "y"}}}},
	}

	c := b.Clone()
	c.Goals[0].Completed = true
	c.Goals[0].Subgoals[0].Done = true

	assert.False(t, b.Goals[0].Completed)
	assert.False(t, b.Goals[0].Subgoals[0].Done)
}
