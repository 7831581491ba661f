package generator

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bingo/internal/game"
	"github.com/roach88/bingo/internal/testutil"
)

func testGenerator(seed int64) *Generator {
	clock := testutil.NewFixedClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), time.Second)
	return NewWith(testutil.NewSequentialIDs("id"), clock.Now, rand.New(rand.NewSource(seed)))
}

func templates(freq game.Frequency, texts ...string) []game.GoalTemplate {
	out := make([]game.GoalTemplate, len(texts))
	for i, text := range texts {
		out[i] = game.GoalTemplate{ID: fmt.Sprintf("tpl-%s-%d", freq, i), Text: text, Frequency: freq}
	}
	return out
}

func nonEmptyKeys(t *testing.T, b game.Board) []string {
	t.Helper()
	var keys []string
	seen := map[string]bool{}
	for _, g := range b.Goals {
		if g.IsEmpty() {
			continue
		}
		key := game.Key(g.Frequency, g.Text)
		require.False(t, seen[key], "duplicate goal key %q on board", key)
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

func TestGenerate_FillsFromSuggestedOnly(t *testing.T) {
	// Empty custom pool, suggested pool of exactly 9 weekly items, all
	// checked, customOnly=false: the 3x3 board must hold all 9 with no
	// padding and no duplicates.
	in := Input{
		Suggested: templates(game.Weekly,
			"a", "b", "c", "d", "e", "f", "g", "h", "i"),
		Frequency: game.Weekly,
		Size:      3,
		Title:     "Week 36",
	}

	b := testGenerator(1).Generate(in)

	assert.Equal(t, 3, b.Size)
	require.Len(t, b.Goals, 9)
	assert.Len(t, nonEmptyKeys(t, b), 9, "no empty tiles expected")
	assert.False(t, b.Celebrated)
	assert.Equal(t, "Week 36", b.Title)
	for _, g := range b.Goals {
		assert.False(t, g.Completed)
		assert.Empty(t, g.SourceGoalID, "suggested-only goals carry no library link")
	}
}

func TestGenerate_PadsWithEmptyTiles(t *testing.T) {
	in := Input{
		Custom:    templates(game.Weekly, "only", "two"),
		Frequency: game.Weekly,
		Size:      3,
	}

	b := testGenerator(2).Generate(in)

	require.Len(t, b.Goals, 9)
	assert.Len(t, nonEmptyKeys(t, b), 2)

	empties := 0
	for _, g := range b.Goals {
		if g.IsEmpty() {
			empties++
			assert.False(t, g.Completed)
			assert.Equal(t, game.Weekly, g.Frequency)
		}
	}
	assert.Equal(t, 7, empties)
	// Padding goes at the end, after all real selections.
	assert.False(t, b.Goals[0].IsEmpty())
	assert.True(t, b.Goals[8].IsEmpty())
}

func TestGenerate_PriorityBands(t *testing.T) {
	// One key per band; with single-element bands the shuffle is a no-op,
	// so the board order exposes the band concatenation order directly.
	recent := templates(game.Weekly, "overlap custom", "recent only")
	custom := append(templates(game.Weekly, "custom only"),
		game.GoalTemplate{ID: "lib-1", Text: "overlap custom", Frequency: game.Weekly})
	suggested := templates(game.Weekly, "suggested only")

	in := Input{
		Recent:    recent,
		Custom:    custom,
		Suggested: suggested,
		Frequency: game.Weekly,
		Size:      3,
	}

	b := testGenerator(3).Generate(in)
	keys := nonEmptyKeys(t, b)
	require.Len(t, keys, 4)

	// Band order: recent∩custom, then recent-only, then custom-only,
	// then suggested-only.
	assert.Equal(t, game.Key(game.Weekly, "overlap custom"), keys[0])
	assert.Equal(t, game.Key(game.Weekly, "recent only"), keys[1])
	assert.Equal(t, game.Key(game.Weekly, "custom only"), keys[2])
	assert.Equal(t, game.Key(game.Weekly, "suggested only"), keys[3])
}

func TestGenerate_CustomOnlyExcludesSuggested(t *testing.T) {
	in := Input{
		Custom:     templates(game.Weekly, "mine"),
		Suggested:  templates(game.Weekly, "not mine", "also not mine"),
		Frequency:  game.Weekly,
		Size:       3,
		CustomOnly: true,
	}

	b := testGenerator(4).Generate(in)
	keys := nonEmptyKeys(t, b)

	require.Len(t, keys, 1)
	assert.Equal(t, game.Key(game.Weekly, "mine"), keys[0])
}

func TestGenerate_CustomOnlyFallbackStillFills(t *testing.T) {
	// Degenerate case: customOnly with empty recent and custom bands
	// selects nothing, but a non-empty suggested subset exists. The flat
	// fallback re-admits the union.
	in := Input{
		Suggested:  templates(game.Weekly, "a", "b", "c"),
		Frequency:  game.Weekly,
		Size:       3,
		CustomOnly: true,
	}

	b := testGenerator(5).Generate(in)
	assert.Len(t, nonEmptyKeys(t, b), 3)
}

func TestGenerate_SourceGoalIDOnlyForCustomMatches(t *testing.T) {
	custom := []game.GoalTemplate{{ID: "lib-9", Text: "tracked", Frequency: game.Weekly}}
	in := Input{
		Custom:    custom,
		Suggested: templates(game.Weekly, "untracked"),
		Frequency: game.Weekly,
		Size:      3,
	}

	b := testGenerator(6).Generate(in)

	byText := map[string]game.Goal{}
	for _, g := range b.Goals {
		if !g.IsEmpty() {
			byText[g.Text] = g
		}
	}
	assert.Equal(t, "lib-9", byText["tracked"].SourceGoalID)
	assert.Empty(t, byText["untracked"].SourceGoalID)
}

func TestGenerate_SubgoalsClonedAndReset(t *testing.T) {
	custom := []game.GoalTemplate{{
		ID: "lib-1", Text: "checklist", Frequency: game.Weekly,
		Subgoals: []game.Subgoal{
			{ID: "tpl-s1", Text: "first", Done: true},
			{ID: "tpl-s2", Text: "second"},
		},
	}}

	b := testGenerator(7).Generate(Input{Custom: custom, Frequency: game.Weekly, Size: 3})

	var placed game.Goal
	for _, g := range b.Goals {
		if g.Text == "checklist" {
			placed = g
		}
	}
	require.Len(t, placed.Subgoals, 2)
	for _, s := range placed.Subgoals {
		assert.False(t, s.Done, "template progress never leaks into placements")
		assert.NotContains(t, []string{"tpl-s1", "tpl-s2"}, s.ID, "placements get fresh subgoal IDs")
	}
}

func TestGenerate_InvalidSizeFallsBackToFrequencyDefault(t *testing.T) {
	b := testGenerator(8).Generate(Input{Frequency: game.Yearly, Size: 99})
	assert.Equal(t, 5, b.Size)
	assert.Len(t, b.Goals, 25)

	b = testGenerator(9).Generate(Input{Frequency: game.Daily, Size: 0})
	assert.Equal(t, 3, b.Size)
}

func TestGenerate_TitleSanitizedWithFallback(t *testing.T) {
	b := testGenerator(10).Generate(Input{Frequency: game.Weekly, Title: "  My \n Board  "})
	assert.Equal(t, "My Board", b.Title)

	b = testGenerator(11).Generate(Input{Frequency: game.Weekly, Title: " \t "})
	assert.Equal(t, DefaultTitle, b.Title)
}

func TestGenerate_TruncatesToGrid(t *testing.T) {
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("goal %02d", i)
	}

	b := testGenerator(12).Generate(Input{
		Suggested: templates(game.Weekly, texts...),
		Frequency: game.Weekly,
		Size:      3,
	})

	assert.Len(t, b.Goals, 9)
	assert.Len(t, nonEmptyKeys(t, b), 9)
}

func TestGenerate_StableShapeAcrossRuns(t *testing.T) {
	in := Input{
		Suggested: templates(game.Weekly, "a", "b", "c", "d", "e"),
		Custom:    templates(game.Weekly, "x", "y"),
		Frequency: game.Weekly,
		Size:      3,
	}

	union := map[string]bool{}
	for _, subset := range [][]game.GoalTemplate{in.Recent, in.Custom, in.Suggested} {
		for _, tpl := range subset {
			union[game.Key(tpl.Frequency, tpl.Text)] = true
		}
	}

	for seed := int64(0); seed < 10; seed++ {
		b := testGenerator(seed).Generate(in)
		assert.Equal(t, 3, b.Size)
		assert.Len(t, b.Goals, 9)
		for _, key := range nonEmptyKeys(t, b) {
			assert.True(t, union[key], "selected key %q must come from a checked pool", key)
		}
	}
}
