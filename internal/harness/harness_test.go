package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bingo/internal/state"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return sc
}

func TestRun_CelebrationLifecycle(t *testing.T) {
	sc := loadTestScenario(t, "celebration-exactly-once")

	result, err := Run(sc)
	require.NoError(t, err)

	require.Len(t, result.Celebrations, 2)
	assert.Equal(t, []int{0, 1, 2}, result.Celebrations[0])
	assert.True(t, result.Final.Celebrated)

	celebrations := 0
	for _, ev := range result.Trace {
		if ev.Type == state.EventCelebration {
			celebrations++
		}
	}
	assert.Equal(t, 2, celebrations)

	require.NoError(t, CheckAssertions(sc, result))
}

func TestRun_SubgoalChecklist(t *testing.T) {
	sc := loadTestScenario(t, "subgoal-checklist")

	result, err := Run(sc)
	require.NoError(t, err)

	require.Len(t, result.Celebrations, 1)
	assert.False(t, result.Final.Goals[2].Completed, "derived completion broken by unchecked item")
	assert.True(t, result.Final.Celebrated, "latch survives the broken line")

	require.NoError(t, CheckAssertions(sc, result))
}

func TestRun_RefusesUntoggleableCell(t *testing.T) {
	cell := 8 // padding tile on a 3-goal board
	sc := &Scenario{
		Name:        "bad-step",
		Description: "step targets a padding tile",
		Board: BoardSpec{
			Frequency: "weekly",
			Goals:     []GoalSpec{{Text: "a"}, {Text: "b"}, {Text: "c"}},
		},
		Steps: []Step{{Action: StepToggle, Cell: &cell}},
	}

	_, err := Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not toggleable")
}

func TestCheckAssertions_Failures(t *testing.T) {
	sc := loadTestScenario(t, "subgoal-checklist")
	result, err := Run(sc)
	require.NoError(t, err)

	wrongCount := &Scenario{Assertions: []Assertion{
		{Type: AssertTraceCount, Event: state.EventCelebration, Count: 5},
	}}
	assert.Error(t, CheckAssertions(wrongCount, result))

	wrongOrder := &Scenario{Assertions: []Assertion{
		{Type: AssertTraceOrder, Events: []string{state.EventReset, state.EventToggle}},
	}}
	assert.Error(t, CheckAssertions(wrongOrder, result))

	expectTrue := true
	wrongBingo := &Scenario{Assertions: []Assertion{
		{Type: AssertBingo, Expect: &expectTrue},
	}}
	assert.Error(t, CheckAssertions(wrongBingo, result))
}

func TestLoadScenario_Rejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			"unknown field",
			"name: x\ndescription: y\nboadr: {}\n",
			"failed to parse YAML",
		},
		{
			"missing name",
			"description: y\n",
			"name is required",
		},
		{
			"bad frequency",
			"name: x\ndescription: y\nboard:\n  frequency: hourly\n  goals: [{text: a}]\n",
			"not a valid frequency",
		},
		{
			"too many goals",
			"name: x\ndescription: y\nboard:\n  frequency: weekly\n  size: 3\n  goals: [{text: a},{text: b},{text: c},{text: d},{text: e},{text: f},{text: g},{text: h},{text: i},{text: j}]\n",
			"only holds 9",
		},
		{
			"toggle without cell",
			"name: x\ndescription: y\nboard:\n  frequency: weekly\n  goals: [{text: a}]\nsteps:\n  - action: toggle\nassertions:\n  - type: bingo\n    expect: false\n",
			"cell is required",
		},
		{
			"unknown assertion",
			"name: x\ndescription: y\nboard:\n  frequency: weekly\n  goals: [{text: a}]\nsteps:\n  - action: reset\nassertions:\n  - type: whatever\n",
			"unknown assertion type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenario.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScenarios_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		sc, err := LoadScenario(file)
		require.NoError(t, err, "loading %s", file)
		t.Run(sc.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, sc))
		})
	}
}
