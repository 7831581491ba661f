package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/bingo/internal/state"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// Serialization is deterministic: struct field order plus the store's
// logical clock sequence numbers.
type TraceSnapshot struct {
	ScenarioName string             `json:"scenario_name"`
	Trace        []state.TraceEvent `json:"trace"`
}

// RunWithGolden executes a scenario, checks its assertions, and compares
// the trace against a golden file in testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if err := CheckAssertions(scenario, result); err != nil {
		return err
	}

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Trace:        result.Trace,
	}
	traceJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
