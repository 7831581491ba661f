package harness

import (
	"fmt"

	"github.com/roach88/bingo/internal/game"
)

// CheckAssertions validates a scenario's assertions against a run result.
// The first failing assertion is returned; nil means all passed.
func CheckAssertions(scenario *Scenario, result *Result) error {
	for i, a := range scenario.Assertions {
		if err := checkAssertion(&a, result); err != nil {
			return fmt.Errorf("assertions[%d] (%s): %w", i, a.Type, err)
		}
	}
	return nil
}

func checkAssertion(a *Assertion, result *Result) error {
	switch a.Type {
	case AssertTraceCount:
		count := 0
		for _, ev := range result.Trace {
			if ev.Type == a.Event {
				count++
			}
		}
		if count != a.Count {
			return fmt.Errorf("event %q appeared %d times, want %d", a.Event, count, a.Count)
		}

	case AssertTraceOrder:
		next := 0
		for _, ev := range result.Trace {
			if next < len(a.Events) && ev.Type == a.Events[next] {
				next++
			}
		}
		if next != len(a.Events) {
			return fmt.Errorf("trace does not contain %v in order (matched %d of %d)", a.Events, next, len(a.Events))
		}

	case AssertBingo:
		got := game.HasBingo(result.Final.Goals, result.Final.EffectiveSize())
		if got != *a.Expect {
			return fmt.Errorf("bingo = %v, want %v", got, *a.Expect)
		}

	case AssertCelebrated:
		if result.Final.Celebrated != *a.Expect {
			return fmt.Errorf("celebrated = %v, want %v", result.Final.Celebrated, *a.Expect)
		}
	}
	return nil
}
