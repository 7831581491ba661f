package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bingo/internal/game"
)

// Scenario defines a conformance test scenario: a fixed board, a sequence
// of play steps, and assertions on the resulting trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Board describes the fixed board the scenario plays on. Goals are
	// placed row-major in the order given and the grid is padded with
	// empty tiles; no randomness is involved.
	Board BoardSpec `yaml:"board"`

	// Steps contains the play actions in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	// Supported types: trace_count, trace_order, bingo, celebrated
	Assertions []Assertion `yaml:"assertions"`
}

// BoardSpec describes the scenario's board.
type BoardSpec struct {
	Frequency string     `yaml:"frequency"`
	Size      int        `yaml:"size,omitempty"` // 0 = frequency default
	Title     string     `yaml:"title,omitempty"`
	Goals     []GoalSpec `yaml:"goals"`
}

// GoalSpec describes one placed goal, optionally with checklist items.
type GoalSpec struct {
	Text     string   `yaml:"text"`
	Subgoals []string `yaml:"subgoals,omitempty"`
}

// Step is one play action.
type Step struct {
	// Action is one of "toggle", "subgoal", "reset".
	Action string `yaml:"action"`

	// Cell is the target cell index (toggle, subgoal).
	Cell *int `yaml:"cell,omitempty"`

	// Sub is the checklist item index (subgoal).
	Sub *int `yaml:"sub,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_count": event type appears exactly Count times
	// - "trace_order": event types appear as a subsequence, in order
	// - "bingo": final board has (or lacks) a completed line
	// - "celebrated": final board's celebration latch state
	Type string `yaml:"type"`

	// Event is the trace event type (used by trace_count).
	Event string `yaml:"event,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Events is the expected event order (used by trace_order).
	Events []string `yaml:"events,omitempty"`

	// Expect is the expected boolean (used by bingo, celebrated).
	Expect *bool `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
	AssertBingo      = "bingo"
	AssertCelebrated = "celebrated"
)

// Step action constants.
const (
	StepToggle  = "toggle"
	StepSubgoal = "subgoal"
	StepReset   = "reset"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	freq := game.Frequency(s.Board.Frequency)
	if !freq.Valid() {
		return fmt.Errorf("board.frequency %q is not a valid frequency", s.Board.Frequency)
	}
	size := s.Board.Size
	if size == 0 {
		size = freq.DefaultSize()
	}
	if !game.ValidSize(size) {
		return fmt.Errorf("board.size must be %d-%d", game.MinSize, game.MaxSize)
	}
	if len(s.Board.Goals) == 0 {
		return fmt.Errorf("board.goals is required and must be non-empty")
	}
	if len(s.Board.Goals) > size*size {
		return fmt.Errorf("board.goals has %d entries but the grid only holds %d", len(s.Board.Goals), size*size)
	}
	for i, g := range s.Board.Goals {
		if g.Text == "" {
			return fmt.Errorf("board.goals[%d]: text is required", i)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		switch step.Action {
		case StepToggle:
			if step.Cell == nil {
				return fmt.Errorf("steps[%d]: cell is required for toggle", i)
			}
		case StepSubgoal:
			if step.Cell == nil || step.Sub == nil {
				return fmt.Errorf("steps[%d]: cell and sub are required for subgoal", i)
			}
		case StepReset:
		case "":
			return fmt.Errorf("steps[%d]: action is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown action %q", i, step.Action)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTraceCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
	case AssertBingo, AssertCelebrated:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for %s", index, a.Type)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
