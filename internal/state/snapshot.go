package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/bingo/internal/game"
)

// Snapshot is the full persisted shape: the board collection plus the
// auxiliary state that travels with it. The same shape is written to local
// durable storage, mirrored to the remote per-user document, and used for
// file export/import.
type Snapshot struct {
	Boards               []game.Board        `json:"boards"`
	CurrentBoardID       string              `json:"currentBoardId"`
	CustomGoals          []game.GoalTemplate `json:"customGoals"`
	DismissedRecentGoals []string            `json:"dismissedRecentGoals"`
	UIState              UIState             `json:"uiState"`
}

// ErrBadSnapshot is returned when a payload cannot be accepted at all.
var ErrBadSnapshot = errors.New("invalid snapshot payload")

// Snapshot captures the store's full state as a deep copy.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Boards:               cloneBoards(s.boards),
		CurrentBoardID:       s.currentID,
		CustomGoals:          cloneTemplates(s.customGoals),
		DismissedRecentGoals: sortedKeys(s.dismissed),
		UIState:              s.ui,
	}
}

// Restore replaces the store's entire state with a validated snapshot and
// notifies change listeners. Used by the local load path and file import.
func (s *Store) Restore(snap Snapshot) {
	snap = normalizeSnapshot(snap)
	s.mutate(func() {
		s.restoreLocked(snap)
	})
}

func (s *Store) restoreLocked(snap Snapshot) {
	s.boards = cloneBoards(snap.Boards)
	s.currentID = snap.CurrentBoardID
	s.customGoals = cloneTemplates(snap.CustomGoals)
	s.dismissed = make(map[string]bool, len(snap.DismissedRecentGoals))
	for _, k := range snap.DismissedRecentGoals {
		s.dismissed[k] = true
	}
	s.ui = snap.UIState
}

// EncodeSnapshot serializes a snapshot for persistence.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// DecodeSnapshot parses and validates a persisted snapshot.
//
// The shape check is strict only at the top: the payload must be a JSON
// object with a boards array. Inside, boards are individually normalized
// and invalid ones dropped, matching the lenient adoption policy.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	rawBoards, ok := probe["boards"]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: missing boards", ErrBadSnapshot)
	}
	var boards []game.Board
	if err := json.Unmarshal(rawBoards, &boards); err != nil {
		return Snapshot{}, fmt.Errorf("%w: boards is not an array", ErrBadSnapshot)
	}

	snap := Snapshot{Boards: boards, UIState: DefaultUIState()}
	if raw, ok := probe["currentBoardId"]; ok {
		_ = json.Unmarshal(raw, &snap.CurrentBoardID)
	}
	if raw, ok := probe["customGoals"]; ok {
		_ = json.Unmarshal(raw, &snap.CustomGoals)
	}
	if raw, ok := probe["dismissedRecentGoals"]; ok {
		_ = json.Unmarshal(raw, &snap.DismissedRecentGoals)
	}
	if raw, ok := probe["uiState"]; ok {
		if ui, ok := decodeUIState(raw, DefaultUIState()); ok {
			snap.UIState = ui
		}
	}

	return normalizeSnapshot(snap), nil
}

// AdoptRemote overwrites store state from a remote emission with lenient
// per-field validation: each top-level field is adopted independently, and
// a field whose type or values do not validate is silently skipped, leaving
// the prior value in place. Only a payload that is not a JSON object at all
// is rejected outright.
func (s *Store) AdoptRemote(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}

	s.mutate(func() {
		if raw, ok := probe["boards"]; ok {
			var boards []game.Board
			if err := json.Unmarshal(raw, &boards); err == nil {
				s.boards = normalizeBoards(boards)
			}
		}
		if raw, ok := probe["currentBoardId"]; ok {
			var id string
			if err := json.Unmarshal(raw, &id); err == nil {
				s.currentID = id
			}
		}
		if raw, ok := probe["customGoals"]; ok {
			var tpls []game.GoalTemplate
			if err := json.Unmarshal(raw, &tpls); err == nil {
				s.customGoals = normalizeTemplates(tpls)
			}
		}
		if raw, ok := probe["dismissedRecentGoals"]; ok {
			var keys []string
			if err := json.Unmarshal(raw, &keys); err == nil {
				s.dismissed = make(map[string]bool, len(keys))
				for _, k := range keys {
					if k != "" {
						s.dismissed[k] = true
					}
				}
			}
		}
		if raw, ok := probe["uiState"]; ok {
			if ui, ok := decodeUIState(raw, s.ui); ok {
				s.ui = ui
			}
		}

		// Selection must still reference an adopted board.
		if s.indexOf(s.currentID) < 0 {
			s.currentID = ""
			if len(s.boards) > 0 {
				s.currentID = s.boards[0].ID
			}
		}
	})
	return nil
}

// decodeUIState validates a uiState payload field by field against prior
// values: unknown enum values and out-of-range sizes are dropped silently.
func decodeUIState(raw json.RawMessage, prior UIState) (UIState, bool) {
	var loose struct {
		Frequency     *string `json:"frequency"`
		BoardSize     *int    `json:"boardSize"`
		CustomOnly    *bool   `json:"customOnly"`
		LibraryFilter *string `json:"libraryFilter"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return prior, false
	}

	ui := prior
	if loose.Frequency != nil && game.Frequency(*loose.Frequency).Valid() {
		ui.Frequency = game.Frequency(*loose.Frequency)
	}
	if loose.BoardSize != nil && game.ValidSize(*loose.BoardSize) {
		ui.BoardSize = *loose.BoardSize
	}
	if loose.CustomOnly != nil {
		ui.CustomOnly = *loose.CustomOnly
	}
	if loose.LibraryFilter != nil {
		ui.LibraryFilter = game.Sanitize(*loose.LibraryFilter, game.MaxTitleLen)
	}
	return ui, true
}

// normalizeSnapshot drops malformed boards and templates and repairs the
// current-board reference.
func normalizeSnapshot(snap Snapshot) Snapshot {
	snap.Boards = normalizeBoards(snap.Boards)
	snap.CustomGoals = normalizeTemplates(snap.CustomGoals)

	found := false
	for _, b := range snap.Boards {
		if b.ID == snap.CurrentBoardID {
			found = true
			break
		}
	}
	if !found {
		snap.CurrentBoardID = ""
		if len(snap.Boards) > 0 {
			snap.CurrentBoardID = snap.Boards[0].ID
		}
	}

	var keys []string
	for _, k := range snap.DismissedRecentGoals {
		if k != "" {
			keys = append(keys, k)
		}
	}
	snap.DismissedRecentGoals = keys

	if !snap.UIState.Frequency.Valid() {
		snap.UIState.Frequency = DefaultUIState().Frequency
	}
	if !game.ValidSize(snap.UIState.BoardSize) {
		snap.UIState.BoardSize = snap.UIState.Frequency.DefaultSize()
	}
	return snap
}

// normalizeBoards keeps only structurally coherent boards: a board needs an
// ID and a goal count matching a recoverable 3-5 grid size. Goal-level
// repairs (legacy size recovery, frequency fallback, derived completion)
// happen in place.
func normalizeBoards(boards []game.Board) []game.Board {
	var out []game.Board
	for _, b := range boards {
		if b.ID == "" {
			continue
		}
		size := b.EffectiveSize()
		if !game.ValidSize(size) || len(b.Goals) != size*size {
			continue
		}
		nb := b.Clone()
		nb.Size = size
		for i := range nb.Goals {
			if !nb.Goals[i].Frequency.Valid() {
				nb.Goals[i].Frequency = DefaultUIState().Frequency
			}
			nb.Goals[i].DeriveCompleted()
		}
		out = append(out, nb)
	}
	return out
}

// normalizeTemplates drops library entries without an ID or usable text.
func normalizeTemplates(tpls []game.GoalTemplate) []game.GoalTemplate {
	var out []game.GoalTemplate
	for _, tpl := range tpls {
		tpl.Text = game.Sanitize(tpl.Text, game.MaxGoalTextLen)
		if tpl.ID == "" || tpl.Text == "" || !tpl.Frequency.Valid() {
			continue
		}
		out = append(out, tpl)
	}
	return out
}
