package pool

import "github.com/roach88/bingo/internal/game"

// Which identifies one of the three pools in selection operations.
type Which string

const (
	PoolRecent    Which = "recent"
	PoolCustom    Which = "custom"
	PoolSuggested Which = "suggested"
)

// Selection tracks the user-controlled "checked" subset of each pool.
//
// The default state is all available items checked. Switching frequency
// resets the suggested and recent selections back to all-checked; the
// custom selection survives the switch only if the user has explicitly
// touched it before (CustomTouched).
type Selection struct {
	Recent    map[string]bool `json:"recent"`
	Custom    map[string]bool `json:"custom"`
	Suggested map[string]bool `json:"suggested"`

	// CustomTouched latches once the user modifies the custom selection.
	CustomTouched bool `json:"customTouched"`
}

// NewSelection returns an all-checked selection for the given pools.
func NewSelection(p Pools) *Selection {
	s := &Selection{}
	s.Recent = allChecked(p.Recent)
	s.Custom = allChecked(p.Custom)
	s.Suggested = allChecked(p.Suggested)
	return s
}

func allChecked(templates []game.GoalTemplate) map[string]bool {
	m := make(map[string]bool, len(templates))
	for _, tpl := range templates {
		m[game.Key(tpl.Frequency, tpl.Text)] = true
	}
	return m
}

func (s *Selection) pool(w Which) map[string]bool {
	switch w {
	case PoolRecent:
		return s.Recent
	case PoolCustom:
		return s.Custom
	case PoolSuggested:
		return s.Suggested
	}
	return nil
}

// Toggle flips one key in one pool. Unknown pools are ignored.
func (s *Selection) Toggle(w Which, key string) {
	m := s.pool(w)
	if m == nil {
		return
	}
	m[key] = !m[key]
	if w == PoolCustom {
		s.CustomTouched = true
	}
}

// SelectAll checks every available key of one pool.
func (s *Selection) SelectAll(w Which, p Pools) {
	switch w {
	case PoolRecent:
		s.Recent = allChecked(p.Recent)
	case PoolCustom:
		s.Custom = allChecked(p.Custom)
		s.CustomTouched = true
	case PoolSuggested:
		s.Suggested = allChecked(p.Suggested)
	}
}

// Clear unchecks every key of one pool.
func (s *Selection) Clear(w Which) {
	m := s.pool(w)
	for k := range m {
		m[k] = false
	}
	if w == PoolCustom {
		s.CustomTouched = true
	}
}

// ResetForFrequency re-derives the selection after a frequency switch.
// Suggested and recent always reset to all-checked against the new pools;
// custom resets too unless the user has touched it before, in which case
// previously unchecked custom keys stay unchecked.
func (s *Selection) ResetForFrequency(p Pools) {
	s.Recent = allChecked(p.Recent)
	s.Suggested = allChecked(p.Suggested)

	if !s.CustomTouched {
		s.Custom = allChecked(p.Custom)
		return
	}

	prev := s.Custom
	s.Custom = make(map[string]bool, len(p.Custom))
	for _, tpl := range p.Custom {
		key := game.Key(tpl.Frequency, tpl.Text)
		if checked, known := prev[key]; known {
			s.Custom[key] = checked
		} else {
			s.Custom[key] = true
		}
	}
}

// Checked filters templates down to the checked subset of one pool.
func (s *Selection) Checked(w Which, templates []game.GoalTemplate) []game.GoalTemplate {
	m := s.pool(w)
	var out []game.GoalTemplate
	for _, tpl := range templates {
		if m[game.Key(tpl.Frequency, tpl.Text)] {
			out = append(out, tpl)
		}
	}
	return out
}
