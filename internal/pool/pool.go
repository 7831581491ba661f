// Package pool derives the three goal pools the board generator draws from:
// custom (user-authored library), suggested (built-in catalog) and
// recently-incomplete (mined from board history).
package pool

import (
	"sort"

	"github.com/roach88/bingo/internal/game"
)

// Pools holds the three per-frequency goal pools.
// Every entry is a template: recent entries are synthetic templates
// manufactured from board cells and are not library entries.
type Pools struct {
	Recent    []game.GoalTemplate
	Custom    []game.GoalTemplate
	Suggested []game.GoalTemplate
}

// Build aggregates the pools for one frequency.
//
// boards is the full board history; library is the user's custom goal
// templates; suggested is the catalog slice for this frequency; dismissed is
// the set of Goal Keys the user has dismissed from the recent pool.
func Build(boards []game.Board, library, suggested []game.GoalTemplate, freq game.Frequency, dismissed map[string]bool) Pools {
	p := Pools{
		Suggested: suggested,
	}
	for _, tpl := range library {
		if tpl.Frequency == freq {
			p.Custom = append(p.Custom, tpl)
		}
	}
	p.Recent = mineRecent(boards, freq, dismissed)
	return p
}

// mineRecent scans board history newest-first for incomplete goals.
//
// Deduplication is by Goal Key with newest-board-wins: once a key has been
// seen it is marked processed even if the goal was excluded (completed,
// dismissed), so an older board can never resurrect a key a newer board
// already decided.
func mineRecent(boards []game.Board, freq game.Frequency, dismissed map[string]bool) []game.GoalTemplate {
	ordered := make([]game.Board, len(boards))
	copy(ordered, boards)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	processed := map[string]bool{}
	var out []game.GoalTemplate

	for _, b := range ordered {
		for _, g := range b.Goals {
			if g.IsEmpty() || g.Frequency != freq {
				continue
			}
			key := game.Key(g.Frequency, g.Text)
			if processed[key] {
				continue
			}
			processed[key] = true

			if dismissed[key] || !g.Incomplete() {
				continue
			}

			// The synthetic ID embeds the source goal ID when the cell
			// originated from the custom library, otherwise the key
			// itself. Either way it is selection bookkeeping only.
			id := g.SourceGoalID
			if id == "" {
				id = "recent:" + key
			}
			out = append(out, game.GoalTemplate{
				ID:        id,
				Text:      g.Text,
				Frequency: g.Frequency,
				Subgoals:  game.CloneSubgoals(g.Subgoals),
			})
		}
	}

	return out
}

// ByKey indexes templates by Goal Key, last write wins.
// Stable for pool slices, which are already deduplicated per pool.
func ByKey(templates []game.GoalTemplate) map[string]game.GoalTemplate {
	m := make(map[string]game.GoalTemplate, len(templates))
	for _, tpl := range templates {
		m[game.Key(tpl.Frequency, tpl.Text)] = tpl
	}
	return m
}
