// Package generator produces immutable board snapshots from the checked
// subsets of the three goal pools.
package generator

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/bingo/internal/game"
	"github.com/roach88/bingo/internal/pool"
)

// DefaultTitle is used when the sanitized board title comes back empty.
const DefaultTitle = "Bingo board"

// IDGenerator produces placement and board IDs.
// Injectable so tests get deterministic output.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production ID generator.
// Board and placement IDs use UUIDv7 so creation order survives sorting;
// falls back to random UUIDs if v7 generation fails.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Input carries everything one generation run needs. Recent, Custom and
// Suggested are the already-checked subsets of their pools, each internally
// deduplicated by Goal Key.
type Input struct {
	Recent    []game.GoalTemplate
	Custom    []game.GoalTemplate
	Suggested []game.GoalTemplate

	Frequency  game.Frequency
	Size       int
	CustomOnly bool
	Title      string
}

// Generator builds boards. Zero value is not usable; construct with New.
type Generator struct {
	ids  IDGenerator
	now  func() time.Time
	rand *rand.Rand
}

// New creates a production generator seeded from the current time.
func New() *Generator {
	return NewWith(UUIDGenerator{}, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWith creates a generator with injected ID source, clock and randomness.
func NewWith(ids IDGenerator, now func() time.Time, r *rand.Rand) *Generator {
	return &Generator{ids: ids, now: now, rand: r}
}

// Generate produces a new board from the checked pool subsets.
//
// Selection runs in priority bands, each shuffled independently, then
// concatenated in fixed order:
//
//	a. keys in both recent and custom
//	b. keys in recent and suggested but not custom
//	c. keys only in recent
//	d. keys only in custom
//	e. keys only in suggested (skipped when CustomOnly)
//
// Goals that are both recently incomplete and user-curated are the
// strongest signal of unfinished intent; pure suggestions are the weakest
// and are excluded entirely under CustomOnly.
//
// If banding selects nothing while at least one subset was non-empty (all
// keys eaten by overlap filtering in degenerate configurations), selection
// falls back to a flat shuffle of the deduplicated recent+custom+suggested
// union.
func (gen *Generator) Generate(in Input) game.Board {
	size := in.Size
	if !game.ValidSize(size) {
		size = in.Frequency.DefaultSize()
	}
	totalTiles := size * size

	recentByKey := pool.ByKey(in.Recent)
	customByKey := pool.ByKey(in.Custom)
	suggestedByKey := pool.ByKey(in.Suggested)

	keys := gen.selectKeys(recentByKey, customByKey, suggestedByKey, in.CustomOnly)
	if len(keys) == 0 && (len(recentByKey)+len(customByKey)+len(suggestedByKey)) > 0 {
		keys = gen.fallbackKeys(in)
	}
	if len(keys) > totalTiles {
		keys = keys[:totalTiles]
	}

	goals := make([]game.Goal, 0, totalTiles)
	for _, key := range keys {
		tpl, fromCustom := customByKey[key]
		if !fromCustom {
			var ok bool
			if tpl, ok = recentByKey[key]; !ok {
				tpl = suggestedByKey[key]
			}
		}

		g := game.Goal{
			ID:        gen.ids.NewID(),
			Text:      tpl.Text,
			Frequency: in.Frequency,
			Subgoals:  game.CloneSubgoals(tpl.Subgoals),
		}
		for i := range g.Subgoals {
			g.Subgoals[i].ID = gen.ids.NewID()
		}
		// SourceGoalID only links back to the custom library; recent- and
		// suggested-only placements stay unlinked.
		if fromCustom {
			g.SourceGoalID = tpl.ID
		}
		goals = append(goals, g)
	}

	for len(goals) < totalTiles {
		goals = append(goals, game.Goal{
			ID:        gen.ids.NewID(),
			Frequency: in.Frequency,
		})
	}

	title := game.Sanitize(in.Title, game.MaxTitleLen)
	if title == "" {
		title = DefaultTitle
	}

	return game.Board{
		ID:        gen.ids.NewID(),
		Title:     title,
		CreatedAt: gen.now(),
		Goals:     goals,
		Size:      size,
	}
}

// selectKeys runs the priority-band partition.
func (gen *Generator) selectKeys(recent, custom, suggested map[string]game.GoalTemplate, customOnly bool) []string {
	var bandA, bandB, bandC, bandD, bandE []string

	for key := range recent {
		_, inCustom := custom[key]
		_, inSuggested := suggested[key]
		switch {
		case inCustom:
			bandA = append(bandA, key)
		case inSuggested:
			bandB = append(bandB, key)
		default:
			bandC = append(bandC, key)
		}
	}
	for key := range custom {
		if _, inRecent := recent[key]; !inRecent {
			bandD = append(bandD, key)
		}
	}
	if !customOnly {
		for key := range suggested {
			_, inRecent := recent[key]
			_, inCustom := custom[key]
			if !inRecent && !inCustom {
				bandE = append(bandE, key)
			}
		}
	}

	var out []string
	taken := map[string]bool{}
	for _, band := range [][]string{bandA, bandB, bandC, bandD, bandE} {
		gen.shuffle(band)
		for _, key := range band {
			if taken[key] {
				continue
			}
			taken[key] = true
			out = append(out, key)
		}
	}
	return out
}

// fallbackKeys flattens the union of all three subsets, deduplicated in
// recent, custom, suggested order, then shuffles once.
func (gen *Generator) fallbackKeys(in Input) []string {
	var out []string
	seen := map[string]bool{}
	for _, subset := range [][]game.GoalTemplate{in.Recent, in.Custom, in.Suggested} {
		for _, tpl := range subset {
			key := game.Key(tpl.Frequency, tpl.Text)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	gen.shuffle(out)
	return out
}

// shuffle applies a uniform random permutation. Keys are sorted first so a
// seeded rand source yields reproducible boards regardless of map iteration
// order.
func (gen *Generator) shuffle(keys []string) {
	sort.Strings(keys)
	gen.rand.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
}
