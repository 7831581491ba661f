// Package catalog provides the built-in suggested goal catalog.
//
// The catalog is authored in CUE (catalog.cue, embedded at build time) and
// compiled through the CUE SDK at load. The schema lives next to the data,
// so an entry with a bad frequency or empty text is a load error with a file
// position, not a silent runtime skip.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/bingo/internal/game"
)

//go:embed catalog.cue
var catalogCUE []byte

// entry mirrors the #Goal shape in catalog.cue.
type entry struct {
	Text      string `json:"text"`
	Frequency string `json:"frequency"`
	Subgoals  []struct {
		Text string `json:"text"`
	} `json:"subgoals"`
}

// Catalog is the compiled suggested goal catalog.
type Catalog struct {
	templates []game.GoalTemplate
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Load compiles and validates the embedded catalog.
// The result is cached; repeated calls return the same catalog.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		loaded, loadErr = compile(catalogCUE)
	})
	return loaded, loadErr
}

// compile parses CUE source into a Catalog.
// Split from Load so tests can feed malformed sources.
func compile(src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	v := ctx.CompileBytes(src, cue.Filename("catalog.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog: %s", cueerrors.Details(err, nil))
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate catalog: %s", cueerrors.Details(err, nil))
	}

	goalsVal := v.LookupPath(cue.ParsePath("goals"))
	if err := goalsVal.Err(); err != nil {
		return nil, fmt.Errorf("catalog missing goals list: %s", cueerrors.Details(err, nil))
	}

	iter, err := goalsVal.List()
	if err != nil {
		return nil, fmt.Errorf("catalog goals is not a list: %w", err)
	}

	cat := &Catalog{}
	for i := 0; iter.Next(); i++ {
		var e entry
		if err := iter.Value().Decode(&e); err != nil {
			return nil, fmt.Errorf("catalog goals[%d]: %w", i, err)
		}

		freq := game.Frequency(e.Frequency)
		if !freq.Valid() {
			// The CUE schema already rejects this; the check guards
			// against schema drift.
			return nil, fmt.Errorf("catalog goals[%d]: unknown frequency %q", i, e.Frequency)
		}

		text := game.Sanitize(e.Text, game.MaxGoalTextLen)
		if text == "" {
			return nil, fmt.Errorf("catalog goals[%d]: empty text after sanitization", i)
		}

		tpl := game.GoalTemplate{
			// Suggested templates are not library entries; the synthetic
			// ID exists purely for selection bookkeeping.
			ID:        "suggested:" + game.Key(freq, text),
			Text:      text,
			Frequency: freq,
		}
		for j, s := range e.Subgoals {
			tpl.Subgoals = append(tpl.Subgoals, game.Subgoal{
				ID:   fmt.Sprintf("%s/sub-%d", tpl.ID, j),
				Text: game.Sanitize(s.Text, game.MaxGoalTextLen),
			})
		}

		cat.templates = append(cat.templates, tpl)
	}

	return cat, nil
}

// Suggested returns the catalog templates for one frequency.
// The returned slice is a copy; callers may reorder it freely.
func (c *Catalog) Suggested(freq game.Frequency) []game.GoalTemplate {
	var out []game.GoalTemplate
	for _, tpl := range c.templates {
		if tpl.Frequency == freq {
			out = append(out, tpl)
		}
	}
	return out
}

// All returns every catalog template across all frequencies.
func (c *Catalog) All() []game.GoalTemplate {
	out := make([]game.GoalTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}
