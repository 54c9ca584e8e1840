// Package symbols defines the tail symbols a user can unlock and the persisted set
// of symbols already granted.
package symbols

// ID identifies an unlockable tail symbol.
type ID string

// Symbol ids, in catalog order.
const (
	Fortaleza     ID = "FORTALEZA"
	SeedOfCourage ID = "SEED_OF_COURAGE"
	LoopBreaker   ID = "LOOP_BREAKER"
	Consistency   ID = "CONSISTENCY"
)

// Definition is the presentation metadata for a symbol. Definitions live in code and
// are never persisted.
type Definition struct {
	ID          ID     `json:"id"`
	Emoji       string `json:"emoji"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// catalog is ordered; All returns it in this order.
//
//nolint:gochecknoglobals // immutable lookup table
var catalog = []Definition{
	{
		ID:          Fortaleza,
		Emoji:       "🧱",
		Name:        "La Fortaleza",
		Description: "Resilience. Discipline. You held your ground, responding with calm strength instead of collapse",
	},
	{
		ID:          SeedOfCourage,
		Emoji:       "🌱",
		Name:        "Seed of Courage",
		Description: "You moved toward your fear, instead of letting your fear decide",
	},
	{
		ID:          LoopBreaker,
		Emoji:       "🪬",
		Name:        "Loop Breaker",
		Description: "You interrupted an old mental loop and chose a new response",
	},
	{
		ID:          Consistency,
		Emoji:       "📈",
		Name:        "Consistency",
		Description: "You showed up for yourself again, even when it was tough",
	},
}

// All returns a copy of every definition in catalog order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for id. An unknown id yields (Definition{}, false);
// callers render nothing for it.
func Lookup(id ID) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Known reports whether id is in the catalog.
func Known(id ID) bool {
	_, ok := Lookup(id)
	return ok
}
