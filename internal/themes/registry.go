// Package themes maps externally supplied theme names onto search queries and
// scoring keywords. The registry is static: no network, no mutation.
package themes

import (
	"sort"
	"strings"
)

// Query carries the search expressions and scoring keywords for one theme.
// The search expressions are opaque to the engine and passed through to the
// card search provider.
type Query struct {
	// Primary is the main search expression for the theme.
	Primary string
	// Secondary is a broader fallback expression.
	Secondary string
	// Keywords score card text during pool assembly and archetype detection.
	Keywords []string
}

// Merged is the combination of one or two theme queries.
type Merged struct {
	// Keywords is the deduplicated union of the themes' keyword sets.
	Keywords []string
	// CombinedQuery OR-joins the themes' primary expressions.
	CombinedQuery string
}

// registry keys are normalized theme names (lowercase, trimmed).
var registry = map[string]Query{
	"+1/+1 counters": {
		Primary:   `o:"+1/+1 counter"`,
		Secondary: `o:"counter on" t:creature`,
		Keywords:  []string{"+1/+1 counter", "proliferate", "adapt", "evolve", "bolster", "support"},
	},
	"tokens": {
		Primary:   `o:"create" o:"token"`,
		Secondary: `o:"token"`,
		Keywords:  []string{"token", "create", "populate", "convoke"},
	},
	"voltron": {
		Primary:   `t:equipment or t:aura`,
		Secondary: `o:"attach"`,
		Keywords:  []string{"equip", "attach", "aura", "equipment", "hexproof", "double strike"},
	},
	"lifegain": {
		Primary:   `o:"gain" o:"life"`,
		Secondary: `o:lifelink`,
		Keywords:  []string{"gain life", "lifelink", "life total", "whenever you gain life"},
	},
	"landfall": {
		Primary:   `o:landfall or (o:"land enters")`,
		Secondary: `o:"search your library for a" o:"land"`,
		Keywords:  []string{"landfall", "land enters", "play an additional land", "search your library for a land"},
	},
	"aristocrats": {
		Primary:   `o:"sacrifice a creature"`,
		Secondary: `o:sacrifice`,
		Keywords:  []string{"sacrifice", "dies", "death trigger", "whenever a creature you control dies"},
	},
	"spellslinger": {
		Primary:   `o:"instant" o:"sorcery" o:"whenever you cast"`,
		Secondary: `t:instant or t:sorcery`,
		Keywords:  []string{"instant", "sorcery", "prowess", "magecraft", "copy", "storm"},
	},
	"artifacts": {
		Primary:   `t:artifact or o:"artifact you control"`,
		Secondary: `o:artifact`,
		Keywords:  []string{"artifact", "affinity", "metalcraft", "improvise", "treasure"},
	},
	"enchantress": {
		Primary:   `t:enchantment or o:"enchantment you control"`,
		Secondary: `o:enchantment`,
		Keywords:  []string{"enchantment", "constellation", "aura", "whenever you cast an enchantment"},
	},
	"reanimator": {
		Primary:   `o:"return" o:"from your graveyard" o:"battlefield"`,
		Secondary: `o:"graveyard"`,
		Keywords:  []string{"graveyard", "return", "reanimate", "unearth", "mill", "discard"},
	},
	"mill": {
		Primary:   `o:"mill"`,
		Secondary: `o:"library into" o:"graveyard"`,
		Keywords:  []string{"mill", "library", "graveyard"},
	},
	"wheels": {
		Primary:   `o:"each player" o:"discards" o:"draws"`,
		Secondary: `o:"draw" o:"discard"`,
		Keywords:  []string{"discard", "draw seven", "each player draws", "wheel"},
	},
	"flying": {
		Primary:   `o:flying t:creature`,
		Secondary: `o:flying`,
		Keywords:  []string{"flying", "creatures with flying"},
	},
	"treasure": {
		Primary:   `o:"treasure token"`,
		Secondary: `o:treasure`,
		Keywords:  []string{"treasure", "sacrifice a treasure", "create a treasure"},
	},
	"blink": {
		Primary:   `o:"exile" o:"return" o:"battlefield"`,
		Secondary: `o:"enters"`,
		Keywords:  []string{"exile", "return it to the battlefield", "enters", "flicker"},
	},
	"equipment": {
		Primary:   `t:equipment`,
		Secondary: `o:equip`,
		Keywords:  []string{"equip", "equipment", "attach", "for mirrodin"},
	},
	"sacrifice": {
		Primary:   `o:"sacrifice"`,
		Secondary: `o:"dies"`,
		Keywords:  []string{"sacrifice", "dies", "devour", "exploit"},
	},
	"stax": {
		Primary:   `o:"can't" o:"players"`,
		Secondary: `o:"each opponent"`,
		Keywords:  []string{"can't untap", "can't cast", "each opponent", "tax", "pay"},
	},
	"group hug": {
		Primary:   `o:"each player draws"`,
		Secondary: `o:"each player"`,
		Keywords:  []string{"each player", "draws a card", "additional"},
	},
	"superfriends": {
		Primary:   `t:planeswalker`,
		Secondary: `o:"loyalty"`,
		Keywords:  []string{"planeswalker", "loyalty counter", "proliferate"},
	},
}

// Lookup returns the query for a theme name. The second return is false for
// unknown themes; callers degrade to an unfiltered creature query.
func Lookup(themeName string) (Query, bool) {
	q, ok := registry[normalize(themeName)]
	return q, ok
}

// Known reports whether a theme name is in the registry.
func Known(themeName string) bool {
	_, ok := registry[normalize(themeName)]
	return ok
}

// Names returns every registered theme name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MergeThemes combines up to two themes into one keyword set and OR-joined
// query. Unknown names contribute nothing.
func MergeThemes(themeNames []string) Merged {
	var merged Merged
	seen := make(map[string]bool)
	var queries []string

	for _, name := range themeNames {
		q, ok := Lookup(name)
		if !ok {
			continue
		}
		for _, kw := range q.Keywords {
			if !seen[kw] {
				seen[kw] = true
				merged.Keywords = append(merged.Keywords, kw)
			}
		}
		if q.Primary != "" {
			queries = append(queries, "("+q.Primary+")")
		}
	}

	merged.CombinedQuery = strings.Join(queries, " or ")
	return merged
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
