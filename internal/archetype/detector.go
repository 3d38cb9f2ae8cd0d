// Package archetype scores a commander's rules text against known archetype
// signatures and produces ranked guesses. The guesses seed default
// customization (theme suggestions, land-count defaults); the builder never
// consumes them directly once the user has picked themes.
package archetype

import (
	"sort"
	"strings"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
)

// Signature describes one archetype's textual fingerprints.
type Signature struct {
	Name string
	// Theme is the theme-registry name this archetype maps onto.
	Theme string
	// Phrases are matched against the commander's oracle text, each adding
	// its weight to the score.
	Phrases map[string]float64
	// Keywords are matched against the commander's keyword list.
	Keywords map[string]float64
	// LandShift adjusts the default land-count slider for decks built around
	// this archetype. Negative for aggressive themes, positive for
	// land-hungry ones. Applied to the default only, never to an explicit
	// user value.
	LandShift int
}

// Guess is one ranked archetype guess for a commander.
type Guess struct {
	Name      string
	Theme     string
	Score     float64
	LandShift int
}

// DefaultSignatures returns the built-in archetype signatures.
func DefaultSignatures() []Signature {
	return []Signature{
		{
			Name:  "Counters",
			Theme: "+1/+1 counters",
			Phrases: map[string]float64{
				"+1/+1 counter": 3.0,
				"proliferate":   2.5,
				"counter on":    1.0,
			},
			Keywords: map[string]float64{"evolve": 2.0, "adapt": 2.0, "bolster": 2.0},
		},
		{
			Name:  "Tokens",
			Theme: "tokens",
			Phrases: map[string]float64{
				"create":         1.0,
				"token":          1.5,
				"creature token": 2.5,
				"populate":       2.5,
			},
		},
		{
			Name:  "Aristocrats",
			Theme: "aristocrats",
			Phrases: map[string]float64{
				"sacrifice a creature": 3.0,
				"whenever a creature you control dies": 3.0,
				"dies": 1.0,
			},
		},
		{
			Name:  "Spellslinger",
			Theme: "spellslinger",
			Phrases: map[string]float64{
				"whenever you cast an instant": 3.0,
				"instant or sorcery":           2.5,
				"copy":                         1.0,
			},
			Keywords: map[string]float64{"prowess": 2.0, "magecraft": 2.5},
		},
		{
			Name:  "Voltron",
			Theme: "voltron",
			Phrases: map[string]float64{
				"equipped": 2.5,
				"attach":   2.0,
				"enchanted creature": 2.0,
			},
			Keywords: map[string]float64{"double strike": 1.5, "hexproof": 1.0, "equip": 2.0},
			// Aggressive, low-curve decks run fewer lands.
			LandShift: -2,
		},
		{
			Name:  "Landfall",
			Theme: "landfall",
			Phrases: map[string]float64{
				"landfall":    3.5,
				"land enters": 3.0,
				"play an additional land": 2.5,
			},
			// Land-centric decks want more lands than the format average.
			LandShift: 3,
		},
		{
			Name:  "Lifegain",
			Theme: "lifegain",
			Phrases: map[string]float64{
				"whenever you gain life": 3.5,
				"gain life":              1.5,
			},
			Keywords: map[string]float64{"lifelink": 2.0},
		},
		{
			Name:  "Artifacts",
			Theme: "artifacts",
			Phrases: map[string]float64{
				"artifact you control": 2.5,
				"artifact":             1.0,
			},
			Keywords: map[string]float64{"affinity": 2.5, "metalcraft": 2.5, "improvise": 2.0},
		},
		{
			Name:  "Enchantress",
			Theme: "enchantress",
			Phrases: map[string]float64{
				"enchantment you control": 2.5,
				"constellation":           3.0,
				"enchantment":             1.0,
			},
		},
		{
			Name:  "Reanimator",
			Theme: "reanimator",
			Phrases: map[string]float64{
				"from your graveyard": 2.5,
				"return":              0.5,
				"mill":                1.5,
			},
		},
		{
			Name:  "Aggro",
			Theme: "",
			Phrases: map[string]float64{
				"attacks": 1.5,
				"combat damage to a player": 2.0,
				"haste": 1.0,
			},
			Keywords:  map[string]float64{"haste": 1.5, "menace": 1.0, "trample": 0.5},
			LandShift: -2,
		},
		{
			Name:  "Control",
			Theme: "",
			Phrases: map[string]float64{
				"counter target": 2.5,
				"draw a card":    1.0,
				"return target":  1.0,
			},
			LandShift: 2,
		},
	}
}

// Detector scores commanders against archetype signatures.
type Detector struct {
	signatures []Signature
}

// NewDetector creates a detector. A nil signature list uses the defaults.
func NewDetector(signatures []Signature) *Detector {
	if signatures == nil {
		signatures = DefaultSignatures()
	}
	return &Detector{signatures: signatures}
}

// Detect returns ranked archetype guesses for a commander, best first.
// Guesses with zero score are omitted. Ties break by signature name so the
// ranking is deterministic.
func (d *Detector) Detect(commander *cards.Card) []Guess {
	if commander == nil {
		return nil
	}

	oracleText := ""
	if commander.OracleText != nil {
		oracleText = strings.ToLower(*commander.OracleText)
	}
	keywords := make(map[string]bool, len(commander.Keywords))
	for _, kw := range commander.Keywords {
		keywords[strings.ToLower(kw)] = true
	}

	var guesses []Guess
	for _, sig := range d.signatures {
		score := 0.0
		for phrase, weight := range sig.Phrases {
			if strings.Contains(oracleText, phrase) {
				score += weight
			}
		}
		for kw, weight := range sig.Keywords {
			if keywords[kw] || strings.Contains(oracleText, kw) {
				score += weight
			}
		}
		if score > 0 {
			guesses = append(guesses, Guess{
				Name:      sig.Name,
				Theme:     sig.Theme,
				Score:     score,
				LandShift: sig.LandShift,
			})
		}
	}

	sort.Slice(guesses, func(i, j int) bool {
		if guesses[i].Score != guesses[j].Score {
			return guesses[i].Score > guesses[j].Score
		}
		return guesses[i].Name < guesses[j].Name
	})

	return guesses
}

// DefaultLandShift returns the land-count shift of the best guess, or zero
// when no archetype matched.
func (d *Detector) DefaultLandShift(commander *cards.Card) int {
	guesses := d.Detect(commander)
	if len(guesses) == 0 {
		return 0
	}
	return guesses[0].LandShift
}

// SuggestedThemes returns the themes of the top guesses, deduplicated, up to
// limit entries.
func (d *Detector) SuggestedThemes(commander *cards.Card, limit int) []string {
	var suggested []string
	seen := make(map[string]bool)
	for _, guess := range d.Detect(commander) {
		if guess.Theme == "" || seen[guess.Theme] {
			continue
		}
		seen[guess.Theme] = true
		suggested = append(suggested, guess.Theme)
		if limit > 0 && len(suggested) >= limit {
			break
		}
	}
	return suggested
}
