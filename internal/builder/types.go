// Package builder implements the deck composition engine: candidate pools,
// category allocation, greedy assembly, the mana base, and the read-only
// post-assembly analyses.
package builder

import (
	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
	"github.com/ramonehamilton/edh-architect/internal/tagger"
)

// Type categories. Lands are always assembled last.
const (
	CategoryCreature     = "creature"
	CategoryInstant      = "instant"
	CategorySorcery      = "sorcery"
	CategoryArtifact     = "artifact"
	CategoryEnchantment  = "enchantment"
	CategoryPlaneswalker = "planeswalker"
	CategoryLand         = "land"
	CategoryUnknown      = "unknown"
)

// Functional sub-role categories, used when a role data source is available.
const (
	CategoryRamp    = "ramp"
	CategoryDraw    = "draw"
	CategoryRemoval = "removal"
	CategoryWipes   = "wipes"
	CategorySynergy = "synergy"
	CategoryUtility = "utility"
)

// TypeCategories is the fixed order of non-land type categories.
var TypeCategories = []string{
	CategoryCreature,
	CategoryInstant,
	CategorySorcery,
	CategoryArtifact,
	CategoryEnchantment,
	CategoryPlaneswalker,
}

// RoleCategories is the fixed order of functional sub-roles.
var RoleCategories = []string{
	CategoryRamp,
	CategoryDraw,
	CategoryRemoval,
	CategoryWipes,
	CategorySynergy,
	CategoryUtility,
}

// Format is a Commander-family deck format.
type Format string

const (
	FormatCommander Format = "commander" // 100 cards
	FormatBrawl     Format = "brawl"     // 60 cards
	FormatDuel      Format = "duel"      // 40 cards
)

// TotalSize returns the format's full deck size including commander slots.
func (f Format) TotalSize() int {
	switch f {
	case FormatBrawl:
		return 60
	case FormatDuel:
		return 40
	default:
		return 100
	}
}

// LandRange returns the valid land-count range for the format.
func (f Format) LandRange() (min, max int) {
	switch f {
	case FormatBrawl:
		return 20, 28
	case FormatDuel:
		return 14, 20
	default:
		return 30, 45
	}
}

// Customization carries the user-controlled knobs. The engine treats it as
// read-only; out-of-range values are clamped, never rejected.
type Customization struct {
	Format Format

	// LandCount is the land slider; 0 means "derive from stats".
	LandCount int

	// NonBasicLandCount is the nonbasic portion of the mana base; negative
	// means "derive from stats".
	NonBasicLandCount int

	// MustInclude cards are placed before everything else.
	MustInclude []string

	// Banned cards never appear in the output.
	Banned []string

	// Themes are the selected theme names (at most two are used).
	Themes []string

	// MaxCardPrice is a per-card USD budget cap; 0 disables it.
	MaxCardPrice float64

	// Bracket is a coarse power-tier filter on combos (0 = no filter).
	Bracket int

	// OwnedOnly restricts the pools to the local collection.
	OwnedOnly bool
}

// CandidateCard is a scored candidate for one deck slot. Created during pool
// assembly and never mutated afterward, only filtered and sorted.
type CandidateCard struct {
	Card *cards.Card

	Name      string
	Inclusion float64 // 0-100, percentage of eligible decks running the card
	DeckCount int     // raw deck count behind Inclusion
	Category  string  // one of the seven type categories or "unknown"
	Role      tagger.Role

	// SynergyBoosted cards sort ahead of ordinary inclusion ordering.
	SynergyBoosted bool

	Owned    bool
	PriceUSD float64
}

// CategoryTargets is the integer slot plan for one generation run.
// Invariant: the Counts values sum to Total-Lands.
type CategoryTargets struct {
	// Total is the number of non-commander slots.
	Total int

	// Lands is the mana-base slot count.
	Lands int

	// NonBasicLands is the nonbasic portion of Lands.
	NonBasicLands int

	// Counts maps each non-land category to its target.
	Counts map[string]int

	// Order is the assembly priority order over Counts' keys (lands excluded).
	Order []string

	// RolesEnabled records whether functional sub-roles were carved out.
	RolesEnabled bool
}

// NonLandTotal returns the sum of the non-land category targets.
func (t *CategoryTargets) NonLandTotal() int {
	sum := 0
	for _, count := range t.Counts {
		sum += count
	}
	return sum
}

// DeckEntry is one (name, category) pair in the final list. Basic lands carry
// a quantity above one; everything else is a single copy.
type DeckEntry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// DeckList is the ordered, grouped result of assembly.
type DeckList struct {
	Entries []DeckEntry `json:"entries"`
}

// Size returns the total number of cards, counting basic-land quantities.
func (d *DeckList) Size() int {
	total := 0
	for _, entry := range d.Entries {
		total += entry.Quantity
	}
	return total
}

// Names returns the set of card names in the list.
func (d *DeckList) Names() map[string]bool {
	names := make(map[string]bool, len(d.Entries))
	for _, entry := range d.Entries {
		names[entry.Name] = true
	}
	return names
}

// Contains reports whether the list holds a card by name.
func (d *DeckList) Contains(name string) bool {
	for _, entry := range d.Entries {
		if entry.Name == name {
			return true
		}
	}
	return false
}

// WarningCode classifies non-fatal conditions surfaced to the caller.
type WarningCode string

const (
	// WarnUnresolvedMustInclude - a must-include name could not be found in
	// any pool or upstream source.
	WarnUnresolvedMustInclude WarningCode = "unresolved_must_include"

	// WarnOutOfIdentityMustInclude - a must-include name resolved upstream
	// but sits outside the commander's color identity and was dropped.
	WarnOutOfIdentityMustInclude WarningCode = "must_include_outside_identity"

	// WarnUpstreamUnavailable - an upstream fetch failed and a fallback was
	// used instead.
	WarnUpstreamUnavailable WarningCode = "upstream_unavailable"

	// WarnPoolExhausted - a category pool ran out before meeting its target
	// and the shortfall was redistributed.
	WarnPoolExhausted WarningCode = "pool_exhausted"

	// WarnUnknownTheme - a selected theme has no query mapping and was
	// ignored.
	WarnUnknownTheme WarningCode = "unknown_theme"
)

// Warning is a structured non-fatal condition.
type Warning struct {
	Code     WarningCode `json:"code"`
	Message  string      `json:"message"`
	CardName string      `json:"card_name,omitempty"`
}

// DeficitReport describes slots that could not be filled even after
// redistribution. ByCategory is net of redistribution, so its values sum to
// Shortfall. Deck generation reports it instead of failing.
type DeficitReport struct {
	Shortfall  int            `json:"shortfall"`
	ByCategory map[string]int `json:"by_category"`
}

// DetectedCombo is a known combo cross-referenced against the deck.
type DetectedCombo struct {
	Cards     []string `json:"cards"`
	Result    string   `json:"result"`
	DeckCount int      `json:"deck_count"`
	Bracket   int      `json:"bracket,omitempty"`

	Complete bool     `json:"complete"`
	Missing  []string `json:"missing,omitempty"`
}

// ComboAnalysis partitions detected combos for display.
type ComboAnalysis struct {
	Complete []DetectedCombo `json:"complete"`
	NearMiss []DetectedCombo `json:"near_miss"`
	// Excluded combos intersect the banned set; surfaced for transparency.
	Excluded []DetectedCombo `json:"excluded"`
}

// GapCard is a strong candidate that did not make the final list.
type GapCard struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Inclusion float64 `json:"inclusion"`
	Owned     bool    `json:"owned"`
	Rank      int     `json:"rank"`
}

// Result is the full output of one generation run.
type Result struct {
	Deck              *DeckList       `json:"deck"`
	Targets           CategoryTargets `json:"targets"`
	CategoryBreakdown map[string]int  `json:"category_breakdown"`
	ManaCurve         map[int]float64 `json:"mana_curve,omitempty"`
	Combos            *ComboAnalysis  `json:"combos,omitempty"`
	Gaps              []GapCard       `json:"gaps,omitempty"`
	Warnings          []Warning       `json:"warnings,omitempty"`
	Deficit           *DeficitReport  `json:"deficit,omitempty"`
}

// Tunables are the composition heuristics exposed as configuration rather
// than hard-coded constants.
type Tunables struct {
	// SubRoleBaseline is the functional sub-role carve-out, scaled to fit the
	// computed non-creature non-land pool.
	SubRoleBaseline map[string]int

	// GapDisplayCount caps the "cards to consider" list.
	GapDisplayCount int

	// ComboMinOverlap is the minimum number of present cards for a near-miss.
	ComboMinOverlap int
}

// DefaultTunables returns the documented baseline heuristics.
func DefaultTunables() Tunables {
	return Tunables{
		SubRoleBaseline: map[string]int{
			CategoryRamp:    10,
			CategoryDraw:    10,
			CategoryRemoval: 8,
			CategoryWipes:   3,
			CategorySynergy: 8,
			CategoryUtility: 3,
		},
		GapDisplayCount: 15,
		ComboMinOverlap: 2,
	}
}
