// Package cards defines the card model shared by the deck composition engine
// and the upstream clients.
package cards

import "strings"

// Card represents metadata about a Magic card.
type Card struct {
	// Scryfall identifiers
	ScryfallID string  `json:"id"`
	OracleID   *string `json:"oracle_id,omitempty"`

	// Basic card information
	Name     string `json:"name"`
	TypeLine string `json:"type_line"`
	SetCode  string `json:"set"`

	// Mana information
	ManaCost *string `json:"mana_cost"`
	CMC      float64 `json:"cmc"` // Converted mana cost / mana value

	// Colors and identity
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"color_identity"`

	// Rarity
	Rarity string `json:"rarity"`

	// Text and imagery
	OracleText *string `json:"oracle_text,omitempty"`
	ImageURI   *string `json:"image_uri,omitempty"`

	// Pricing (USD, zero when unknown)
	PriceUSD float64 `json:"price_usd"`

	// Layout information ("normal", "transform", "modal_dfc", ...)
	Layout string `json:"layout"`

	// Keywords from the card face(s)
	Keywords []string `json:"keywords,omitempty"`
}

// WUBRG is the canonical color order used for deterministic iteration.
var WUBRG = []string{"W", "U", "B", "R", "G"}

// BasicLandNames maps a color to its basic land.
var BasicLandNames = map[string]string{
	"W": "Plains",
	"U": "Island",
	"B": "Swamp",
	"R": "Mountain",
	"G": "Forest",
}

// FrontFaceName returns the name used for matching against single-name lists.
// Double-faced cards are written "Front // Back"; upstream recommendation data
// keys them by the front face alone.
func FrontFaceName(name string) string {
	if idx := strings.Index(name, " // "); idx >= 0 {
		return name[:idx]
	}
	return name
}

// IsBasicLand reports whether name is one of the five basic lands or Wastes.
func IsBasicLand(name string) bool {
	switch FrontFaceName(name) {
	case "Plains", "Island", "Swamp", "Mountain", "Forest", "Wastes":
		return true
	}
	for _, basic := range []string{"Snow-Covered Plains", "Snow-Covered Island", "Snow-Covered Swamp", "Snow-Covered Mountain", "Snow-Covered Forest"} {
		if name == basic {
			return true
		}
	}
	return false
}

// WithinIdentity reports whether cardIdentity is a subset of commanderIdentity.
// Colorless cards (empty identity) always pass.
func WithinIdentity(cardIdentity, commanderIdentity []string) bool {
	if len(cardIdentity) == 0 {
		return true
	}
	allowed := make(map[string]bool, len(commanderIdentity))
	for _, c := range commanderIdentity {
		allowed[strings.ToUpper(c)] = true
	}
	for _, c := range cardIdentity {
		if !allowed[strings.ToUpper(c)] {
			return false
		}
	}
	return true
}

// MergeIdentities returns the union of two color identities in WUBRG order.
// Used for partner commander pairs.
func MergeIdentities(a, b []string) []string {
	present := make(map[string]bool, 5)
	for _, c := range a {
		present[strings.ToUpper(c)] = true
	}
	for _, c := range b {
		present[strings.ToUpper(c)] = true
	}
	merged := make([]string, 0, 5)
	for _, c := range WUBRG {
		if present[c] {
			merged = append(merged, c)
		}
	}
	return merged
}

// IdentityString renders a color identity as a compact string, "C" for colorless.
func IdentityString(identity []string) string {
	merged := MergeIdentities(identity, nil)
	if len(merged) == 0 {
		return "C"
	}
	return strings.Join(merged, "")
}

// ColoredPips counts the colored mana symbols in a mana cost string like
// "{1}{G}{G}" or "{2}{W/U}{W/U}". Hybrid symbols count for every color they
// name; generic and colorless symbols are ignored.
func ColoredPips(manaCost string) map[string]int {
	pips := make(map[string]int)
	if manaCost == "" {
		return pips
	}

	inSymbol := false
	var symbol strings.Builder
	for _, r := range manaCost {
		switch r {
		case '{':
			inSymbol = true
			symbol.Reset()
		case '}':
			if inSymbol {
				countPipSymbol(symbol.String(), pips)
			}
			inSymbol = false
		default:
			if inSymbol {
				symbol.WriteRune(r)
			}
		}
	}
	return pips
}

// countPipSymbol adds one pip for each color named inside a single mana symbol.
func countPipSymbol(symbol string, pips map[string]int) {
	for _, part := range strings.Split(symbol, "/") {
		switch strings.ToUpper(part) {
		case "W", "U", "B", "R", "G":
			pips[strings.ToUpper(part)]++
		}
	}
}

// PrimaryType returns the first recognized card type in a type line, checked
// in the order lands sort last everywhere else in the engine.
func PrimaryType(typeLine string) string {
	lower := strings.ToLower(typeLine)
	// Order matters: artifact creatures count as creatures, artifact lands as lands.
	if strings.Contains(lower, "land") {
		return "land"
	}
	if strings.Contains(lower, "creature") {
		return "creature"
	}
	if strings.Contains(lower, "planeswalker") {
		return "planeswalker"
	}
	if strings.Contains(lower, "instant") {
		return "instant"
	}
	if strings.Contains(lower, "sorcery") {
		return "sorcery"
	}
	if strings.Contains(lower, "artifact") {
		return "artifact"
	}
	if strings.Contains(lower, "enchantment") {
		return "enchantment"
	}
	return "unknown"
}

// HasPartner reports whether a card's oracle text carries the Partner ability.
func HasPartner(c *Card) bool {
	if c == nil || c.OracleText == nil {
		return false
	}
	text := strings.ToLower(*c.OracleText)
	return strings.Contains(text, "partner")
}
