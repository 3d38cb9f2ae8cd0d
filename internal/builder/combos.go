package builder

import (
	"sort"

	"github.com/ramonehamilton/edh-architect/internal/combodb"
	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
)

// DetectCombos cross-references the assembled deck, its commander(s), and the
// banned set against the combo database. Complete combos have every piece in
// the deck; near-misses have enough overlap to suggest the missing cards.
// Combos touching a banned card are reported separately, never silently
// dropped.
func DetectCombos(deck *DeckList, commanderNames []string, bannedNames []string, combos []combodb.Combo, minOverlap int) *ComboAnalysis {
	analysis := &ComboAnalysis{}
	if deck == nil || len(combos) == 0 {
		return analysis
	}
	if minOverlap < 1 {
		minOverlap = 2
	}

	present := make(map[string]bool, len(deck.Entries)+len(commanderNames))
	for _, entry := range deck.Entries {
		present[combodb.NormalizeName(entry.Name)] = true
		present[combodb.NormalizeName(cards.FrontFaceName(entry.Name))] = true
	}
	for _, name := range commanderNames {
		present[combodb.NormalizeName(name)] = true
		present[combodb.NormalizeName(cards.FrontFaceName(name))] = true
	}
	banned := make(map[string]bool, len(bannedNames))
	for _, name := range bannedNames {
		banned[combodb.NormalizeName(name)] = true
	}

	for _, combo := range combos {
		matched := 0
		bannedPiece := false
		var missing []string
		for _, card := range combo.Cards {
			key := combodb.NormalizeName(card)
			if banned[key] {
				bannedPiece = true
			}
			if present[key] {
				matched++
			} else {
				missing = append(missing, card)
			}
		}
		// Banned combos surface even with zero deck overlap.
		if matched == 0 && !bannedPiece {
			continue
		}

		detected := DetectedCombo{
			Cards:     combo.Cards,
			Result:    combo.Result,
			DeckCount: combo.DeckCount,
			Bracket:   combo.Bracket,
			Complete:  len(missing) == 0,
			Missing:   missing,
		}

		switch {
		case bannedPiece:
			analysis.Excluded = append(analysis.Excluded, detected)
		case detected.Complete:
			analysis.Complete = append(analysis.Complete, detected)
		case matched >= minOverlap || (len(combo.Cards) == 2 && matched >= 1):
			analysis.NearMiss = append(analysis.NearMiss, detected)
		}
	}

	sortCombos(analysis.Complete)
	sortCombos(analysis.NearMiss)
	sortCombos(analysis.Excluded)
	return analysis
}

func sortCombos(combos []DetectedCombo) {
	sort.SliceStable(combos, func(i, j int) bool {
		if combos[i].DeckCount != combos[j].DeckCount {
			return combos[i].DeckCount > combos[j].DeckCount
		}
		return combos[i].Result < combos[j].Result
	})
}
