package builder

import (
	"sort"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
)

// LandInput feeds the mana base builder. Deck is the assembled non-land
// portion; its mana costs drive the basic land split.
type LandInput struct {
	Pool              *Pool
	Targets           CategoryTargets
	Deck              *DeckList
	CommanderCards    []*cards.Card
	CommanderIdentity []string
	MustIncludeLands  []string
	Banned            []string
}

// BuildLands fills the land allocation: pinned lands first, then ranked
// nonbasics up to the nonbasic target, then basics apportioned across the
// commander's colors by the deck's colored pip counts.
func BuildLands(input LandInput) []DeckEntry {
	landSlots := input.Targets.Lands
	if landSlots <= 0 {
		return nil
	}

	used := make(map[string]bool)
	banned := make(map[string]bool, len(input.Banned))
	for _, name := range input.Banned {
		banned[name] = true
	}

	var entries []DeckEntry
	placed := 0
	nonbasics := 0

	for _, name := range input.MustIncludeLands {
		if placed >= landSlots || used[name] || banned[name] {
			continue
		}
		used[name] = true
		entries = append(entries, DeckEntry{Name: name, Category: CategoryLand, Quantity: 1})
		placed++
		if !cards.IsBasicLand(name) {
			nonbasics++
		}
	}

	nonbasicTarget := input.Targets.NonBasicLands
	if nonbasicTarget > landSlots {
		nonbasicTarget = landSlots
	}
	if input.Pool != nil {
		for _, candidate := range input.Pool.Lands() {
			if nonbasics >= nonbasicTarget || placed >= landSlots {
				break
			}
			if used[candidate.Name] || banned[candidate.Name] || cards.IsBasicLand(candidate.Name) {
				continue
			}
			used[candidate.Name] = true
			entries = append(entries, DeckEntry{Name: candidate.Name, Category: CategoryLand, Quantity: 1})
			placed++
			nonbasics++
		}
	}

	basicsNeeded := landSlots - placed
	if basicsNeeded <= 0 {
		return entries
	}

	colors := identityColors(input.CommanderIdentity)
	if len(colors) == 0 {
		entries = append(entries, DeckEntry{Name: "Wastes", Category: CategoryLand, Quantity: basicsNeeded})
		return entries
	}

	split := splitBasics(basicsNeeded, colors, pipCounts(input))
	for _, color := range colors {
		if split[color] <= 0 {
			continue
		}
		entries = append(entries, DeckEntry{
			Name:     cards.BasicLandNames[color],
			Category: CategoryLand,
			Quantity: split[color],
		})
	}
	return entries
}

// pipCounts sums colored mana symbols across the assembled spells and the
// commander(s).
func pipCounts(input LandInput) map[string]int {
	pips := make(map[string]int)
	add := func(card *cards.Card) {
		if card == nil || card.ManaCost == nil {
			return
		}
		for color, count := range cards.ColoredPips(*card.ManaCost) {
			pips[color] += count
		}
	}
	if input.Deck != nil && input.Pool != nil {
		for _, entry := range input.Deck.Entries {
			if candidate, ok := input.Pool.Find(entry.Name); ok {
				add(candidate.Card)
			}
		}
	}
	for _, commander := range input.CommanderCards {
		add(commander)
	}
	return pips
}

// identityColors returns the commander's colors in canonical WUBRG order.
func identityColors(identity []string) []string {
	present := make(map[string]bool, len(identity))
	for _, color := range identity {
		present[color] = true
	}
	var colors []string
	for _, color := range cards.WUBRG {
		if present[color] {
			colors = append(colors, color)
		}
	}
	return colors
}

// splitBasics distributes n basics proportionally to pip share using largest
// remainders, ties broken toward the heavier color and then WUBRG order. With
// no pips at all the split is even.
func splitBasics(n int, colors []string, pips map[string]int) map[string]int {
	totalPips := 0
	for _, color := range colors {
		totalPips += pips[color]
	}

	split := make(map[string]int, len(colors))
	if totalPips == 0 {
		base := n / len(colors)
		extra := n % len(colors)
		for i, color := range colors {
			split[color] = base
			if i < extra {
				split[color]++
			}
		}
		return split
	}

	type share struct {
		color     string
		remainder float64
		pips      int
		order     int
	}
	assigned := 0
	shares := make([]share, 0, len(colors))
	for i, color := range colors {
		exact := float64(n) * float64(pips[color]) / float64(totalPips)
		whole := int(exact)
		split[color] = whole
		assigned += whole
		shares = append(shares, share{color: color, remainder: exact - float64(whole), pips: pips[color], order: i})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].remainder != shares[j].remainder {
			return shares[i].remainder > shares[j].remainder
		}
		if shares[i].pips != shares[j].pips {
			return shares[i].pips > shares[j].pips
		}
		return shares[i].order < shares[j].order
	})
	for i := 0; assigned < n; i++ {
		split[shares[i%len(shares)].color]++
		assigned++
	}
	return split
}
