package builder

import (
	"testing"

	"github.com/ramonehamilton/edh-architect/internal/combodb"
)

func deckWith(names ...string) *DeckList {
	deck := &DeckList{}
	for _, name := range names {
		deck.Entries = append(deck.Entries, DeckEntry{Name: name, Quantity: 1})
	}
	return deck
}

func TestDetectCombosComplete(t *testing.T) {
	deck := deckWith("Thornbite Staff", "Marrow-Gnawer", "Filler")
	combos := []combodb.Combo{
		{Cards: []string{"Thornbite Staff", "Marrow-Gnawer"}, Result: "Infinite rats", DeckCount: 400},
	}

	analysis := DetectCombos(deck, nil, nil, combos, 2)

	if len(analysis.Complete) != 1 {
		t.Fatalf("complete = %d, want 1", len(analysis.Complete))
	}
	if !analysis.Complete[0].Complete || len(analysis.Complete[0].Missing) != 0 {
		t.Errorf("combo = %+v, want complete with no missing cards", analysis.Complete[0])
	}
}

func TestDetectCombosCommanderCounts(t *testing.T) {
	deck := deckWith("Thornbite Staff")
	combos := []combodb.Combo{
		{Cards: []string{"Thornbite Staff", "Krenko, Mob Boss"}, Result: "Infinite goblins", DeckCount: 300},
	}

	analysis := DetectCombos(deck, []string{"Krenko, Mob Boss"}, nil, combos, 2)

	if len(analysis.Complete) != 1 {
		t.Errorf("complete = %d, want 1 (commander is a combo piece)", len(analysis.Complete))
	}
}

func TestDetectCombosNearMiss(t *testing.T) {
	deck := deckWith("Basalt Monolith", "Filler A", "Filler B")
	combos := []combodb.Combo{
		// Two of three present: near-miss at the default threshold.
		{Cards: []string{"Basalt Monolith", "Filler A", "Rings of Brighthearth"}, Result: "Infinite mana", DeckCount: 500},
		// One of three present: below threshold, dropped.
		{Cards: []string{"Basalt Monolith", "Power Artifact", "Third Piece"}, Result: "Other combo", DeckCount: 100},
		// Two-card combo with one present always surfaces.
		{Cards: []string{"Basalt Monolith", "Mesmeric Orb"}, Result: "Self mill", DeckCount: 200},
	}

	analysis := DetectCombos(deck, nil, nil, combos, 2)

	if len(analysis.NearMiss) != 2 {
		t.Fatalf("near-miss = %d, want 2", len(analysis.NearMiss))
	}
	// Popularity order.
	if analysis.NearMiss[0].Result != "Infinite mana" {
		t.Errorf("first near-miss = %s, want Infinite mana", analysis.NearMiss[0].Result)
	}
	if got := analysis.NearMiss[0].Missing; len(got) != 1 || got[0] != "Rings of Brighthearth" {
		t.Errorf("missing = %v, want [Rings of Brighthearth]", got)
	}
}

func TestDetectCombosBannedExcluded(t *testing.T) {
	deck := deckWith("Thornbite Staff", "Marrow-Gnawer")
	combos := []combodb.Combo{
		{Cards: []string{"Thornbite Staff", "Marrow-Gnawer"}, Result: "Infinite rats", DeckCount: 400},
	}

	analysis := DetectCombos(deck, nil, []string{"Thornbite Staff"}, combos, 2)

	if len(analysis.Complete) != 0 {
		t.Error("banned combo listed as complete")
	}
	if len(analysis.Excluded) != 1 {
		t.Fatalf("excluded = %d, want 1 (surfaced, not dropped)", len(analysis.Excluded))
	}
}

func TestDetectCombosBannedNoOverlapStillSurfaced(t *testing.T) {
	deck := deckWith("Filler")
	combos := []combodb.Combo{
		{Cards: []string{"Demonic Consultation", "Thassa's Oracle"}, Result: "Instant win", DeckCount: 900},
	}

	analysis := DetectCombos(deck, nil, []string{"Demonic Consultation"}, combos, 2)

	if len(analysis.Excluded) != 1 {
		t.Fatalf("excluded = %d, want 1 (banned combos surface regardless of deck overlap)", len(analysis.Excluded))
	}
	if analysis.Excluded[0].Complete {
		t.Error("zero-overlap combo reported complete")
	}
}

func TestDetectCombosNameNormalization(t *testing.T) {
	deck := deckWith("thornbite staff", "MARROW-GNAWER")
	combos := []combodb.Combo{
		{Cards: []string{"Thornbite Staff", "Marrow-Gnawer"}, Result: "Infinite rats", DeckCount: 400},
	}

	analysis := DetectCombos(deck, nil, nil, combos, 2)

	if len(analysis.Complete) != 1 {
		t.Errorf("complete = %d, want 1 (matching is case-insensitive)", len(analysis.Complete))
	}
}

func TestDetectCombosNilDeck(t *testing.T) {
	analysis := DetectCombos(nil, nil, nil, []combodb.Combo{{Cards: []string{"A", "B"}}}, 2)
	if len(analysis.Complete)+len(analysis.NearMiss)+len(analysis.Excluded) != 0 {
		t.Error("nil deck produced combos")
	}
}
