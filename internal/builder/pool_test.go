package builder

import (
	"testing"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
	"github.com/ramonehamilton/edh-architect/internal/mtg/edhrec"
	"github.com/ramonehamilton/edh-architect/internal/tagger"
)

func testCard(name, typeLine string, identity []string) *cards.Card {
	return &cards.Card{
		Name:          name,
		TypeLine:      typeLine,
		ColorIdentity: identity,
	}
}

func entry(name string, deckCount, potential int) edhrec.CardEntry {
	return edhrec.CardEntry{Name: name, DeckCount: deckCount, PotentialDecks: potential}
}

func TestBuildPoolIdentityFilter(t *testing.T) {
	source := &edhrec.CommanderData{
		CardLists: []edhrec.CardList{
			{Tag: CategoryCreature, Cards: []edhrec.CardEntry{
				entry("Llanowar Elves", 900, 1000),
				entry("Goblin Guide", 800, 1000),
			}},
		},
	}
	byName := map[string]*cards.Card{
		"Llanowar Elves": testCard("Llanowar Elves", "Creature - Elf Druid", []string{"G"}),
		"Goblin Guide":   testCard("Goblin Guide", "Creature - Goblin Scout", []string{"R"}),
	}

	pool := BuildPool([]*edhrec.CommanderData{source}, PoolOptions{
		CommanderIdentity: []string{"G", "U"},
		CardsByName:       byName,
	})

	if _, ok := pool.Find("Llanowar Elves"); !ok {
		t.Error("Llanowar Elves missing from pool")
	}
	if _, ok := pool.Find("Goblin Guide"); ok {
		t.Error("off-color Goblin Guide entered the pool")
	}
}

func TestBuildPoolDropsUnresolvedNames(t *testing.T) {
	source := &edhrec.CommanderData{
		CardLists: []edhrec.CardList{
			{Tag: CategoryArtifact, Cards: []edhrec.CardEntry{entry("Sol Ring", 990, 1000), entry("Mystery Card", 500, 1000)}},
		},
	}
	byName := map[string]*cards.Card{
		"Sol Ring": testCard("Sol Ring", "Artifact", nil),
	}

	pool := BuildPool([]*edhrec.CommanderData{source}, PoolOptions{
		CommanderIdentity: []string{"G"},
		CardsByName:       byName,
	})

	if len(pool.All) != 1 {
		t.Fatalf("pool size = %d, want 1", len(pool.All))
	}
	if pool.All[0].Name != "Sol Ring" {
		t.Errorf("pool[0] = %s, want Sol Ring", pool.All[0].Name)
	}
}

func TestBuildPoolDedupeKeepsHigherInclusion(t *testing.T) {
	sources := []*edhrec.CommanderData{
		{CardLists: []edhrec.CardList{{Tag: CategoryArtifact, Cards: []edhrec.CardEntry{entry("Sol Ring", 500, 1000)}}}},
		{CardLists: []edhrec.CardList{{Tag: CategoryArtifact, Cards: []edhrec.CardEntry{entry("Sol Ring", 900, 1000)}}}},
	}
	byName := map[string]*cards.Card{
		"Sol Ring": testCard("Sol Ring", "Artifact", nil),
	}

	pool := BuildPool(sources, PoolOptions{CommanderIdentity: []string{"G"}, CardsByName: byName})

	candidate, ok := pool.Find("Sol Ring")
	if !ok {
		t.Fatal("Sol Ring missing from pool")
	}
	if candidate.Inclusion != 90 {
		t.Errorf("Inclusion = %v, want 90 (higher of the two entries)", candidate.Inclusion)
	}
	if len(pool.All) != 1 {
		t.Errorf("pool size = %d, want 1 after dedupe", len(pool.All))
	}
}

func TestBuildPoolSynergyBoostNeedsThemeMatch(t *testing.T) {
	oracle := "Whenever a land you control enters, draw a card."
	landfallCard := testCard("Tireless Tracker", "Creature - Human Scout", []string{"G"})
	landfallCard.OracleText = &oracle
	plainCard := testCard("Grizzly Bears", "Creature - Bear", []string{"G"})

	source := &edhrec.CommanderData{
		HighSynergy: []edhrec.CardEntry{entry("Tireless Tracker", 400, 1000), entry("Grizzly Bears", 300, 1000)},
	}
	byName := map[string]*cards.Card{
		"Tireless Tracker": landfallCard,
		"Grizzly Bears":    plainCard,
	}

	pool := BuildPool([]*edhrec.CommanderData{source}, PoolOptions{
		CommanderIdentity: []string{"G"},
		CardsByName:       byName,
		ThemeKeywordSets:  [][]string{{"land", "landfall"}},
	})

	tracker, _ := pool.Find("Tireless Tracker")
	if !tracker.SynergyBoosted {
		t.Error("theme-matching high-synergy card not boosted")
	}
	bears, _ := pool.Find("Grizzly Bears")
	if bears.SynergyBoosted {
		t.Error("non-matching card boosted despite theme keyword filter")
	}
}

func TestBuildPoolOwnedOnly(t *testing.T) {
	source := &edhrec.CommanderData{
		CardLists: []edhrec.CardList{
			{Tag: CategoryCreature, Cards: []edhrec.CardEntry{entry("Llanowar Elves", 900, 1000), entry("Elvish Mystic", 700, 1000)}},
		},
	}
	byName := map[string]*cards.Card{
		"Llanowar Elves": testCard("Llanowar Elves", "Creature - Elf Druid", []string{"G"}),
		"Elvish Mystic":  testCard("Elvish Mystic", "Creature - Elf Druid", []string{"G"}),
	}

	pool := BuildPool([]*edhrec.CommanderData{source}, PoolOptions{
		CommanderIdentity: []string{"G"},
		CardsByName:       byName,
		Owned:             map[string]bool{"Llanowar Elves": true},
		OwnedOnly:         true,
	})

	if len(pool.All) != 1 || pool.All[0].Name != "Llanowar Elves" {
		t.Errorf("owned-only pool = %v, want just Llanowar Elves", pool.All)
	}
	if !pool.All[0].Owned {
		t.Error("Owned flag not set")
	}
}

func TestBuildPoolBudgetCap(t *testing.T) {
	expensive := testCard("Gaea's Cradle", "Legendary Land", nil)
	expensive.PriceUSD = 800
	cheap := testCard("Command Tower", "Land", nil)
	cheap.PriceUSD = 0.5

	source := &edhrec.CommanderData{
		CardLists: []edhrec.CardList{
			{Tag: CategoryLand, Cards: []edhrec.CardEntry{entry("Gaea's Cradle", 200, 1000), entry("Command Tower", 990, 1000)}},
		},
	}
	byName := map[string]*cards.Card{"Gaea's Cradle": expensive, "Command Tower": cheap}

	pool := BuildPool([]*edhrec.CommanderData{source}, PoolOptions{
		CommanderIdentity: []string{"G"},
		CardsByName:       byName,
		MaxCardPrice:      5,
	})

	if _, ok := pool.Find("Gaea's Cradle"); ok {
		t.Error("over-budget card entered the pool")
	}
	if _, ok := pool.Find("Command Tower"); !ok {
		t.Error("in-budget card missing from pool")
	}
}

func TestBuildPoolRoleCategories(t *testing.T) {
	roles := tagger.NewStatic(map[string]tagger.Role{
		"Cultivate":    tagger.RoleRamp,
		"Beast Within": tagger.RoleRemoval,
	})

	source := &edhrec.CommanderData{
		CardLists: []edhrec.CardList{
			{Tag: CategorySorcery, Cards: []edhrec.CardEntry{entry("Cultivate", 800, 1000)}},
			{Tag: CategoryInstant, Cards: []edhrec.CardEntry{entry("Beast Within", 600, 1000)}},
		},
	}
	byName := map[string]*cards.Card{
		"Cultivate":    testCard("Cultivate", "Sorcery", []string{"G"}),
		"Beast Within": testCard("Beast Within", "Instant", []string{"G"}),
	}

	pool := BuildPool([]*edhrec.CommanderData{source}, PoolOptions{
		CommanderIdentity: []string{"G"},
		CardsByName:       byName,
		Roles:             roles,
	})

	if !pool.RolesEnabled {
		t.Fatal("RolesEnabled = false with a populated role source")
	}
	if len(pool.ByCategory[CategoryRamp]) != 1 {
		t.Errorf("ramp pool size = %d, want 1", len(pool.ByCategory[CategoryRamp]))
	}
	if len(pool.ByCategory[CategoryRemoval]) != 1 {
		t.Errorf("removal pool size = %d, want 1", len(pool.ByCategory[CategoryRemoval]))
	}
}

func TestRankCandidatesDeterministic(t *testing.T) {
	candidates := []CandidateCard{
		{Name: "Beta", Inclusion: 50, DeckCount: 100},
		{Name: "Alpha", Inclusion: 50, DeckCount: 100},
		{Name: "Gamma", Inclusion: 80, DeckCount: 10},
		{Name: "Delta", Inclusion: 50, DeckCount: 200},
		{Name: "Boosted", Inclusion: 10, DeckCount: 5, SynergyBoosted: true},
	}
	rankCandidates(candidates)

	want := []string{"Boosted", "Gamma", "Delta", "Alpha", "Beta"}
	for i, name := range want {
		if candidates[i].Name != name {
			t.Fatalf("rank %d = %s, want %s (full order %v)", i, candidates[i].Name, name, names(candidates))
		}
	}
}

func names(candidates []CandidateCard) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name
	}
	return out
}
