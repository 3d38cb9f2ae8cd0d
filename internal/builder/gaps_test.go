package builder

import "testing"

func TestAnalyzeGapsRanksLeftovers(t *testing.T) {
	pool := &Pool{All: []CandidateCard{
		{Name: "In Deck", Inclusion: 90},
		{Name: "Strong Leftover", Inclusion: 80},
		{Name: "Weak Leftover", Inclusion: 20},
		{Name: "Owned Leftover", Inclusion: 50},
	}}
	deck := deckWith("In Deck")

	gaps := AnalyzeGaps(pool, deck, map[string]bool{"Owned Leftover": true}, 15)

	if len(gaps) != 3 {
		t.Fatalf("gaps = %d, want 3", len(gaps))
	}
	if gaps[0].Name != "Strong Leftover" || gaps[0].Rank != 1 {
		t.Errorf("gaps[0] = %+v, want Strong Leftover at rank 1", gaps[0])
	}
	if gaps[1].Name != "Owned Leftover" || !gaps[1].Owned {
		t.Errorf("gaps[1] = %+v, want owned Owned Leftover", gaps[1])
	}
	if gaps[2].Name != "Weak Leftover" {
		t.Errorf("gaps[2] = %+v, want Weak Leftover", gaps[2])
	}
}

func TestAnalyzeGapsCap(t *testing.T) {
	pool := &Pool{}
	for i := 0; i < 40; i++ {
		pool.All = append(pool.All, CandidateCard{Name: string(rune('A' + i%26)), Inclusion: float64(i)})
	}

	gaps := AnalyzeGaps(pool, &DeckList{}, nil, 15)
	if len(gaps) != 15 {
		t.Errorf("gaps = %d, want capped at 15", len(gaps))
	}
}

func TestAnalyzeGapsTieBreakByName(t *testing.T) {
	pool := &Pool{All: []CandidateCard{
		{Name: "Zebra", Inclusion: 50},
		{Name: "Aardvark", Inclusion: 50},
	}}

	gaps := AnalyzeGaps(pool, &DeckList{}, nil, 15)
	if gaps[0].Name != "Aardvark" {
		t.Errorf("gaps[0] = %s, want Aardvark (name tie-break)", gaps[0].Name)
	}
}
