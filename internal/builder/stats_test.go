package builder

import (
	"testing"

	"github.com/ramonehamilton/edh-architect/internal/mtg/edhrec"
)

func TestAggregateStatsNoSources(t *testing.T) {
	stats := AggregateStats()
	if !stats.Fallback {
		t.Error("Fallback = false, want true")
	}
	if stats.TypeDistribution[CategoryLand] != 37 {
		t.Errorf("land distribution = %v, want 37", stats.TypeDistribution[CategoryLand])
	}

	stats = AggregateStats(nil, nil)
	if !stats.Fallback {
		t.Error("Fallback = false with all-nil sources, want true")
	}
}

func TestAggregateStatsSingleSource(t *testing.T) {
	stats := AggregateStats(&edhrec.DeckStats{
		Creature:      30,
		Instant:       8,
		Land:          36,
		NonBasicLands: 20,
		AvgDeckSize:   99,
		ManaCurve:     map[int]float64{2: 12, 3: 15},
	})

	if stats.Fallback {
		t.Error("Fallback = true, want false")
	}
	if stats.TypeDistribution[CategoryCreature] != 30 {
		t.Errorf("creature = %v, want 30", stats.TypeDistribution[CategoryCreature])
	}
	if stats.ManaCurve[3] != 15 {
		t.Errorf("curve[3] = %v, want 15", stats.ManaCurve[3])
	}
}

func TestAggregateStatsMeansTwoSources(t *testing.T) {
	stats := AggregateStats(
		&edhrec.DeckStats{Creature: 30, Land: 38, NonBasicLands: 20, ManaCurve: map[int]float64{2: 10}},
		&edhrec.DeckStats{Creature: 20, Land: 34, NonBasicLands: 10, ManaCurve: map[int]float64{2: 14, 3: 8}},
	)

	if stats.TypeDistribution[CategoryCreature] != 25 {
		t.Errorf("creature = %v, want 25", stats.TypeDistribution[CategoryCreature])
	}
	if stats.TypeDistribution[CategoryLand] != 36 {
		t.Errorf("land = %v, want 36", stats.TypeDistribution[CategoryLand])
	}
	if stats.NonBasicLands != 15 {
		t.Errorf("nonbasic = %v, want 15", stats.NonBasicLands)
	}
	if stats.ManaCurve[2] != 12 {
		t.Errorf("curve[2] = %v, want 12", stats.ManaCurve[2])
	}
	// A value present in only one source still averages over both.
	if stats.ManaCurve[3] != 4 {
		t.Errorf("curve[3] = %v, want 4", stats.ManaCurve[3])
	}
}

func TestAggregateStatsAllZeroFallsBack(t *testing.T) {
	stats := AggregateStats(&edhrec.DeckStats{})
	if !stats.Fallback {
		t.Error("Fallback = false for empty stats, want true")
	}
}

func TestDefaultCounts(t *testing.T) {
	stats := &Stats{
		TypeDistribution: map[string]float64{CategoryLand: 36.6},
		NonBasicLands:    17.2,
	}
	if got := stats.DefaultLandCount(); got != 37 {
		t.Errorf("DefaultLandCount() = %d, want 37", got)
	}
	if got := stats.DefaultNonBasicCount(); got != 17 {
		t.Errorf("DefaultNonBasicCount() = %d, want 17", got)
	}
}
