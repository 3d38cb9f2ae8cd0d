package builder

import (
	"github.com/ramonehamilton/edh-architect/internal/mtg/edhrec"
)

// Stats is the aggregated statistics bundle the allocator consumes.
type Stats struct {
	// TypeDistribution maps each type category (including land) to its
	// average card count.
	TypeDistribution map[string]float64

	// ManaCurve maps mana value (7 groups 7+) to average card count.
	ManaCurve map[int]float64

	BasicLands    float64
	NonBasicLands float64
	AvgDeckSize   float64

	// Fallback is set when no upstream statistics were available and the
	// documented default profile was used instead.
	Fallback bool
}

// FallbackStats returns the fixed default profile used when every upstream
// statistics source failed. Deck generation never hard-fails on missing
// stats. The numbers are a conventional 99-card shape: 37 lands, a creature
// -leaning spell mix, and a curve peaking at three.
func FallbackStats() *Stats {
	return &Stats{
		TypeDistribution: map[string]float64{
			CategoryCreature:     28,
			CategoryInstant:      9,
			CategorySorcery:      9,
			CategoryArtifact:     9,
			CategoryEnchantment:  6,
			CategoryPlaneswalker: 1,
			CategoryLand:         37,
		},
		ManaCurve: map[int]float64{
			0: 1, 1: 8, 2: 13, 3: 14, 4: 10, 5: 8, 6: 5, 7: 3,
		},
		BasicLands:    22,
		NonBasicLands: 15,
		AvgDeckSize:   99,
		Fallback:      true,
	}
}

// AggregateStats merges one or two provider statistics bundles into a single
// Stats. Two sources (two themes, or two partner commanders) combine by
// arithmetic mean per numeric field; a single surviving source is used alone;
// no source at all yields the fallback profile.
func AggregateStats(sources ...*edhrec.DeckStats) *Stats {
	var usable []*edhrec.DeckStats
	for _, src := range sources {
		if src != nil {
			usable = append(usable, src)
		}
	}

	if len(usable) == 0 {
		return FallbackStats()
	}

	n := float64(len(usable))
	stats := &Stats{
		TypeDistribution: make(map[string]float64, 7),
		ManaCurve:        make(map[int]float64, 8),
	}

	for _, src := range usable {
		stats.TypeDistribution[CategoryCreature] += src.Creature
		stats.TypeDistribution[CategoryInstant] += src.Instant
		stats.TypeDistribution[CategorySorcery] += src.Sorcery
		stats.TypeDistribution[CategoryArtifact] += src.Artifact
		stats.TypeDistribution[CategoryEnchantment] += src.Enchantment
		stats.TypeDistribution[CategoryPlaneswalker] += src.Planeswalker
		stats.TypeDistribution[CategoryLand] += src.Land
		stats.BasicLands += src.BasicLands
		stats.NonBasicLands += src.NonBasicLands
		stats.AvgDeckSize += src.AvgDeckSize
		for mv, count := range src.ManaCurve {
			stats.ManaCurve[mv] += count
		}
	}

	for category := range stats.TypeDistribution {
		stats.TypeDistribution[category] /= n
	}
	for mv := range stats.ManaCurve {
		stats.ManaCurve[mv] /= n
	}
	stats.BasicLands /= n
	stats.NonBasicLands /= n
	stats.AvgDeckSize /= n

	// Pages sometimes carry card lists without deck statistics. Treat an
	// all-zero distribution as missing.
	total := 0.0
	for _, count := range stats.TypeDistribution {
		total += count
	}
	if total == 0 {
		return FallbackStats()
	}

	return stats
}

// DefaultLandCount derives the land slider default from stats, rounding to
// the nearest integer.
func (s *Stats) DefaultLandCount() int {
	return int(s.TypeDistribution[CategoryLand] + 0.5)
}

// DefaultNonBasicCount derives the nonbasic land default from stats.
func (s *Stats) DefaultNonBasicCount() int {
	return int(s.NonBasicLands + 0.5)
}
