package builder

import "sort"

// AnalyzeGaps ranks pool candidates left out of the final deck. The list is
// what the UI presents as "cards to consider", so it stays small.
func AnalyzeGaps(pool *Pool, deck *DeckList, owned map[string]bool, limit int) []GapCard {
	if pool == nil || deck == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultTunables().GapDisplayCount
	}

	inDeck := make(map[string]bool, len(deck.Entries))
	for _, entry := range deck.Entries {
		inDeck[entry.Name] = true
	}

	var gaps []GapCard
	for _, candidate := range pool.All {
		if inDeck[candidate.Name] {
			continue
		}
		gaps = append(gaps, GapCard{
			Name:      candidate.Name,
			Category:  candidate.Category,
			Inclusion: candidate.Inclusion,
			Owned:     owned[candidate.Name],
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Inclusion != gaps[j].Inclusion {
			return gaps[i].Inclusion > gaps[j].Inclusion
		}
		return gaps[i].Name < gaps[j].Name
	})
	if len(gaps) > limit {
		gaps = gaps[:limit]
	}
	for i := range gaps {
		gaps[i].Rank = i + 1
	}
	return gaps
}
