package builder

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
)

// maxFuzzyDistance is how far a must-include name may be from a pool name
// before it is treated as unresolved.
const maxFuzzyDistance = 2

// AssembleInput carries everything the greedy assembler needs.
type AssembleInput struct {
	Pool    *Pool
	Targets CategoryTargets
	Custom  Customization

	// CommanderNames seed the used-name set so a commander never selects
	// itself.
	CommanderNames []string

	// CommanderIdentity gates cards materialized through ResolveCard; pool
	// candidates were already identity-filtered when the pool was built.
	// Nil skips the check.
	CommanderIdentity []string

	// ResolveCard materializes a must-include name absent from every pool,
	// typically via the card database. Nil disables upstream resolution.
	ResolveCard func(name string) (*cards.Card, bool)
}

// AssembleOutput is the assembler's result. MustIncludeLands are lands the
// user pinned; they are handed to the land builder rather than counted
// against the non-land categories.
type AssembleOutput struct {
	Deck             *DeckList
	Warnings         []Warning
	Deficit          *DeficitReport
	MustIncludeLands []string
}

// Assemble walks each category's ranked pool in a fixed priority order and
// produces the non-land portion of the deck. It never fails: pools too small
// for the targets yield a short deck plus a structured deficit report.
func Assemble(input AssembleInput) *AssembleOutput {
	out := &AssembleOutput{Deck: &DeckList{}}
	if input.Pool == nil || input.Targets.Counts == nil {
		out.Deficit = &DeficitReport{Shortfall: input.Targets.NonLandTotal()}
		return out
	}

	used := make(map[string]bool)
	for _, name := range input.CommanderNames {
		used[name] = true
		used[cards.FrontFaceName(name)] = true
	}
	banned := make(map[string]bool, len(input.Custom.Banned))
	for _, name := range input.Custom.Banned {
		banned[name] = true
		banned[cards.FrontFaceName(name)] = true
	}

	remaining := make(map[string]int, len(input.Targets.Counts))
	for category, count := range input.Targets.Counts {
		remaining[category] = count
	}

	// Must-include cards first, one slot per name.
	for _, name := range input.Custom.MustInclude {
		placeMustInclude(name, input, used, banned, remaining, out)
	}

	// Greedy pass per category, priority order, lands excluded.
	for _, category := range input.Targets.Order {
		pool := input.Pool.ByCategory[category]
		for _, candidate := range pool {
			if remaining[category] <= 0 {
				break
			}
			if used[candidate.Name] || banned[candidate.Name] {
				continue
			}
			used[candidate.Name] = true
			out.Deck.Entries = append(out.Deck.Entries, DeckEntry{
				Name:     candidate.Name,
				Category: category,
				Quantity: 1,
			})
			remaining[category]--
		}
		if remaining[category] > 0 {
			out.Warnings = append(out.Warnings, Warning{
				Code:    WarnPoolExhausted,
				Message: fmt.Sprintf("%s pool exhausted %d short of target; redistributing", category, remaining[category]),
			})
		}
	}

	// Redistribute shortfall into the utility bucket from the global ranked
	// pool; the total-size invariant holds as long as candidates remain.
	shortfall := 0
	for _, category := range input.Targets.Order {
		shortfall += remaining[category]
	}
	for _, candidate := range input.Pool.All {
		if shortfall <= 0 {
			break
		}
		if used[candidate.Name] || banned[candidate.Name] || candidate.Category == CategoryLand {
			continue
		}
		used[candidate.Name] = true
		out.Deck.Entries = append(out.Deck.Entries, DeckEntry{
			Name:     candidate.Name,
			Category: CategoryUtility,
			Quantity: 1,
		})
		// Credit the fill against the highest-priority open gap so the
		// deficit report stays net of redistribution.
		for _, category := range input.Targets.Order {
			if remaining[category] > 0 {
				remaining[category]--
				break
			}
		}
		shortfall--
	}

	if shortfall > 0 {
		deficit := &DeficitReport{Shortfall: shortfall, ByCategory: make(map[string]int)}
		for category, count := range remaining {
			if count > 0 {
				deficit.ByCategory[category] = count
			}
		}
		out.Deficit = deficit
	}

	return out
}

// placeMustInclude places one pinned card, deducting a slot from whichever
// category best matches it. Unresolvable names are reported as a warning,
// never an error.
func placeMustInclude(name string, input AssembleInput, used, banned map[string]bool, remaining map[string]int, out *AssembleOutput) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || used[trimmed] || banned[trimmed] {
		return
	}

	candidate, found := input.Pool.Find(trimmed)
	if !found {
		candidate, found = fuzzyFind(trimmed, input.Pool)
	}

	var cardName, category string
	switch {
	case found:
		cardName = candidate.Name
		category = assemblyCategory(candidate, input.Targets.RolesEnabled)
	case input.ResolveCard != nil:
		card, ok := input.ResolveCard(trimmed)
		if !ok {
			out.Warnings = append(out.Warnings, Warning{
				Code:     WarnUnresolvedMustInclude,
				Message:  fmt.Sprintf("must-include card %q not found in any pool or upstream source", trimmed),
				CardName: trimmed,
			})
			return
		}
		if input.CommanderIdentity != nil && !cards.IsBasicLand(card.Name) &&
			!cards.WithinIdentity(card.ColorIdentity, input.CommanderIdentity) {
			out.Warnings = append(out.Warnings, Warning{
				Code:     WarnOutOfIdentityMustInclude,
				Message:  fmt.Sprintf("must-include card %q is outside the commander's color identity; dropped", card.Name),
				CardName: card.Name,
			})
			return
		}
		cardName = card.Name
		category = normalizeCategory(cards.PrimaryType(card.TypeLine))
		if input.Targets.RolesEnabled && category != CategoryCreature && category != CategoryLand {
			category = CategoryUtility
		}
	default:
		out.Warnings = append(out.Warnings, Warning{
			Code:     WarnUnresolvedMustInclude,
			Message:  fmt.Sprintf("must-include card %q not found in any pool", trimmed),
			CardName: trimmed,
		})
		return
	}

	if used[cardName] || banned[cardName] {
		return
	}
	used[cardName] = true

	// Pinned lands belong to the mana base, not the category plan.
	if category == CategoryLand {
		out.MustIncludeLands = append(out.MustIncludeLands, cardName)
		return
	}

	deductFrom := category
	if remaining[deductFrom] <= 0 {
		deductFrom = CategoryUtility
	}
	if remaining[deductFrom] <= 0 {
		for _, fallback := range input.Targets.Order {
			if remaining[fallback] > 0 {
				deductFrom = fallback
				break
			}
		}
	}
	if remaining[deductFrom] > 0 {
		remaining[deductFrom]--
	}

	out.Deck.Entries = append(out.Deck.Entries, DeckEntry{
		Name:     cardName,
		Category: category,
		Quantity: 1,
	})
}

// fuzzyFind locates a pool candidate whose name is within a small edit
// distance of the requested name. Ties go to the higher-ranked candidate.
func fuzzyFind(name string, pool *Pool) (CandidateCard, bool) {
	lower := strings.ToLower(name)
	bestDistance := maxFuzzyDistance + 1
	var best CandidateCard
	found := false

	for _, candidate := range pool.All {
		distance := levenshtein.ComputeDistance(lower, strings.ToLower(candidate.Name))
		if distance < bestDistance {
			bestDistance = distance
			best = candidate
			found = true
		}
	}

	if !found || bestDistance > maxFuzzyDistance {
		return CandidateCard{}, false
	}
	return best, true
}
