package builder

import (
	"sort"
	"strings"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
	"github.com/ramonehamilton/edh-architect/internal/mtg/edhrec"
	"github.com/ramonehamilton/edh-architect/internal/tagger"
)

// Pool is the deduplicated, ranked candidate set for one generation run.
type Pool struct {
	// ByCategory holds each assembly category's ranked list, best first.
	ByCategory map[string][]CandidateCard

	// All is the aggregate candidate list (deduplicated), for gap analysis.
	All []CandidateCard

	// RolesEnabled records whether functional sub-role pools were built.
	RolesEnabled bool
}

// PoolOptions configures pool assembly.
type PoolOptions struct {
	// CommanderIdentity is the (merged, for partners) color identity filter.
	CommanderIdentity []string

	// CardsByName resolves provider names to full card metadata. Names that
	// do not resolve are dropped: their color identity cannot be verified.
	CardsByName map[string]*cards.Card

	// Owned is the collection name set. Nil disables ownership handling.
	Owned map[string]bool

	// OwnedOnly drops non-owned cards instead of annotating them.
	OwnedOnly bool

	// MaxCardPrice drops cards above the per-card budget cap (0 = no cap).
	MaxCardPrice float64

	// ThemeKeywordSets holds one keyword set per selected theme. The synergy
	// boost applies only when every non-empty set matches the card's text.
	ThemeKeywordSets [][]string

	// Roles is the optional role source. When it has data, functional
	// sub-role pools are carved out of the non-creature categories.
	Roles tagger.Source
}

// BuildPool merges one or more provider responses into ranked per-category
// candidate lists. Ordering is fully deterministic: synergy-boosted cards
// first, then inclusion rate descending, raw deck count descending, name
// ascending.
func BuildPool(sources []*edhrec.CommanderData, opts PoolOptions) *Pool {
	if opts.Roles == nil {
		opts.Roles = tagger.Null{}
	}

	highSynergy := make(map[string]bool)
	for _, source := range sources {
		if source == nil {
			continue
		}
		for _, entry := range source.HighSynergy {
			highSynergy[entry.Name] = true
		}
	}

	// Dedupe across lists: a repeated name keeps the higher-inclusion entry.
	best := make(map[string]CandidateCard)
	for _, source := range sources {
		if source == nil {
			continue
		}
		for _, list := range source.CardLists {
			for _, entry := range list.Cards {
				candidate, ok := buildCandidate(entry, list.Tag, highSynergy[entry.Name], opts)
				if !ok {
					continue
				}
				if existing, exists := best[candidate.Name]; exists && existing.Inclusion >= candidate.Inclusion {
					continue
				}
				best[candidate.Name] = candidate
			}
		}
		for _, entry := range source.HighSynergy {
			candidate, ok := buildCandidate(entry, CategoryUnknown, true, opts)
			if !ok {
				continue
			}
			if existing, exists := best[candidate.Name]; exists && existing.Inclusion >= candidate.Inclusion {
				continue
			}
			best[candidate.Name] = candidate
		}
	}

	pool := &Pool{
		ByCategory:   make(map[string][]CandidateCard),
		RolesEnabled: opts.Roles.Available(),
	}

	for _, candidate := range best {
		pool.All = append(pool.All, candidate)
		category := assemblyCategory(candidate, pool.RolesEnabled)
		pool.ByCategory[category] = append(pool.ByCategory[category], candidate)
	}

	for category := range pool.ByCategory {
		rankCandidates(pool.ByCategory[category])
	}
	rankCandidates(pool.All)

	return pool
}

// buildCandidate converts one raw provider entry into a CandidateCard,
// applying the color identity, ownership, and budget filters. The second
// return is false when the entry is filtered out.
func buildCandidate(entry edhrec.CardEntry, listTag string, synergyList bool, opts PoolOptions) (CandidateCard, bool) {
	card, ok := opts.CardsByName[entry.Name]
	if !ok {
		card = opts.CardsByName[cards.FrontFaceName(entry.Name)]
	}
	if card == nil {
		return CandidateCard{}, false
	}

	if !cards.WithinIdentity(card.ColorIdentity, opts.CommanderIdentity) {
		return CandidateCard{}, false
	}

	owned := opts.Owned != nil && (opts.Owned[card.Name] || opts.Owned[cards.FrontFaceName(card.Name)])
	if opts.OwnedOnly && !owned {
		return CandidateCard{}, false
	}

	price := entry.PriceUSD
	if price == 0 {
		price = card.PriceUSD
	}
	if opts.MaxCardPrice > 0 && price > opts.MaxCardPrice {
		return CandidateCard{}, false
	}

	category := listTag
	if category == CategoryUnknown || category == "" {
		category = cards.PrimaryType(card.TypeLine)
	}

	candidate := CandidateCard{
		Card:      card,
		Name:      card.Name,
		Inclusion: entry.InclusionRate(),
		DeckCount: entry.DeckCount,
		Category:  category,
		Role:      opts.Roles.Role(card.Name),
		Owned:     owned,
		PriceUSD:  price,
	}
	candidate.SynergyBoosted = synergyList && themeKeywordsMatch(card, opts.ThemeKeywordSets)

	return candidate, true
}

// themeKeywordsMatch reports whether every non-empty theme keyword set has at
// least one keyword in the card's text. With no selected themes there is
// nothing to contradict, so high-synergy cards keep their boost.
func themeKeywordsMatch(card *cards.Card, keywordSets [][]string) bool {
	text := strings.ToLower(card.TypeLine)
	if card.OracleText != nil {
		text += " " + strings.ToLower(*card.OracleText)
	}

	for _, set := range keywordSets {
		if len(set) == 0 {
			continue
		}
		matched := false
		for _, keyword := range set {
			if strings.Contains(text, strings.ToLower(keyword)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// assemblyCategory maps a candidate onto the pool it is drawn from during
// assembly. With role data, non-creature non-land cards split into
// functional sub-role pools.
func assemblyCategory(candidate CandidateCard, rolesEnabled bool) string {
	if candidate.Category == CategoryLand {
		return CategoryLand
	}
	if !rolesEnabled || candidate.Category == CategoryCreature {
		return normalizeCategory(candidate.Category)
	}

	switch candidate.Role {
	case tagger.RoleRamp:
		return CategoryRamp
	case tagger.RoleCardDraw:
		return CategoryDraw
	case tagger.RoleRemoval:
		return CategoryRemoval
	case tagger.RoleBoardWipe:
		return CategoryWipes
	}
	if candidate.SynergyBoosted {
		return CategorySynergy
	}
	return CategoryUtility
}

// normalizeCategory folds unknown categories into utility so nothing is
// stranded in an unassembled pool.
func normalizeCategory(category string) string {
	switch category {
	case CategoryCreature, CategoryInstant, CategorySorcery, CategoryArtifact,
		CategoryEnchantment, CategoryPlaneswalker, CategoryLand:
		return category
	}
	return CategoryUtility
}

// rankCandidates sorts a candidate list in place into assembly order.
func rankCandidates(candidates []CandidateCard) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.SynergyBoosted != b.SynergyBoosted {
			return a.SynergyBoosted
		}
		if a.Inclusion != b.Inclusion {
			return a.Inclusion > b.Inclusion
		}
		if a.DeckCount != b.DeckCount {
			return a.DeckCount > b.DeckCount
		}
		return a.Name < b.Name
	})
}

// Lands returns the ranked land pool.
func (p *Pool) Lands() []CandidateCard {
	return p.ByCategory[CategoryLand]
}

// Find locates a candidate by exact name across all pools.
func (p *Pool) Find(name string) (CandidateCard, bool) {
	for _, candidate := range p.All {
		if candidate.Name == name {
			return candidate, true
		}
	}
	return CandidateCard{}, false
}
