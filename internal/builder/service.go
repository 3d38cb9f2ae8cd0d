package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ramonehamilton/edh-architect/internal/archetype"
	"github.com/ramonehamilton/edh-architect/internal/combodb"
	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
	"github.com/ramonehamilton/edh-architect/internal/mtg/edhrec"
	"github.com/ramonehamilton/edh-architect/internal/tagger"
	"github.com/ramonehamilton/edh-architect/internal/themes"
)

// ErrNoCommander is returned for a blank or unresolvable commander reference.
var ErrNoCommander = errors.New("builder: no usable commander")

// RecommendationProvider supplies commander pages from the recommendation
// service.
type RecommendationProvider interface {
	FetchCommanderData(ctx context.Context, commander, theme string) (*edhrec.CommanderData, error)
	FetchPartnerData(ctx context.Context, commander, partner string) (*edhrec.CommanderData, error)
}

// CardDatabase resolves card names to full metadata.
type CardDatabase interface {
	GetCardByName(ctx context.Context, name string) (*cards.Card, error)
	GetCardByFuzzyName(ctx context.Context, name string) (*cards.Card, error)
	GetCardsByNames(ctx context.Context, names []string) (map[string]*cards.Card, []string, error)
}

// Inventory is the local collection.
type Inventory interface {
	OwnedNames(ctx context.Context) (map[string]bool, error)
}

// ComboSource provides the current combo database snapshot.
type ComboSource interface {
	Combos() []combodb.Combo
}

// Request is one deck generation request.
type Request struct {
	Commander string
	Partner   string
	Custom    Customization
}

// Service orchestrates a full generation run: fetch, filter, allocate,
// assemble, analyze.
type Service struct {
	provider  RecommendationProvider
	cardDB    CardDatabase
	inventory Inventory
	roles     tagger.Source
	combos    ComboSource
	detector  *archetype.Detector
	tunables  Tunables
	logger    *slog.Logger
}

// ServiceOptions wires the service's collaborators. Inventory, Roles, and
// Combos are optional.
type ServiceOptions struct {
	Provider  RecommendationProvider
	CardDB    CardDatabase
	Inventory Inventory
	Roles     tagger.Source
	Combos    ComboSource
	Tunables  *Tunables
	Logger    *slog.Logger
}

func NewService(opts ServiceOptions) *Service {
	tunables := DefaultTunables()
	if opts.Tunables != nil {
		tunables = *opts.Tunables
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	roles := opts.Roles
	if roles == nil {
		roles = tagger.Null{}
	}
	return &Service{
		provider:  opts.Provider,
		cardDB:    opts.CardDB,
		inventory: opts.Inventory,
		roles:     roles,
		combos:    opts.Combos,
		detector:  archetype.NewDetector(archetype.DefaultSignatures()),
		tunables:  tunables,
		logger:    logger,
	}
}

// GenerateDeck runs one complete generation. Expected failure modes come back
// inside the Result as warnings and a deficit report; an error means the
// commander reference itself was unusable.
func (s *Service) GenerateDeck(ctx context.Context, req Request) (*Result, error) {
	commander := strings.TrimSpace(req.Commander)
	if commander == "" {
		return nil, fmt.Errorf("%w: empty commander name", ErrNoCommander)
	}
	partner := strings.TrimSpace(req.Partner)

	var warnings []Warning

	commanderCards, commanderNames := s.resolveCommanders(ctx, commander, partner)

	selected, themeWarnings := selectThemes(req.Custom.Themes)
	warnings = append(warnings, themeWarnings...)

	sources, fetchWarnings := s.fetchSources(ctx, commander, partner, selected)
	warnings = append(warnings, fetchWarnings...)

	identity := commanderIdentity(commanderCards, sources.pool)
	if identity == nil {
		return nil, fmt.Errorf("%w: %q has no resolvable color identity", ErrNoCommander, commander)
	}

	stats := s.aggregateStats(sources, &warnings)

	cardsByName := s.resolveCandidates(ctx, sources.pool, &warnings)

	owned := s.ownedNames(ctx, &warnings)

	keywordSets := make([][]string, 0, len(selected))
	for _, theme := range selected {
		if query, ok := themes.Lookup(theme); ok {
			keywordSets = append(keywordSets, query.Keywords)
		}
	}

	pool := BuildPool(sources.pool, PoolOptions{
		CommanderIdentity: identity,
		CardsByName:       cardsByName,
		Owned:             owned,
		OwnedOnly:         req.Custom.OwnedOnly,
		MaxCardPrice:      req.Custom.MaxCardPrice,
		ThemeKeywordSets:  keywordSets,
		Roles:             s.roles,
	})

	landShift := 0
	if len(commanderCards) > 0 {
		landShift = s.detector.DefaultLandShift(commanderCards[0])
	}

	targets := Allocate(stats, req.Custom, len(commanderNames), landShift, pool.RolesEnabled, s.tunables)

	assembled := Assemble(AssembleInput{
		Pool:              pool,
		Targets:           targets,
		Custom:            req.Custom,
		CommanderNames:    commanderNames,
		CommanderIdentity: identity,
		ResolveCard:       s.mustIncludeResolver(ctx),
	})
	warnings = append(warnings, assembled.Warnings...)

	deck := assembled.Deck
	deck.Entries = append(deck.Entries, BuildLands(LandInput{
		Pool:              pool,
		Targets:           targets,
		Deck:              deck,
		CommanderCards:    commanderCards,
		CommanderIdentity: identity,
		MustIncludeLands:  assembled.MustIncludeLands,
		Banned:            req.Custom.Banned,
	})...)

	result := &Result{
		Deck:              deck,
		Targets:           targets,
		CategoryBreakdown: breakdown(deck),
		ManaCurve:         stats.ManaCurve,
		Gaps:              AnalyzeGaps(pool, deck, owned, s.tunables.GapDisplayCount),
		Warnings:          warnings,
		Deficit:           assembled.Deficit,
	}
	if s.combos != nil {
		combos := s.combos.Combos()
		if req.Custom.Bracket > 0 {
			combos = filterBracket(combos, req.Custom.Bracket)
		}
		result.Combos = DetectCombos(deck, commanderNames, req.Custom.Banned, combos, s.tunables.ComboMinOverlap)
	}
	return result, nil
}

// resolveCommanders looks up full card metadata for the commander and
// optional partner. Lookup failures are tolerated here; identity can still
// come from provider data.
func (s *Service) resolveCommanders(ctx context.Context, commander, partner string) ([]*cards.Card, []string) {
	names := []string{commander}
	if partner != "" {
		names = append(names, partner)
	}
	var resolved []*cards.Card
	for _, name := range names {
		card, err := s.cardDB.GetCardByName(ctx, name)
		if err != nil {
			card, err = s.cardDB.GetCardByFuzzyName(ctx, name)
		}
		if err != nil {
			s.logger.Warn("commander lookup failed", "name", name, "error", err)
			continue
		}
		resolved = append(resolved, card)
	}
	return resolved, names
}

// selectThemes keeps at most two known themes, warning about the rest.
func selectThemes(requested []string) ([]string, []Warning) {
	var selected []string
	var warnings []Warning
	for _, theme := range requested {
		theme = strings.TrimSpace(theme)
		if theme == "" {
			continue
		}
		if !themes.Known(theme) {
			warnings = append(warnings, Warning{
				Code:    WarnUnknownTheme,
				Message: fmt.Sprintf("theme %q has no query mapping; ignored", theme),
			})
			continue
		}
		if len(selected) < 2 {
			selected = append(selected, theme)
		}
	}
	return selected, warnings
}

// sourceSet splits the fetched provider pages by use. Every page enriches
// the candidate pool, but only the most specific pages (themed pages when
// themes are selected, the partner page for a pair) drive the slot-plan
// statistics. The base commander page carries statistics only when no more
// specific page exists.
type sourceSet struct {
	pool  []*edhrec.CommanderData
	stats []*edhrec.CommanderData
}

// fetchSources gathers the provider pages for the run: the partner page when
// a partner is set, the base commander page, and one themed page per selected
// theme. Each fetch failure degrades to a warning.
func (s *Service) fetchSources(ctx context.Context, commander, partner string, selected []string) (sourceSet, []Warning) {
	var set sourceSet
	var warnings []Warning

	record := func(data *edhrec.CommanderData, err error, what string, forStats bool) {
		if err != nil {
			s.logger.Warn("recommendation fetch failed", "page", what, "error", err)
			warnings = append(warnings, Warning{
				Code:    WarnUpstreamUnavailable,
				Message: fmt.Sprintf("recommendation data for %s unavailable: %v", what, err),
			})
			return
		}
		set.pool = append(set.pool, data)
		if forStats {
			set.stats = append(set.stats, data)
		}
	}

	specific := partner != "" || len(selected) > 0

	if partner != "" {
		data, err := s.provider.FetchPartnerData(ctx, commander, partner)
		record(data, err, commander+" + "+partner, true)
	}

	data, err := s.provider.FetchCommanderData(ctx, commander, "")
	record(data, err, commander, !specific)

	for _, theme := range selected {
		data, err := s.provider.FetchCommanderData(ctx, commander, edhrec.Slugify(theme))
		record(data, err, commander+" ("+theme+")", true)
	}
	return set, warnings
}

// commanderIdentity merges the resolved commander cards' identities, falling
// back to nothing when no card resolved and no provider data exists. An empty
// non-nil slice is a valid colorless identity.
func commanderIdentity(commanderCards []*cards.Card, sources []*edhrec.CommanderData) []string {
	if len(commanderCards) > 0 {
		merged := commanderCards[0].ColorIdentity
		for _, card := range commanderCards[1:] {
			merged = cards.MergeIdentities(merged, card.ColorIdentity)
		}
		if merged == nil {
			merged = []string{}
		}
		return merged
	}
	if len(sources) > 0 {
		// Provider data exists but the card database is down. Identity
		// filtering already happened upstream, so accept everything.
		return cards.WUBRG
	}
	return nil
}

func (s *Service) aggregateStats(sources sourceSet, warnings *[]Warning) *Stats {
	stats := AggregateStats(deckStats(sources.stats)...)
	if stats.Fallback && len(sources.stats) < len(sources.pool) {
		// The specific pages failed or carried no statistics; use the base
		// commander page before resorting to format defaults.
		stats = AggregateStats(deckStats(sources.pool)...)
	}
	if stats.Fallback {
		*warnings = append(*warnings, Warning{
			Code:    WarnUpstreamUnavailable,
			Message: "no usable deck statistics; using format-average defaults",
		})
	}
	return stats
}

func deckStats(sources []*edhrec.CommanderData) []*edhrec.DeckStats {
	out := make([]*edhrec.DeckStats, 0, len(sources))
	for _, source := range sources {
		out = append(out, source.Stats)
	}
	return out
}

// resolveCandidates batch-fetches card metadata for every name the provider
// recommended. A failed batch degrades to an empty map; the pool then drops
// the unverifiable names.
func (s *Service) resolveCandidates(ctx context.Context, sources []*edhrec.CommanderData, warnings *[]Warning) map[string]*cards.Card {
	seen := make(map[string]bool)
	var names []string
	addEntry := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, source := range sources {
		for _, list := range source.CardLists {
			for _, entry := range list.Cards {
				addEntry(entry.Name)
			}
		}
		for _, entry := range source.HighSynergy {
			addEntry(entry.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}

	byName, notFound, err := s.cardDB.GetCardsByNames(ctx, names)
	if err != nil {
		s.logger.Warn("candidate batch lookup failed", "names", len(names), "error", err)
		*warnings = append(*warnings, Warning{
			Code:    WarnUpstreamUnavailable,
			Message: fmt.Sprintf("card database unavailable for %d candidates: %v", len(names), err),
		})
		return nil
	}
	if len(notFound) > 0 {
		s.logger.Debug("candidates not found in card database", "count", len(notFound))
	}
	return byName
}

func (s *Service) ownedNames(ctx context.Context, warnings *[]Warning) map[string]bool {
	if s.inventory == nil {
		return nil
	}
	owned, err := s.inventory.OwnedNames(ctx)
	if err != nil {
		s.logger.Warn("collection lookup failed", "error", err)
		*warnings = append(*warnings, Warning{
			Code:    WarnUpstreamUnavailable,
			Message: fmt.Sprintf("collection unavailable: %v", err),
		})
		return nil
	}
	return owned
}

// mustIncludeResolver resolves pinned names that never appeared in any pool,
// exact lookup first and fuzzy second.
func (s *Service) mustIncludeResolver(ctx context.Context) func(name string) (*cards.Card, bool) {
	return func(name string) (*cards.Card, bool) {
		card, err := s.cardDB.GetCardByName(ctx, name)
		if err != nil {
			card, err = s.cardDB.GetCardByFuzzyName(ctx, name)
		}
		if err != nil {
			return nil, false
		}
		return card, true
	}
}

func breakdown(deck *DeckList) map[string]int {
	counts := make(map[string]int)
	for _, entry := range deck.Entries {
		counts[entry.Category] += entry.Quantity
	}
	return counts
}

func filterBracket(combos []combodb.Combo, bracket int) []combodb.Combo {
	filtered := make([]combodb.Combo, 0, len(combos))
	for _, combo := range combos {
		if combo.Bracket == 0 || combo.Bracket <= bracket {
			filtered = append(filtered, combo)
		}
	}
	return filtered
}
