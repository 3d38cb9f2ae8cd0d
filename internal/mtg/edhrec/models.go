package edhrec

import (
	"fmt"
	"strings"
)

// CommanderData is the validated, strongly-typed view of a commander page.
// Raw provider JSON never leaves this package.
type CommanderData struct {
	Name              string      `json:"name"`
	Themes            []ThemeRef  `json:"themes"`
	Stats             *DeckStats  `json:"stats,omitempty"`
	CardLists         []CardList  `json:"cardlists"`
	HighSynergy       []CardEntry `json:"high_synergy"`
	SimilarCommanders []string    `json:"similar_commanders"`
}

// ThemeRef is a theme suggested for a commander, with how many decks run it.
type ThemeRef struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	DeckCount int    `json:"deck_count"`
}

// CardList is a category-tagged ranked list of recommended cards.
type CardList struct {
	Tag   string      `json:"tag"` // creature, instant, sorcery, artifact, enchantment, planeswalker, land, or utility tags
	Cards []CardEntry `json:"cards"`
}

// CardEntry is a single recommended card with its popularity numbers.
type CardEntry struct {
	Name           string  `json:"name"`
	DeckCount      int     `json:"num_decks"`
	PotentialDecks int     `json:"potential_decks"`
	Synergy        float64 `json:"synergy"`
	PriceUSD       float64 `json:"price_usd"`
}

// InclusionRate computes the percentage of eligible decks running the card.
// Guards the divide by zero from decks with no potential-deck data.
func (e CardEntry) InclusionRate() float64 {
	if e.PotentialDecks <= 0 {
		return 0
	}
	return float64(e.DeckCount) / float64(e.PotentialDecks) * 100
}

// DeckStats carries the average deck shape for a commander or theme.
type DeckStats struct {
	// Average card counts per type category.
	Creature     float64 `json:"creature"`
	Instant      float64 `json:"instant"`
	Sorcery      float64 `json:"sorcery"`
	Artifact     float64 `json:"artifact"`
	Enchantment  float64 `json:"enchantment"`
	Planeswalker float64 `json:"planeswalker"`
	Land         float64 `json:"land"`

	// Average mana curve: mana value -> card count. Values of 7 and above are
	// grouped under 7.
	ManaCurve map[int]float64 `json:"mana_curve"`

	// Land split
	BasicLands    float64 `json:"basic_lands"`
	NonBasicLands float64 `json:"nonbasic_lands"`

	AvgDeckSize float64 `json:"avg_deck_size"`
}

// rawPage mirrors the provider's JSON page shape before validation.
type rawPage struct {
	Redirect  string `json:"redirect,omitempty"`
	Container struct {
		JSONDict struct {
			Card struct {
				Name string `json:"name"`
			} `json:"card"`
			CardLists []rawCardList `json:"cardlists"`
		} `json:"json_dict"`
	} `json:"container"`
	Panels struct {
		TribeLinks []rawThemeLink `json:"tribelinks"`
		Taglinks   []rawThemeLink `json:"taglinks"`
		Stats      *rawStats      `json:"deckstats,omitempty"`
	} `json:"panels"`
	SimilarCommanders []struct {
		Name string `json:"name"`
	} `json:"similar"`
}

type rawCardList struct {
	Header    string `json:"header"`
	Tag       string `json:"tag"`
	CardViews []struct {
		Name           string  `json:"name"`
		NumDecks       int     `json:"num_decks"`
		PotentialDecks int     `json:"potential_decks"`
		Synergy        float64 `json:"synergy"`
		Prices         struct {
			USD float64 `json:"usd"`
		} `json:"prices"`
	} `json:"cardviews"`
}

type rawThemeLink struct {
	Value    string `json:"value"`
	Slug     string `json:"slug"`
	Count    int    `json:"count"`
	HrefPath string `json:"href-path"`
}

type rawStats struct {
	Creature     float64            `json:"creature"`
	Instant      float64            `json:"instant"`
	Sorcery      float64            `json:"sorcery"`
	Artifact     float64            `json:"artifact"`
	Enchantment  float64            `json:"enchantment"`
	Planeswalker float64            `json:"planeswalker"`
	Land         float64            `json:"land"`
	Basic        float64            `json:"basic"`
	NonBasic     float64            `json:"nonbasic"`
	AvgDeckSize  float64            `json:"avg_deck_size"`
	ManaCurve    map[string]float64 `json:"mana_curve"`
}

// synergyHeaders are the provider list headers whose cards receive the
// synergy boost during pool assembly.
var synergyHeaders = []string{"high synergy cards", "top cards", "game changers"}

// validate converts a raw page into CommanderData, dropping malformed entries
// instead of failing the whole page.
func (p *rawPage) validate() (*CommanderData, error) {
	name := strings.TrimSpace(p.Container.JSONDict.Card.Name)
	if name == "" && len(p.Container.JSONDict.CardLists) == 0 {
		return nil, fmt.Errorf("provider page has no commander and no card lists")
	}

	data := &CommanderData{Name: name}

	for _, link := range append(p.Panels.TribeLinks, p.Panels.Taglinks...) {
		if link.Value == "" {
			continue
		}
		slug := link.Slug
		if slug == "" {
			slug = Slugify(link.Value)
		}
		data.Themes = append(data.Themes, ThemeRef{
			Name:      link.Value,
			Slug:      slug,
			DeckCount: link.Count,
		})
	}

	for _, raw := range p.Container.JSONDict.CardLists {
		list := CardList{Tag: normalizeListTag(raw.Tag, raw.Header)}
		for _, view := range raw.CardViews {
			if view.Name == "" {
				continue
			}
			list.Cards = append(list.Cards, CardEntry{
				Name:           view.Name,
				DeckCount:      view.NumDecks,
				PotentialDecks: view.PotentialDecks,
				Synergy:        view.Synergy,
				PriceUSD:       view.Prices.USD,
			})
		}
		if isSynergyHeader(raw.Header) {
			data.HighSynergy = append(data.HighSynergy, list.Cards...)
			continue
		}
		if len(list.Cards) > 0 {
			data.CardLists = append(data.CardLists, list)
		}
	}

	if p.Panels.Stats != nil {
		data.Stats = p.Panels.Stats.validate()
	}

	for _, similar := range p.SimilarCommanders {
		if similar.Name != "" {
			data.SimilarCommanders = append(data.SimilarCommanders, similar.Name)
		}
	}

	return data, nil
}

func (s *rawStats) validate() *DeckStats {
	stats := &DeckStats{
		Creature:      s.Creature,
		Instant:       s.Instant,
		Sorcery:       s.Sorcery,
		Artifact:      s.Artifact,
		Enchantment:   s.Enchantment,
		Planeswalker:  s.Planeswalker,
		Land:          s.Land,
		BasicLands:    s.Basic,
		NonBasicLands: s.NonBasic,
		AvgDeckSize:   s.AvgDeckSize,
		ManaCurve:     make(map[int]float64),
	}
	for key, count := range s.ManaCurve {
		mv := 0
		if _, err := fmt.Sscanf(key, "%d", &mv); err != nil {
			continue
		}
		if mv > 7 {
			mv = 7
		}
		stats.ManaCurve[mv] += count
	}
	return stats
}

func isSynergyHeader(header string) bool {
	lower := strings.ToLower(strings.TrimSpace(header))
	for _, h := range synergyHeaders {
		if strings.HasPrefix(lower, h) {
			return true
		}
	}
	return false
}

// normalizeListTag maps provider list tags and headers onto the engine's
// seven type categories, leaving unrecognized tags as "unknown".
func normalizeListTag(tag, header string) string {
	candidates := []string{strings.ToLower(tag), strings.ToLower(header)}
	for _, c := range candidates {
		switch {
		case strings.Contains(c, "creature"):
			return "creature"
		case strings.Contains(c, "instant"):
			return "instant"
		case strings.Contains(c, "sorcer"):
			return "sorcery"
		case strings.Contains(c, "artifact"):
			return "artifact"
		case strings.Contains(c, "enchantment"):
			return "enchantment"
		case strings.Contains(c, "planeswalker"):
			return "planeswalker"
		case strings.Contains(c, "land"):
			return "land"
		}
	}
	return "unknown"
}

// Slugify normalizes a commander or theme name into the provider's URL slug
// form: lowercase, punctuation stripped, spaces hyphenated.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '/':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
