package scryfall

import (
	"fmt"
	"strconv"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
)

// Card represents a Magic card from the Scryfall API.
type Card struct {
	ID       string `json:"id"`
	OracleID string `json:"oracle_id"`

	Name          string     `json:"name"`
	Lang          string     `json:"lang"`
	Layout        string     `json:"layout"`
	ImageURIs     *ImageURIs `json:"image_uris,omitempty"`
	ManaCost      string     `json:"mana_cost,omitempty"`
	CMC           float64    `json:"cmc"`
	TypeLine      string     `json:"type_line"`
	OracleText    string     `json:"oracle_text,omitempty"`
	Colors        []string   `json:"colors,omitempty"`
	ColorIdentity []string   `json:"color_identity"`
	Keywords      []string   `json:"keywords,omitempty"`

	Power     string `json:"power,omitempty"`
	Toughness string `json:"toughness,omitempty"`
	Loyalty   string `json:"loyalty,omitempty"`

	SetCode         string `json:"set"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`

	Legalities Legalities `json:"legalities"`
	Prices     Prices     `json:"prices"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small   string `json:"small"`
	Normal  string `json:"normal"`
	Large   string `json:"large"`
	PNG     string `json:"png"`
	ArtCrop string `json:"art_crop"`
}

// Legalities represents the legality of a card in the formats the engine
// cares about.
type Legalities struct {
	Commander string `json:"commander"`
	Brawl     string `json:"brawl"`
	Duel      string `json:"duel"`
}

// Prices represents the prices of a card in various currencies.
type Prices struct {
	USD     *string `json:"usd,omitempty"`
	USDFoil *string `json:"usd_foil,omitempty"`
	EUR     *string `json:"eur,omitempty"`
}

// SearchResult represents search results from Scryfall.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 error from the API.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// ToCard converts a Scryfall card into the engine's card model. Multi-faced
// cards take mana cost, text and image from the front face when the top-level
// fields are empty.
func (sc *Card) ToCard() *cards.Card {
	card := &cards.Card{
		ScryfallID:    sc.ID,
		Name:          sc.Name,
		TypeLine:      sc.TypeLine,
		SetCode:       sc.SetCode,
		CMC:           sc.CMC,
		Colors:        sc.Colors,
		ColorIdentity: sc.ColorIdentity,
		Rarity:        sc.Rarity,
		Layout:        sc.Layout,
		Keywords:      sc.Keywords,
	}

	if sc.OracleID != "" {
		oracleID := sc.OracleID
		card.OracleID = &oracleID
	}

	manaCost := sc.ManaCost
	oracleText := sc.OracleText
	typeLine := sc.TypeLine
	if len(sc.CardFaces) > 0 {
		front := sc.CardFaces[0]
		if manaCost == "" {
			manaCost = front.ManaCost
		}
		if oracleText == "" {
			oracleText = front.OracleText
		}
		if typeLine == "" {
			card.TypeLine = front.TypeLine
		}
		if sc.ImageURIs == nil && front.ImageURIs != nil && front.ImageURIs.Normal != "" {
			normal := front.ImageURIs.Normal
			card.ImageURI = &normal
		}
	}
	if manaCost != "" {
		card.ManaCost = &manaCost
	}
	if oracleText != "" {
		card.OracleText = &oracleText
	}
	if sc.ImageURIs != nil && sc.ImageURIs.Normal != "" {
		normal := sc.ImageURIs.Normal
		card.ImageURI = &normal
	}

	if sc.Prices.USD != nil {
		if usd, err := strconv.ParseFloat(*sc.Prices.USD, 64); err == nil {
			card.PriceUSD = usd
		}
	}

	return card
}
