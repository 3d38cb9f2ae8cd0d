package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
)

const (
	// MaxBatchSize is the maximum number of cards per batch request (Scryfall limit is 75).
	MaxBatchSize = 75

	// batchFanOut bounds how many batch requests are in flight at once. The
	// shared rate limiter still spaces the actual requests.
	batchFanOut = 3
)

// CardIdentifier represents a card identifier for the /cards/collection endpoint.
type CardIdentifier struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// CollectionRequest is the request body for /cards/collection.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response from /cards/collection.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// GetCardsByNames fetches multiple cards by name using the batch
// /cards/collection endpoint and returns a name-keyed map plus the names the
// API did not recognize. Batches run with bounded parallelism.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) (map[string]*cards.Card, []string, error) {
	found := make(map[string]*cards.Card, len(names))
	if len(names) == 0 {
		return found, nil, nil
	}

	var mu sync.Mutex
	var notFound []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchFanOut)

	for i := 0; i < len(names); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(names) {
			end = len(names)
		}
		batch := names[i:end]

		g.Go(func() error {
			batchCards, batchMissing, err := c.fetchCardsByNamesBatch(gctx, batch)
			if err != nil {
				return fmt.Errorf("failed to fetch card batch: %w", err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, card := range batchCards {
				found[card.Name] = card
				// Single-name lists upstream key double-faced cards by front face.
				if front := cards.FrontFaceName(card.Name); front != card.Name {
					found[front] = card
				}
			}
			notFound = append(notFound, batchMissing...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return found, notFound, nil
}

// fetchCardsByNamesBatch fetches a single batch of cards from /cards/collection.
func (c *Client) fetchCardsByNamesBatch(ctx context.Context, names []string) ([]*cards.Card, []string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter error: %w", err)
	}

	identifiers := make([]CardIdentifier, 0, len(names))
	for _, name := range names {
		identifiers = append(identifiers, CardIdentifier{Name: name})
	}

	payload, err := json.Marshal(CollectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal collection request: %w", err)
	}

	reqURL := c.baseURL + "/cards/collection"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("collection request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var collection CollectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, nil, fmt.Errorf("failed to parse collection response: %w", err)
	}

	result := make([]*cards.Card, 0, len(collection.Data))
	for i := range collection.Data {
		result = append(result, collection.Data[i].ToCard())
	}

	missing := make([]string, 0, len(collection.NotFound))
	for _, ident := range collection.NotFound {
		missing = append(missing, ident.Name)
	}

	return result, missing, nil
}
