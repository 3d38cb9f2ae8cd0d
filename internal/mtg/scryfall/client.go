// Package scryfall implements the card database client used to resolve card
// names into full card metadata.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
)

const (
	defaultBaseURL = "https://api.scryfall.com"
	rateLimitDelay = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Tests point this at an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// Rate limiter: 1 request per 100ms = 10 req/sec
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:     defaultBaseURL,
		userAgent:   "EDH-Architect/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCardByName retrieves a card by its exact name.
func (c *Client) GetCardByName(ctx context.Context, name string) (*cards.Card, error) {
	reqURL := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, reqURL, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}

	return card.ToCard(), nil
}

// GetCardByFuzzyName retrieves a card by an approximate name, letting the API
// correct minor misspellings.
func (c *Client) GetCardByFuzzyName(ctx context.Context, name string) (*cards.Card, error) {
	reqURL := fmt.Sprintf("%s/cards/named?fuzzy=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, reqURL, &card); err != nil {
		return nil, fmt.Errorf("failed to resolve card %q: %w", name, err)
	}

	return card.ToCard(), nil
}

// SearchCards performs a full-text search restricted to a color identity.
// identity may be empty to search without a restriction.
func (c *Client) SearchCards(ctx context.Context, query string, identity []string) ([]*cards.Card, error) {
	q := query
	if len(identity) > 0 {
		q = fmt.Sprintf("%s id<=%s", query, cards.IdentityString(identity))
	}

	var results []*cards.Card
	reqURL := fmt.Sprintf("%s/cards/search?q=%s&order=edhrec", c.baseURL, url.QueryEscape(q))
	for reqURL != "" {
		var page SearchResult
		if err := c.doRequest(ctx, reqURL, &page); err != nil {
			// An empty search result is a 404 on this API, not a failure.
			if IsNotFound(err) && len(results) > 0 {
				break
			}
			if IsNotFound(err) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to search cards with query %q: %w", query, err)
		}
		for i := range page.Data {
			results = append(results, page.Data[i].ToCard())
		}
		if !page.HasMore {
			break
		}
		reqURL = page.NextPage
	}

	return results, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, reqURL string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)

			// Retry on network errors
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		done, err := c.handleResponse(resp, reqURL, result, &backoff, attempt)
		if done {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse consumes one HTTP response. It returns done=false when the
// caller should retry.
func (c *Client) handleResponse(resp *http.Response, reqURL string, result interface{}, backoff *time.Duration, attempt int) (done bool, err error) {
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return true, fmt.Errorf("failed to read response body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return true, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return true, nil

	case http.StatusTooManyRequests:
		err = fmt.Errorf("rate limited (HTTP 429)")
		if attempt >= maxRetries {
			return true, err
		}
		// Honor Retry-After when the server provides it.
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if duration, perr := time.ParseDuration(retryAfter + "s"); perr == nil {
				time.Sleep(duration)
			} else {
				time.Sleep(*backoff)
			}
		} else {
			time.Sleep(*backoff)
		}
		*backoff = minDuration(*backoff*2, maxBackoff)
		return false, err

	case http.StatusNotFound:
		return true, &NotFoundError{URL: reqURL}

	default:
		body, _ := io.ReadAll(resp.Body)
		var apiErr APIError
		if jerr := json.Unmarshal(body, &apiErr); jerr == nil && apiErr.Details != "" {
			return true, &apiErr
		}
		return true, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

// minDuration returns the minimum of two time.Duration values.
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
