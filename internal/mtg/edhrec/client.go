// Package edhrec implements the recommendation provider client. Pages are
// fetched as JSON, validated at the boundary, cached with a TTL, and rate
// limited client-side.
package edhrec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/edh-architect/internal/cache"
)

const (
	defaultBaseURL = "https://json.edhrec.com/pages"
	requestTimeout = 30 * time.Second
	retryBackoff   = 2 * time.Second
)

// ErrNotFound reports that the provider has no page for the requested
// commander or theme.
var ErrNotFound = errors.New("edhrec: page not found")

// Config configures the provider client.
type Config struct {
	// BaseURL is the provider's JSON page root.
	BaseURL string

	// CacheTTL is how long commander pages stay cached. Data behind these
	// pages changes slowly; a few minutes is plenty.
	CacheTTL time.Duration

	// RateLimitMs is the minimum milliseconds between requests.
	RateLimitMs int

	// CacheSize bounds the page cache (0 = unlimited).
	CacheSize int
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     defaultBaseURL,
		CacheTTL:    5 * time.Minute,
		RateLimitMs: 500,
		CacheSize:   256,
	}
}

// Client fetches commander recommendation pages.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	cacheTTL   time.Duration
	pages      *cache.Cache
	logger     *slog.Logger
}

// NewClient creates a provider client. A nil config uses defaults; a nil
// logger discards debug output.
func NewClient(config *Config, logger *slog.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Duration(config.RateLimitMs)*time.Millisecond), 1),
		baseURL:    config.BaseURL,
		cacheTTL:   config.CacheTTL,
		pages:      cache.New(config.CacheSize),
		logger:     logger,
	}
}

// ResetCache clears the page cache. Tests use this for determinism.
func (c *Client) ResetCache() {
	c.pages.Reset()
}

// FetchCommanderData retrieves the recommendation page for a commander,
// optionally narrowed to a theme.
func (c *Client) FetchCommanderData(ctx context.Context, commander, theme string) (*CommanderData, error) {
	path := "/commanders/" + Slugify(commander)
	if theme != "" {
		path += "/" + Slugify(theme)
	}
	data, redirect, err := c.fetchPage(ctx, path)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		// For single commanders a redirect just points at the canonical slug.
		data, _, err = c.fetchPage(ctx, redirect)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// FetchPartnerData retrieves the page for a partner commander pair. The
// provider keys pairs by one canonical ordering and answers the other with a
// redirect, so a redirect is retried with the alternate ordering.
func (c *Client) FetchPartnerData(ctx context.Context, commander, partner string) (*CommanderData, error) {
	path := "/commanders/" + Slugify(commander) + "-" + Slugify(partner)
	data, redirect, err := c.fetchPage(ctx, path)
	if err == nil && redirect == "" {
		return data, nil
	}

	if redirect != "" {
		data, _, err = c.fetchPage(ctx, redirect)
		if err == nil {
			return data, nil
		}
	}

	// Alternate ordering as a last resort.
	altPath := "/commanders/" + Slugify(partner) + "-" + Slugify(commander)
	data, redirect, altErr := c.fetchPage(ctx, altPath)
	if altErr != nil {
		return nil, fmt.Errorf("partner pair lookup failed both orderings: %w", altErr)
	}
	if redirect != "" {
		data, _, altErr = c.fetchPage(ctx, redirect)
		if altErr != nil {
			return nil, altErr
		}
	}
	return data, nil
}

// FetchThemes returns the provider's suggested themes for a commander.
func (c *Client) FetchThemes(ctx context.Context, commander string) ([]ThemeRef, error) {
	data, err := c.FetchCommanderData(ctx, commander, "")
	if err != nil {
		return nil, err
	}
	return data.Themes, nil
}

// fetchPage fetches and validates one provider page. The redirect return is
// the provider's "this page lives elsewhere" variant; it is data, not an
// error.
func (c *Client) fetchPage(ctx context.Context, path string) (*CommanderData, string, error) {
	cacheKey := path
	if cached, ok := c.pages.Get(cacheKey); ok {
		return cached.(*CommanderData), "", nil
	}

	raw, err := c.fetchRaw(ctx, path)
	if err != nil {
		return nil, "", err
	}

	if raw.Redirect != "" {
		c.logger.Debug("provider redirect", "path", path, "target", raw.Redirect)
		return nil, raw.Redirect, nil
	}

	data, err := raw.validate()
	if err != nil {
		return nil, "", fmt.Errorf("invalid provider page %s: %w", path, err)
	}

	c.pages.Set(cacheKey, data, c.cacheTTL)
	return data, "", nil
}

// fetchRaw performs the HTTP request with rate limiting and a single retry
// after a fixed backoff on 429.
func (c *Client) fetchRaw(ctx context.Context, path string) (*rawPage, error) {
	reqURL := c.baseURL + path + ".json"

	for attempt := 0; attempt < 2; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "EDH-Architect/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return nil, fmt.Errorf("failed to read response: %w", readErr)
			}
			var page rawPage
			if err := json.Unmarshal(body, &page); err != nil {
				return nil, fmt.Errorf("failed to parse provider page: %w", err)
			}
			return &page, nil

		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)

		case http.StatusTooManyRequests:
			if attempt == 0 {
				c.logger.Warn("provider rate limited, retrying once", "path", path)
				time.Sleep(retryBackoff)
				continue
			}
			return nil, fmt.Errorf("provider rate limited after retry: %s", path)

		default:
			return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
		}
	}

	return nil, fmt.Errorf("unreachable retry loop for %s", path)
}
