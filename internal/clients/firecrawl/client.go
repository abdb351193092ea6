// Package firecrawl provides the Firecrawl product research client.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aristath/advisor/internal/clientdata"
	"github.com/aristath/advisor/internal/domain"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.firecrawl.dev"

// maxRecommendations caps the product list per the advice contract.
const maxRecommendations = 5

// Config holds Firecrawl client configuration
type Config struct {
	APIKey  string
	BaseURL string        // Override for tests; defaults to the public API endpoint
	Timeout time.Duration // Per-request timeout; defaults to 20s
}

// Client calls the Firecrawl search API to find term life insurance products.
type Client struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new Firecrawl client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(cfg Config, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		client:    &http.Client{Timeout: timeout},
		log:       log.With().Str("client", "firecrawl").Logger(),
		cacheRepo: cacheRepo,
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
	} `json:"data"`
}

// cachedSearch is the structure stored in the cache.
type cachedSearch struct {
	Recommendations []domain.RecommendationItem `json:"recommendations"`
	Notes           string                      `json:"notes"`
}

// FindPlans searches for term life insurance products for the profile's location.
// Results are cached per location; stale cached results are used as a fallback
// when the API fails.
func (c *Client) FindPlans(ctx context.Context, profile domain.Profile, _ domain.CoverageResult) ([]domain.RecommendationItem, string, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(profile.Location))
	if cacheKey == "" {
		cacheKey = "anywhere"
	}

	// Check persistent cache for fresh data
	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh("plan_search", cacheKey)
		if err == nil && data != nil {
			var cached cachedSearch
			if err := json.Unmarshal(data, &cached); err == nil {
				c.log.Debug().Str("location", cacheKey).Msg("Cache hit")
				return cached.Recommendations, cached.Notes, nil
			}
		}
	}

	items, notes, err := c.search(ctx, profile.Location)
	if err != nil {
		// API failed - try stale cached results as fallback
		if stale, ok := c.getStaleFromCache(cacheKey); ok {
			c.log.Warn().Err(err).Str("location", cacheKey).Msg("API failed, using stale cached search")
			return stale.Recommendations, stale.Notes, nil
		}
		return nil, "", err
	}

	if c.cacheRepo != nil {
		cached := cachedSearch{Recommendations: items, Notes: notes}
		if err := c.cacheRepo.Store("plan_search", cacheKey, cached, clientdata.TTLPlanSearch); err != nil {
			c.log.Warn().Err(err).Str("location", cacheKey).Msg("Failed to cache search results")
		}
	}

	return items, notes, nil
}

// search performs the actual Firecrawl search call.
func (c *Client) search(ctx context.Context, location string) ([]domain.RecommendationItem, string, error) {
	query := "term life insurance"
	if location != "" {
		query += " " + location
	}

	body, err := json.Marshal(searchRequest{Query: query, Limit: maxRecommendations})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Debug().Str("query", query).Msg("Searching for plans")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, respBody)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to parse response: %w", err)
	}

	if !result.Success {
		return nil, "", fmt.Errorf("search reported failure")
	}

	items := make([]domain.RecommendationItem, 0, len(result.Data))
	for _, hit := range result.Data {
		if len(items) == maxRecommendations {
			break
		}
		items = append(items, domain.RecommendationItem{
			Name:    hit.Title,
			Summary: hit.Description,
			Link:    hit.URL,
			Source:  hostOf(hit.URL),
		})
	}

	notes := fmt.Sprintf("Live term life insurance search results for %q (%d found).", query, len(items))

	c.log.Info().Str("query", query).Int("results", len(items)).Msg("Search completed")

	return items, notes, nil
}

// getStaleFromCache retrieves cached results even if expired.
func (c *Client) getStaleFromCache(cacheKey string) (*cachedSearch, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}

	data, err := c.cacheRepo.Get("plan_search", cacheKey)
	if err != nil || data == nil {
		return nil, false
	}

	var cached cachedSearch
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	return &cached, true
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
