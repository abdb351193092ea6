// Package gemini provides the Gemini reasoning client for coverage advice.
package gemini

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aristath/advisor/internal/clientdata"
	"github.com/aristath/advisor/internal/domain"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// prompt asks for a strict-JSON answer so the response can be parsed without
// guessing at markdown framing. Temperature 0 keeps answers reproducible enough
// to cache per profile.
const promptTemplate = `You are a conservative life insurance advisor assistant. You will receive a JSON object named client_profile describing an individual's financial situation, and a deterministic recommended coverage amount computed as:
max(0, annual_income x annuity_factor + total_debt - available_savings - existing_life_insurance).

Explain in plain language why this coverage amount is appropriate for this client. Mention income replacement, outstanding debt, and existing assets.

Return ONLY a single JSON object (no markdown or commentary) with one key:
  reasoning_notes (string, 2-5 sentences).

recommended_coverage: %.0f %s

client_profile:
%s
`

// Config holds Gemini client configuration
type Config struct {
	APIKey  string
	Model   string
	BaseURL string        // Override for tests; defaults to the public API endpoint
	Timeout time.Duration // Per-request timeout; defaults to 20s
}

// Client calls the Gemini generateContent REST API.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new Gemini client.
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
		model:     cfg.Model,
		client:    &http.Client{Timeout: timeout},
		log:       log.With().Str("client", "gemini").Logger(),
		cacheRepo: cacheRepo,
	}
}

// generateRequest is the generateContent request body.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse is the subset of the generateContent response we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// cachedReasoning is the structure stored in the cache.
type cachedReasoning struct {
	ReasoningNotes string `json:"reasoning_notes"`
}

// Explain asks Gemini for a rationale for the computed coverage figure.
// Responses are cached per profile+coverage; a stale cached answer is used as a
// fallback when the API fails.
func (c *Client) Explain(ctx context.Context, profile domain.Profile, coverage domain.CoverageResult) (string, error) {
	cacheKey := profileHash(profile, coverage)

	// Check persistent cache for fresh data
	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh("gemini_advice", cacheKey)
		if err == nil && data != nil {
			var cached cachedReasoning
			if err := json.Unmarshal(data, &cached); err == nil && cached.ReasoningNotes != "" {
				c.log.Debug().Str("profile_hash", cacheKey).Msg("Cache hit")
				return cached.ReasoningNotes, nil
			}
		}
	}

	notes, err := c.generate(ctx, profile, coverage)
	if err != nil {
		// API failed - try stale cached reasoning as fallback
		if stale, ok := c.getStaleFromCache(cacheKey); ok {
			c.log.Warn().Err(err).Str("profile_hash", cacheKey).Msg("API failed, using stale cached reasoning")
			return stale, nil
		}
		return "", err
	}

	if c.cacheRepo != nil {
		cached := cachedReasoning{ReasoningNotes: notes}
		if err := c.cacheRepo.Store("gemini_advice", cacheKey, cached, clientdata.TTLGeminiAdvice); err != nil {
			c.log.Warn().Err(err).Str("profile_hash", cacheKey).Msg("Failed to cache reasoning")
		}
	}

	return notes, nil
}

// generate performs the actual generateContent call.
func (c *Client) generate(ctx context.Context, profile domain.Profile, coverage domain.CoverageResult) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile: %w", err)
	}

	prompt := fmt.Sprintf(promptTemplate, coverage.CoverageAmount, coverage.CoverageCurrency, profileJSON)

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0,
			MaxOutputTokens: 1024,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("model", c.model).Msg("Calling generateContent")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, respBody)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}

	text := result.Candidates[0].Content.Parts[0].Text

	parsed, ok := ExtractJSON(text)
	if !ok {
		return "", fmt.Errorf("model returned non-JSON answer: %.120s", text)
	}

	notes, _ := parsed["reasoning_notes"].(string)
	if notes == "" {
		return "", fmt.Errorf("model answer missing reasoning_notes")
	}

	return notes, nil
}

// getStaleFromCache retrieves cached reasoning even if expired.
func (c *Client) getStaleFromCache(cacheKey string) (string, bool) {
	if c.cacheRepo == nil {
		return "", false
	}

	data, err := c.cacheRepo.Get("gemini_advice", cacheKey)
	if err != nil || data == nil {
		return "", false
	}

	var cached cachedReasoning
	if err := json.Unmarshal(data, &cached); err != nil || cached.ReasoningNotes == "" {
		return "", false
	}

	return cached.ReasoningNotes, true
}

// profileHash derives a stable cache key from the profile and coverage figure.
func profileHash(profile domain.Profile, coverage domain.CoverageResult) string {
	payload, _ := json.Marshal(struct {
		Profile  domain.Profile        `json:"profile"`
		Coverage domain.CoverageResult `json:"coverage"`
	}{profile, coverage})

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
