// Package websearch enriches retrieval context and budget signals
// from external encyclopedia endpoints. Every failure path returns an
// empty slice: web enrichment is strictly optional and must never take
// the pipeline down with it.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/yatra/internal/budget"
	"github.com/fyrsmithlabs/yatra/internal/retriever"
)

const (
	defaultBaseURL = "https://en.wikipedia.org"
	defaultTimeout = 10 * time.Second
)

// Config holds client configuration. Timeout is in seconds.
type Config struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

// Client queries the encyclopedia search endpoint.
type Client struct {
	enabled    bool
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client; a disabled config yields a client that
// always returns empty results.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}
	return &Client{
		enabled:    cfg.Enabled,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Sources searches the encyclopedia for the query and returns up to
// limit web-typed sources, scored by rank. Failures return an empty
// slice.
func (c *Client) Sources(ctx context.Context, query string, limit int) []retriever.Source {
	if !c.enabled || strings.TrimSpace(query) == "" {
		return nil
	}
	if limit <= 0 {
		limit = 3
	}

	endpoint := fmt.Sprintf("%s/w/api.php?action=opensearch&format=json&limit=%d&search=%s",
		c.baseURL, limit, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("web search failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("web search non-200", zap.Int("status", resp.StatusCode))
		return nil
	}

	// Opensearch responses are a positional array:
	// [query, [titles], [descriptions], [urls]].
	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil || len(raw) < 3 {
		return nil
	}
	var titles, descs []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil
	}
	if err := json.Unmarshal(raw[2], &descs); err != nil {
		descs = nil
	}

	sources := make([]retriever.Source, 0, len(titles))
	for i, title := range titles {
		if i >= limit {
			break
		}
		snippet := ""
		if i < len(descs) {
			snippet = descs[i]
		}
		sources = append(sources, retriever.Source{
			Title:   title,
			Snippet: snippet,
			Score:   rankScore(i),
			Type:    retriever.SourceWeb,
		})
	}
	return sources
}

// BudgetSignals fetches cost data points for a location from the
// configured cost endpoint. Failures return an empty slice.
func (c *Client) BudgetSignals(ctx context.Context, location string) []budget.Signal {
	if !c.enabled || strings.TrimSpace(location) == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/costs?location=%s", c.baseURL, url.QueryEscape(location))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("budget signal fetch failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload []struct {
		Label  string  `json:"label"`
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}

	var signals []budget.Signal
	for _, p := range payload {
		if p.Label == "" || p.Amount <= 0 {
			continue
		}
		signals = append(signals, budget.Signal{
			Label:      p.Label,
			Amount:     p.Amount,
			Provenance: budget.ProvenanceWeb,
			Note:       p.Note,
		})
	}
	return signals
}

// rankScore converts a result position into a descending score below
// the semantic range so web sources never outrank catalog hits.
func rankScore(i int) float64 {
	score := 0.5 - 0.1*float64(i)
	if score < 0.1 {
		score = 0.1
	}
	return score
}
