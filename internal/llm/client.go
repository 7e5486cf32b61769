// Package llm calls the hosted model endpoint that grounds complex
// queries. The call is entirely skippable: a disabled client or any
// HTTP-level failure yields a nil result to the orchestrator, which
// then synthesizes a local response instead.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/yatra/internal/budget"
	"github.com/fyrsmithlabs/yatra/internal/retriever"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com"
	defaultModel       = "gemini-1.5-flash"
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 2
	defaultBaseBackoff = 500 * time.Millisecond
	defaultRateLimit   = 2 // requests per second
	defaultBurst       = 4
)

// ErrDisabled is returned when the client has no API key configured.
var ErrDisabled = errors.New("llm: client disabled")

// Config holds client configuration. Timeout is in seconds.
type Config struct {
	Enabled    bool   `koanf:"enabled"`
	APIKey     string `koanf:"api_key"`
	BaseURL    string `koanf:"base_url"`
	Model      string `koanf:"model"`
	Timeout    int    `koanf:"timeout"`
	MaxRetries int    `koanf:"max_retries"`
}

// Request carries the prompt plus local grounding.
type Request struct {
	Prompt     string
	Context    []retriever.Source
	WebContext []retriever.Source
	Budget     *budget.Estimate
}

// Result is the model output. BudgetOverride is non-nil only when the
// response carried a parseable fenced JSON budget block.
type Result struct {
	Text           string
	BudgetOverride *budget.Estimate
}

// Client is a hand-rolled HTTP client for the generative endpoint.
type Client struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
}

// NewClient creates a client. A disabled config or missing API key
// returns a client whose Enabled() is false; Generate then fails fast
// with ErrDisabled.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	apiKey := cfg.APIKey
	if !cfg.Enabled {
		apiKey = ""
	}

	return &Client{
		model:      model,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Enabled reports whether the client can make calls.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Generate sends the grounded prompt and parses the response.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("llm: rate limiter: %w", err)
	}

	prompt := buildPrompt(req)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		text, err := c.doRequest(ctx, prompt)
		if err == nil {
			return &Result{
				Text:           stripBudgetBlock(text),
				BudgetOverride: parseBudgetOverride(text),
			}, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("llm: max retries exceeded: %w", lastErr)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) doRequest(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &retryableError{err: fmt.Errorf("llm: request failed: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &retryableError{err: fmt.Errorf("llm: rate limited (429)")}
	}
	if resp.StatusCode >= 500 {
		return "", &retryableError{err: fmt.Errorf("llm: server error (%d)", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: API error (%d): %s", resp.StatusCode, truncateBody(data))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("llm: parse response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// buildPrompt renders the grounding material ahead of the question so
// the model answers from retrieved facts first.
func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a travel assistant for Indian heritage tourism. Answer using the context below.\n")

	if len(req.Context) > 0 {
		b.WriteString("\nLocal context:\n")
		for _, s := range req.Context {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", s.Type, s.Title, s.Snippet)
		}
	}
	if len(req.WebContext) > 0 {
		b.WriteString("\nWeb context:\n")
		for _, s := range req.WebContext {
			fmt.Fprintf(&b, "- %s: %s\n", s.Title, s.Snippet)
		}
	}
	if req.Budget != nil {
		fmt.Fprintf(&b, "\nEstimated budget: %.0f-%.0f %s (%s)\n",
			req.Budget.Low, req.Budget.High, req.Budget.Currency, req.Budget.Basis)
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(req.Prompt)
	return b.String()
}

var budgetBlockRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

type budgetBlock struct {
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Currency   string  `json:"currency"`
	Basis      string  `json:"basis"`
	Categories []struct {
		Label  string  `json:"label"`
		Amount float64 `json:"amount"`
	} `json:"categories"`
}

// parseBudgetOverride extracts the optional fenced JSON budget block.
// Absence or malformed JSON means no override, never an error.
func parseBudgetOverride(text string) *budget.Estimate {
	m := budgetBlockRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var blk budgetBlock
	if err := json.Unmarshal([]byte(m[1]), &blk); err != nil {
		return nil
	}
	if blk.Low <= 0 || blk.High <= 0 || blk.Low > blk.High {
		return nil
	}
	currency := blk.Currency
	if currency == "" {
		currency = "INR"
	}
	est := &budget.Estimate{
		Low:      blk.Low,
		High:     blk.High,
		Currency: currency,
		Basis:    blk.Basis,
	}
	for _, cat := range blk.Categories {
		est.Signals = append(est.Signals, budget.Signal{
			Label:      cat.Label,
			Amount:     cat.Amount,
			Provenance: budget.ProvenanceWeb,
		})
	}
	return est
}

func stripBudgetBlock(text string) string {
	return strings.TrimSpace(budgetBlockRe.ReplaceAllString(text, ""))
}

type retryableError struct {
	err error
}

func (r *retryableError) Error() string { return r.err.Error() }
func (r *retryableError) Unwrap() error { return r.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

func truncateBody(data []byte) string {
	const max = 256
	if len(data) > max {
		return string(data[:max]) + "…"
	}
	return string(data)
}
