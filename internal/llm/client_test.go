package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fyrsmithlabs/yatra/internal/budget"
	"github.com/fyrsmithlabs/yatra/internal/retriever"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		Enabled:    true,
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 1,
	}, nil)
}

func TestGenerateSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Errorf("missing API key header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Visit the Victoria Memorial early."}]}}]}`))
	})

	res, err := c.Generate(context.Background(), Request{
		Prompt:  "what to see in Kolkata",
		Context: []retriever.Source{{Title: "Victoria Memorial", Snippet: "marble museum", Score: 0.9, Type: retriever.SourceDestination}},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Text != "Visit the Victoria Memorial early." {
		t.Errorf("Text = %q", res.Text)
	}
	if res.BudgetOverride != nil {
		t.Errorf("BudgetOverride = %+v, want nil", res.BudgetOverride)
	}
}

func TestGenerateBudgetOverride(t *testing.T) {
	text := "Plan below.\n```json\n" +
		`{"low": 4000, "high": 7000, "currency": "INR", "basis": "model estimate", "categories": [{"label": "hotels", "amount": 2500}]}` +
		"\n```"
	body, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	res, err := c.Generate(context.Background(), Request{Prompt: "budget for Kolkata"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ov := res.BudgetOverride
	if ov == nil {
		t.Fatal("BudgetOverride = nil, want parsed block")
	}
	if ov.Low != 4000 || ov.High != 7000 || ov.Currency != "INR" {
		t.Errorf("override = %+v", ov)
	}
	if len(ov.Signals) != 1 || ov.Signals[0].Provenance != budget.ProvenanceWeb {
		t.Errorf("signals = %+v, want one web-provenance signal", ov.Signals)
	}
	if res.Text != "Plan below." {
		t.Errorf("Text = %q, want budget block stripped", res.Text)
	}
}

func TestGenerateServerFailure(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.Generate(context.Background(), Request{Prompt: "hi"}); err == nil {
		t.Fatal("Generate() succeeded against failing server")
	}
	if calls < 2 {
		t.Errorf("server called %d times, want retries on 5xx", calls)
	}
}

func TestGenerateClientErrorNoRetry(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	})

	if _, err := c.Generate(context.Background(), Request{Prompt: "hi"}); err == nil {
		t.Fatal("Generate() succeeded on 400")
	}
	if calls != 1 {
		t.Errorf("server called %d times, want no retry on 4xx", calls)
	}
}

func TestGenerateDisabled(t *testing.T) {
	c := NewClient(Config{Enabled: false, APIKey: "ignored"}, nil)
	if c.Enabled() {
		t.Error("Enabled() = true for disabled config")
	}
	if _, err := c.Generate(context.Background(), Request{Prompt: "hi"}); err != ErrDisabled {
		t.Errorf("Generate() error = %v, want ErrDisabled", err)
	}
}

func TestParseBudgetOverrideMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no block", "just prose"},
		{"bad json", "```json\n{not json}\n```"},
		{"inverted bounds", "```json\n{\"low\": 9, \"high\": 3}\n```"},
		{"zero bounds", "```json\n{\"low\": 0, \"high\": 0}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseBudgetOverride(tt.text); got != nil {
				t.Errorf("parseBudgetOverride(%q) = %+v, want nil", tt.text, got)
			}
		})
	}
}
