package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fyrsmithlabs/yatra/internal/retriever"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{Enabled: true, BaseURL: srv.URL}, nil)
}

func TestSourcesParsesOpensearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["victoria",["Victoria Memorial","Victoria Terminus"],["Museum in Kolkata","Station in Mumbai"],["u1","u2"]]`))
	})

	sources := c.Sources(context.Background(), "victoria", 3)
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Title != "Victoria Memorial" || sources[0].Snippet != "Museum in Kolkata" {
		t.Errorf("first source = %+v", sources[0])
	}
	if sources[0].Type != retriever.SourceWeb {
		t.Errorf("type = %s, want web", sources[0].Type)
	}
	if sources[0].Score <= sources[1].Score {
		t.Errorf("scores not descending: %v <= %v", sources[0].Score, sources[1].Score)
	}
}

func TestSourcesFailureReturnsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500) }},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not json")) }},
		{"truncated array", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`["q"]`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			if got := c.Sources(context.Background(), "anything", 3); len(got) != 0 {
				t.Errorf("Sources() = %v, want empty", got)
			}
		})
	}
}

func TestSourcesDisabled(t *testing.T) {
	c := NewClient(Config{Enabled: false}, nil)
	if got := c.Sources(context.Background(), "victoria", 3); got != nil {
		t.Errorf("disabled client returned %v", got)
	}
}

func TestBudgetSignals(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"hostel bed","amount":600,"note":"per night"},{"label":"","amount":5},{"label":"bad","amount":0}]`))
	})

	signals := c.BudgetSignals(context.Background(), "Kolkata")
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1 valid", len(signals))
	}
	if signals[0].Label != "hostel bed" || signals[0].Amount != 600 {
		t.Errorf("signal = %+v", signals[0])
	}
}

func TestBudgetSignalsFailureReturnsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if got := c.BudgetSignals(context.Background(), "Kolkata"); len(got) != 0 {
		t.Errorf("BudgetSignals() = %v, want empty", got)
	}
}
