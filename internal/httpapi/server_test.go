package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/yatra/internal/intent"
	"github.com/fyrsmithlabs/yatra/internal/orchestrator"
)

type stubProcessor struct {
	lastReq orchestrator.Request
	resp    orchestrator.Response
}

func (p *stubProcessor) ProcessQuery(_ context.Context, req orchestrator.Request) orchestrator.Response {
	p.lastReq = req
	return p.resp
}

type stubRecorder struct {
	userID, itemID string
	calls          int
}

func (r *stubRecorder) RecordInteraction(userID, itemID string) {
	r.calls++
	r.userID = userID
	r.itemID = itemID
}

func newTestServer(t *testing.T, proc *stubProcessor, rec *stubRecorder) *Server {
	t.Helper()
	s, err := NewServer(proc, rec, nil, Config{}, prometheus.NewRegistry())
	require.NoError(t, err)
	return s
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &stubProcessor{}, &stubRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleQuery(t *testing.T) {
	proc := &stubProcessor{resp: orchestrator.Response{
		QueryID:    "q1",
		Text:       "here you go",
		Intent:     intent.PlanItinerary,
		Confidence: 0.75,
	}}
	s := newTestServer(t, proc, &stubRecorder{})

	body := `{"text":"plan a trip to Kolkata","user_id":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set(echoContentType, "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "plan a trip to Kolkata", proc.lastReq.Text)
	assert.Equal(t, "u1", proc.lastReq.UserID)

	var got orchestrator.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "q1", got.QueryID)
	assert.Equal(t, intent.PlanItinerary, got.Intent)
}

func TestHandleQueryBadBody(t *testing.T) {
	s := newTestServer(t, &stubProcessor{}, &stubRecorder{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader("{not json"))
	req.Header.Set(echoContentType, "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleInteraction(t *testing.T) {
	recd := &stubRecorder{}
	s := newTestServer(t, &stubProcessor{}, recd)

	body := `{"user_id":"u1","item_id":"dest-taj-mahal"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", strings.NewReader(body))
	req.Header.Set(echoContentType, "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, recd.calls)
	assert.Equal(t, "u1", recd.userID)
	assert.Equal(t, "dest-taj-mahal", recd.itemID)
}

func TestHandleInteractionMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no user", `{"item_id":"x"}`},
		{"no item", `{"user_id":"u1"}`},
		{"blank user", `{"user_id":"  ","item_id":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recd := &stubRecorder{}
			s := newTestServer(t, &stubProcessor{}, recd)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", strings.NewReader(tt.body))
			req.Header.Set(echoContentType, "application/json")
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, recd.calls)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	proc := &stubProcessor{resp: orchestrator.Response{Intent: intent.GeneralChat, UsedExternalModel: true}}
	s := newTestServer(t, proc, &stubRecorder{})

	qreq := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"text":"hi"}`))
	qreq.Header.Set(echoContentType, "application/json")
	s.Handler().ServeHTTP(httptest.NewRecorder(), qreq)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "yatra_queries_total")
	assert.Contains(t, rec.Body.String(), `intent="general_chat"`)
	assert.Contains(t, rec.Body.String(), "yatra_model_calls_total 1")
}

func TestNewServerRequiresCollaborators(t *testing.T) {
	_, err := NewServer(nil, &stubRecorder{}, nil, Config{}, prometheus.NewRegistry())
	assert.Error(t, err)
	_, err = NewServer(&stubProcessor{}, nil, nil, Config{}, prometheus.NewRegistry())
	assert.Error(t, err)
}

const echoContentType = "Content-Type"
