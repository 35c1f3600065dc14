package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamtrap-poc/server/internal/honeypot/detect"
	"github.com/scamtrap-poc/server/internal/honeypot/engage"
	"github.com/scamtrap-poc/server/internal/honeypot/intel"
	"github.com/scamtrap-poc/server/internal/honeypot/model"
	"github.com/scamtrap-poc/server/internal/honeypot/repo"
	"github.com/scamtrap-poc/server/internal/server"
)

const testSecret = "test-secret"

type stubGenerator struct {
	reply string
}

func (g stubGenerator) GenerateReply(context.Context, string) (string, error) {
	return g.reply, nil
}

type noopSink struct{}

func (noopSink) Report(context.Context, string, model.IntelligenceRecord, int) error {
	return nil
}

func newTestRouter() (http.Handler, *repo.MemorySessionStore) {
	store := repo.NewMemorySessionStore(time.Hour, 100)
	orchestrator := engage.NewOrchestrator(
		detect.NewDetector(model.DetectorConfig{
			Signals: []string{"blocked", "verify", "urgent", "upi", "account suspended", "send money", "click link"},
		}),
		intel.NewExtractor(model.ExtractorConfig{
			Keywords: []string{"urgent", "verify", "blocked", "suspend"},
		}),
		store,
		stubGenerator{reply: "oh no, is my account really blocked?"},
		noopSink{},
		model.EngagementConfig{ReportThreshold: 5, DisengagedReply: "Okay, thank you."},
	)
	return server.NewRouter(server.NewHandler(orchestrator), testSecret), store
}

func postHoneypot(t *testing.T, router http.Handler, apiKey, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/honeypot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHoneypotRejectsBadAPIKey(t *testing.T) {
	router, store := newTestRouter()

	body := `{"sessionId":"s1","message":{"sender":"scammer","text":"Your account is blocked, verify now","timestamp":1}}`
	w := postHoneypot(t, router, "wrong-key", body)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Rejection happens before any processing: no session may exist.
	state, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestHoneypotRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter()

	w := postHoneypot(t, router, testSecret, `{"sessionId":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHoneypotValidatesRequiredFields(t *testing.T) {
	router, _ := newTestRouter()

	w := postHoneypot(t, router, testSecret, `{"message":{"sender":"x","text":"hi","timestamp":1}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = postHoneypot(t, router, testSecret, `{"sessionId":"s1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHoneypotNonScamResponseShape(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"sessionId":"s1","message":{"sender":"friend","text":"thanks, bye","timestamp":1}}`
	w := postHoneypot(t, router, testSecret, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ScamDetected      bool   `json:"scamDetected"`
		AgentActivated    bool   `json:"agentActivated"`
		Reply             string `json:"reply"`
		EngagementMetrics struct {
			SessionID        string `json:"sessionId"`
			TotalTurns       int    `json:"totalTurns"`
			EngagementActive bool   `json:"engagementActive"`
		} `json:"engagementMetrics"`
		ExtractedIntelligence map[string]any `json:"extractedIntelligence"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.False(t, resp.ScamDetected)
	assert.False(t, resp.AgentActivated)
	assert.Equal(t, "Okay, thank you.", resp.Reply)
	assert.Equal(t, "s1", resp.EngagementMetrics.SessionID)
	assert.Equal(t, 1, resp.EngagementMetrics.TotalTurns)
	assert.False(t, resp.EngagementMetrics.EngagementActive)
	assert.Empty(t, resp.ExtractedIntelligence)
}

func TestHoneypotScamResponseShape(t *testing.T) {
	router, _ := newTestRouter()

	body := `{
		"sessionId": "s2",
		"message": {"sender": "scammer", "text": "account suspended, verify at http://evil.example/x", "timestamp": 5},
		"conversationHistory": [
			{"sender": "scammer", "text": "hello", "timestamp": 1}
		]
	}`
	w := postHoneypot(t, router, testSecret, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ScamDetected      bool   `json:"scamDetected"`
		AgentActivated    bool   `json:"agentActivated"`
		Reply             string `json:"reply"`
		EngagementMetrics struct {
			TotalTurns       int  `json:"totalTurns"`
			EngagementActive bool `json:"engagementActive"`
		} `json:"engagementMetrics"`
		ExtractedIntelligence struct {
			PhishingLinks      []string `json:"phishingLinks"`
			SuspiciousKeywords []string `json:"suspiciousKeywords"`
		} `json:"extractedIntelligence"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.ScamDetected)
	assert.True(t, resp.AgentActivated)
	assert.Equal(t, "oh no, is my account really blocked?", resp.Reply)
	assert.Equal(t, 2, resp.EngagementMetrics.TotalTurns)
	assert.True(t, resp.EngagementMetrics.EngagementActive)
	assert.Equal(t, []string{"http://evil.example/x"}, resp.ExtractedIntelligence.PhishingLinks)
	assert.Contains(t, resp.ExtractedIntelligence.SuspiciousKeywords, "verify")
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
