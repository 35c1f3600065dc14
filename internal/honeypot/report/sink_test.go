package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamtrap-poc/server/internal/honeypot/model"
)

func TestReportDeliversPayload(t *testing.T) {
	var got finalReport
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	sink := NewHTTPSink(model.ReportConfig{CallbackURL: ts.URL, TimeoutSeconds: 5})

	intel := model.NewIntelligenceRecord()
	intel.UPIIDs = append(intel.UPIIDs, "pay.me@ybl")

	err := sink.Report(context.Background(), "s1", intel, 5)
	require.NoError(t, err)

	assert.Equal(t, "s1", got.SessionID)
	assert.True(t, got.ScamDetected)
	assert.Equal(t, 5, got.TotalMessagesExchanged)
	assert.Equal(t, []string{"pay.me@ybl"}, got.ExtractedIntelligence.UPIIDs)
	assert.NotEmpty(t, got.AgentNotes)
}

func TestReportNon2xxIsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	sink := NewHTTPSink(model.ReportConfig{CallbackURL: ts.URL, TimeoutSeconds: 5})

	err := sink.Report(context.Background(), "s1", model.NewIntelligenceRecord(), 5)
	assert.Error(t, err)
}

func TestReportUnreachableAggregator(t *testing.T) {
	sink := NewHTTPSink(model.ReportConfig{CallbackURL: "http://127.0.0.1:1", TimeoutSeconds: 1})

	err := sink.Report(context.Background(), "s1", model.NewIntelligenceRecord(), 5)
	assert.Error(t, err)
}
