// Package report delivers the one-time completed-engagement summary to the
// external aggregator.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scamtrap-poc/server/internal/honeypot/model"
	logx "github.com/scamtrap-poc/server/pkg/logger"
)

const agentNotes = "Scammer used urgency tactics and payment redirection"

type finalReport struct {
	SessionID              string                   `json:"sessionId"`
	ScamDetected           bool                     `json:"scamDetected"`
	TotalMessagesExchanged int                      `json:"totalMessagesExchanged"`
	ExtractedIntelligence  model.IntelligenceRecord `json:"extractedIntelligence"`
	AgentNotes             string                   `json:"agentNotes"`
}

// HTTPSink posts the summary to the aggregator callback URL. Delivery is
// bounded by the client timeout; failures are logged and reported back only
// so the orchestrator can retry on a later turn.
type HTTPSink struct {
	client      *http.Client
	callbackURL string
}

func NewHTTPSink(cfg model.ReportConfig) *HTTPSink {
	return &HTTPSink{
		client:      &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		callbackURL: cfg.CallbackURL,
	}
}

func (s *HTTPSink) Report(ctx context.Context, sessionID string, intel model.IntelligenceRecord, totalTurns int) error {
	payload := finalReport{
		SessionID:              sessionID,
		ScamDetected:           true,
		TotalMessagesExchanged: totalTurns,
		ExtractedIntelligence:  intel,
		AgentNotes:             agentNotes,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal final report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.callbackURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build final report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logx.Warn().Err(err).Str("sessionID", sessionID).Msg("final report delivery failed")
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logx.Warn().Str("sessionID", sessionID).Str("status", resp.Status).Msg("aggregator rejected final report")
		return fmt.Errorf("aggregator returned %s", resp.Status)
	}

	logx.Info().Str("sessionID", sessionID).Int("totalTurns", totalTurns).Msg("final report delivered")
	return nil
}

var _ model.ReportSink = (*HTTPSink)(nil)
