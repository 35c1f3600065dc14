// Package server provides the HTTP transport in front of the engagement
// orchestrator.
package server

import (
	"encoding/json"
	"net/http"

	errx "github.com/scamtrap-poc/server/internal/core/error"
	"github.com/scamtrap-poc/server/internal/honeypot/engage"
	"github.com/scamtrap-poc/server/internal/honeypot/model"
	logx "github.com/scamtrap-poc/server/pkg/logger"
)

const serviceName = "AI Scam Honeypot Agent"

type Handler struct {
	orchestrator *engage.Orchestrator
}

func NewHandler(orchestrator *engage.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

type requestPayload struct {
	SessionID           string              `json:"sessionId"`
	Message             *model.ChatMessage  `json:"message"`
	ConversationHistory []model.ChatMessage `json:"conversationHistory"`
	// Metadata is accepted for forward compatibility and unused by the core.
	Metadata map[string]any `json:"metadata,omitempty"`
}

type engagementMetrics struct {
	SessionID        string `json:"sessionId"`
	TotalTurns       int    `json:"totalTurns"`
	EngagementActive bool   `json:"engagementActive"`
}

type honeypotResponse struct {
	ScamDetected          bool              `json:"scamDetected"`
	AgentActivated        bool              `json:"agentActivated"`
	Reply                 string            `json:"reply"`
	EngagementMetrics     engagementMetrics `json:"engagementMetrics"`
	ExtractedIntelligence any               `json:"extractedIntelligence"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Honeypot is the single inbound operation: classify the message, engage the
// persona when it is a scam, and return the engagement result.
func (h *Handler) Honeypot(w http.ResponseWriter, r *http.Request) {
	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if payload.SessionID == "" {
		Error(w, http.StatusUnprocessableEntity, "sessionId is required")
		return
	}
	if payload.Message == nil {
		Error(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	result, err := h.orchestrator.HandleMessage(r.Context(), model.EngageRequest{
		SessionID:           payload.SessionID,
		Message:             *payload.Message,
		ConversationHistory: payload.ConversationHistory,
	})
	if err != nil {
		logx.Error().Err(err).Str("sessionID", payload.SessionID).Msg("engagement failed")
		Error(w, errx.StatusOf(err), errx.MessageOf(err))
		return
	}

	resp := honeypotResponse{
		ScamDetected:   result.ScamDetected,
		AgentActivated: result.AgentActivated,
		Reply:          result.Reply,
		EngagementMetrics: engagementMetrics{
			SessionID:        payload.SessionID,
			TotalTurns:       result.TotalTurns,
			EngagementActive: result.EngagementActive,
		},
	}
	if result.Intelligence != nil {
		resp.ExtractedIntelligence = result.Intelligence
	} else {
		// Non-scam responses carry an empty intelligence object.
		resp.ExtractedIntelligence = struct{}{}
	}

	JSON(w, http.StatusOK, resp)
}

// Health reports static service identity and liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

// ServiceInfo is the JSON identity document served at the root path when the
// embedded demo page is unavailable.
func (h *Handler) ServiceInfo(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"status":  "running",
		"service": serviceName,
		"endpoints": map[string]string{
			"health":   "GET /health",
			"honeypot": "POST /honeypot",
		},
	})
}
