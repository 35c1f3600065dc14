package model

import "strings"

// ChatMessage is a single message on the wire. Immutable once received.
type ChatMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// EngageRequest is the orchestrator input for one inbound message.
// ConversationHistory is oldest first; the inbound message is logically the
// last element of the transcript. Turn counting derives from the history the
// caller supplies, so callers are trusted to send the full, ever-growing
// history.
type EngageRequest struct {
	SessionID           string
	Message             ChatMessage
	ConversationHistory []ChatMessage
}

// TotalTurns counts all messages including the current one.
func (r EngageRequest) TotalTurns() int {
	return len(r.ConversationHistory) + 1
}

// RenderTranscript flattens the request into "{sender}: {text}" lines in
// chronological order, the form both the extractor and the persona model
// consume.
func (r EngageRequest) RenderTranscript() string {
	var b strings.Builder
	for _, m := range r.ConversationHistory {
		b.WriteString(m.Sender)
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteByte('\n')
	}
	b.WriteString(r.Message.Sender)
	b.WriteString(": ")
	b.WriteString(r.Message.Text)
	b.WriteByte('\n')
	return b.String()
}

// IntelligenceRecord groups the artifacts extracted from a transcript, one
// deduplicated collection per pattern category. Slices are never nil so every
// category marshals as a JSON array.
type IntelligenceRecord struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// NewIntelligenceRecord returns a record with empty (non-nil) categories.
func NewIntelligenceRecord() IntelligenceRecord {
	return IntelligenceRecord{
		BankAccounts:       []string{},
		UPIIDs:             []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
	}
}

// SessionState is the per-session engagement state. It is owned exclusively
// by the session store; the orchestrator never holds a copy across calls.
type SessionState struct {
	SessionID    string             `json:"sessionId"`
	TurnCount    int                `json:"turnCount"`
	Intelligence IntelligenceRecord `json:"intelligence"`
	Engaged      bool               `json:"engaged"`
	Reported     bool               `json:"reported"`
}

// EngagementResult is the per-request orchestrator output.
type EngagementResult struct {
	ScamDetected     bool
	AgentActivated   bool
	Reply            string
	TotalTurns       int
	EngagementActive bool
	// Intelligence is nil when no engagement happened this turn.
	Intelligence *IntelligenceRecord
}
