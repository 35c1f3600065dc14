package model

import "context"

// SessionStore is the session registry capability the orchestrator depends
// on. Implementations bound capacity and expire idle sessions; state does
// not survive process restarts by contract.
type SessionStore interface {
	// Get returns the stored state for the session, or nil when absent.
	Get(ctx context.Context, sessionID string) (*SessionState, error)

	// Put stores the state, unconditionally overwriting any previous value
	// and refreshing the session's expiry.
	Put(ctx context.Context, sessionID string, state *SessionState) error
}

// ReplyGenerator produces one in-character victim reply for the rendered
// transcript. Failures (quota, network, content policy, missing credential)
// are fatal for the current request.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, transcript string) (string, error)
}

// ReportSink delivers the completed-engagement summary to the external
// aggregator. Delivery is fire-and-forget with a bounded timeout; an error
// return only signals the caller to retry on a later turn.
type ReportSink interface {
	Report(ctx context.Context, sessionID string, intel IntelligenceRecord, totalTurns int) error
}
