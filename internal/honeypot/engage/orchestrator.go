// Package engage holds the per-session engagement state machine: classify
// the inbound message, run the victim persona, accumulate extracted
// intelligence and trigger the one-time final report.
package engage

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/scamtrap-poc/server/internal/honeypot/detect"
	"github.com/scamtrap-poc/server/internal/honeypot/intel"
	"github.com/scamtrap-poc/server/internal/honeypot/model"
	logx "github.com/scamtrap-poc/server/pkg/logger"
)

// lockStripes bounds the lock table; sessions hashing to the same stripe
// serialize against each other, which is harmless.
const lockStripes = 64

// Orchestrator composes the classifier, extractor, session store, persona
// generator and report sink. Access to a session's state is serialized per
// sessionId so concurrent retries cannot lose updates or double-report.
type Orchestrator struct {
	detector        *detect.Detector
	extractor       *intel.Extractor
	store           model.SessionStore
	generator       model.ReplyGenerator
	sink            model.ReportSink
	threshold       int
	disengagedReply string

	locks [lockStripes]sync.Mutex
}

func NewOrchestrator(
	detector *detect.Detector,
	extractor *intel.Extractor,
	store model.SessionStore,
	generator model.ReplyGenerator,
	sink model.ReportSink,
	cfg model.EngagementConfig,
) *Orchestrator {
	return &Orchestrator{
		detector:        detector,
		extractor:       extractor,
		store:           store,
		generator:       generator,
		sink:            sink,
		threshold:       cfg.ReportThreshold,
		disengagedReply: cfg.DisengagedReply,
	}
}

// HandleMessage processes one inbound message.
//
// Turn counting is derived from the caller-supplied history, not from stored
// state: a caller that omits history resets the apparent turn count. That is
// the documented trust boundary of the inbound contract.
func (o *Orchestrator) HandleMessage(ctx context.Context, req model.EngageRequest) (*model.EngagementResult, error) {
	totalTurns := req.TotalTurns()

	if !o.detector.IsScam(req.Message.Text) {
		// No session is created or mutated for non-scam traffic, even when
		// the session is already engaged; stale state persists until expiry.
		return &model.EngagementResult{
			Reply:      o.disengagedReply,
			TotalTurns: totalTurns,
		}, nil
	}

	lock := o.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	transcript := req.RenderTranscript()

	// Persona reply comes first: if the collaborator fails, nothing below is
	// committed and stored state stays consistent with the response.
	reply, err := o.generator.GenerateReply(ctx, transcript)
	if err != nil {
		return nil, err
	}

	// Intelligence is recomputed over the whole transcript each turn, never
	// merged incrementally.
	record := o.extractor.Extract(transcript)

	state, err := o.store.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &model.SessionState{SessionID: req.SessionID}
		logx.Debug().Str("sessionID", req.SessionID).Msg("engagement session created")
	}
	state.TurnCount = totalTurns
	state.Intelligence = record
	state.Engaged = true

	if totalTurns >= o.threshold && !state.Reported {
		if reportErr := o.sink.Report(ctx, req.SessionID, record, totalTurns); reportErr != nil {
			// Delivery failure is absorbed; Reported stays false so the next
			// qualifying turn retries.
			logx.Warn().Err(reportErr).Str("sessionID", req.SessionID).Msg("final report not delivered, will retry next turn")
		} else {
			state.Reported = true
		}
	}

	if err := o.store.Put(ctx, req.SessionID, state); err != nil {
		return nil, err
	}

	return &model.EngagementResult{
		ScamDetected:     true,
		AgentActivated:   true,
		Reply:            reply,
		TotalTurns:       totalTurns,
		EngagementActive: true,
		Intelligence:     &record,
	}, nil
}

func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &o.locks[h.Sum32()%lockStripes]
}
