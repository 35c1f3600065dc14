package detect

import (
	"strings"

	"github.com/scamtrap-poc/server/internal/honeypot/model"
)

// Detector decides whether a single message looks like a scam opener or
// continuation. The decision is substring membership against a fixed signal
// vocabulary: no scoring, no negation handling, no context window.
type Detector struct {
	signals []string
}

func NewDetector(cfg model.DetectorConfig) *Detector {
	signals := make([]string, 0, len(cfg.Signals))
	for _, s := range cfg.Signals {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			signals = append(signals, s)
		}
	}
	return &Detector{signals: signals}
}

// IsScam reports whether any configured signal occurs in the message,
// case-insensitively. An empty message never matches.
func (d *Detector) IsScam(messageText string) bool {
	text := strings.ToLower(messageText)
	for _, signal := range d.signals {
		if strings.Contains(text, signal) {
			return true
		}
	}
	return false
}
