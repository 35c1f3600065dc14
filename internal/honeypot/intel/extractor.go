// Package intel turns raw conversation text into a structured
// IntelligenceRecord. Extraction is a pure function of the transcript: it is
// recomputed from scratch on every call and never merged with prior results.
package intel

import (
	"regexp"
	"strings"

	"github.com/scamtrap-poc/server/internal/honeypot/model"
)

var (
	// 9-18 consecutive digits, word-bounded. Long phone numbers or embedded
	// timestamps can false-positive here; accepted limitation.
	bankAccountPattern = regexp.MustCompile(`\b\d{9,18}\b`)

	// local-part@letters. Intentionally looser than the real UPI grammar so
	// partial or malformed handles still get captured.
	upiIDPattern = regexp.MustCompile(`[a-zA-Z0-9.\-_]+@[a-zA-Z]+`)

	phishingLinkPattern = regexp.MustCompile(`https?://\S+`)

	// +91 followed by exactly 10 digits.
	phoneNumberPattern = regexp.MustCompile(`\+91\d{10}`)
)

type Extractor struct {
	keywords []string
}

func NewExtractor(cfg model.ExtractorConfig) *Extractor {
	keywords := make([]string, 0, len(cfg.Keywords))
	for _, k := range cfg.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Extractor{keywords: keywords}
}

// Extract scans the rendered transcript and returns one deduplicated record.
// Repeated occurrences collapse to a single entry per category; first-seen
// order is preserved so output is deterministic.
func (e *Extractor) Extract(transcriptText string) model.IntelligenceRecord {
	rec := model.NewIntelligenceRecord()
	rec.BankAccounts = dedupe(bankAccountPattern.FindAllString(transcriptText, -1))
	rec.UPIIDs = dedupe(upiIDPattern.FindAllString(transcriptText, -1))
	rec.PhishingLinks = dedupe(phishingLinkPattern.FindAllString(transcriptText, -1))
	rec.PhoneNumbers = dedupe(phoneNumberPattern.FindAllString(transcriptText, -1))

	lowered := strings.ToLower(transcriptText)
	for _, keyword := range e.keywords {
		if strings.Contains(lowered, keyword) {
			rec.SuspiciousKeywords = append(rec.SuspiciousKeywords, keyword)
		}
	}
	return rec
}

func dedupe(matches []string) []string {
	out := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
