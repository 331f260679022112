// Package nlp scores project intent — how strongly a lead's text signals
// an upcoming construction project rather than general industry news.
package nlp

import (
	"context"
	"strings"
)

// IntentResult holds the outcome of intent analysis.
type IntentResult struct {
	IntentScore float64  `json:"intent_score"`
	Indicators  []string `json:"indicators"`
}

// Processor analyzes project intent in free text. Implementations may
// call out to a hosted model; the pipeline only depends on this contract.
type Processor interface {
	AnalyzeProjectIntent(ctx context.Context, text string) (*IntentResult, error)
}

// intentKeywords maps signal phrases to their weight contribution.
// Strong phrases indicate committed work (permits, awards, groundbreaking);
// weak ones indicate early or speculative stages.
var intentKeywords = map[string]float64{
	"breaks ground":      0.30,
	"groundbreaking":     0.30,
	"construction begin": 0.25,
	"awarded":            0.25,
	"contract awarded":   0.30,
	"building permit":    0.25,
	"permit approved":    0.25,
	"approved":           0.15,
	"rfp":                0.20,
	"request for proposal": 0.20,
	"bids due":           0.20,
	"expansion":          0.15,
	"renovation":         0.15,
	"new facility":       0.20,
	"development":        0.10,
	"planned":            0.10,
	"proposed":           0.10,
}

// KeywordScorer is the default Processor: a deterministic keyword model
// good enough for gating when no hosted model is configured.
type KeywordScorer struct{}

// NewKeywordScorer creates the default keyword-based intent scorer.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

// AnalyzeProjectIntent sums keyword weights over the text, capped at 1.0.
func (s *KeywordScorer) AnalyzeProjectIntent(_ context.Context, text string) (*IntentResult, error) {
	lower := strings.ToLower(text)

	result := &IntentResult{}
	for phrase, weight := range intentKeywords {
		if strings.Contains(lower, phrase) {
			result.IntentScore += weight
			result.Indicators = append(result.Indicators, phrase)
		}
	}
	if result.IntentScore > 1.0 {
		result.IntentScore = 1.0
	}
	return result, nil
}
