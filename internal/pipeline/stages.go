package pipeline

import (
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/dedup"
	"github.com/groundsignal/leadradar/internal/model"
)

// FilterLeads keeps leads with a non-empty title, a non-empty
// description, and a confidence at or above minConfidence. Order is
// preserved.
func FilterLeads(leads []model.Lead, minConfidence float64) []model.Lead {
	out := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.Title == "" || lead.Description == "" {
			continue
		}
		if lead.ConfidenceScore < minConfidence {
			continue
		}
		out = append(out, lead)
	}
	return out
}

// DeduplicateLeads collapses leads that share a fingerprint, keeping the
// highest-confidence member of each group (ties go to the first seen).
// Survivors come out in first-seen order of their fingerprints.
func DeduplicateLeads(leads []model.Lead) []model.Lead {
	type slot struct {
		lead  model.Lead
		index int
	}
	best := make(map[string]slot, len(leads))
	var order []string

	for _, lead := range leads {
		fp := dedup.Fingerprint(lead)
		existing, ok := best[fp]
		if !ok {
			best[fp] = slot{lead: lead, index: len(order)}
			order = append(order, fp)
			continue
		}
		if lead.ConfidenceScore > existing.lead.ConfidenceScore {
			best[fp] = slot{lead: lead, index: existing.index}
		}
	}

	if dropped := len(leads) - len(order); dropped > 0 {
		zap.L().Debug("pipeline: collapsed duplicate leads", zap.Int("dropped", dropped))
	}

	out := make([]model.Lead, len(order))
	for _, fp := range order {
		s := best[fp]
		out[s.index] = s.lead
	}
	return out
}

// nearDuplicateScanLimit bounds the pairwise scan; beyond it the cost
// outweighs the diagnostic value.
const nearDuplicateScanLimit = 200

// ReportNearDuplicates logs surviving lead pairs whose similarity meets
// the threshold. These pairs passed the fingerprint collapse but likely
// describe the same project; the log line is the operator's cue to
// tighten the source configs.
func ReportNearDuplicates(leads []model.Lead, threshold float64) int {
	if threshold <= 0 || threshold > 1 {
		return 0
	}
	n := len(leads)
	if n > nearDuplicateScanLimit {
		n = nearDuplicateScanLimit
	}

	found := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := dedup.Similarity(leads[i], leads[j])
			if sim < threshold {
				continue
			}
			found++
			zap.L().Info("pipeline: near-duplicate leads survived dedup",
				zap.String("lead_a", leads[i].Title),
				zap.String("lead_b", leads[j].Title),
				zap.Float64("similarity", sim),
			)
		}
	}
	return found
}
