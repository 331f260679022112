package validate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/config"
	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/internal/nlp"
)

// Storage is the read path the duplicate check depends on.
type Storage interface {
	GetRecentLeads(ctx context.Context, window time.Duration) ([]model.Lead, error)
}

// Validator runs the ordered check set over leads.
type Validator struct {
	cfg     config.ValidationConfig
	storage Storage
	nlp     nlp.Processor
	now     func() time.Time
}

// New creates a validator with injected collaborators.
func New(cfg config.ValidationConfig, storage Storage, proc nlp.Processor) *Validator {
	return &Validator{
		cfg:     cfg,
		storage: storage,
		nlp:     proc,
		now:     time.Now,
	}
}

// Outcome is the decision ValidateLead returns for one lead.
type Outcome struct {
	IsValid            bool     `json:"is_valid"`
	Messages           []string `json:"messages,omitempty"`
	AdjustedConfidence float64  `json:"adjusted_confidence"`
}

// ValidateLead folds every check into a single result. A rejected lead
// keeps its original confidence score untouched; an accepted one gets the
// summed adjustment applied, clamped to [0, 1].
func (v *Validator) ValidateLead(ctx context.Context, lead model.Lead) (*Outcome, error) {
	merged := NewResult()

	merged.Merge(v.CheckRequiredFields(lead))
	merged.Merge(v.CheckLocation(lead))
	merged.Merge(v.CheckMarketSector(lead))
	merged.Merge(v.CheckContactInfo(lead))

	dup, err := v.CheckDuplicate(ctx, lead)
	if err != nil {
		return nil, err
	}
	merged.Merge(dup)

	merged.Merge(v.CheckTimeline(lead, v.now()))

	intent, err := v.CheckProjectIntent(ctx, lead)
	if err != nil {
		return nil, err
	}
	merged.Merge(intent)

	outcome := &Outcome{
		IsValid:            merged.IsValid,
		Messages:           merged.Messages,
		AdjustedConfidence: lead.ConfidenceScore,
	}
	if merged.IsValid {
		outcome.AdjustedConfidence = model.ClampConfidence(lead.ConfidenceScore + merged.ConfidenceAdjustment)
	}

	zap.L().Debug("validate: lead checked",
		zap.String("lead_id", lead.ID),
		zap.Bool("valid", outcome.IsValid),
		zap.Float64("adjustment", merged.ConfidenceAdjustment),
	)
	return outcome, nil
}

// Quality-score weights for EvaluateLeadQuality.
const (
	qualityConfidenceWeight = 0.40
	qualityLocationWeight   = 0.20
	qualitySectorWeight     = 0.20
	qualityRecencyWeight    = 0.20
)

// EvaluateLeadQuality computes a standalone composite score in [0, 1]
// combining confidence, target-market fit, target-sector fit, and
// recency. It is independent of the pass/fail validation decision and
// used for reporting and ranking.
func (v *Validator) EvaluateLeadQuality(lead model.Lead) float64 {
	score := qualityConfidenceWeight * model.ClampConfidence(lead.ConfidenceScore)

	if len(v.cfg.TargetMarkets) == 0 || matchesAny(lead.Location, v.cfg.TargetMarkets) {
		score += qualityLocationWeight
	}

	if sector, ok := model.ParseSector(lead.ProjectType); ok {
		if len(v.cfg.TargetSectors) == 0 {
			score += qualitySectorWeight
		} else {
			for _, target := range v.cfg.TargetSectors {
				if t, tok := model.ParseSector(target); tok && t == sector {
					score += qualitySectorWeight
					break
				}
			}
		}
	}

	score += qualityRecencyWeight * v.recencyScore(lead)

	return model.ClampConfidence(score)
}

// recencyScore is 1.0 inside the publication window, decays linearly to
// zero at three windows, and is neutral (0.5) when no date is known.
func (v *Validator) recencyScore(lead model.Lead) float64 {
	if lead.PublishedDate == nil {
		return 0.5
	}
	windowDays := float64(v.cfg.PublicationDateWindowDays)
	if windowDays <= 0 {
		windowDays = 30
	}
	ageDays := v.now().Sub(*lead.PublishedDate).Hours() / 24
	if ageDays <= windowDays {
		return 1.0
	}
	if ageDays >= 3*windowDays {
		return 0.0
	}
	return 1.0 - (ageDays-windowDays)/(2*windowDays)
}
