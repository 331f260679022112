package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MarketSector classifies a construction project by market.
type MarketSector string

const (
	SectorResidential    MarketSector = "residential"
	SectorCommercial     MarketSector = "commercial"
	SectorIndustrial     MarketSector = "industrial"
	SectorInfrastructure MarketSector = "infrastructure"
	SectorInstitutional  MarketSector = "institutional"
	SectorHealthcare     MarketSector = "healthcare"
	SectorEducation      MarketSector = "education"
	SectorMixedUse       MarketSector = "mixed_use"
)

// AllSectors lists every known market sector.
var AllSectors = []MarketSector{
	SectorResidential,
	SectorCommercial,
	SectorIndustrial,
	SectorInfrastructure,
	SectorInstitutional,
	SectorHealthcare,
	SectorEducation,
	SectorMixedUse,
}

// ParseSector matches free text against the sector enumeration,
// case-insensitively. Returns false if the text matches no known sector.
func ParseSector(s string) (MarketSector, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, sector := range AllSectors {
		if normalized == string(sector) {
			return sector, true
		}
	}
	return "", false
}

// DefaultConfidence is the neutral confidence assigned to leads whose
// extractor did not score them.
const DefaultConfidence = 0.5

// Contact is a person attached to a lead.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Lead is a candidate construction-project signal flowing through the
// pipeline. It is created by extraction and mutated in place by the
// filter, validation, enrichment and prioritization stages; once stored
// it is never touched again.
type Lead struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Organization    string             `json:"organization,omitempty"`
	Location        string             `json:"location,omitempty"`
	ProjectType     string             `json:"project_type,omitempty"`
	ProjectValue    float64            `json:"project_value,omitempty"`
	ConfidenceScore float64            `json:"confidence_score"`
	PublishedDate   *time.Time         `json:"published_date,omitempty"`
	SourceID        string             `json:"source_id,omitempty"`
	URL             string             `json:"url,omitempty"`
	Contacts        []Contact          `json:"contacts,omitempty"`
	PriorityScore   float64            `json:"priority_score,omitempty"`
	PriorityFactors map[string]float64 `json:"priority_factors,omitempty"`
	CreatedAt       time.Time          `json:"created_at,omitempty"`
}

// NewLead creates a lead with a generated ID and neutral confidence.
func NewLead(title, description string) Lead {
	return Lead{
		ID:              uuid.New().String(),
		Title:           title,
		Description:     description,
		ConfidenceScore: DefaultConfidence,
	}
}

// EnsureID assigns a generated ID if the extractor did not provide one.
func (l *Lead) EnsureID() {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
}

// AdjustConfidence applies a signed delta to the confidence score and
// clamps the result to [0, 1].
func (l *Lead) AdjustConfidence(delta float64) {
	l.ConfidenceScore = ClampConfidence(l.ConfidenceScore + delta)
}

// ClampConfidence bounds a confidence value to [0, 1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
