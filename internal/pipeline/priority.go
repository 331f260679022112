package pipeline

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/groundsignal/leadradar/internal/config"
	"github.com/groundsignal/leadradar/internal/model"
)

// PrioritizeLeads computes a composite priority score per lead and
// returns the leads sorted by score descending, stable on ties. Each
// weighted contribution is recorded in the lead's PriorityFactors so
// the ranking stays explainable.
func PrioritizeLeads(leads []model.Lead, cfg config.PriorityConfig, targetMarkets, targetSectors []string, now time.Time) []model.Lead {
	out := make([]model.Lead, len(leads))
	copy(out, leads)

	for i := range out {
		factors := map[string]float64{
			"value":      cfg.ValueWeight * valueFactor(out[i].ProjectValue, cfg.LargeProjectValue),
			"confidence": cfg.ConfidenceWeight * out[i].ConfidenceScore,
			"recency":    cfg.RecencyWeight * recencyFactor(out[i].PublishedDate, cfg.StalenessDays, now),
			"market":     cfg.MarketWeight * marketFactor(out[i].Location, targetMarkets),
			"sector":     cfg.SectorWeight * sectorFactor(out[i].ProjectType, targetSectors),
		}
		score := 0.0
		for _, contribution := range factors {
			score += contribution
		}
		out[i].PriorityScore = score
		out[i].PriorityFactors = factors
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriorityScore > out[j].PriorityScore
	})
	return out
}

// valueFactor log-scales the project value, saturating at the
// large-project threshold.
func valueFactor(value, large float64) float64 {
	if value <= 1 || large <= 1 {
		return 0
	}
	f := math.Log10(value) / math.Log10(large)
	return math.Min(math.Max(f, 0), 1)
}

// recencyFactor decays linearly from 1.0 at publication to 0 at the
// staleness horizon. A missing date scores neutral.
func recencyFactor(published *time.Time, stalenessDays int, now time.Time) float64 {
	if published == nil {
		return 0.5
	}
	if stalenessDays <= 0 {
		return 1
	}
	age := now.Sub(*published).Hours() / 24
	if age <= 0 {
		return 1
	}
	f := 1 - age/float64(stalenessDays)
	if f < 0 {
		return 0
	}
	return f
}

func marketFactor(location string, targets []string) float64 {
	if matchesTarget(location, targets) {
		return 1
	}
	return 0
}

func sectorFactor(projectType string, targets []string) float64 {
	sector, ok := model.ParseSector(projectType)
	if !ok {
		return 0
	}
	for _, t := range targets {
		if parsed, ok := model.ParseSector(t); ok && parsed == sector {
			return 1
		}
	}
	return 0
}

// matchesTarget is a partial-match-aware membership test: substring in
// either direction, case-insensitive.
func matchesTarget(value string, targets []string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.Contains(v, t) || strings.Contains(t, v) {
			return true
		}
	}
	return false
}
