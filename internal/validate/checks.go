package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/groundsignal/leadradar/internal/dedup"
	"github.com/groundsignal/leadradar/internal/model"
)

// Confidence deltas contributed by individual checks.
const (
	adjShortField     = -0.05
	adjLocationMatch  = 0.10
	adjLocationMiss   = -0.10
	adjSectorMatch    = 0.05
	adjSectorMiss     = -0.05
	adjDuplicateFound = -0.30
	adjNoDuplicate    = 0.05
	adjRecent         = 0.10
	adjStale          = -0.10
	adjIntentHigh     = 0.15
	adjIntentLow      = -0.20
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nonPhoneRe = regexp.MustCompile(`[^0-9+]`)
)

// CheckRequiredFields fails CRITICAL when any configured required field
// is empty. A title or description shorter than the configured minimum
// produces a STANDARD warning with a negative adjustment but does not
// invalidate.
func (v *Validator) CheckRequiredFields(lead model.Lead) *Result {
	result := NewResult()

	for _, field := range v.cfg.RequiredFields {
		if leadField(lead, field) == "" {
			result.Merge(Invalid(LevelCritical, 0, fmt.Sprintf("required field %q is empty", field)))
		}
	}

	if v.cfg.MinTitleLength > 0 && lead.Title != "" && utf8.RuneCountInString(lead.Title) < v.cfg.MinTitleLength {
		result.Merge(Valid(adjShortField, fmt.Sprintf("title shorter than %d characters", v.cfg.MinTitleLength)))
	}
	if v.cfg.MinDescriptionLength > 0 && lead.Description != "" && utf8.RuneCountInString(lead.Description) < v.cfg.MinDescriptionLength {
		result.Merge(Valid(adjShortField, fmt.Sprintf("description shorter than %d characters", v.cfg.MinDescriptionLength)))
	}

	return result
}

// leadField resolves a required-field name to its value.
func leadField(lead model.Lead, name string) string {
	switch name {
	case "title":
		return strings.TrimSpace(lead.Title)
	case "description":
		return strings.TrimSpace(lead.Description)
	case "organization":
		return strings.TrimSpace(lead.Organization)
	case "location":
		return strings.TrimSpace(lead.Location)
	case "project_type":
		return strings.TrimSpace(lead.ProjectType)
	case "source_id":
		return strings.TrimSpace(lead.SourceID)
	case "url":
		return strings.TrimSpace(lead.URL)
	default:
		// Unknown names count as absent so config typos surface loudly.
		return ""
	}
}

// CheckLocation scores the lead's location against the configured target
// markets: exact, substring, or case-insensitive matches all count. An
// out-of-market lead is suspect, not unusable, so the miss is STANDARD.
func (v *Validator) CheckLocation(lead model.Lead) *Result {
	if len(v.cfg.TargetMarkets) == 0 {
		return NewResult()
	}

	if matchesAny(lead.Location, v.cfg.TargetMarkets) {
		return Valid(adjLocationMatch, fmt.Sprintf("location %q in target markets", lead.Location))
	}
	return Invalid(LevelStandard, adjLocationMiss, fmt.Sprintf("location %q outside target markets", lead.Location))
}

// matchesAny reports whether value matches any candidate exactly, as a
// substring in either direction, or case-insensitively.
func matchesAny(value string, candidates []string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if value == c || strings.Contains(value, c) || strings.Contains(c, value) {
			return true
		}
	}
	return false
}

// CheckMarketSector validates project type against the sector enumeration
// and the configured target sectors, case-insensitively.
func (v *Validator) CheckMarketSector(lead model.Lead) *Result {
	sector, known := model.ParseSector(lead.ProjectType)
	if !known {
		return Invalid(LevelStandard, adjSectorMiss, fmt.Sprintf("unknown market sector %q", lead.ProjectType))
	}

	if len(v.cfg.TargetSectors) == 0 {
		return Valid(0)
	}
	for _, target := range v.cfg.TargetSectors {
		if t, ok := model.ParseSector(target); ok && t == sector {
			return Valid(adjSectorMatch, fmt.Sprintf("sector %q in target sectors", sector))
		}
	}
	return Invalid(LevelStandard, adjSectorMiss, fmt.Sprintf("sector %q outside target sectors", sector))
}

// CheckContactInfo normalizes contact emails and phone numbers. Malformed
// emails produce a message but the contact is kept with whatever fields
// could be salvaged — this check is purely advisory and never invalidates.
func (v *Validator) CheckContactInfo(lead model.Lead) *Result {
	result := NewResult()
	if len(lead.Contacts) == 0 {
		return result
	}

	normalized := make([]model.Contact, 0, len(lead.Contacts))
	for _, c := range lead.Contacts {
		nc := model.Contact{
			Name: strings.TrimSpace(c.Name),
			Role: strings.TrimSpace(c.Role),
		}

		email := strings.ToLower(strings.TrimSpace(c.Email))
		if email != "" {
			if emailRe.MatchString(email) {
				nc.Email = email
			} else {
				result.AddMessage(fmt.Sprintf("malformed email %q for contact %q", c.Email, nc.Name))
			}
		}

		phone := nonPhoneRe.ReplaceAllString(c.Phone, "")
		if len(phone) >= 7 {
			nc.Phone = phone
		} else if strings.TrimSpace(c.Phone) != "" {
			result.AddMessage(fmt.Sprintf("unusable phone %q for contact %q", c.Phone, nc.Name))
		}

		normalized = append(normalized, nc)
	}

	result.NormalizedData = normalized
	return result
}

// CheckDuplicate compares the lead against recently stored leads using
// the similarity engine. Any match above the configured threshold marks
// the lead invalid.
func (v *Validator) CheckDuplicate(ctx context.Context, lead model.Lead) (*Result, error) {
	window := time.Duration(v.cfg.DuplicateLookbackDays) * 24 * time.Hour
	recent, err := v.storage.GetRecentLeads(ctx, window)
	if err != nil {
		return nil, eris.Wrap(err, "validate: get recent leads")
	}

	found := 0
	for _, candidate := range recent {
		if candidate.ID == lead.ID {
			continue
		}
		if dedup.Similarity(lead, candidate) >= v.cfg.DuplicateSimilarityThreshold {
			found++
		}
	}

	if found > 0 {
		return Invalid(LevelStandard, adjDuplicateFound,
			fmt.Sprintf("found %d near-duplicate(s) in recent leads", found)), nil
	}
	return Valid(adjNoDuplicate), nil
}

// CheckTimeline scores publication recency. A lead inside the configured
// window gains confidence; an older one remains valid but loses some.
// A missing date is neutral.
func (v *Validator) CheckTimeline(lead model.Lead, now time.Time) *Result {
	if lead.PublishedDate == nil {
		return NewResult()
	}

	window := time.Duration(v.cfg.PublicationDateWindowDays) * 24 * time.Hour
	age := now.Sub(*lead.PublishedDate)
	if age <= window {
		return Valid(adjRecent, "published within target window")
	}
	return Valid(adjStale, fmt.Sprintf("published %d days ago, beyond target window", int(age.Hours()/24)))
}

// CheckProjectIntent delegates to the NLP collaborator and gates on the
// configured intent threshold.
func (v *Validator) CheckProjectIntent(ctx context.Context, lead model.Lead) (*Result, error) {
	text := strings.TrimSpace(lead.Title + " " + lead.Description)
	intent, err := v.nlp.AnalyzeProjectIntent(ctx, text)
	if err != nil {
		return nil, eris.Wrap(err, "validate: analyze intent")
	}

	if intent.IntentScore >= v.cfg.IntentScoreThreshold {
		return Valid(adjIntentHigh, fmt.Sprintf("project intent %.2f (indicators: %s)",
			intent.IntentScore, strings.Join(intent.Indicators, ", "))), nil
	}
	return Invalid(LevelStandard, adjIntentLow,
		fmt.Sprintf("project intent %.2f below threshold %.2f", intent.IntentScore, v.cfg.IntentScoreThreshold)), nil
}
