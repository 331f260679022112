// Package enrich augments leads with company and contact data. The
// pipeline depends only on the Enricher contract: same length, same
// identity order, per-lead failures swallowed by the implementation.
package enrich

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/dedup"
	"github.com/groundsignal/leadradar/internal/model"
)

// Enricher augments a batch of leads in place and returns them in the
// same order.
type Enricher interface {
	EnrichLeads(ctx context.Context, leads []model.Lead) ([]model.Lead, error)
}

// OrgEnricher is the default enricher: it normalizes organization names,
// resolves free-text project types against the sector enumeration, and
// tidies contact fields. It never fails per-lead.
type OrgEnricher struct{}

// NewOrgEnricher creates the default enricher.
func NewOrgEnricher() *OrgEnricher {
	return &OrgEnricher{}
}

// EnrichLeads normalizes organization and project type on each lead.
func (e *OrgEnricher) EnrichLeads(ctx context.Context, leads []model.Lead) ([]model.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "enrich: context done")
	}

	for i := range leads {
		lead := &leads[i]

		if lead.Organization != "" {
			lead.Organization = tidyOrganization(lead.Organization)
		}
		if sector, ok := model.ParseSector(lead.ProjectType); ok {
			lead.ProjectType = string(sector)
		}
		for j := range lead.Contacts {
			c := &lead.Contacts[j]
			c.Name = strings.TrimSpace(c.Name)
			c.Email = strings.ToLower(strings.TrimSpace(c.Email))
			c.Phone = strings.TrimSpace(c.Phone)
		}
	}

	zap.L().Debug("enrich: batch complete", zap.Int("leads", len(leads)))
	return leads, nil
}

// tidyOrganization title-cases a normalized organization name so stored
// leads present consistently in the CRM.
func tidyOrganization(org string) string {
	normalized := dedup.NormalizeOrganization(org)
	if normalized == "" {
		return strings.TrimSpace(org)
	}
	words := strings.Fields(normalized)
	for i, w := range words {
		if w == "and" || w == "of" || w == "the" {
			if i > 0 {
				continue
			}
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
