// Package export pushes prioritized leads into the CRM.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/pkg/salesforce"
)

// Summary reports the outcome of one export batch.
type Summary struct {
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// SalesforceExporter writes leads to the Salesforce Lead object.
type SalesforceExporter struct {
	client salesforce.Client
}

func NewSalesforceExporter(client salesforce.Client) *SalesforceExporter {
	return &SalesforceExporter{client: client}
}

// ExportLeads inserts leads as Salesforce Lead records. Individual
// record failures are collected in the summary, not returned as errors.
func (e *SalesforceExporter) ExportLeads(ctx context.Context, leads []model.Lead) (*Summary, error) {
	if len(leads) == 0 {
		return &Summary{}, nil
	}

	records := make([]map[string]any, len(leads))
	for i, lead := range leads {
		records[i] = leadRecord(lead)
	}

	results, err := e.client.InsertCollection(ctx, "Lead", records)
	if err != nil {
		return nil, eris.Wrap(err, "export: insert leads")
	}

	summary := &Summary{Attempted: len(leads)}
	for i, r := range results {
		if r.Success {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("%s: %s", leads[i].ID, strings.Join(r.Errors, "; ")))
	}

	zap.L().Info("export: batch complete",
		zap.Int("attempted", summary.Attempted),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// leadRecord maps a lead onto Salesforce Lead fields. Custom fields
// carry the scoring detail.
func leadRecord(lead model.Lead) map[string]any {
	company := lead.Organization
	if company == "" {
		company = "Unknown"
	}
	lastName := lead.Title
	if len(lastName) > 80 {
		lastName = lastName[:80]
	}

	record := map[string]any{
		"Company":             company,
		"LastName":            lastName,
		"Description":         lead.Description,
		"LeadSource":          lead.SourceID,
		"Industry":            lead.ProjectType,
		"Project_Value__c":    lead.ProjectValue,
		"Confidence__c":       lead.ConfidenceScore,
		"Priority_Score__c":   lead.PriorityScore,
		"External_Lead_Id__c": lead.ID,
	}
	if lead.Location != "" {
		record["City"] = lead.Location
	}
	if lead.URL != "" {
		record["Website"] = lead.URL
	}
	if lead.PublishedDate != nil {
		record["Published_Date__c"] = lead.PublishedDate.UTC().Format(time.RFC3339)
	}
	if len(lead.Contacts) > 0 {
		c := lead.Contacts[0]
		if c.Email != "" {
			record["Email"] = c.Email
		}
		if c.Phone != "" {
			record["Phone"] = c.Phone
		}
	}
	return record
}
