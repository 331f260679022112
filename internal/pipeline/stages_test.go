package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestFilterLeadsByConfidence(t *testing.T) {
	leads := []model.Lead{
		{Title: "a", Description: "d", ConfidenceScore: 0.8},
		{Title: "b", Description: "d", ConfidenceScore: 0.6},
		{Title: "c", Description: "d", ConfidenceScore: 0.4},
	}

	kept := FilterLeads(leads, 0.5)
	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Title)
	assert.Equal(t, "b", kept[1].Title)
}

func TestFilterLeadsRequiresTitleAndDescription(t *testing.T) {
	leads := []model.Lead{
		{Title: "", Description: "d", ConfidenceScore: 0.9},
		{Title: "t", Description: "", ConfidenceScore: 0.9},
		{Title: "t", Description: "d", ConfidenceScore: 0.9},
	}

	kept := FilterLeads(leads, 0.5)
	require.Len(t, kept, 1)
	assert.Equal(t, "t", kept[0].Title)
}

func TestFilterLeadsEmptyInput(t *testing.T) {
	assert.Empty(t, FilterLeads(nil, 0.5))
}

func TestDeduplicateLeadsKeepsHighestConfidence(t *testing.T) {
	leads := []model.Lead{
		{Title: "Tower build", Organization: "Ajax", Location: "Austin", ConfidenceScore: 0.5, SourceID: "a"},
		{Title: "tower   BUILD", Organization: "ajax", Location: "austin", ConfidenceScore: 0.9, SourceID: "b"},
		{Title: "Different project", Organization: "Ajax", ConfidenceScore: 0.7, SourceID: "c"},
	}

	out := DeduplicateLeads(leads)
	require.Len(t, out, 2)
	// survivor of the duplicate group has the higher confidence but keeps
	// the group's first-seen position
	assert.Equal(t, "b", out[0].SourceID)
	assert.Equal(t, 0.9, out[0].ConfidenceScore)
	assert.Equal(t, "c", out[1].SourceID)
}

func TestDeduplicateLeadsTieKeepsFirstSeen(t *testing.T) {
	leads := []model.Lead{
		{Title: "Tower build", Organization: "Ajax", ConfidenceScore: 0.7, SourceID: "first"},
		{Title: "Tower build", Organization: "Ajax", ConfidenceScore: 0.7, SourceID: "second"},
	}

	out := DeduplicateLeads(leads)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].SourceID)
}

func TestDeduplicateLeadsIdempotent(t *testing.T) {
	leads := []model.Lead{
		{Title: "Tower build", Organization: "Ajax", ConfidenceScore: 0.5, SourceID: "a"},
		{Title: "tower BUILD", Organization: "ajax", ConfidenceScore: 0.9, SourceID: "b"},
		{Title: "Runway extension", Organization: "City of Tulsa", ConfidenceScore: 0.7, SourceID: "c"},
	}

	once := DeduplicateLeads(leads)
	twice := DeduplicateLeads(once)
	assert.Equal(t, once, twice)
}

func TestReportNearDuplicates(t *testing.T) {
	leads := []model.Lead{
		{Title: "Mercy Health hospital expansion phase two", Description: "Three-story patient tower on the north campus", Organization: "Mercy Health", Location: "Austin, TX", ProjectType: "healthcare", ConfidenceScore: 0.8},
		{Title: "Mercy Health hospital expansion phase 2", Description: "Three-story patient tower on the north campus", Organization: "Mercy Health Inc", Location: "Austin, TX", ProjectType: "healthcare", ConfidenceScore: 0.7},
		{Title: "Runway extension", Description: "Regional airport adds 2000 feet", Organization: "City of Tulsa", Location: "Tulsa, OK", ProjectType: "infrastructure", ConfidenceScore: 0.6},
	}

	assert.Equal(t, 1, ReportNearDuplicates(leads, 0.85))
	assert.Equal(t, 0, ReportNearDuplicates(leads[2:], 0.85))
	assert.Equal(t, 0, ReportNearDuplicates(leads, 0))
}

func TestDeduplicateLeadsPreservesOrder(t *testing.T) {
	leads := []model.Lead{
		{Title: "p1", Organization: "o1", ConfidenceScore: 0.5},
		{Title: "p2", Organization: "o2", ConfidenceScore: 0.5},
		{Title: "p3", Organization: "o3", ConfidenceScore: 0.5},
		{Title: "p1", Organization: "o1", ConfidenceScore: 0.4}, // dup of first
	}

	out := DeduplicateLeads(leads)
	require.Len(t, out, 3)
	assert.Equal(t, "p1", out[0].Title)
	assert.Equal(t, "p2", out[1].Title)
	assert.Equal(t, "p3", out[2].Title)
}
