package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundsignal/leadradar/internal/model"
)

func TestOrgEnricher_SameLengthSameOrder(t *testing.T) {
	e := NewOrgEnricher()
	in := []model.Lead{
		{ID: "a", Title: "one"},
		{ID: "b", Title: "two"},
		{ID: "c", Title: "three"},
	}
	out, err := e.EnrichLeads(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestOrgEnricher_NormalizesFields(t *testing.T) {
	e := NewOrgEnricher()
	in := []model.Lead{{
		ID:           "x",
		Organization: "ACME BUILDERS, LLC",
		ProjectType:  "Mixed Use",
		Contacts: []model.Contact{
			{Name: "  Jordan Reyes ", Email: " Jordan@Example.COM ", Phone: " 555-0100 "},
		},
	}}
	out, err := e.EnrichLeads(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "Acme Builders", out[0].Organization)
	assert.Equal(t, "mixed_use", out[0].ProjectType)
	assert.Equal(t, "Jordan Reyes", out[0].Contacts[0].Name)
	assert.Equal(t, "jordan@example.com", out[0].Contacts[0].Email)
	assert.Equal(t, "555-0100", out[0].Contacts[0].Phone)
}

func TestOrgEnricher_CancelledContext(t *testing.T) {
	e := NewOrgEnricher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.EnrichLeads(ctx, []model.Lead{{ID: "a"}})
	assert.Error(t, err)
}
