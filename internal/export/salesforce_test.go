package export

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/pkg/salesforce"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Query(ctx context.Context, soql string, out any) error {
	return m.Called(ctx, soql, out).Error(0)
}

func (m *mockClient) InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]salesforce.CollectionResult, error) {
	args := m.Called(ctx, sObjectName, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]salesforce.CollectionResult), args.Error(1)
}

func TestExportLeads(t *testing.T) {
	client := &mockClient{}
	var captured []map[string]any
	client.On("InsertCollection", mock.Anything, "Lead", mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]map[string]any)
		}).
		Return([]salesforce.CollectionResult{
			{ID: "sf-1", Success: true},
			{Success: false, Errors: []string{"REQUIRED_FIELD_MISSING"}},
		}, nil)

	leads := []model.Lead{
		{
			ID:              "lead-1",
			Title:           "Hospital expansion",
			Description:     "Patient tower",
			Organization:    "Mercy Health",
			Location:        "Austin, TX",
			SourceID:        "src-1",
			ProjectValue:    12000000,
			ConfidenceScore: 0.85,
			PriorityScore:   0.9,
			Contacts:        []model.Contact{{Email: "jo@example.com", Phone: "512-555-0100"}},
		},
		{ID: "lead-2", Title: "Warehouse build", Description: "Tilt-wall"},
	}

	summary, err := NewSalesforceExporter(client).ExportLeads(context.Background(), leads)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "lead-2")

	require.Len(t, captured, 2)
	assert.Equal(t, "Mercy Health", captured[0]["Company"])
	assert.Equal(t, "Hospital expansion", captured[0]["LastName"])
	assert.Equal(t, "jo@example.com", captured[0]["Email"])
	assert.Equal(t, "lead-1", captured[0]["External_Lead_Id__c"])
	// missing organization falls back so the required Company field is set
	assert.Equal(t, "Unknown", captured[1]["Company"])
	client.AssertExpectations(t)
}

func TestExportLeadsEmptyBatch(t *testing.T) {
	summary, err := NewSalesforceExporter(&mockClient{}).ExportLeads(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Attempted)
}

func TestExportLeadsAPIError(t *testing.T) {
	client := &mockClient{}
	client.On("InsertCollection", mock.Anything, "Lead", mock.Anything).
		Return(nil, eris.New("INVALID_SESSION_ID"))

	_, err := NewSalesforceExporter(client).ExportLeads(context.Background(), []model.Lead{
		{ID: "lead-1", Title: "t", Description: "d"},
	})
	assert.ErrorContains(t, err, "insert leads")
}
