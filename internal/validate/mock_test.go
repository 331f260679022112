package validate

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/internal/nlp"
)

// --- Storage mock ---

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GetRecentLeads(ctx context.Context, window time.Duration) ([]model.Lead, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

// --- NLP mock ---

type mockNLP struct {
	mock.Mock
}

func (m *mockNLP) AnalyzeProjectIntent(ctx context.Context, text string) (*nlp.IntentResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nlp.IntentResult), args.Error(1)
}
