package pipeline

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/groundsignal/leadradar/internal/metrics"
	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/internal/store"
)

// stubExtractor routes Extract calls to a per-test function.
type stubExtractor struct {
	typ model.SourceType
	fn  func(ctx context.Context, source model.DataSource) ([]model.Lead, error)
}

func (s *stubExtractor) Type() model.SourceType { return s.typ }

func (s *stubExtractor) Extract(ctx context.Context, source model.DataSource) ([]model.Lead, error) {
	return s.fn(ctx, source)
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) EnrichLeads(ctx context.Context, leads []model.Lead) ([]model.Lead, error) {
	args := m.Called(ctx, leads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) StoreLeads(ctx context.Context, leads []model.Lead) (int, error) {
	args := m.Called(ctx, leads)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) GetRecentLeads(ctx context.Context, window time.Duration) ([]model.Lead, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *mockStore) ListLeads(ctx context.Context, limit int) ([]model.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *mockStore) SaveRun(ctx context.Context, report *metrics.Report) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, limit int) ([]store.RunRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.RunRecord), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
