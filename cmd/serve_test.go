package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundsignal/leadradar/internal/metrics"
	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/internal/store"
)

// stubStore backs the router tests without a database.
type stubStore struct {
	leads []model.Lead
	runs  []store.RunRecord
	err   error
}

func (s *stubStore) StoreLeads(ctx context.Context, leads []model.Lead) (int, error) {
	return len(leads), s.err
}

func (s *stubStore) GetRecentLeads(ctx context.Context, window time.Duration) ([]model.Lead, error) {
	return s.leads, s.err
}

func (s *stubStore) ListLeads(ctx context.Context, limit int) ([]model.Lead, error) {
	return s.leads, s.err
}

func (s *stubStore) SaveRun(ctx context.Context, report *metrics.Report) (string, error) {
	return "run-1", s.err
}

func (s *stubStore) ListRuns(ctx context.Context, limit int) ([]store.RunRecord, error) {
	return s.runs, s.err
}

func (s *stubStore) Migrate(ctx context.Context) error { return s.err }
func (s *stubStore) Close() error                      { return nil }

func TestRouterHealth(t *testing.T) {
	router := newRouter(&stubStore{}, func(string) error { return nil })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRouterTriggerRun(t *testing.T) {
	var gotPath string
	router := newRouter(&stubStore{}, func(path string) error {
		gotPath = path
		return nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/run",
		strings.NewReader(`{"sources_path": "custom.yaml"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "custom.yaml", gotPath)
}

func TestRouterTriggerRunBadSources(t *testing.T) {
	router := newRouter(&stubStore{}, func(string) error {
		return eris.New("sources file missing")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterListLeads(t *testing.T) {
	router := newRouter(&stubStore{
		leads: []model.Lead{{ID: "lead-1", Title: "Tower build", PriorityScore: 0.9}},
	}, func(string) error { return nil })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads?limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var leads []model.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "lead-1", leads[0].ID)
}

func TestRouterListLeadsStoreError(t *testing.T) {
	router := newRouter(&stubStore{err: eris.New("db gone")}, func(string) error { return nil })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouterListRuns(t *testing.T) {
	router := newRouter(&stubStore{
		runs: []store.RunRecord{{ID: "run-1", Report: &metrics.Report{TotalSources: 2}}},
	}, func(string) error { return nil })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run-1")
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/leads?limit=7", nil)
	assert.Equal(t, 7, queryInt(req, "limit", 50))

	req = httptest.NewRequest(http.MethodGet, "/leads?limit=junk", nil)
	assert.Equal(t, 50, queryInt(req, "limit", 50))

	req = httptest.NewRequest(http.MethodGet, "/leads", nil)
	assert.Equal(t, 50, queryInt(req, "limit", 50))
}
