package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/groundsignal/leadradar/internal/config"
	"github.com/groundsignal/leadradar/internal/metrics"
	"github.com/groundsignal/leadradar/internal/model"
)

// Store defines the persistence interface for the lead pipeline. Writes
// are idempotent at the fingerprint level: re-storing a lead whose
// fingerprint already exists is a no-op.
type Store interface {
	// Leads
	StoreLeads(ctx context.Context, leads []model.Lead) (int, error)
	GetRecentLeads(ctx context.Context, window time.Duration) ([]model.Lead, error)
	ListLeads(ctx context.Context, limit int) ([]model.Lead, error)

	// Runs
	SaveRun(ctx context.Context, report *metrics.Report) (string, error)
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// RunRecord is one persisted pipeline run.
type RunRecord struct {
	ID        string          `json:"id"`
	Report    *metrics.Report `json:"report"`
	CreatedAt time.Time       `json:"created_at"`
}

// New creates a Store for the configured driver.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
