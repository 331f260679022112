package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/groundsignal/leadradar/internal/dedup"
	"github.com/groundsignal/leadradar/internal/metrics"
	"github.com/groundsignal/leadradar/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	fingerprint      TEXT NOT NULL UNIQUE,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL,
	organization     TEXT,
	location         TEXT,
	project_type     TEXT,
	project_value    DOUBLE PRECISION,
	confidence_score DOUBLE PRECISION NOT NULL,
	published_date   TIMESTAMPTZ,
	source_id        TEXT,
	url              TEXT,
	priority_score   DOUBLE PRECISION,
	priority_factors JSONB,
	contacts         JSONB,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	report     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
CREATE INDEX IF NOT EXISTS idx_leads_source_id ON leads(source_id);
CREATE INDEX IF NOT EXISTS idx_leads_priority ON leads(priority_score);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const insertLeadSQL = `
INSERT INTO leads (
	id, fingerprint, title, description, organization, location,
	project_type, project_value, confidence_score, published_date,
	source_id, url, priority_score, priority_factors, contacts, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (fingerprint) DO NOTHING`

// StoreLeads inserts leads, skipping fingerprints already present.
// Returns the number of newly stored rows.
func (s *PostgresStore) StoreLeads(ctx context.Context, leads []model.Lead) (int, error) {
	stored := 0
	now := time.Now().UTC()
	for i := range leads {
		lead := &leads[i]
		lead.EnsureID()

		factorsJSON, err := json.Marshal(lead.PriorityFactors)
		if err != nil {
			return stored, eris.Wrap(err, "postgres: marshal priority factors")
		}
		contactsJSON, err := json.Marshal(lead.Contacts)
		if err != nil {
			return stored, eris.Wrap(err, "postgres: marshal contacts")
		}

		tag, err := s.pool.Exec(ctx, insertLeadSQL,
			lead.ID, dedup.Fingerprint(*lead), lead.Title, lead.Description,
			lead.Organization, lead.Location, lead.ProjectType, lead.ProjectValue,
			lead.ConfidenceScore, lead.PublishedDate, lead.SourceID, lead.URL,
			lead.PriorityScore, factorsJSON, contactsJSON, now,
		)
		if err != nil {
			return stored, eris.Wrapf(err, "postgres: insert lead %s", lead.ID)
		}
		if tag.RowsAffected() > 0 {
			stored++
		}
	}
	return stored, nil
}

const selectLeadColumns = `
SELECT id, title, description, organization, location, project_type,
       project_value, confidence_score, published_date, source_id, url,
       priority_score, priority_factors, contacts, created_at
FROM leads`

func (s *PostgresStore) GetRecentLeads(ctx context.Context, window time.Duration) ([]model.Lead, error) {
	cutoff := time.Now().UTC().Add(-window)
	rows, err := s.pool.Query(ctx, selectLeadColumns+` WHERE created_at >= $1 ORDER BY created_at DESC`, cutoff)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query recent leads")
	}
	defer rows.Close()
	return scanPgLeads(rows)
}

func (s *PostgresStore) ListLeads(ctx context.Context, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, selectLeadColumns+` ORDER BY priority_score DESC NULLS LAST, created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()
	return scanPgLeads(rows)
}

func scanPgLeads(rows pgx.Rows) ([]model.Lead, error) {
	var leads []model.Lead
	for rows.Next() {
		var (
			lead         model.Lead
			org, loc     *string
			ptype, src   *string
			url          *string
			published    *time.Time
			factorsJSON  []byte
			contactsJSON []byte
		)
		if err := rows.Scan(
			&lead.ID, &lead.Title, &lead.Description, &org, &loc, &ptype,
			&lead.ProjectValue, &lead.ConfidenceScore, &published, &src, &url,
			&lead.PriorityScore, &factorsJSON, &contactsJSON, &lead.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		if org != nil {
			lead.Organization = *org
		}
		if loc != nil {
			lead.Location = *loc
		}
		if ptype != nil {
			lead.ProjectType = *ptype
		}
		if src != nil {
			lead.SourceID = *src
		}
		if url != nil {
			lead.URL = *url
		}
		lead.PublishedDate = published
		if len(factorsJSON) > 0 {
			if err := json.Unmarshal(factorsJSON, &lead.PriorityFactors); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal priority factors")
			}
		}
		if len(contactsJSON) > 0 {
			if err := json.Unmarshal(contactsJSON, &lead.Contacts); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal contacts")
			}
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func (s *PostgresStore) SaveRun(ctx context.Context, report *metrics.Report) (string, error) {
	id := uuid.New().String()
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal report")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, report, created_at) VALUES ($1, $2, $3)`,
		id, reportJSON, time.Now().UTC())
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert run")
	}
	return id, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, report, created_at FROM runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var reportJSON []byte
		if err := rows.Scan(&rec.ID, &reportJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := json.Unmarshal(reportJSON, &rec.Report); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal report")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate runs")
}
