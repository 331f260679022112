package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/groundsignal/leadradar/internal/dedup"
	"github.com/groundsignal/leadradar/internal/metrics"
	"github.com/groundsignal/leadradar/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "leadradar.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	fingerprint      TEXT NOT NULL UNIQUE,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL,
	organization     TEXT,
	location         TEXT,
	project_type     TEXT,
	project_value    REAL,
	confidence_score REAL NOT NULL,
	published_date   DATETIME,
	source_id        TEXT,
	url              TEXT,
	priority_score   REAL,
	priority_factors TEXT,
	contacts         TEXT,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	report     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
CREATE INDEX IF NOT EXISTS idx_leads_source_id ON leads(source_id);
CREATE INDEX IF NOT EXISTS idx_leads_priority ON leads(priority_score);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// StoreLeads inserts leads, skipping fingerprints already present.
// Returns the number of newly stored rows.
func (s *SQLiteStore) StoreLeads(ctx context.Context, leads []model.Lead) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (
			id, fingerprint, title, description, organization, location,
			project_type, project_value, confidence_score, published_date,
			source_id, url, priority_score, priority_factors, contacts, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	stored := 0
	now := time.Now().UTC()
	for i := range leads {
		lead := &leads[i]
		lead.EnsureID()

		factorsJSON, err := json.Marshal(lead.PriorityFactors)
		if err != nil {
			return stored, eris.Wrap(err, "sqlite: marshal priority factors")
		}
		contactsJSON, err := json.Marshal(lead.Contacts)
		if err != nil {
			return stored, eris.Wrap(err, "sqlite: marshal contacts")
		}

		res, err := stmt.ExecContext(ctx,
			lead.ID, dedup.Fingerprint(*lead), lead.Title, lead.Description,
			lead.Organization, lead.Location, lead.ProjectType, lead.ProjectValue,
			lead.ConfidenceScore, lead.PublishedDate, lead.SourceID, lead.URL,
			lead.PriorityScore, string(factorsJSON), string(contactsJSON), now,
		)
		if err != nil {
			return stored, eris.Wrapf(err, "sqlite: insert lead %s", lead.ID)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stored++
		}
	}

	if err := tx.Commit(); err != nil {
		return stored, eris.Wrap(err, "sqlite: commit")
	}
	return stored, nil
}

func (s *SQLiteStore) GetRecentLeads(ctx context.Context, window time.Duration) ([]model.Lead, error) {
	cutoff := time.Now().UTC().Add(-window)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, organization, location, project_type,
		       project_value, confidence_score, published_date, source_id, url,
		       priority_score, priority_factors, contacts, created_at
		FROM leads WHERE created_at >= ? ORDER BY created_at DESC`, cutoff)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query recent leads")
	}
	defer rows.Close()
	return scanLeadRows(rows)
}

func (s *SQLiteStore) ListLeads(ctx context.Context, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, organization, location, project_type,
		       project_value, confidence_score, published_date, source_id, url,
		       priority_score, priority_factors, contacts, created_at
		FROM leads ORDER BY priority_score DESC, created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()
	return scanLeadRows(rows)
}

// scanLeadRows decodes lead rows shared by the sqlite read paths.
func scanLeadRows(rows *sql.Rows) ([]model.Lead, error) {
	var leads []model.Lead
	for rows.Next() {
		var (
			lead         model.Lead
			published    sql.NullTime
			factorsJSON  sql.NullString
			contactsJSON sql.NullString
			org, loc     sql.NullString
			ptype, src   sql.NullString
			url          sql.NullString
		)
		if err := rows.Scan(
			&lead.ID, &lead.Title, &lead.Description, &org, &loc, &ptype,
			&lead.ProjectValue, &lead.ConfidenceScore, &published, &src, &url,
			&lead.PriorityScore, &factorsJSON, &contactsJSON, &lead.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		lead.Organization = org.String
		lead.Location = loc.String
		lead.ProjectType = ptype.String
		lead.SourceID = src.String
		lead.URL = url.String
		if published.Valid {
			t := published.Time
			lead.PublishedDate = &t
		}
		if factorsJSON.Valid && factorsJSON.String != "" && factorsJSON.String != "null" {
			if err := json.Unmarshal([]byte(factorsJSON.String), &lead.PriorityFactors); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal priority factors")
			}
		}
		if contactsJSON.Valid && contactsJSON.String != "" && contactsJSON.String != "null" {
			if err := json.Unmarshal([]byte(contactsJSON.String), &lead.Contacts); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal contacts")
			}
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}

func (s *SQLiteStore) SaveRun(ctx context.Context, report *metrics.Report) (string, error) {
	id := uuid.New().String()
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal report")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, report, created_at) VALUES (?, ?, ?)`,
		id, string(reportJSON), time.Now().UTC())
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert run")
	}
	return id, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report, created_at FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var reportJSON string
		if err := rows.Scan(&rec.ID, &reportJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal report")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}
