// Package catalog keeps a local listing catalog in PostgreSQL and serves it
// through the same page contract as the public listing endpoint, so the
// search service can run against its own data.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/search-service/internal/model"
)

// Store is what the catalog handlers need from storage.
type Store interface {
	Page(ctx context.Context, limit, offset int) ([]model.ListingRecord, int, error)
	Upsert(ctx context.Context, records []model.ListingRecord) error
}

// PGStore stores one row per jd_uid; position keeps first-insert order so
// paging is stable while rows are updated.
type PGStore struct{ pool *pgxpool.Pool }

var _ Store = (*PGStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS jd_listings (
  position     BIGSERIAL,
  jd_uid       TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  job_role     TEXT NOT NULL,
  location     TEXT NOT NULL,
  doc          JSONB NOT NULL,
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_jd_listings_position ON jd_listings(position);
`

// NewPGStore ensures the schema exists.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool) (*PGStore, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("create jd_listings: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// Page returns up to limit listings starting at offset, plus the total
// number of listings in the catalog.
func (s *PGStore) Page(ctx context.Context, limit, offset int) ([]model.ListingRecord, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM jd_listings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jd_listings: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM jd_listings ORDER BY position LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query jd_listings: %w", err)
	}
	defer rows.Close()

	out := make([]model.ListingRecord, 0, limit)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		var rec model.ListingRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, 0, fmt.Errorf("decode doc: %w", err)
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

// Upsert inserts new listings and refreshes existing ones in one batch.
func (s *PGStore) Upsert(ctx context.Context, records []model.ListingRecord) error {
	b := &pgx.Batch{}
	for _, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s: %w", rec.JDUID, err)
		}
		b.Queue(`
INSERT INTO jd_listings (jd_uid, company_name, job_role, location, doc)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (jd_uid) DO UPDATE SET
  company_name = EXCLUDED.company_name, job_role = EXCLUDED.job_role,
  location = EXCLUDED.location, doc = EXCLUDED.doc, updated_at = now()`,
			rec.JDUID, rec.CompanyName, rec.JobRole, rec.Location, raw)
	}

	br := s.pool.SendBatch(ctx, b)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert jd_listings: %w", err)
		}
	}
	return nil
}
