package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the pgx-backed Store for deployments with shared persistence.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// SaveDraft upserts a preview draft with a fresh expiry.
func (p *Postgres) SaveDraft(ctx context.Context, key string, payload []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO preview_drafts (draft_key, payload, expires_at)
		 VALUES ($1, $2, NOW() + $3::interval)
		 ON CONFLICT (draft_key) DO UPDATE SET payload = $2, expires_at = NOW() + $3::interval`,
		key, payload, DefaultDraftTTL.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}
	return nil
}

// GetDraft returns a draft payload, or (nil, nil) when absent or expired.
func (p *Postgres) GetDraft(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx,
		`SELECT payload FROM preview_drafts WHERE draft_key = $1 AND expires_at > NOW()`,
		key,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", key, err)
	}
	return payload, nil
}

// DeleteDraft removes a draft.
func (p *Postgres) DeleteDraft(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM preview_drafts WHERE draft_key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", key, err)
	}
	return nil
}

// SaveSnapshot records one save together with its sequence number.
func (p *Postgres) SaveSnapshot(ctx context.Context, companyDomain, jobID string, seq int64, payload []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO settings_snapshots (company_domain, job_id, seq, payload)
		 VALUES ($1, $2, $3, $4)`,
		companyDomain, jobID, seq, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s/%s: %w", companyDomain, jobID, err)
	}
	return nil
}

// LatestSeq returns the highest recorded save sequence for the record,
// zero when none exists.
func (p *Postgres) LatestSeq(ctx context.Context, companyDomain, jobID string) (int64, error) {
	var seq int64
	err := p.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM settings_snapshots WHERE company_domain = $1 AND job_id = $2`,
		companyDomain, jobID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to load latest seq %s/%s: %w", companyDomain, jobID, err)
	}
	return seq, nil
}
