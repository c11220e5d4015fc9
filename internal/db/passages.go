package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultPassageCacheTTL is how long a cached passage is served before re-fetching.
const DefaultPassageCacheTTL = 7 * 24 * time.Hour

// CachedPassage is one stored passage response, keyed by the query string.
type CachedPassage struct {
	ID         uuid.UUID
	Query      string
	Canonical  string
	Passages   []string
	FetchedAt  time.Time
	AccessedAt time.Time
}

// IsFresh reports whether the entry is younger than maxAge.
func (p *CachedPassage) IsFresh(maxAge time.Duration) bool {
	return time.Since(p.FetchedAt) < maxAge
}

// GetPassage returns the cached passage for a query, or nil if none is stored.
func (db *DB) GetPassage(ctx context.Context, query string) (*CachedPassage, error) {
	var p CachedPassage
	var passagesJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, query, canonical, passages, fetched_at, accessed_at
		 FROM passage_cache WHERE query = $1`,
		query,
	).Scan(&p.ID, &p.Query, &p.Canonical, &passagesJSON, &p.FetchedAt, &p.AccessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached passage: %w", err)
	}
	if err := json.Unmarshal(passagesJSON, &p.Passages); err != nil {
		return nil, fmt.Errorf("failed to decode cached passages: %w", err)
	}
	return &p, nil
}

// GetFreshPassage returns the cached passage only if it is younger than maxAge.
func (db *DB) GetFreshPassage(ctx context.Context, query string, maxAge time.Duration) (*CachedPassage, error) {
	p, err := db.GetPassage(ctx, query)
	if err != nil || p == nil {
		return nil, err
	}
	if !p.IsFresh(maxAge) {
		return nil, nil // Stale, should re-fetch
	}

	_ = db.TouchPassage(ctx, p.ID)
	return p, nil
}

// UpsertPassage stores a passage response, replacing any previous entry for the query.
func (db *DB) UpsertPassage(ctx context.Context, p *CachedPassage) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	passages := p.Passages
	if passages == nil {
		passages = []string{}
	}
	passagesJSON, err := json.Marshal(passages)
	if err != nil {
		return fmt.Errorf("failed to marshal passages: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO passage_cache (id, query, canonical, passages, fetched_at, accessed_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 ON CONFLICT (query) DO UPDATE SET
		     canonical = $3,
		     passages = $4,
		     fetched_at = NOW(),
		     accessed_at = NOW()
		 RETURNING id, fetched_at, accessed_at`,
		p.ID, p.Query, p.Canonical, passagesJSON,
	).Scan(&p.ID, &p.FetchedAt, &p.AccessedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cached passage: %w", err)
	}
	return nil
}

// TouchPassage updates the last access time of a cached passage.
func (db *DB) TouchPassage(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `UPDATE passage_cache SET accessed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch cached passage: %w", err)
	}
	return nil
}

// DeletePassagesOlderThan removes entries fetched before the cutoff and
// returns how many were removed.
func (db *DB) DeletePassagesOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM passage_cache WHERE fetched_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune passage cache: %w", err)
	}
	return tag.RowsAffected(), nil
}
