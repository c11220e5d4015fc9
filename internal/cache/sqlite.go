package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"

	"github.com/jonathan/lifeofword/internal/db"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS passage_cache (
	id          TEXT PRIMARY KEY,
	query       TEXT NOT NULL UNIQUE,
	canonical   TEXT NOT NULL DEFAULT '',
	passages    TEXT NOT NULL DEFAULT '[]',
	fetched_at  INTEGER NOT NULL,
	accessed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_passage_cache_fetched_at ON passage_cache (fetched_at);
`

// SQLiteStore is a passage cache in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
	}
	// One writer at a time; concurrent readers queue on the pool.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate sqlite cache: %w", err)
	}
	return &SQLiteStore{db: conn, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetPassage returns the cached passage for a query, or nil if none is stored.
func (s *SQLiteStore) GetPassage(ctx context.Context, query string) (*db.CachedPassage, error) {
	var (
		p                   db.CachedPassage
		id, passagesJSON    string
		fetchedAt, accessed int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, query, canonical, passages, fetched_at, accessed_at
		 FROM passage_cache WHERE query = ?`,
		query,
	).Scan(&id, &p.Query, &p.Canonical, &passagesJSON, &fetchedAt, &accessed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached passage: %w", err)
	}

	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to decode cached passage id: %w", err)
	}
	if err := json.Unmarshal([]byte(passagesJSON), &p.Passages); err != nil {
		return nil, fmt.Errorf("failed to decode cached passages: %w", err)
	}
	p.FetchedAt = time.UnixMilli(fetchedAt)
	p.AccessedAt = time.UnixMilli(accessed)
	return &p, nil
}

// GetFreshPassage returns the cached passage only if it is younger than maxAge.
func (s *SQLiteStore) GetFreshPassage(ctx context.Context, query string, maxAge time.Duration) (*db.CachedPassage, error) {
	p, err := s.GetPassage(ctx, query)
	if err != nil || p == nil {
		return nil, err
	}
	if s.now().Sub(p.FetchedAt) >= maxAge {
		return nil, nil
	}

	_, _ = s.db.ExecContext(ctx,
		`UPDATE passage_cache SET accessed_at = ? WHERE id = ?`,
		s.now().UnixMilli(), p.ID.String())
	return p, nil
}

// UpsertPassage stores a passage response, replacing any previous entry for the query.
func (s *SQLiteStore) UpsertPassage(ctx context.Context, p *db.CachedPassage) error {
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

	now := s.now()
	var id string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO passage_cache (id, query, canonical, passages, fetched_at, accessed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (query) DO UPDATE SET
		     canonical = excluded.canonical,
		     passages = excluded.passages,
		     fetched_at = excluded.fetched_at,
		     accessed_at = excluded.accessed_at
		 RETURNING id`,
		p.ID.String(), p.Query, p.Canonical, string(passagesJSON), now.UnixMilli(), now.UnixMilli(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to upsert cached passage: %w", err)
	}
	if p.ID, err = uuid.Parse(id); err != nil {
		return fmt.Errorf("failed to decode cached passage id: %w", err)
	}
	p.FetchedAt = time.UnixMilli(now.UnixMilli())
	p.AccessedAt = p.FetchedAt
	return nil
}

// DeletePassagesOlderThan removes entries fetched before the cutoff.
func (s *SQLiteStore) DeletePassagesOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM passage_cache WHERE fetched_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune passage cache: %w", err)
	}
	return res.RowsAffected()
}
