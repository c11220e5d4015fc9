package esv

import (
	"context"
	"time"

	"github.com/jonathan/lifeofword/internal/db"
	"github.com/jonathan/lifeofword/internal/logging"
	"github.com/jonathan/lifeofword/internal/types"
)

// PassageStore is the subset of *db.DB used by CachedClient.
type PassageStore interface {
	GetFreshPassage(ctx context.Context, query string, maxAge time.Duration) (*db.CachedPassage, error)
	UpsertPassage(ctx context.Context, p *db.CachedPassage) error
}

// CachedClient serves passages from the store when fresh and falls through
// to the wrapped Fetcher otherwise. Store failures are logged and ignored.
type CachedClient struct {
	Fetcher Fetcher
	Store   PassageStore
	TTL     time.Duration
	Logger  *logging.Logger
}

// NewCachedClient wraps f with a passage cache.
func NewCachedClient(f Fetcher, store PassageStore, ttl time.Duration, logger *logging.Logger) *CachedClient {
	if ttl <= 0 {
		ttl = db.DefaultPassageCacheTTL
	}
	return &CachedClient{Fetcher: f, Store: store, TTL: ttl, Logger: logging.OrNop(logger)}
}

// Fetch implements Fetcher.
func (c *CachedClient) Fetch(ctx context.Context, query string) (*types.Passage, error) {
	log := logging.OrNop(c.Logger)

	if c.Store != nil {
		cached, err := c.Store.GetFreshPassage(ctx, query, c.TTL)
		if err != nil {
			log.Warn("passage cache read failed", "query", query, "error", err)
		} else if cached != nil {
			log.Debug("passage cache hit", "query", query)
			return &types.Passage{Passages: cached.Passages, Canonical: cached.Canonical}, nil
		}
	}

	passage, err := c.Fetcher.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if c.Store != nil {
		entry := &db.CachedPassage{Query: query, Canonical: passage.Canonical, Passages: passage.Passages}
		if err := c.Store.UpsertPassage(ctx, entry); err != nil {
			log.Warn("passage cache write failed", "query", query, "error", err)
		}
	}
	return passage, nil
}
