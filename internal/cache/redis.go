package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jonathan/lifeofword/internal/db"
)

// DefaultRedisPrefix namespaces passage keys.
const DefaultRedisPrefix = "lifeofword:passage:"

// RedisStore keeps passages as JSON values that expire after Expiry.
type RedisStore struct {
	rdb    goredis.UniversalClient
	prefix string
	expiry time.Duration
	now    func() time.Time
}

// NewRedisStore wraps an existing client. A zero expiry keeps entries for
// db.DefaultPassageCacheTTL.
func NewRedisStore(rdb goredis.UniversalClient, expiry time.Duration) *RedisStore {
	if expiry <= 0 {
		expiry = db.DefaultPassageCacheTTL
	}
	return &RedisStore{rdb: rdb, prefix: DefaultRedisPrefix, expiry: expiry, now: time.Now}
}

// OpenRedis connects to the server at a redis:// URL and pings it.
func OpenRedis(ctx context.Context, url string, expiry time.Duration) (*RedisStore, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb, expiry), nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Key returns the redis key of a query.
func (s *RedisStore) Key(query string) string {
	return s.prefix + query
}

// redisEntry is the stored value.
type redisEntry struct {
	ID         uuid.UUID `json:"id"`
	Canonical  string    `json:"canonical"`
	Passages   []string  `json:"passages"`
	FetchedAt  time.Time `json:"fetched_at"`
	AccessedAt time.Time `json:"accessed_at"`
}

// GetPassage returns the cached passage for a query, or nil if none is stored.
func (s *RedisStore) GetPassage(ctx context.Context, query string) (*db.CachedPassage, error) {
	raw, err := s.rdb.Get(ctx, s.Key(query)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached passage: %w", err)
	}
	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to decode cached passage: %w", err)
	}
	return &db.CachedPassage{
		ID:         e.ID,
		Query:      query,
		Canonical:  e.Canonical,
		Passages:   e.Passages,
		FetchedAt:  e.FetchedAt,
		AccessedAt: e.AccessedAt,
	}, nil
}

// GetFreshPassage returns the cached passage only if it is younger than maxAge.
func (s *RedisStore) GetFreshPassage(ctx context.Context, query string, maxAge time.Duration) (*db.CachedPassage, error) {
	p, err := s.GetPassage(ctx, query)
	if err != nil || p == nil {
		return nil, err
	}
	if s.now().Sub(p.FetchedAt) >= maxAge {
		return nil, nil
	}
	return p, nil
}

// UpsertPassage stores a passage response, replacing any previous entry for the query.
func (s *RedisStore) UpsertPassage(ctx context.Context, p *db.CachedPassage) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := s.now().UTC()
	p.FetchedAt, p.AccessedAt = now, now

	passages := p.Passages
	if passages == nil {
		passages = []string{}
	}
	raw, err := json.Marshal(redisEntry{
		ID:         p.ID,
		Canonical:  p.Canonical,
		Passages:   passages,
		FetchedAt:  now,
		AccessedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal passages: %w", err)
	}
	if err := s.rdb.Set(ctx, s.Key(p.Query), raw, s.expiry).Err(); err != nil {
		return fmt.Errorf("failed to upsert cached passage: %w", err)
	}
	return nil
}
