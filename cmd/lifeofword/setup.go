package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/lifeofword/internal/cache"
	"github.com/jonathan/lifeofword/internal/config"
	"github.com/jonathan/lifeofword/internal/corpus"
	"github.com/jonathan/lifeofword/internal/db"
	"github.com/jonathan/lifeofword/internal/esv"
	"github.com/jonathan/lifeofword/internal/logging"
	"github.com/jonathan/lifeofword/internal/observability"
)

// loadConfig reads the --config file, environment overrides and defaults.
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

// startTracing installs the OTEL_* configured tracer provider and returns a
// func that flushes it. Setup failures are logged, never fatal.
func startTracing(ctx context.Context, logger *logging.Logger) func() {
	shutdown, err := observability.InitTracing(ctx, logger, observability.TracingConfigFromEnv("lifeofword"))
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
		return func() {}
	}
	return func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}
}

// corpusSource picks the configured corpus source.
func corpusSource(cfg *config.Config) (corpus.Source, error) {
	switch {
	case cfg.CorpusPath != "":
		return corpus.FileSource{Path: cfg.CorpusPath}, nil
	case cfg.CorpusURL != "":
		return corpus.HTTPSource{URL: cfg.CorpusURL}, nil
	default:
		return nil, fmt.Errorf("no corpus configured (set CORPUS_PATH or CORPUS_URL, or corpus_path/corpus_url in the config file)")
	}
}

// loadIndex loads and indexes the configured corpus.
func loadIndex(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*corpus.Index, error) {
	source, err := corpusSource(cfg)
	if err != nil {
		return nil, err
	}
	return corpus.NewLoader(source, logger).Index(ctx)
}

// newFetcher returns the passage client for cfg.ProxyURL, wrapped with the
// first configured passage cache: Postgres, then Redis, then a SQLite file.
// The returned close func is never nil.
func newFetcher(ctx context.Context, cfg *config.Config, logger *logging.Logger) (esv.Fetcher, func(), error) {
	client := esv.NewClient(cfg.ProxyURL, nil)

	switch {
	case cfg.DatabaseURL != "":
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		logger.Debug("passage cache enabled", "backend", "postgres")
		pruneStalePassages(ctx, database, cfg.TTL(), logger)
		return esv.NewCachedClient(client, database, cfg.TTL(), logger), database.Close, nil

	case cfg.RedisURL != "":
		store, err := cache.OpenRedis(ctx, cfg.RedisURL, cfg.TTL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Debug("passage cache enabled", "backend", "redis")
		return esv.NewCachedClient(client, store, cfg.TTL(), logger), func() { _ = store.Close() }, nil

	case cfg.CachePath != "":
		store, err := cache.OpenSQLite(ctx, cfg.CachePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("passage cache enabled", "backend", "sqlite", "path", cfg.CachePath)
		pruneStalePassages(ctx, store, cfg.TTL(), logger)
		return esv.NewCachedClient(client, store, cfg.TTL(), logger), func() { _ = store.Close() }, nil
	}

	return client, func() {}, nil
}

// passagePruner is a passage cache without key expiry.
type passagePruner interface {
	DeletePassagesOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// pruneStalePassages drops cache rows older than ttl. Redis expires keys on
// its own and never reaches here. Failures only cost disk space.
func pruneStalePassages(ctx context.Context, store passagePruner, ttl time.Duration, logger *logging.Logger) {
	n, err := store.DeletePassagesOlderThan(ctx, time.Now().Add(-ttl))
	if err != nil {
		logger.Warn("failed to prune passage cache", "error", err)
		return
	}
	if n > 0 {
		logger.Debug("pruned passage cache", "removed", n)
	}
}
