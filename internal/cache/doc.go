// Package cache provides passage stores for deployments without Postgres.
//
// SQLiteStore keeps passages in a local file and suits the CLI. RedisStore
// shares passages between several proxy instances. Both satisfy
// esv.PassageStore alongside *db.DB.
package cache
