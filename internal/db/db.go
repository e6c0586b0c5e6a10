// Package db provides PostgreSQL-backed snapshot storage. It is an optional
// alternative to the file store, selected when a database URL is configured.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the snapshot table if it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS skill_snapshots (
			period            TEXT PRIMARY KEY,
			captured_at       TEXT NOT NULL,
			skill_counts      JSONB NOT NULL,
			total_occurrences INT NOT NULL,
			unique_skills     INT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}
