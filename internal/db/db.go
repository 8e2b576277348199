// Package db provides PostgreSQL access for guideline data and evaluation records.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the guideline and evaluation tables if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS brand_colors (
		brand_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		hex TEXT NOT NULL,
		PRIMARY KEY (brand_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS brand_fonts (
		brand_id TEXT NOT NULL,
		slot TEXT NOT NULL,
		family TEXT,
		size DOUBLE PRECISION,
		PRIMARY KEY (brand_id, slot)
	)`,
	`CREATE TABLE IF NOT EXISTS brand_logos (
		brand_id TEXT PRIMARY KEY,
		min_width DOUBLE PRECISION NOT NULL,
		min_height DOUBLE PRECISION NOT NULL DEFAULT 0,
		clear_space DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS brand_spacing (
		brand_id TEXT PRIMARY KEY,
		unit DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS industry_standards (
		industry TEXT PRIMARY KEY,
		min_contrast_ratio DOUBLE PRECISION,
		min_font_size DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		id UUID PRIMARY KEY,
		brand_id TEXT NOT NULL DEFAULT '',
		document_id TEXT NOT NULL DEFAULT '',
		total_score INTEGER NOT NULL,
		result JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS evaluations_brand_idx ON evaluations (brand_id, created_at DESC)`,
}
