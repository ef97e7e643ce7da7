package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// collectionDDL is the shared layout of every document collection: the
// JSONB body plus envelope columns the store manages. An expression index
// on the name field backs the default sort.
const collectionDDL = `CREATE TABLE IF NOT EXISTS %[1]s (
    id TEXT PRIMARY KEY,
    version BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    document JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_name ON %[1]s ((document->>'name'))`

// EnsureCollections creates the document tables for the given collection
// names if they do not already exist.
func EnsureCollections(ctx context.Context, pool *pgxpool.Pool, names ...string) error {
	for _, name := range names {
		if _, err := pool.Exec(ctx, fmt.Sprintf(collectionDDL, name)); err != nil {
			return fmt.Errorf("ensure collection %s: %w", name, err)
		}
	}
	return nil
}
