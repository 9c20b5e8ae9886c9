package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the application schema. The sessions table is not listed
// here: the sessions repo provisions it lazily on first use.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			email TEXT,
			full_name TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS properties (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			zip_code TEXT NOT NULL,
			property_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'available',
			bedrooms INTEGER NOT NULL,
			bathrooms NUMERIC(3,1) NOT NULL,
			square_feet INTEGER NOT NULL,
			year_built INTEGER,
			lot_size NUMERIC(10,2),
			garage INTEGER,
			image_url TEXT,
			features TEXT[],
			created_by TEXT REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS properties_created_at_idx
			ON properties (created_at, id)`,
	}

	for _, stmt := range schema {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
