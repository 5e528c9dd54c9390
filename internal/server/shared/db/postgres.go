// Package db opens the server's PostgreSQL pool and applies schema
// migrations before the pool is handed to the rest of the application.
package db

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/taskdeck/internal/server/repositories/repomanager"
)

// Open connects to PostgreSQL via the pgx stdlib driver and runs the embedded
// goose migrations. The returned pool is ready for use.
func Open(ctx context.Context, dsn string, m repomanager.RepositoryManager) (*sqlx.DB, error) {
	pool, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, pool.DB); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return pool, nil
}
