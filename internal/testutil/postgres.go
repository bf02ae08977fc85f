// Package testutil starts disposable infrastructure for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/database"
	"github.com/Yaswanth0403/BookHaven/migrations"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is a migrated database running in a container
type Postgres struct {
	DB        *sql.DB
	container *postgres.PostgresContainer
}

// StartPostgres runs postgres:15 and applies every migration
func StartPostgres(ctx context.Context) (*Postgres, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	container, err := postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("could not start postgres container: %w", err)
	}

	pg := &Postgres{container: container}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	pg.DB, err = sql.Open("pgx", connStr)
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	if err := database.RunMigrations(pg.DB, migrations.FS, zap.NewNop()); err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	return pg, nil
}

// Truncate empties every application table between tests
func (p *Postgres) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		TRUNCATE orders, checkouts, cart_items, contacts, refresh_tokens, books, users
	`)
	return err
}

func (p *Postgres) Terminate(ctx context.Context) error {
	if p.DB != nil {
		p.DB.Close()
	}
	return p.container.Terminate(ctx)
}
