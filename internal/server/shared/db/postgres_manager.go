package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aquavo/authcore/internal/dbx"
	"github.com/aquavo/authcore/internal/server/migrations"
	"github.com/aquavo/authcore/internal/server/repositories/resettokens"
	"github.com/aquavo/authcore/internal/server/repositories/sessions"
	"github.com/aquavo/authcore/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
)

type PostgresRepositoryManager struct {
	db *sql.DB
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ResetTokens(db dbx.DBTX) resettokens.Repository {
	return resettokens.NewPostgresRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

// NewPostgresRepositoryManager opens the database, waits for it to become
// reachable (the database container often starts alongside the server), and
// applies pending migrations.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(db.PingContext(ctx))
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := &PostgresRepositoryManager{db: db}

	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
