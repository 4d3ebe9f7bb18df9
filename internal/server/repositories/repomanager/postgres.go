// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/goalkeeper/internal/dbx"
	"github.com/dmitrijs2005/goalkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/friends"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/goals"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/invitations"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/goalkeeper/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Goals returns a goals.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Goals(db dbx.DBTX) goals.Repository {
	return goals.NewPostgresRepository(db)
}

// Friends returns a friends.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Friends(db dbx.DBTX) friends.Repository {
	return friends.NewPostgresRepository(db)
}

// Invitations returns an invitations.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Invitations(db dbx.DBTX) invitations.Repository {
	return invitations.NewPostgresRepository(db)
}

// RefreshTokens returns a refreshtokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
