package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/migrations"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/channels"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/groups"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/memberships"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/messages"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories sharing one
// connection pool.
type PostgresRepositoryManager struct {
	db          *sql.DB
	users       *users.PostgresRepository
	groups      *groups.PostgresRepository
	channels    *channels.PostgresRepository
	messages    *messages.PostgresRepository
	memberships *memberships.PostgresRepository
}

func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db:          db,
		users:       users.NewPostgresRepository(db),
		groups:      groups.NewPostgresRepository(db),
		channels:    channels.NewPostgresRepository(db),
		messages:    messages.NewPostgresRepository(db),
		memberships: memberships.NewPostgresRepository(db),
	}
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// OpenPostgres opens a pgx-backed pool for dsn and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}

func (m *PostgresRepositoryManager) Users() users.Repository             { return m.users }
func (m *PostgresRepositoryManager) Groups() groups.Repository           { return m.groups }
func (m *PostgresRepositoryManager) Channels() channels.Repository       { return m.channels }
func (m *PostgresRepositoryManager) Messages() messages.Repository       { return m.messages }
func (m *PostgresRepositoryManager) Memberships() memberships.Repository { return m.memberships }

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the pool.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
