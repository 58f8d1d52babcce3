// Package repomanager vends the repositories of one storage backend:
// PostgreSQL (with goose migrations) or the in-memory store.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/channels"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/groups"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/memberships"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/messages"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/users"
)

// MemoryDSN selects the in-memory backend in place of a PostgreSQL DSN.
const MemoryDSN = "memory"

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Groups() groups.Repository
	Channels() channels.Repository
	Messages() messages.Repository
	Memberships() memberships.Repository
	Close() error
}

// Open returns the backend selected by dsn and brings its schema up to date.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)
	if dsn == MemoryDSN {
		m = NewMemoryRepositoryManager(nil)
	} else if m, err = OpenPostgres(ctx, dsn); err != nil {
		return nil, err
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}
