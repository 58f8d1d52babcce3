package repomanager

import (
	"context"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/channels"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/groups"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/memberships"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/memory"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/messages"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/users"
)

// MemoryRepositoryManager serves every repository from one memory.Store.
// State lives as long as the process.
type MemoryRepositoryManager struct {
	store *memory.Store
}

// NewMemoryRepositoryManager wraps store, or a fresh one when store is nil.
func NewMemoryRepositoryManager(store *memory.Store) *MemoryRepositoryManager {
	if store == nil {
		store = memory.NewStore()
	}
	return &MemoryRepositoryManager{store: store}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository             { return m.store.Users() }
func (m *MemoryRepositoryManager) Groups() groups.Repository           { return m.store.Groups() }
func (m *MemoryRepositoryManager) Channels() channels.Repository       { return m.store.Channels() }
func (m *MemoryRepositoryManager) Messages() messages.Repository       { return m.store.Messages() }
func (m *MemoryRepositoryManager) Memberships() memberships.Repository { return m.store.Memberships() }
