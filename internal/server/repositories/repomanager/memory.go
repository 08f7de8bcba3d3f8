package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/memory"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/places"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/users"
)

// MemoryRepositoryManager serves repositories over a memory.Store. WithTx
// serialises transactions; it does not roll back partial writes.
type MemoryRepositoryManager struct {
	store *memory.Store
	txMu  *sync.Mutex
	inTx  bool
}

func NewMemoryRepositoryManager(store *memory.Store) *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: store, txMu: &sync.Mutex{}}
}

func (m *MemoryRepositoryManager) Users() users.Repository   { return m.store.Users() }
func (m *MemoryRepositoryManager) Tasks() tasks.Repository   { return m.store.Tasks() }
func (m *MemoryRepositoryManager) Places() places.Repository { return m.store.Places() }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	if m.inTx {
		return fn(ctx, m)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, &MemoryRepositoryManager{store: m.store, txMu: m.txMu, inTx: true})
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
