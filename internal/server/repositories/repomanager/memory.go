package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/typetutor/internal/dbx"
	"github.com/dmitrijs2005/typetutor/internal/server/repositories/scores"
	"github.com/dmitrijs2005/typetutor/internal/server/repositories/users"
)

// InMemoryRepositoryManager ignores the DBTX handles: every factory returns
// the same map-backed repositories. InTx serialises callers but cannot roll
// back.
type InMemoryRepositoryManager struct {
	txMu   sync.Mutex
	users  *users.MemoryRepository
	scores *scores.MemoryRepository
}

var _ RepositoryManager = (*InMemoryRepositoryManager)(nil)

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:  users.NewMemoryRepository(),
		scores: scores.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) DB() dbx.DBTX { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Scores(dbx.DBTX) scores.Repository { return m.scores }

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Close() error { return nil }
