// Package repomanager hands out repositories bound either to the shared
// database handle or to a transaction.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/typetutor/internal/dbx"
	"github.com/dmitrijs2005/typetutor/internal/server/repositories/scores"
	"github.com/dmitrijs2005/typetutor/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// DB is the non-transactional handle to pass to the factories.
	DB() dbx.DBTX
	Users(db dbx.DBTX) users.Repository
	Scores(db dbx.DBTX) scores.Repository
	// InTx runs fn inside one transaction; repositories built from tx share it.
	InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Close() error
}
