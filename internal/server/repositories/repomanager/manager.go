// Package repomanager hands out the repositories of one storage backend and
// runs groups of repository calls atomically.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/places"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Tasks() tasks.Repository
	Places() places.Repository

	// WithTx runs fn with a manager whose repositories share one transaction.
	// fn's error aborts the transaction and is returned unchanged. Nested
	// calls reuse the outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error

	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context) error
}
