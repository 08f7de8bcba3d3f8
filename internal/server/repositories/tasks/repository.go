// Package tasks persists tasks.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskplaces/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	// List returns the tasks of ownerID, oldest first. The filter is part of
	// the query; an empty ownerID lists every task.
	List(ctx context.Context, ownerID string) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}
