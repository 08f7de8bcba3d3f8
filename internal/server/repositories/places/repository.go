// Package places persists places.
package places

import (
	"context"

	"github.com/dmitrijs2005/taskplaces/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, place *models.Place) (*models.Place, error)
	GetByID(ctx context.Context, id string) (*models.Place, error)
	// List returns places oldest first, filtered by owner unless ownerID is empty.
	List(ctx context.Context, ownerID string) ([]models.Place, error)
	Update(ctx context.Context, place *models.Place) (*models.Place, error)
	Delete(ctx context.Context, id string) error
}
