// Package users persists user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskplaces/internal/server/models"
)

// Repository stores users. Absent records are reported as common.ErrorNotFound
// and a duplicate email as a common.ErrorConflict error.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByID returns active users only.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail returns the user owning email, active or not, so a
	// deactivated account keeps its address reserved.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}
