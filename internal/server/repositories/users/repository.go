package users

import (
	"context"

	"github.com/dmitrijs2005/typetutor/internal/server/models"
)

// Repository stores accounts. Lookups of unknown users return
// common.ErrorNotFound; Create with a taken email returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Update writes the mutable fields: display name, premium flag, avatar
	// key and stats.
	Update(ctx context.Context, user *models.User) error
}
