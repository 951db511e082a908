package scores

import (
	"context"

	"github.com/dmitrijs2005/typetutor/internal/server/models"
)

// Repository records practice runs and aggregates them per user.
type Repository interface {
	Add(ctx context.Context, score *models.Score) error
	// Aggregate computes stats over every score of userID; a user without
	// scores gets zero stats.
	Aggregate(ctx context.Context, userID string) (models.Stats, error)
}
