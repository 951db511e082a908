package scores

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/typetutor/internal/dbx"
	"github.com/dmitrijs2005/typetutor/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, score *models.Score) error {
	query :=
		`INSERT INTO scores (id, user_id, wpm, accuracy, duration_ms)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		score.ID, score.UserID, score.WPM, score.Accuracy, score.DurationMs).Scan(&score.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Aggregate(ctx context.Context, userID string) (models.Stats, error) {
	query :=
		`SELECT COUNT(*), COALESCE(MAX(wpm), 0), COALESCE(AVG(wpm), 0), COALESCE(AVG(accuracy), 0)
		 FROM scores
		 WHERE user_id = $1
		 `

	var s models.Stats
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.TestsTaken, &s.BestWPM, &s.AverageWPM, &s.AverageAccuracy)
	if err != nil {
		return models.Stats{}, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
