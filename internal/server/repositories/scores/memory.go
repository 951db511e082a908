package scores

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/typetutor/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]models.Score
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string][]models.Score)}
}

func (r *MemoryRepository) Add(_ context.Context, score *models.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	score.CreatedAt = time.Now().UTC()
	r.byUser[score.UserID] = append(r.byUser[score.UserID], *score)
	return nil
}

func (r *MemoryRepository) Aggregate(_ context.Context, userID string) (models.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byUser[userID]
	if len(list) == 0 {
		return models.Stats{}, nil
	}

	var s models.Stats
	var sumWPM, sumAcc float64
	for _, sc := range list {
		sumWPM += sc.WPM
		sumAcc += sc.Accuracy
		if sc.WPM > s.BestWPM {
			s.BestWPM = sc.WPM
		}
	}
	s.TestsTaken = len(list)
	s.AverageWPM = sumWPM / float64(len(list))
	s.AverageAccuracy = sumAcc / float64(len(list))
	return s, nil
}
