package credential

import (
	"context"

	"github.com/dmitrijs2005/typetutor/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/typetutor/internal/common"
)

// SQLiteStore keeps the token in the local metadata table.
type SQLiteStore struct {
	repo metadata.Repository
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(repo metadata.Repository) *SQLiteStore {
	return &SQLiteStore{repo: repo}
}

func (s *SQLiteStore) Get(ctx context.Context) (string, bool, error) {
	v, err := s.repo.Get(ctx, common.MetadataKeyAccessToken)
	if err != nil {
		return "", false, err
	}
	if len(v) == 0 {
		return "", false, nil
	}
	return string(v), true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	return s.repo.Set(ctx, common.MetadataKeyAccessToken, []byte(token))
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, common.MetadataKeyAccessToken)
}
