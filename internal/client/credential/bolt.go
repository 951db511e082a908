package credential

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/typetutor/internal/common"
	"go.etcd.io/bbolt"
)

var credentialsBucket = []byte("credentials")

// BoltStore keeps the token in a bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

func NewBoltStore(db *bbolt.DB) *BoltStore {
	return &BoltStore{db: db}
}

// OpenBoltStore opens (creating if needed) the bbolt file at path.
func OpenBoltStore(path string, options *bbolt.Options) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBoltStore(db), nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(_ context.Context) (string, bool, error) {
	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(credentialsBucket)
		if b == nil {
			return nil
		}
		token = string(b.Get([]byte(common.MetadataKeyAccessToken)))
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	return token, token != "", nil
}

func (s *BoltStore) Set(_ context.Context, token string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(credentialsBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(common.MetadataKeyAccessToken), []byte(token))
	})
	if err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	return nil
}

func (s *BoltStore) Clear(_ context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(credentialsBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(common.MetadataKeyAccessToken))
	})
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
