// Package metadata persists small client-side key/value records in the local
// SQLite database. The session credential lives here.
package metadata

import "context"

// Repository stores opaque values by key. Get returns (nil, nil) for an
// unknown key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
