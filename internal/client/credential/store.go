// Package credential persists the client's bearer token between runs.
//
// Only the session store writes or clears the token; the gateway reads it at
// call time. Nothing inspects its content.
package credential

import "context"

// Store is the persisted-credential adapter.
//
// Get reports ok=false when no token is stored. Clear on an empty store is a
// no-op.
type Store interface {
	Get(ctx context.Context) (token string, ok bool, err error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
