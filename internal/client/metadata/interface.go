// Package metadata is a small key/value store for client housekeeping data
// that must survive restarts: the bearer access token and the last
// logged-in username.
package metadata

import "context"

// Repository is a persistent KV store. Get returns nil for missing keys.
// SetAll writes all pairs atomically: either every key is persisted or
// none is.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
}
