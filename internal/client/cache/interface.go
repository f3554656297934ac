// Package cache stores the last successful server response per logical
// read so reads can be served while offline. Entries have no TTL: the most
// recent successful write wins and nothing is ever expired.
package cache

import (
	"context"
	"encoding/json"
)

// Repository is the keyed cache of last-known-good responses.
//
// Get returns nil (not an error) when no entry exists for the key.
type Repository interface {
	Put(ctx context.Context, key string, value json.RawMessage) error
	Get(ctx context.Context, key string) (json.RawMessage, error)
}
