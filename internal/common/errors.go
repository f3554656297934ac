// Package common defines shared constants and sentinel errors used across
// the Arogya client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Storage-level errors (local SQLite unavailable or corrupt).
	ErrStorage = errors.New("storage failure")

	// Transport-level errors (live network attempt failed).
	ErrNetwork = errors.New("network failure")

	// Read attempted offline with no cached entry for the key.
	ErrNoOfflineData = errors.New("no offline data")

	// Auth errors (missing, expired or rejected token).
	ErrUnauthorized = errors.New("unauthorized")

	// Feature-level cap on concurrently queued actions was reached.
	ErrQueueLimit = errors.New("offline queue limit reached")
)
