// Package actionlog persists mutating requests attempted while offline so
// they survive process restarts and can be replayed in order once
// connectivity returns.
package actionlog

import (
	"context"
	"encoding/json"

	"github.com/arogyahealth/arogya-go/internal/client/models"
)

// Repository is the durable action log.
//
// Contract:
//   - Enqueue appends one immutable row and returns its id.
//   - ListPending returns non-deleted actions oldest-first (FIFO replay
//     order), optionally filtered by an endpoint substring.
//   - Remove deletes one action by id and is a no-op for unknown ids.
//   - Count reports how many actions are still queued.
type Repository interface {
	Enqueue(ctx context.Context, endpoint string, method models.Method, body json.RawMessage) (int64, error)
	ListPending(ctx context.Context, endpointFilter string) ([]models.PendingAction, error)
	Remove(ctx context.Context, id int64) error
	Count(ctx context.Context, endpointFilter string) (int, error)
}
