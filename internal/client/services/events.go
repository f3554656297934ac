package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arogyahealth/arogya-go/internal/client/models"
	"github.com/arogyahealth/arogya-go/internal/client/router"
	"github.com/arogyahealth/arogya-go/internal/common"
)

// DefaultEventQueueCap caps how many event creations may wait in the
// offline queue at once. Appends are not capped: they target events that
// already exist and must replay completely.
const DefaultEventQueueCap = 5

// EventService manages clinical event logs (shift logs, incident notes).
// Creates and appends are offline-deferrable; appends to the same event
// are order-sensitive and rely on the log's FIFO replay guarantee.
type EventService interface {
	Create(ctx context.Context, name string, keys []string) (models.Result, error)
	Append(ctx context.Context, eventID string, data any) (models.Result, error)
	List(ctx context.Context) (json.RawMessage, bool, error)
	Get(ctx context.Context, eventID string) (json.RawMessage, bool, error)
	PendingCount(ctx context.Context) (int, error)
}

type eventService struct {
	router   *router.Router
	queueCap int
}

// NewEventService constructs an EventService over the router. queueCap
// bounds offline event creations; values < 1 fall back to
// DefaultEventQueueCap.
func NewEventService(r *router.Router, queueCap int) EventService {
	if queueCap < 1 {
		queueCap = DefaultEventQueueCap
	}
	return &eventService{router: r, queueCap: queueCap}
}

// Create starts a new event log. While offline at most queueCap creations
// may be queued; beyond that the call fails with common.ErrQueueLimit
// instead of growing the backlog.
func (s *eventService) Create(ctx context.Context, name string, keys []string) (models.Result, error) {
	queued, err := s.router.PendingCount(ctx, "/events/")
	if err != nil {
		return models.Result{}, err
	}
	if queued >= s.queueCap {
		return models.Result{}, fmt.Errorf("%w: %d event actions already queued", common.ErrQueueLimit, queued)
	}

	body := map[string]any{"event_name": name}
	if len(keys) > 0 {
		body["keys"] = keys
	}
	return s.router.PerformMutation(ctx, "/events/", models.MethodPost, body)
}

// Append adds one record to an existing event. Sequential appends to the
// same event replay in the order they were made.
func (s *eventService) Append(ctx context.Context, eventID string, data any) (models.Result, error) {
	endpoint := fmt.Sprintf("/events/%s/append", eventID)
	return s.router.PerformMutation(ctx, endpoint, models.MethodPatch, map[string]any{"data": data})
}

// List returns all events, cached under "events_list".
func (s *eventService) List(ctx context.Context) (json.RawMessage, bool, error) {
	return s.router.PerformQuery(ctx, "events_list", func(ctx context.Context) (json.RawMessage, error) {
		return s.router.Client().Do(ctx, "GET", "/events/", nil)
	})
}

// Get returns one event, cached under "event_detail_<id>".
func (s *eventService) Get(ctx context.Context, eventID string) (json.RawMessage, bool, error) {
	key := "event_detail_" + eventID
	return s.router.PerformQuery(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.router.Client().Do(ctx, "GET", "/events/"+eventID, nil)
	})
}

// PendingCount reports event actions still waiting for sync.
func (s *eventService) PendingCount(ctx context.Context) (int, error) {
	return s.router.PendingCount(ctx, "/events/")
}
