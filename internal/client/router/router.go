// Package router is the single decision point between callers and the
// network: mutations either go out live or land in the offline action
// log, reads either hit the backend (refreshing the cache) or are served
// from the last cached response.
package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arogyahealth/arogya-go/internal/client/actionlog"
	"github.com/arogyahealth/arogya-go/internal/client/cache"
	"github.com/arogyahealth/arogya-go/internal/client/connectivity"
	"github.com/arogyahealth/arogya-go/internal/client/models"
	"github.com/arogyahealth/arogya-go/internal/client/transport"
	"github.com/arogyahealth/arogya-go/internal/common"
	"github.com/arogyahealth/arogya-go/internal/logging"
	"github.com/google/uuid"
)

// Fetcher performs one live read and returns the raw response body.
type Fetcher func(ctx context.Context) (json.RawMessage, error)

// Router hides online/offline branching from feature code.
type Router struct {
	monitor connectivity.Monitor
	client  *transport.Client
	actions actionlog.Repository
	cache   cache.Repository
	logger  logging.Logger
}

// New returns a Router over the shared stores and transport.
func New(monitor connectivity.Monitor, client *transport.Client, actions actionlog.Repository, cacheRepo cache.Repository, logger logging.Logger) *Router {
	return &Router{
		monitor: monitor,
		client:  client,
		actions: actions,
		cache:   cacheRepo,
		logger:  logger,
	}
}

// Client exposes the underlying transport for reads issued via Fetchers.
func (r *Router) Client() *transport.Client {
	return r.client
}

// PerformMutation routes one mutating call.
//
// Online: the call goes out immediately and its result or error is
// returned unchanged — a failed live attempt is NOT enqueued.
//
// Offline: the action is appended to the durable log and an optimistic
// result echoing the submitted body is returned, tagged StatusPendingLocal
// with the backing action id and a throwaway local id.
func (r *Router) PerformMutation(ctx context.Context, endpoint string, method models.Method, body any) (models.Result, error) {
	var raw json.RawMessage
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return models.Result{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		raw = encoded
	}

	if r.monitor.Online() {
		resp, err := r.client.Do(ctx, string(method), endpoint, raw)
		if err != nil {
			return models.Result{}, err
		}
		return models.Result{Status: models.StatusConfirmed, Value: resp}, nil
	}

	id, err := r.actions.Enqueue(ctx, endpoint, method, raw)
	if err != nil {
		return models.Result{}, err
	}

	r.logger.Info(ctx, "action saved offline", "endpoint", endpoint, "method", method, "id", id)

	return models.Result{
		Status:          models.StatusPendingLocal,
		Value:           raw,
		PendingActionID: id,
		LocalID:         "temp_" + uuid.NewString(),
	}, nil
}

// PerformQuery routes one read keyed by a caller-chosen cache key.
//
// Offline: the cached value is returned, or common.ErrNoOfflineData when
// none exists. Online: the fetcher runs; on success its result refreshes
// the cache (best effort) and is returned; on failure the cache is the
// fallback and the live error surfaces only when the cache is empty too.
// The bool result reports whether the value came from cache.
func (r *Router) PerformQuery(ctx context.Context, key string, fetch Fetcher) (json.RawMessage, bool, error) {
	if !r.monitor.Online() {
		return r.fromCache(ctx, key, nil)
	}

	value, err := fetch(ctx)
	if err != nil {
		r.logger.Warn(ctx, "live fetch failed, falling back to cache", "key", key, "error", err)
		return r.fromCache(ctx, key, err)
	}

	// An empty body must not be cached: stored as "" it would later read
	// back as a present-but-empty hit instead of ErrNoOfflineData.
	if len(value) > 0 {
		if err := r.cache.Put(ctx, key, value); err != nil {
			// Caching is best effort; the read itself succeeded.
			r.logger.Warn(ctx, "failed to refresh cache", "key", key, "error", err)
		}
	}

	return value, false, nil
}

// fromCache serves the last stored value for key. fetchErr, when non-nil,
// is the live error to surface if the cache is empty.
func (r *Router) fromCache(ctx context.Context, key string, fetchErr error) (json.RawMessage, bool, error) {
	value, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if value == nil {
		if fetchErr != nil {
			return nil, false, fetchErr
		}
		return nil, false, fmt.Errorf("%w: %s", common.ErrNoOfflineData, key)
	}
	return value, true, nil
}

// PendingCount reports queued actions for an optional endpoint substring,
// so features can render "pending sync" badges.
func (r *Router) PendingCount(ctx context.Context, endpointFilter string) (int, error) {
	return r.actions.Count(ctx, endpointFilter)
}
