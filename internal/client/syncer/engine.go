// Package syncer drains the offline action log against the live backend.
// A drain runs on process start and on every disconnected→connected
// transition; at most one pass runs at a time.
package syncer

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/arogyahealth/arogya-go/internal/client/actionlog"
	"github.com/arogyahealth/arogya-go/internal/client/connectivity"
	"github.com/arogyahealth/arogya-go/internal/client/models"
	"github.com/arogyahealth/arogya-go/internal/client/transport"
	"github.com/arogyahealth/arogya-go/internal/logging"
)

// Stats summarizes one drain pass.
type Stats struct {
	// Attempted is how many actions the pass replayed.
	Attempted int
	// Synced is how many were accepted and removed from the log.
	Synced int
	// Failed actions stay queued for the next pass.
	Failed int
	// Coalesced is true when the pass was skipped because another one
	// was already running.
	Coalesced bool
}

// Engine replays queued actions in FIFO order.
type Engine struct {
	actions  actionlog.Repository
	client   *transport.Client
	logger   logging.Logger
	draining atomic.Bool
}

// NewEngine returns an Engine over the given action log and transport.
func NewEngine(actions actionlog.Repository, client *transport.Client, logger logging.Logger) *Engine {
	return &Engine{actions: actions, client: client, logger: logger}
}

// Drain performs one pass over the pending set captured at the start of
// the call. Per action: replay, remove on 2xx, keep and continue on a
// failed live attempt. Non-retryable failures (rejected credentials,
// cancelled context) abort the pass with everything later left queued.
// Actions enqueued while the pass runs are left for the next trigger. A
// pass already in progress coalesces the call into a no-op.
//
// Drain only returns an error when the action log itself cannot be read;
// individual replay failures are reflected in Stats.Failed.
func (e *Engine) Drain(ctx context.Context) (Stats, error) {
	if !e.draining.CompareAndSwap(false, true) {
		e.logger.Debug(ctx, "drain already in progress, coalescing trigger")
		return Stats{Coalesced: true}, nil
	}
	defer e.draining.Store(false)

	pending, err := e.actions.ListPending(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	if len(pending) == 0 {
		return Stats{}, nil
	}

	e.logger.Info(ctx, "draining offline actions", "pending", len(pending))

	var stats Stats
	for _, action := range pending {
		stats.Attempted++
		if err := e.replay(ctx, action); err != nil {
			stats.Failed++
			// A failure outside the live attempt itself (rejected
			// credentials, cancelled context) would hit every remaining
			// action too; stop the pass and leave them queued.
			if !transport.IsRetryableFailure(err) {
				e.logger.Error(ctx, "drain pass aborted, remaining actions stay queued",
					"id", action.ID, "endpoint", action.Endpoint, "error", err)
				break
			}
			// The action stays queued; the next reconnect retries it.
			e.logger.Warn(ctx, "failed to sync offline action",
				"id", action.ID, "endpoint", action.Endpoint, "method", action.Method, "error", err)
			continue
		}

		if err := e.actions.Remove(ctx, action.ID); err != nil {
			// Removal failure must not re-run the action forever without
			// notice; log loudly and move on. The idempotency key makes
			// the eventual duplicate replay safe.
			e.logger.Error(ctx, "synced action could not be removed from log",
				"id", action.ID, "error", err)
			stats.Failed++
			continue
		}
		stats.Synced++
	}

	e.logger.Info(ctx, "drain pass finished",
		"attempted", stats.Attempted, "synced", stats.Synced, "failed", stats.Failed)
	return stats, nil
}

func (e *Engine) replay(ctx context.Context, action models.PendingAction) error {
	var method string
	switch action.Method {
	case models.MethodPost:
		method = http.MethodPost
	case models.MethodPut:
		method = http.MethodPut
	case models.MethodPatch:
		method = http.MethodPatch
	case models.MethodDelete:
		method = http.MethodDelete
	default:
		// Unknown verbs cannot be replayed; keep the row for inspection.
		return &transport.StatusError{Code: http.StatusMethodNotAllowed}
	}

	_, err := e.client.Do(ctx, method, action.Endpoint, action.Body,
		transport.WithIdempotencyKey(action.IdempotencyKey))
	return err
}

// Run drains once immediately, then once per disconnected→connected edge
// reported by the monitor, until ctx is cancelled. It blocks; run it in a
// goroutine.
func (e *Engine) Run(ctx context.Context, monitor connectivity.Monitor) {
	// Subscribe before the initial state check: an edge firing between
	// the two would otherwise reach no subscriber and the queue would sit
	// untouched until the next flap.
	events, cancel := monitor.Subscribe()
	defer cancel()

	if monitor.Online() {
		if _, err := e.Drain(ctx); err != nil {
			e.logger.Error(ctx, "startup drain failed", "error", err)
		}
	}

	for {
		select {
		case online, ok := <-events:
			if !ok {
				return
			}
			if !online {
				continue
			}
			if _, err := e.Drain(ctx); err != nil {
				e.logger.Error(ctx, "drain failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// PendingCount reports how many actions are still queued, for sync-status
// UI. An optional endpoint substring narrows the count to one feature.
func (e *Engine) PendingCount(ctx context.Context, endpointFilter string) (int, error) {
	return e.actions.Count(ctx, endpointFilter)
}
