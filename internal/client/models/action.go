// Package models holds the client-side data model: deferred actions
// persisted in the offline action log and the result shapes returned by
// the request router.
package models

import "encoding/json"

// Method is the HTTP verb of a deferred mutation.
type Method string

const (
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Valid reports whether m is one of the verbs the action log accepts.
func (m Method) Valid() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// PendingAction is one deferred mutation awaiting replay. Rows are
// immutable after insert; the only mutation is deletion on successful
// sync.
type PendingAction struct {
	// ID is assigned by the log on insert (auto-increment, never reused).
	ID int64

	// Endpoint is the target resource path, e.g. "/events/".
	Endpoint string

	// Method is one of POST, PUT, PATCH, DELETE.
	Method Method

	// Body is the JSON-encoded payload; nil for bodyless DELETEs.
	Body json.RawMessage

	// IdempotencyKey is a client-generated UUID sent on replay so the
	// backend can deduplicate a double-submitted action.
	IdempotencyKey string

	// CreatedAt is an ISO-8601 timestamp assigned at enqueue time.
	CreatedAt string
}
