package models

import "encoding/json"

// ResultStatus distinguishes a server-confirmed mutation from an
// optimistic local echo of a deferred one.
type ResultStatus string

const (
	// StatusConfirmed means the backend accepted the mutation and Value
	// holds its response.
	StatusConfirmed ResultStatus = "confirmed"

	// StatusPendingLocal means the mutation was queued offline and Value
	// holds a local echo of what was submitted.
	StatusPendingLocal ResultStatus = "pending_local"
)

// Result is the tagged outcome of a mutating call through the router.
// Callers must check Status before trusting Value as server state.
type Result struct {
	Status ResultStatus

	// Value is the server response (confirmed) or the echoed request
	// body (pending).
	Value json.RawMessage

	// PendingActionID is the action-log row id backing an optimistic
	// result; zero when confirmed.
	PendingActionID int64

	// LocalID is a throwaway identifier ("temp_" prefixed) callers can
	// use to key the optimistic item in lists until the real server id
	// arrives; empty when confirmed.
	LocalID string
}

// Pending reports whether the result is an unconfirmed local echo.
func (r Result) Pending() bool {
	return r.Status == StatusPendingLocal
}
