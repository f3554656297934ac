package actionlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/arogyahealth/arogya-go/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE offline_actions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  endpoint TEXT NOT NULL,
  method TEXT NOT NULL,
  body TEXT,
  idempotency_key TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)

	return db
}

func TestEnqueue_AssignsIDAndTimestamp(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, "/events/", models.MethodPost, json.RawMessage(`{"event_name":"Night Shift"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	actions, err := r.ListPending(ctx, "")
	require.NoError(t, err)
	require.Len(t, actions, 1)

	a := actions[0]
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "/events/", a.Endpoint)
	assert.Equal(t, models.MethodPost, a.Method)
	assert.JSONEq(t, `{"event_name":"Night Shift"}`, string(a.Body))
	assert.NotEmpty(t, a.IdempotencyKey)
	assert.NotEmpty(t, a.CreatedAt)
}

func TestEnqueue_RejectsUnknownMethod(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Enqueue(context.Background(), "/events/", models.Method("GET"), nil)
	require.Error(t, err)
}

func TestEnqueue_NilBodyForDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Enqueue(ctx, "/patients/42", models.MethodDelete, nil)
	require.NoError(t, err)

	actions, err := r.ListPending(ctx, "")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Nil(t, actions[0].Body)
}

func TestListPending_FIFOOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	endpoints := []string{"/events/", "/events/1/append", "/appointments/7/vitals", "/events/1/append"}
	for _, e := range endpoints {
		_, err := r.Enqueue(ctx, e, models.MethodPost, json.RawMessage(`{}`))
		require.NoError(t, err)
	}

	actions, err := r.ListPending(ctx, "")
	require.NoError(t, err)
	require.Len(t, actions, len(endpoints))

	for i, a := range actions {
		assert.Equal(t, endpoints[i], a.Endpoint, "position %d", i)
		if i > 0 {
			assert.Less(t, actions[i-1].ID, a.ID)
			assert.LessOrEqual(t, actions[i-1].CreatedAt, a.CreatedAt)
		}
	}
}

func TestListPending_EndpointFilter(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Enqueue(ctx, "/events/", models.MethodPost, json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = r.Enqueue(ctx, "/appointments/7/vitals", models.MethodPost, json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = r.Enqueue(ctx, "/events/3/append", models.MethodPatch, json.RawMessage(`{}`))
	require.NoError(t, err)

	actions, err := r.ListPending(ctx, "/events/")
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "/events/", actions[0].Endpoint)
	assert.Equal(t, "/events/3/append", actions[1].Endpoint)

	n, err := r.Count(ctx, "/events/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRemove_DeletesOnlyTarget(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id1, err := r.Enqueue(ctx, "/events/", models.MethodPost, json.RawMessage(`{"n":1}`))
	require.NoError(t, err)
	id2, err := r.Enqueue(ctx, "/events/", models.MethodPost, json.RawMessage(`{"n":2}`))
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, id1))

	actions, err := r.ListPending(ctx, "")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, id2, actions[0].ID)
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	require.NoError(t, r.Remove(context.Background(), 999))
}

func TestEnqueue_VisibleImmediately(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, "/events/", models.MethodPost, json.RawMessage(`{}`))
	require.NoError(t, err)

	actions, err := r.ListPending(ctx, "")
	require.NoError(t, err)

	seen := 0
	for _, a := range actions {
		if a.ID == id {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

func TestRestart_ActionsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arogya.db")
	ctx := context.Background()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	r := NewSQLiteRepository(db)
	id1, err := r.Enqueue(ctx, "/events/", models.MethodPost, json.RawMessage(`{"event_name":"A"}`))
	require.NoError(t, err)
	id2, err := r.Enqueue(ctx, "/events/1/append", models.MethodPatch, json.RawMessage(`{"data":"B"}`))
	require.NoError(t, err)

	before, err := r.ListPending(ctx, "")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// simulated restart: reopen the same file
	db2, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db2.Close() })

	r2 := NewSQLiteRepository(db2)
	after, err := r2.ListPending(ctx, "")
	require.NoError(t, err)

	require.Len(t, after, 2)
	assert.Equal(t, id1, after[0].ID)
	assert.Equal(t, id2, after[1].ID)
	assert.Equal(t, before[0].CreatedAt, after[0].CreatedAt)
	assert.Equal(t, before[1].CreatedAt, after[1].CreatedAt)
}
