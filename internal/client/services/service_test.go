package services

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arogyahealth/arogya-go/internal/client/actionlog"
	"github.com/arogyahealth/arogya-go/internal/client/cache"
	"github.com/arogyahealth/arogya-go/internal/client/connectivity"
	"github.com/arogyahealth/arogya-go/internal/client/metadata"
	"github.com/arogyahealth/arogya-go/internal/client/router"
	"github.com/arogyahealth/arogya-go/internal/client/transport"
	"github.com/arogyahealth/arogya-go/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fixture struct {
	router  *router.Router
	hub     *connectivity.Hub
	actions actionlog.Repository
	cache   cache.Repository
	meta    metadata.Repository
}

// setup wires a router against an optional httptest backend. With a nil
// server the fixture behaves like a device with no reachable backend.
func setup(t *testing.T, srv *httptest.Server, online bool) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE offline_actions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  endpoint TEXT NOT NULL,
  method TEXT NOT NULL,
  body TEXT,
  idempotency_key TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE TABLE cache_entries (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TEXT NOT NULL);
CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB);
`)
	require.NoError(t, err)

	var httpClient *http.Client
	baseURL := "http://127.0.0.1:0"
	if srv != nil {
		httpClient = srv.Client()
		baseURL = srv.URL
	}

	hub := connectivity.NewHub(online)
	logger := logging.NewDefault()
	meta := metadata.NewSQLiteRepository(db)
	client := transport.NewClient(baseURL, meta, httpClient, logger)
	actions := actionlog.NewSQLiteRepository(db)
	cacheRepo := cache.NewSQLiteRepository(db)

	return &fixture{
		router:  router.New(hub, client, actions, cacheRepo, logger),
		hub:     hub,
		actions: actions,
		cache:   cacheRepo,
		meta:    meta,
	}
}
