// Package db opens the client's local SQLite database, applies embedded
// migrations, and bundles the repositories the rest of the client uses.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arogyahealth/arogya-go/internal/client/actionlog"
	"github.com/arogyahealth/arogya-go/internal/client/cache"
	"github.com/arogyahealth/arogya-go/internal/client/metadata"
	"github.com/arogyahealth/arogya-go/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// Repositories is the set of persistent stores backed by one SQLite file.
// The action log and cache are process-wide singletons by construction:
// everything shares the handles created here.
type Repositories struct {
	Actions  actionlog.Repository
	Cache    cache.Repository
	Metadata metadata.Repository
	DB       *sql.DB
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite database at dsn,
// migrates it to the current schema, and returns the repository bundle.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY between the router and a draining pass.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Actions:  actionlog.NewSQLiteRepository(db),
		Cache:    cache.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
