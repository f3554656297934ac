package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arogyahealth/arogya-go/internal/common"
	"github.com/arogyahealth/arogya-go/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Keys are namespaced with common.CacheKeyPrefix before hitting the table.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Put overwrites any existing entry for key. Last writer wins.
func (r *SQLiteRepository) Put(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, common.CacheKeyPrefix+key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: failed to cache %q: %v", common.ErrStorage, key, err)
	}
	return nil
}

// Get returns the last stored value for key, or nil when absent.
func (r *SQLiteRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ?`, common.CacheKeyPrefix+key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read cache %q: %v", common.ErrStorage, key, err)
	}
	return json.RawMessage(value), nil
}
