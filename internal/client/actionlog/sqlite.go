package actionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arogyahealth/arogya-go/internal/client/models"
	"github.com/arogyahealth/arogya-go/internal/common"
	"github.com/arogyahealth/arogya-go/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// timestampLayout is RFC 3339 with a fixed-width fractional second so that
// lexicographic order of created_at matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Enqueue inserts one action row. The row gets a fresh idempotency key and
// a fixed-width UTC timestamp so insertion order and created_at order agree
// even within the same wall-clock second.
func (r *SQLiteRepository) Enqueue(ctx context.Context, endpoint string, method models.Method, body json.RawMessage) (int64, error) {
	if !method.Valid() {
		return 0, fmt.Errorf("refusing to enqueue method %q", method)
	}

	var bodyText any
	if body != nil {
		bodyText = string(body)
	}

	createdAt := time.Now().UTC().Format(timestampLayout)

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO offline_actions (endpoint, method, body, idempotency_key, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, endpoint, string(method), bodyText, uuid.NewString(), createdAt)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to insert offline action: %v", common.ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read inserted id: %v", common.ErrStorage, err)
	}
	return id, nil
}

// ListPending returns queued actions in replay order. When endpointFilter is
// non-empty only actions whose endpoint contains it are returned. The id
// tie-break keeps ordering stable for rows sharing a timestamp.
func (r *SQLiteRepository) ListPending(ctx context.Context, endpointFilter string) ([]models.PendingAction, error) {
	query := `SELECT id, endpoint, method, body, idempotency_key, created_at FROM offline_actions`
	args := []any{}

	if endpointFilter != "" {
		query += ` WHERE endpoint LIKE ?`
		args = append(args, "%"+endpointFilter+"%")
	}

	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select offline actions: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []models.PendingAction
	for rows.Next() {
		var a models.PendingAction
		var method string
		var body *string
		if err := rows.Scan(&a.ID, &a.Endpoint, &method, &body, &a.IdempotencyKey, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan offline action: %v", common.ErrStorage, err)
		}
		a.Method = models.Method(method)
		if body != nil {
			a.Body = json.RawMessage(*body)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate offline actions: %v", common.ErrStorage, err)
	}

	return result, nil
}

// Remove deletes one action by id. Removing a non-existent id is a no-op.
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM offline_actions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete offline action %d: %v", common.ErrStorage, id, err)
	}
	return nil
}

// Count returns the number of queued actions, optionally filtered by an
// endpoint substring.
func (r *SQLiteRepository) Count(ctx context.Context, endpointFilter string) (int, error) {
	query := `SELECT COUNT(*) FROM offline_actions`
	args := []any{}

	if endpointFilter != "" {
		query += ` WHERE endpoint LIKE ?`
		args = append(args, "%"+endpointFilter+"%")
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: failed to count offline actions: %v", common.ErrStorage, err)
	}
	return n, nil
}
