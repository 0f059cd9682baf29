package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ExportRecord is one entry of the export history
type ExportRecord struct {
	ID         int64
	Variant    string
	Policy     string
	Written    int
	ExportedAt time.Time
}

// HistoryStore keeps a log of scheme exports
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a new history store from a base store
func NewHistoryStore(store *Store) *HistoryStore {
	if store == nil {
		return nil
	}
	return &HistoryStore{db: store.DB()}
}

// RecordExport appends an export to the history
func (hs *HistoryStore) RecordExport(ctx context.Context, variant, policy string, written int) error {
	if hs == nil || hs.db == nil {
		return fmt.Errorf("history store not initialized")
	}
	if strings.TrimSpace(variant) == "" {
		return fmt.Errorf("invalid export inputs")
	}
	_, err := hs.db.ExecContext(ctx, `INSERT INTO export_history(variant, policy, written, exported_at) VALUES(?,?,?,?)`,
		variant, policy, written, time.Now().Unix())
	return err
}

// ListExports returns the most recent exports, newest first. An empty
// variant lists all variants.
func (hs *HistoryStore) ListExports(ctx context.Context, variant string, limit int) ([]ExportRecord, error) {
	if hs == nil || hs.db == nil {
		return nil, fmt.Errorf("history store not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, variant, policy, written, exported_at FROM export_history`
	args := []any{}
	if variant != "" {
		query += ` WHERE variant=?`
		args = append(args, variant)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := hs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		var r ExportRecord
		var at int64
		if err := rows.Scan(&r.ID, &r.Variant, &r.Policy, &r.Written, &at); err != nil {
			return nil, err
		}
		r.ExportedAt = time.Unix(at, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
