package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ajramos/themesync/internal/theme"
)

// SettingsStore persists configuration values per (section, key). Values are
// stored as JSON so strings, booleans, numbers and string lists round-trip.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a new settings store from a base store
func NewSettingsStore(store *Store) *SettingsStore {
	if store == nil {
		return nil
	}
	return &SettingsStore{db: store.DB()}
}

// IsReady reports whether the store is backed by an open database
func (ss *SettingsStore) IsReady() bool {
	return ss != nil && ss.db != nil
}

// Get returns the value stored under section/key
func (ss *SettingsStore) Get(ctx context.Context, section, key string) (any, bool, error) {
	if !ss.IsReady() {
		return nil, false, theme.ErrConfigUnavailable
	}
	var raw string
	err := ss.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE section=? AND key=?`, section, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, fmt.Errorf("decode setting '%s/%s': %w", section, key, err)
	}
	return fromJSON(v), true, nil
}

// Set upserts the value for section/key
func (ss *SettingsStore) Set(ctx context.Context, section, key string, value any) error {
	if !ss.IsReady() {
		return theme.ErrConfigUnavailable
	}
	if strings.TrimSpace(section) == "" || strings.TrimSpace(key) == "" {
		return fmt.Errorf("invalid setting inputs")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting '%s/%s': %w", section, key, err)
	}
	_, err = ss.db.ExecContext(ctx, `INSERT INTO settings(section, key, value, updated_at)
VALUES(?,?,?,?)
ON CONFLICT(section, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
`, section, key, string(data), time.Now().Unix())
	return err
}

// Remove deletes section/key
func (ss *SettingsStore) Remove(ctx context.Context, section, key string) error {
	if !ss.IsReady() {
		return theme.ErrConfigUnavailable
	}
	_, err := ss.db.ExecContext(ctx, `DELETE FROM settings WHERE section=? AND key=?`, section, key)
	return err
}

// Keys lists the keys of a section, sorted
func (ss *SettingsStore) Keys(ctx context.Context, section string) ([]string, error) {
	if !ss.IsReady() {
		return nil, theme.ErrConfigUnavailable
	}
	rows, err := ss.db.QueryContext(ctx, `SELECT key FROM settings WHERE section=? ORDER BY key`, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// fromJSON turns decoded string arrays back into []string
func fromJSON(v any) any {
	arr, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return v
		}
		out = append(out, s)
	}
	return out
}
