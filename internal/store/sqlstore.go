package store

import (
	"context"
	"database/sql"
	"fmt"

	"homevault/internal/database"
)

// SQLStore persists key-value pairs in the kv_store table
type SQLStore struct {
	db *database.DB
}

// NewSQLStore creates a store backed by the given database connection
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Get retrieves a value by key
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := "SELECT value FROM kv_store WHERE key = ?"
	if s.db.Dialect.DriverName() == "mysql" {
		query = "SELECT `value` FROM kv_store WHERE `key` = ?"
	}

	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes or overwrites a value
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.db.Dialect.UpsertKeyValue(), key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key; absent keys are a no-op
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := "DELETE FROM kv_store WHERE key = ?"
	if s.db.Dialect.DriverName() == "mysql" {
		query = "DELETE FROM kv_store WHERE `key` = ?"
	}

	_, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
