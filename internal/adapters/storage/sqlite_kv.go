package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteKV stores blobs in the kv_blob table.
type SQLiteKV struct {
	db SQLDB
}

// Compile-time check that *SQLiteKV satisfies KV.
var _ KV = (*SQLiteKV)(nil)

// NewSQLiteKV creates a new SQLiteKV.
// PRE: db has been initialized with InitDB
func NewSQLiteKV(db SQLDB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// Get returns the blob stored under key.
// PRE: key is non-empty
// POST: Returns ErrKeyNotFound if no row exists
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_blob WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Put upserts the blob under key.
// PRE: key is non-empty
// POST: Row for key holds value
func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_blob (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database when it supports closing.
func (s *SQLiteKV) Close() error {
	if c, ok := s.db.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
