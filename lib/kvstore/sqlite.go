// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/tedxbedayia/usher/lib/sqlitepool"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLiteConfig configures OpenSQLite.
type SQLiteConfig struct {
	Path   string
	Logger *slog.Logger
}

// SQLite stores values unencrypted in a kv table.
type SQLite struct {
	pool *sqlitepool.Pool
}

// OpenSQLite opens (creating if needed) the database at cfg.Path. The
// caller must call Close.
func OpenSQLite(cfg SQLiteConfig) (*SQLite, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   cfg.Path,
		Schema: sqliteSchema,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return &SQLite{pool: pool}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.pool.Close()
}

// Set upserts key.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	err := s.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO kv (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			&sqlitex.ExecOptions{Args: []any{key, value}})
	})
	if err != nil {
		return storageError("set", key, err)
	}
	return nil
}

// Get reads key.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var found bool
	err := s.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT value FROM kv WHERE key = ?`, &sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = stmt.ColumnText(0)
				found = true
				return nil
			},
		})
	})
	if err != nil {
		return "", false, storageError("get", key, err)
	}
	return value, found, nil
}

// Delete removes key.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	err := s.pool.With(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `DELETE FROM kv WHERE key = ?`, &sqlitex.ExecOptions{
			Args: []any{key},
		})
	})
	if err != nil {
		return storageError("delete", key, err)
	}
	return nil
}
