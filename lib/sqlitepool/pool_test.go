// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/tedxbedayia/usher/lib/sqlitepool"
)

const testSchema = `CREATE TABLE IF NOT EXISTS entries (name TEXT PRIMARY KEY, value TEXT NOT NULL);`

func TestOpenAppliesPragmasAndSchema(t *testing.T) {
	pool := openTestPool(t, filepath.Join(t.TempDir(), "test.db"))

	err := pool.With(context.Background(), func(conn *sqlite.Conn) error {
		var journalMode string
		err := sqlitex.Execute(conn, "PRAGMA journal_mode", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				journalMode = stmt.ColumnText(0)
				return nil
			},
		})
		if err != nil {
			return err
		}
		if journalMode != "wal" {
			t.Errorf("journal_mode = %q, want %q", journalMode, "wal")
		}

		return sqlitex.Execute(conn, "INSERT INTO entries (name, value) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{"tedx_scan_history", "[]"},
		})
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "usher.db")
	pool := openTestPool(t, path)

	if err := pool.With(context.Background(), func(*sqlite.Conn) error { return nil }); err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestDataPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	first, err := sqlitepool.Open(sqlitepool.Config{Path: path, Schema: testSchema})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = first.With(context.Background(), func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "INSERT INTO entries (name, value) VALUES ('k', 'v')", nil)
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openTestPool(t, path)
	var value string
	err = second.With(context.Background(), func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT value FROM entries WHERE name = 'k'", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = stmt.ColumnText(0)
				return nil
			},
		})
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if value != "v" {
		t.Errorf("value = %q, want %q", value, "v")
	}
}

func TestWithPropagatesCallbackError(t *testing.T) {
	pool := openTestPool(t, filepath.Join(t.TempDir(), "err.db"))
	sentinel := errors.New("callback failed")

	err := pool.With(context.Background(), func(*sqlite.Conn) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("With error = %v, want %v", err, sentinel)
	}
}

func TestEmptyPathRejected(t *testing.T) {
	if _, err := sqlitepool.Open(sqlitepool.Config{}); err == nil {
		t.Fatal("expected error for empty Path")
	}
}

func TestContextCancellation(t *testing.T) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     filepath.Join(t.TempDir(), "cancel.db"),
		PoolSize: 1,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer pool.Close()

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pool.Take(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}

	pool.Put(conn)
}

func openTestPool(t *testing.T, path string) *sqlitepool.Pool {
	t.Helper()

	pool, err := sqlitepool.Open(sqlitepool.Config{Path: path, Schema: testSchema})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return pool
}
