// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens the SQLite database that backs usher's plain
// key-value store.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool. Every connection is
// prepared with WAL journaling, NORMAL synchronous mode, and a busy
// timeout, so a scan console and a concurrent `usher history` command
// on the same device do not trip over each other's writes. A schema
// script, when given, runs once per connection after the pragmas.
//
// Callers either [Pool.Take] and [Pool.Put] a connection themselves or
// use [Pool.With], which does both around a callback. Connections are
// not safe for concurrent use.
package sqlitepool
