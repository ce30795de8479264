// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore is usher's string key-value storage capability.
//
// A [Store] has three operations: Set, Get, and Delete. Absence is
// reported by Get's found result, never as an error. Every backend
// failure wraps [ErrStorage].
//
// Backends:
//
//   - [Sealed]: one age-encrypted file per key under a 0700 directory,
//     sealed to an identity generated on first open. Used for the app
//     key and the device identifier.
//   - [SQLite]: a single kv table. Used for non-secret state such as
//     the scan history, and as the secure store when the configuration
//     selects the plain backend.
//   - [Memory]: map-backed with failure injection, for tests.
//
// [Open] picks backends from the configuration once at startup; the
// rest of the program sees only the Store interface.
package kvstore
