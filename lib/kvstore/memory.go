// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"context"
	"maps"
	"sync"
)

// Memory is a map-backed Store for tests. Failures can be injected per
// operation with FailSet, FailGet, and FailDelete.
type Memory struct {
	mu     sync.Mutex
	values map[string]string

	setError    error
	getError    error
	deleteError error

	sets int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// FailSet makes every subsequent Set fail with err. nil clears it.
func (m *Memory) FailSet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setError = err
}

// FailGet makes every subsequent Get fail with err. nil clears it.
func (m *Memory) FailGet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// FailDelete makes every subsequent Delete fail with err. nil clears
// it.
func (m *Memory) FailDelete(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
}

// Snapshot returns a copy of the stored values.
func (m *Memory) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values)
}

// SetCount returns how many Set calls succeeded.
func (m *Memory) SetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setError != nil {
		return storageError("set", key, m.setError)
	}
	m.values[key] = value
	m.sets++
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return "", false, storageError("get", key, m.getError)
	}
	value, found := m.values[key]
	return value, found, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteError != nil {
		return storageError("delete", key, m.deleteError)
	}
	delete(m.values, key)
	return nil
}
