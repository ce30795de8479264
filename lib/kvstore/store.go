// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tedxbedayia/usher/lib/clock"
	"github.com/tedxbedayia/usher/lib/config"
)

// ErrStorage is wrapped by every error a backend returns.
var ErrStorage = errors.New("kvstore: storage failure")

// Store is a string key-value store.
type Store interface {
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Get reads key. A missing key returns found == false and a nil
	// error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Delete removes key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error
}

// storageError wraps err so that errors.Is(result, ErrStorage) holds
// while err stays reachable through errors.Unwrap chains.
func storageError(operation, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", ErrStorage, operation, key, err)
}

// Stores is the pair of stores the CLI opens at startup.
type Stores struct {
	// Secure holds the app key and device identifier.
	Secure Store

	// Data holds the scan history.
	Data Store

	closers []func() error
}

// Close releases every backend. Errors are joined.
func (s *Stores) Close() error {
	var errs []error
	for index := len(s.closers) - 1; index >= 0; index-- {
		if err := s.closers[index](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open creates the storage root and opens the secure and data stores
// the configuration selects.
func Open(cfg *config.Config, clk clock.Clock, logger *slog.Logger) (*Stores, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	stores := &Stores{}

	data, err := OpenSQLite(SQLiteConfig{Path: cfg.DataDatabasePath(), Logger: logger})
	if err != nil {
		return nil, err
	}
	stores.Data = data
	stores.closers = append(stores.closers, data.Close)

	switch cfg.Storage.SecureBackend {
	case config.BackendPlain:
		logger.Warn("secure storage is not encrypted on this device", "path", cfg.SecureDatabasePath())
		secure, err := OpenSQLite(SQLiteConfig{Path: cfg.SecureDatabasePath(), Logger: logger})
		if err != nil {
			stores.Close()
			return nil, err
		}
		stores.Secure = secure
		stores.closers = append(stores.closers, secure.Close)
	default:
		secure, err := OpenSealed(SealedConfig{Dir: cfg.SecureDir(), Clock: clk, Logger: logger})
		if err != nil {
			stores.Close()
			return nil, err
		}
		stores.Secure = secure
		stores.closers = append(stores.closers, secure.Close)
	}

	return stores, nil
}

var (
	_ Store = (*Sealed)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)
