// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tedxbedayia/usher/lib/clock"
	"github.com/tedxbedayia/usher/lib/sealed"
)

// IdentityFileName is the store identity inside the sealed directory.
const IdentityFileName = "identity.age-key"

// valueSuffix is appended to a key to form its file name.
const valueSuffix = ".age"

// SealedConfig configures OpenSealed.
type SealedConfig struct {
	// Dir is created with mode 0700 if missing.
	Dir string

	// Clock stamps the identity file. Defaults to the real clock.
	Clock clock.Clock

	Logger *slog.Logger
}

// Sealed stores each value in its own age-encrypted file, sealed to
// the store's identity. Sealed is safe for concurrent use within one
// process.
type Sealed struct {
	dir     string
	keypair *sealed.Keypair
	logger  *slog.Logger

	mu sync.Mutex
}

// OpenSealed opens the store in cfg.Dir, generating and persisting a
// new identity if none exists. The caller must call Close.
func OpenSealed(cfg SealedConfig) (*Sealed, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: sealed store directory is required", ErrStorage)
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrStorage, cfg.Dir, err)
	}

	identityPath := filepath.Join(cfg.Dir, IdentityFileName)
	keypair, err := sealed.ReadIdentityFile(identityPath)
	if errors.Is(err, fs.ErrNotExist) {
		keypair, err = sealed.GenerateKeypair()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if err := sealed.WriteIdentityFile(identityPath, keypair, clk.Now()); err != nil {
			keypair.Close()
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		logger.Info("created sealed store identity", "path", identityPath, "recipient", keypair.PublicKey)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return &Sealed{dir: cfg.Dir, keypair: keypair, logger: logger}, nil
}

// Recipient returns the store's age public key.
func (s *Sealed) Recipient() string {
	return s.keypair.PublicKey
}

// Close releases the identity's private key.
func (s *Sealed) Close() error {
	return s.keypair.Close()
}

// Set encrypts value and atomically replaces key's file.
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return storageError("set", key, err)
	}
	path, err := s.valuePath(key)
	if err != nil {
		return storageError("set", key, err)
	}

	ciphertext, err := sealed.Encrypt([]byte(value), s.keypair.PublicKey)
	if err != nil {
		return storageError("set", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFileAtomic(s.dir, path, ciphertext); err != nil {
		return storageError("set", key, err)
	}
	return nil
}

// Get decrypts key's file.
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, storageError("get", key, err)
	}
	path, err := s.valuePath(key)
	if err != nil {
		return "", false, storageError("get", key, err)
	}

	s.mu.Lock()
	ciphertext, err := os.ReadFile(path)
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageError("get", key, err)
	}

	plaintext, err := sealed.Decrypt(ciphertext, s.keypair.PrivateKey)
	if err != nil {
		return "", false, storageError("get", key, err)
	}
	if plaintext == nil {
		return "", true, nil
	}
	defer plaintext.Close()
	return plaintext.String(), true, nil
}

// Delete removes key's file.
func (s *Sealed) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return storageError("delete", key, err)
	}
	path, err := s.valuePath(key)
	if err != nil {
		return storageError("delete", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageError("delete", key, err)
	}
	return nil
}

func (s *Sealed) valuePath(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+valueSuffix), nil
}

// ValidateKey reports whether key can be used as a sealed store file
// name: 1 to 128 characters from [A-Za-z0-9_.-], not starting with a
// dot.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if len(key) > 128 {
		return fmt.Errorf("key is longer than 128 characters")
	}
	if key[0] == '.' {
		return fmt.Errorf("key %q starts with a dot", key)
	}
	for _, character := range key {
		switch {
		case character >= 'a' && character <= 'z',
			character >= 'A' && character <= 'Z',
			character >= '0' && character <= '9',
			character == '_', character == '-', character == '.':
		default:
			return fmt.Errorf("key %q contains %q", key, character)
		}
	}
	return nil
}

// writeFileAtomic writes data to a temporary file in dir, syncs it,
// and renames it over path.
func writeFileAtomic(dir, path string, data []byte) error {
	file, err := os.CreateTemp(dir, ".value-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	temporaryPath := file.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(temporaryPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	success = true

	if directory, err := os.Open(dir); err == nil {
		directory.Sync()
		directory.Close()
	}
	return nil
}
