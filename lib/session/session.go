// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the process-wide usher credentials: the event
// app key and this device's identifier. Both are read from the secure
// store once and cached, so every screen and command sees the same
// values even while the key is being changed.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tedxbedayia/usher/lib/kvstore"
	"github.com/tedxbedayia/usher/lib/secret"
)

// Secure store keys.
const (
	AppKeyStorageKey    = "tedx_app_key"
	DeviceUIDStorageKey = "tedx_device_uid"
)

// DeviceUIDLength is the number of characters in a device identifier.
const DeviceUIDLength = 6

const deviceUIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrNoAppKey is returned by Credentials when no app key has been set.
var ErrNoAppKey = errors.New("session: no app key configured")

// Credentials is what each ticket API call needs.
type Credentials struct {
	AppKey    string
	DeviceUID string
}

// Config configures a Session.
type Config struct {
	// Store is the secure store. Required.
	Store kvstore.Store

	Logger *slog.Logger
}

// Session caches the app key and device identifier. Safe for
// concurrent use.
type Session struct {
	store  kvstore.Store
	logger *slog.Logger

	mu           sync.Mutex
	appKey       heldKey
	appKeyLoaded bool
	deviceUID    string
}

// heldKey is the in-memory app key. *secret.Buffer in production.
type heldKey interface {
	String() string
	Close() error
}

// New returns a Session over cfg.Store.
func New(cfg Config) (*Session, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("session: Store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{store: cfg.Store, logger: logger}, nil
}

// Close releases the cached app key memory.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropAppKeyLocked()
}

func (s *Session) dropAppKeyLocked() error {
	var err error
	if s.appKey != nil {
		err = s.appKey.Close()
		s.appKey = nil
	}
	s.appKeyLoaded = false
	return err
}

// AppKey returns the configured app key. found is false when no key
// has been set.
func (s *Session) AppKey(ctx context.Context) (key string, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.appKeyLoaded {
		value, found, err := s.store.Get(ctx, AppKeyStorageKey)
		if err != nil {
			return "", false, fmt.Errorf("session: reading app key: %w", err)
		}
		if found && value != "" {
			buffer, err := secret.NewFromString(value)
			if err != nil {
				return "", false, fmt.Errorf("session: holding app key: %w", err)
			}
			s.appKey = buffer
		}
		s.appKeyLoaded = true
	}

	if s.appKey == nil {
		return "", false, nil
	}
	return s.appKey.String(), true, nil
}

// SetAppKey trims key and stores it. Empty keys are rejected.
func (s *Session) SetAppKey(ctx context.Context, key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return fmt.Errorf("session: app key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, AppKeyStorageKey, trimmed); err != nil {
		return fmt.Errorf("session: saving app key: %w", err)
	}
	if err := s.dropAppKeyLocked(); err != nil {
		s.logger.Warn("releasing previous app key", "error", err)
	}
	buffer, err := secret.NewFromString(trimmed)
	if err != nil {
		return fmt.Errorf("session: holding app key: %w", err)
	}
	s.appKey = buffer
	s.appKeyLoaded = true
	s.logger.Info("app key saved")
	return nil
}

// DeleteAppKey removes the stored app key.
func (s *Session) DeleteAppKey(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, AppKeyStorageKey); err != nil {
		return fmt.Errorf("session: deleting app key: %w", err)
	}
	if err := s.dropAppKeyLocked(); err != nil {
		s.logger.Warn("releasing previous app key", "error", err)
	}
	s.appKeyLoaded = true
	s.logger.Info("app key cleared")
	return nil
}

// DeviceUID returns this device's identifier, generating and storing
// one on first use.
//
// The read and the write are separate store operations. Two processes
// running their first launch at the same moment can each generate a
// value; whichever writes last is what later reads see.
func (s *Session) DeviceUID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deviceUID != "" {
		return s.deviceUID, nil
	}

	value, found, err := s.store.Get(ctx, DeviceUIDStorageKey)
	if err != nil {
		return "", fmt.Errorf("session: reading device identifier: %w", err)
	}
	if found && value != "" {
		s.deviceUID = value
		return value, nil
	}

	generated, err := GenerateDeviceUID()
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, DeviceUIDStorageKey, generated); err != nil {
		return "", fmt.Errorf("session: saving device identifier: %w", err)
	}
	s.logger.Info("generated device identifier", "device", generated)
	s.deviceUID = generated
	return generated, nil
}

// ResetDeviceUID deletes the stored identifier. The next DeviceUID call
// generates a new one.
func (s *Session) ResetDeviceUID(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, DeviceUIDStorageKey); err != nil {
		return fmt.Errorf("session: deleting device identifier: %w", err)
	}
	s.deviceUID = ""
	return nil
}

// Credentials returns the app key and device identifier together.
// It returns ErrNoAppKey when no key is configured.
func (s *Session) Credentials(ctx context.Context) (Credentials, error) {
	appKey, found, err := s.AppKey(ctx)
	if err != nil {
		return Credentials{}, err
	}
	if !found {
		return Credentials{}, ErrNoAppKey
	}
	deviceUID, err := s.DeviceUID(ctx)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{AppKey: appKey, DeviceUID: deviceUID}, nil
}

// GenerateDeviceUID returns DeviceUIDLength random characters from
// [A-Z0-9].
func GenerateDeviceUID() (string, error) {
	// Rejection sampling keeps the distribution uniform: 252 is the
	// largest multiple of 36 that fits in a byte.
	const limit = 252

	result := make([]byte, 0, DeviceUIDLength)
	random := make([]byte, DeviceUIDLength*2)
	for len(result) < DeviceUIDLength {
		if _, err := rand.Read(random); err != nil {
			return "", fmt.Errorf("session: generating device identifier: %w", err)
		}
		for _, value := range random {
			if value >= limit {
				continue
			}
			result = append(result, deviceUIDAlphabet[int(value)%len(deviceUIDAlphabet)])
			if len(result) == DeviceUIDLength {
				break
			}
		}
	}
	return string(result), nil
}

// MaskAppKey renders key for display with all but the last four
// characters hidden.
func MaskAppKey(key string) string {
	const visible = 4
	if len(key) <= visible {
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", len(key)-visible) + key[len(key)-visible:]
}
