// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package history is the device's scan history: the last
// [MaxRecords] admission attempts, newest first, kept as one blob in
// the data store.
//
// History is best-effort. Write failures are logged and swallowed, and
// a missing or corrupt blob reads as an empty history, so a storage
// problem never blocks a scan.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tedxbedayia/usher/lib/clock"
	"github.com/tedxbedayia/usher/lib/codec"
	"github.com/tedxbedayia/usher/lib/kvstore"
)

// StorageKey is the data store key holding the history blob.
const StorageKey = "tedx_scan_history"

// MaxRecords is how many records the log keeps.
const MaxRecords = 50

// Record is one admission attempt.
type Record struct {
	// ID is "<unix millis>-<9 base36 characters>". Unique in
	// practice, not guaranteed.
	ID string `json:"id"`

	// UUID is the ticket identifier that was presented.
	UUID string `json:"uuid"`

	// Name is the applicant's full name, or "Unknown" on failure.
	Name string `json:"name"`

	Success bool `json:"success"`

	// Error is the failure message shown to the usher.
	Error string `json:"error,omitempty"`

	// Timestamp is Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Time returns the record's timestamp as a time.Time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Entry is the caller-supplied part of a Record.
type Entry struct {
	UUID    string
	Name    string
	Success bool
	Error   string
}

// Stats counts records by outcome.
type Stats struct {
	Total    int `json:"total"`
	Admitted int `json:"admitted"`
	Rejected int `json:"rejected"`
}

// Config configures a Log.
type Config struct {
	// Store holds the blob. Required.
	Store kvstore.Store

	// Clock assigns timestamps and finds midnight. Defaults to the
	// real clock.
	Clock clock.Clock

	// Location is where "today" starts. Defaults to time.Local.
	Location *time.Location

	Logger *slog.Logger
}

// Log is the scan history. Calls through one Log are serialized;
// separate processes sharing a store are not coordinated.
type Log struct {
	store    kvstore.Store
	clock    clock.Clock
	location *time.Location
	logger   *slog.Logger

	mu sync.Mutex
}

// New returns a Log over cfg.Store.
func New(cfg Config) (*Log, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("history: Store is required")
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Log{store: cfg.Store, clock: clk, location: location, logger: logger}, nil
}

// Append stamps entry with an ID and the current time, prepends it,
// keeps the newest MaxRecords, and writes the result back. The new
// record is returned even if the write failed.
func (l *Log) Append(ctx context.Context, entry Entry) Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	record := Record{
		ID:        newRecordID(now),
		UUID:      entry.UUID,
		Name:      entry.Name,
		Success:   entry.Success,
		Error:     entry.Error,
		Timestamp: now.UnixMilli(),
	}

	existing := l.readLocked(ctx)
	updated := make([]Record, 0, min(len(existing)+1, MaxRecords))
	updated = append(updated, record)
	updated = append(updated, existing...)
	if len(updated) > MaxRecords {
		updated = updated[:MaxRecords]
	}

	encoded, err := codec.MarshalString(updated)
	if err != nil {
		l.logger.Error("failed to encode scan history", "error", err)
		return record
	}
	if err := l.store.Set(ctx, StorageKey, encoded); err != nil {
		l.logger.Error("failed to save scan record", "uuid", record.UUID, "error", err)
	}
	return record
}

// List returns the history, newest first.
func (l *Log) List(ctx context.Context) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked(ctx)
}

// Clear removes the history blob.
func (l *Log) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Delete(ctx, StorageKey); err != nil {
		l.logger.Error("failed to clear scan history", "error", err)
	}
}

// TodayStats counts records since midnight in the Log's location.
func (l *Log) TodayStats(ctx context.Context) Stats {
	now := l.clock.Now().In(l.location)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, l.location)
	return l.Stats(ctx, midnight)
}

// Stats counts records at or after since.
func (l *Log) Stats(ctx context.Context, since time.Time) Stats {
	cutoff := since.UnixMilli()
	var stats Stats
	for _, record := range l.List(ctx) {
		if record.Timestamp < cutoff {
			continue
		}
		stats.Total++
		if record.Success {
			stats.Admitted++
		} else {
			stats.Rejected++
		}
	}
	return stats
}

func (l *Log) readLocked(ctx context.Context) []Record {
	blob, found, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		l.logger.Warn("failed to read scan history", "error", err)
		return []Record{}
	}
	if !found {
		return []Record{}
	}
	records, err := decode(blob)
	if err != nil {
		l.logger.Warn("discarding unreadable scan history", "error", err)
		return []Record{}
	}
	return records
}

// decode accepts the CBOR blob this package writes and the JSON array
// format of earlier installs. Base64 never starts with '[', so the two
// cannot be confused.
func decode(blob string) ([]Record, error) {
	trimmed := strings.TrimSpace(blob)
	if trimmed == "" {
		return []Record{}, nil
	}

	var records []Record
	if trimmed[0] == '[' || trimmed == "null" {
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, fmt.Errorf("history: decoding JSON blob: %w", err)
		}
	} else if err := codec.UnmarshalString(trimmed, &records); err != nil {
		return nil, fmt.Errorf("history: decoding CBOR blob: %w", err)
	}

	if records == nil {
		records = []Record{}
	}
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	return records, nil
}

const base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// newRecordID returns "<unix millis>-<9 random base36 characters>".
func newRecordID(now time.Time) string {
	var suffix [9]byte
	for index := range suffix {
		suffix[index] = base36Digits[rand.IntN(len(base36Digits))]
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix[:])
}
