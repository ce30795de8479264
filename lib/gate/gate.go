// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package gate runs the usher's two jobs at the door: admitting a
// scanned or typed ticket, and selling a walk-up ticket.
//
// A Gate combines the session credentials, the ticket API client, and
// the scan history. It admits one request at a time per process
// ([ErrBusy] otherwise) and ignores a camera-stream rescan of the
// ticket it just handled ([ErrDuplicate]) until the verdict is
// dismissed.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tedxbedayia/usher/lib/admission"
	"github.com/tedxbedayia/usher/lib/history"
	"github.com/tedxbedayia/usher/lib/session"
	"github.com/tedxbedayia/usher/lib/ticketref"
)

// UnknownName is recorded in history when no applicant was returned.
const UnknownName = "Unknown"

var (
	// ErrBusy is returned when a scan or sale is already in flight.
	ErrBusy = errors.New("gate: another request is in progress")

	// ErrDuplicate is returned by Scan for the payload that was just
	// scanned.
	ErrDuplicate = errors.New("gate: ticket was just scanned")
)

// Admitter is the part of the ticket API the gate uses.
type Admitter interface {
	Admit(ctx context.Context, id, appKey, deviceUID string) admission.Response
	SellOnDoor(ctx context.Context, ticket admission.OnDoorTicket, appKey, deviceUID string) admission.Response
	OnDoorInfo(ctx context.Context) (*admission.OnDoorInfo, error)
}

// Credentialer supplies the app key and device identifier.
type Credentialer interface {
	Credentials(ctx context.Context) (session.Credentials, error)
}

// Recorder is the scan history sink.
type Recorder interface {
	Append(ctx context.Context, entry history.Entry) history.Record
}

// Config configures a Gate. Session and Client are required.
type Config struct {
	Session Credentialer
	Client  Admitter

	// History receives one record per completed admission attempt.
	// Nil disables recording.
	History Recorder

	Logger *slog.Logger
}

// Outcome is the result of a completed admission attempt.
type Outcome struct {
	// UUID is the ticket identifier that was sent.
	UUID string

	Response admission.Response
}

// Gate orchestrates scans and sales. Safe for concurrent use; at most
// one request runs at a time.
type Gate struct {
	session Credentialer
	client  Admitter
	history Recorder
	logger  *slog.Logger

	busy atomic.Bool

	mu      sync.Mutex
	lastID  string
	hasLast bool
	methods []string
}

// New creates a Gate.
func New(config Config) (*Gate, error) {
	if config.Session == nil {
		return nil, fmt.Errorf("gate: Session is required")
	}
	if config.Client == nil {
		return nil, fmt.Errorf("gate: Client is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{
		session: config.Session,
		client:  config.Client,
		history: config.History,
		logger:  logger,
	}, nil
}

// Scan admits the ticket in a scanner payload. Once an attempt
// completes, the same ticket is rejected with ErrDuplicate until
// ResetDuplicateGuard is called or a different ticket is scanned.
// Payloads are compared by the identifier they parse to, so a URL and
// the bare UUID of one ticket are the same scan. Parse errors are
// returned as is (ticketref.ErrEmpty).
func (g *Gate) Scan(ctx context.Context, raw string) (Outcome, error) {
	id, err := ticketref.Parse(raw)
	if err != nil {
		return Outcome{}, err
	}

	g.mu.Lock()
	if g.hasLast && g.lastID == id {
		g.mu.Unlock()
		return Outcome{}, ErrDuplicate
	}
	g.mu.Unlock()

	outcome, err := g.admit(ctx, id)
	if err != nil {
		return Outcome{}, err
	}

	g.mu.Lock()
	g.lastID = id
	g.hasLast = true
	g.mu.Unlock()
	return outcome, nil
}

// ScanManual admits a typed ticket identifier. It does not consult or
// update the duplicate guard.
func (g *Gate) ScanManual(ctx context.Context, raw string) (Outcome, error) {
	id, err := ticketref.Parse(raw)
	if err != nil {
		return Outcome{}, err
	}
	return g.admit(ctx, id)
}

// ResetDuplicateGuard forgets the last scanned ticket so the same
// ticket can be presented again.
func (g *Gate) ResetDuplicateGuard() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastID = ""
	g.hasLast = false
}

// Busy reports whether a request is in flight.
func (g *Gate) Busy() bool {
	return g.busy.Load()
}

func (g *Gate) admit(ctx context.Context, id string) (Outcome, error) {
	credentials, err := g.session.Credentials(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if !g.busy.CompareAndSwap(false, true) {
		return Outcome{}, ErrBusy
	}
	defer g.busy.Store(false)

	if !ticketref.IsUUID(id) {
		g.logger.Debug("ticket reference is not a UUID, sending as is", "uuid", id)
	}
	response := g.client.Admit(ctx, id, credentials.AppKey, credentials.DeviceUID)
	g.record(ctx, id, response)
	return Outcome{UUID: id, Response: response}, nil
}

func (g *Gate) record(ctx context.Context, id string, response admission.Response) {
	entry := history.Entry{UUID: id, Name: UnknownName}
	switch result := response.(type) {
	case *admission.Success:
		entry.Success = true
		if result.Applicant.FullName != "" {
			entry.Name = result.Applicant.FullName
		}
		g.logger.Info("ticket admitted", "uuid", id, "name", entry.Name)
	case *admission.Failure:
		entry.Error = result.Message
		g.logger.Info("ticket rejected", "uuid", id, "message", result.Message, "network", result.Network)
	}

	if g.history != nil {
		g.history.Append(ctx, entry)
	}
}
