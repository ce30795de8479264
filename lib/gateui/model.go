// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package gateui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tedxbedayia/usher/lib/admission"
	"github.com/tedxbedayia/usher/lib/clock"
	"github.com/tedxbedayia/usher/lib/gate"
	"github.com/tedxbedayia/usher/lib/history"
	"github.com/tedxbedayia/usher/lib/session"
	"github.com/tedxbedayia/usher/lib/ticketref"
)

// DefaultRecentLimit is how many history records the console lists
// when the terminal height is unknown.
const DefaultRecentLimit = 10

// NoAppKeyNotice is shown when a scan is attempted before an app key
// has been configured.
const NoAppKeyNotice = "No App Key. Run \"usher key set\" and restart the console."

// Scanner admits scanned payloads.
type Scanner interface {
	Scan(ctx context.Context, raw string) (gate.Outcome, error)
	ResetDuplicateGuard()
}

// HistorySource supplies the recent-scans list and today's counts.
type HistorySource interface {
	List(ctx context.Context) []history.Record
	TodayStats(ctx context.Context) history.Stats
}

// Config configures a Model. Scanner and History are required.
type Config struct {
	// Context is passed to every scan. Defaults to
	// context.Background.
	Context context.Context

	Scanner Scanner
	History HistorySource

	// Clock renders relative times. Defaults to the real clock.
	Clock clock.Clock

	// RecentLimit caps the recent-scans list. Defaults to
	// DefaultRecentLimit.
	RecentLimit int

	// Title is shown at the left of the header.
	Title string

	// Renderer builds the console styles. Defaults to
	// lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer

	Logger *slog.Logger
}

type verdictKind int

const (
	verdictAdmitted verdictKind = iota
	verdictRejected
	verdictNetwork
)

// verdict is the banner for the last completed scan.
type verdict struct {
	kind   verdictKind
	uuid   string
	detail string // Applicant name or failure message.
}

// scanResultMsg carries the result of a submitted scan back into
// Update.
type scanResultMsg struct {
	payload string
	outcome gate.Outcome
	err     error
}

// historyMsg carries a fresh history snapshot.
type historyMsg struct {
	records []history.Record
	stats   history.Stats
}

// Model is the bubbletea model for the scan console.
type Model struct {
	context context.Context
	scanner Scanner
	history HistorySource
	clock   clock.Clock
	logger  *slog.Logger

	renderer *lipgloss.Renderer
	theme    Theme
	keys     KeyMap
	title    string

	input textinput.Model

	width       int
	height      int
	recentLimit int

	// busy is set from Enter until the scan result arrives. Keystrokes
	// still reach the input while busy; an Enter during that time
	// moves the input into queued, which is scanned when the result
	// arrives.
	busy   bool
	queued string

	verdict *verdict
	notice  string

	records []history.Record
	stats   history.Stats
}

// NewModel creates a console model. The input is focused and ready
// for scanner keystrokes.
func NewModel(config Config) Model {
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	recentLimit := config.RecentLimit
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	title := config.Title
	if title == "" {
		title = "TEDxBedayia Usher"
	}

	renderer := config.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}

	input := textinput.New()
	input.Prompt = "Ticket ▸ "
	input.Placeholder = "scan a QR code or type a ticket ID"
	input.CharLimit = 512
	input.Focus()

	return Model{
		context:     ctx,
		scanner:     config.Scanner,
		history:     config.History,
		clock:       clk,
		logger:      logger,
		renderer:    renderer,
		theme:       DefaultTheme,
		keys:        DefaultKeyMap,
		title:       title,
		input:       input,
		recentLimit: recentLimit,
	}
}

// Init implements tea.Model. Loads history and starts the cursor
// blink.
func (model Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, model.loadHistory())
}

// Busy reports whether a scan is in flight.
func (model Model) Busy() bool {
	return model.busy
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if key.Matches(message, model.keys.Quit) {
			return model, tea.Quit
		}

		switch {
		case key.Matches(message, model.keys.Submit):
			if model.busy {
				model.queued = model.input.Value()
				model.input.Reset()
				return model, nil
			}
			return model.submit()

		case model.busy && key.Matches(message, model.keys.Dismiss):
			return model, nil

		case key.Matches(message, model.keys.Dismiss):
			model.verdict = nil
			model.notice = ""
			model.input.Reset()
			model.scanner.ResetDuplicateGuard()
			return model, nil
		}

		var cmd tea.Cmd
		model.input, cmd = model.input.Update(message)
		return model, cmd

	case scanResultMsg:
		return model.handleScanResult(message)

	case historyMsg:
		model.records = message.records
		model.stats = message.stats

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	default:
		var cmd tea.Cmd
		model.input, cmd = model.input.Update(message)
		return model, cmd
	}
	return model, nil
}

// submit sends the current input to the scanner.
func (model Model) submit() (tea.Model, tea.Cmd) {
	payload := model.input.Value()
	model.input.Reset()
	updated, cmd := model.scan(payload)
	return updated, cmd
}

// scan sends payload to the scanner. Blank payloads are dropped.
func (model Model) scan(payload string) (Model, tea.Cmd) {
	if strings.TrimSpace(payload) == "" {
		return model, nil
	}

	model.busy = true
	model.notice = ""
	scanner := model.scanner
	ctx := model.context
	return model, func() tea.Msg {
		outcome, err := scanner.Scan(ctx, payload)
		return scanResultMsg{payload: payload, outcome: outcome, err: err}
	}
}

func (model Model) handleScanResult(message scanResultMsg) (tea.Model, tea.Cmd) {
	model.busy = false
	model, cmd := model.applyScanResult(message)

	if model.queued == "" {
		return model, cmd
	}
	payload := model.queued
	model.queued = ""
	model, scanCmd := model.scan(payload)
	return model, tea.Batch(cmd, scanCmd)
}

func (model Model) applyScanResult(message scanResultMsg) (Model, tea.Cmd) {

	if message.err != nil {
		switch {
		case errors.Is(message.err, gate.ErrDuplicate):
			model.logger.Debug("ignoring repeated scan", "payload", message.payload)
		case errors.Is(message.err, ticketref.ErrEmpty):
		case errors.Is(message.err, session.ErrNoAppKey):
			model.notice = NoAppKeyNotice
		default:
			model.logger.Error("scan failed", "error", message.err)
			model.notice = message.err.Error()
		}
		return model, nil
	}

	result := &verdict{uuid: message.outcome.UUID}
	switch response := message.outcome.Response.(type) {
	case *admission.Success:
		result.kind = verdictAdmitted
		result.detail = response.Applicant.FullName
		if result.detail == "" {
			result.detail = gate.UnknownName
		}
	case *admission.Failure:
		result.kind = verdictRejected
		if response.Network {
			result.kind = verdictNetwork
		}
		result.detail = response.Message
	default:
		model.logger.Error("scan returned no response", "uuid", message.outcome.UUID)
		return model, nil
	}
	model.verdict = result
	return model, model.loadHistory()
}

// loadHistory reads the history on the command goroutine.
func (model Model) loadHistory() tea.Cmd {
	source := model.history
	ctx := model.context
	return func() tea.Msg {
		return historyMsg{
			records: source.List(ctx),
			stats:   source.TodayStats(ctx),
		}
	}
}
