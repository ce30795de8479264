// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the usher command tree.
//
// Every leaf command embeds [GlobalFlags] in its params, opens a
// [runtime] from the resolved configuration, and closes it before
// returning. Output goes through the [Env] writers so tests can run
// commands against an httptest server and a temporary storage root.
package commands

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/clock"
)

// Env is the process environment commands run in.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Level is the shared log level; --verbose lowers it to debug.
	Level *slog.LevelVar

	// Clock defaults to the real clock.
	Clock clock.Clock

	// HTTPClient is used for the ticket API. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client
}

// DefaultEnv is the environment of the running process.
func DefaultEnv() *Env {
	return &Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Level:  new(slog.LevelVar),
		Clock:  clock.Real(),
	}
}

// Root builds the complete command tree.
func Root(env *Env) *cli.Command {
	return &cli.Command{
		Name: "usher",
		Description: `usher: TEDxBedayia door check-in.

Admit tickets by QR payload or ticket ID, sell walk-up tickets at the
door, and review this device's scan history. The app key issued for
the event must be configured once with "usher key set".

Exit status: 0 admitted or sold, 1 error, 2 rejected by the server,
3 network failure (safe to retry).`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			scanCommand(env),
			admitCommand(env),
			sellCommand(env),
			infoCommand(env),
			historyCommand(env),
			keyCommand(env),
			deviceCommand(env),
		},
	}
}
