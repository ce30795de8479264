// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/config"
	"github.com/tedxbedayia/usher/lib/gate"
	"github.com/tedxbedayia/usher/lib/gateui"
	"github.com/tedxbedayia/usher/lib/session"
	"github.com/tedxbedayia/usher/lib/ticketref"
)

type scanParams struct {
	GlobalFlags
	Lines bool `flag:"lines" desc:"read one payload per line from stdin even on a terminal"`
}

func scanCommand(env *Env) *cli.Command {
	var params scanParams

	return &cli.Command{
		Name:    "scan",
		Summary: "Open the scan console",
		Description: `Admit tickets continuously.

On a terminal this opens the scan console: point a keyboard-mode QR
scanner at tickets, or type a ticket ID and press Enter. The verdict
stays on screen until the next scan or Esc. The same code scanned twice
in a row is ignored until the verdict is dismissed.

When stdin is not a terminal (or with --lines), each input line is one
payload and one verdict line is printed per payload:

  ADMITTED  <uuid>  <name>
  REJECTED  <uuid>  <reason>
  RETRY     <uuid>  <network error>`,
		Usage: "usher scan [flags]",
		Examples: []cli.Example{
			{Description: "Open the console", Command: "usher scan"},
			{Description: "Admit a batch of ticket IDs", Command: "usher scan < tickets.txt"},
		},
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			if params.Lines || !cli.IsTerminal(env.Stdin) {
				return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
					return scanLines(ctx, env, rt)
				})
			}
			return runConsole(ctx, env, params.GlobalFlags, logger)
		},
	}
}

// scanLines admits one payload per input line until EOF.
func scanLines(ctx context.Context, env *Env, rt *runtime) error {
	// Fail before reading input when the device is not configured.
	if _, err := rt.session.Credentials(ctx); err != nil {
		return credentialsError(err)
	}

	scanner := bufio.NewScanner(env.Stdin)
	for scanner.Scan() {
		payload := scanner.Text()
		if strings.TrimSpace(payload) == "" {
			continue
		}

		outcome, err := rt.gate.Scan(ctx, payload)
		switch {
		case errors.Is(err, gate.ErrDuplicate):
			fmt.Fprintf(env.Stdout, "SKIPPED   %s  scanned twice in a row\n", strings.TrimSpace(payload))
			continue
		case errors.Is(err, ticketref.ErrEmpty):
			continue
		case err != nil:
			return credentialsError(err)
		}
		writeVerdict(env.Stdout, outcome.UUID, outcome.Response)
	}
	if err := scanner.Err(); err != nil {
		return cli.Internal("reading stdin: %w", err)
	}
	return nil
}

// runConsole runs the bubbletea console. Logs go to the console log
// file under the storage root while the console owns the terminal.
func runConsole(ctx context.Context, env *Env, flags GlobalFlags, logger *slog.Logger) error {
	cfg, err := config.Resolve(flags.ConfigPath)
	if err != nil {
		return cli.Validation("%w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cli.Internal("%w", err)
	}
	logFile, err := os.OpenFile(cfg.ConsoleLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return cli.Internal("opening console log: %w", err)
	}
	defer logFile.Close()
	logger.Debug("scan console logging to file", "path", cfg.ConsoleLogPath())

	rt, err := env.open(flags, cli.NewFileLogger(logFile, env.Level))
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, found, err := rt.session.AppKey(ctx); err != nil {
		return cli.Internal("reading app key: %w", err)
	} else if !found {
		return credentialsError(session.ErrNoAppKey)
	}

	model := gateui.NewModel(gateui.Config{
		Context:  ctx,
		Scanner:  rt.gate,
		History:  rt.history,
		Clock:    rt.clock,
		Logger:   rt.logger,
		Renderer: gateui.NewRenderer(env.Stdout, termenv.EnvColorProfile()),
	})
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(env.Stdin),
		tea.WithOutput(env.Stdout),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return cli.Internal("scan console: %w", err)
	}
	return nil
}
