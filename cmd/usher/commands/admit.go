// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/ticketref"
)

type admitParams struct {
	GlobalFlags
	cli.JSONOutput
}

func admitCommand(env *Env) *cli.Command {
	var params admitParams

	return &cli.Command{
		Name:    "admit",
		Summary: "Admit one ticket by ID or QR payload",
		Description: `Admit a single ticket.

The argument is a ticket UUID or anything a QR code might contain: a
ticket link is reduced to its last path segment. The attempt is
recorded in the scan history.`,
		Usage: "usher admit <ticket> [flags]",
		Examples: []cli.Example{
			{
				Description: "Admit by ticket ID",
				Command:     "usher admit 0f8fad5b-d9cb-469f-a165-70867728950e",
			},
			{
				Description: "Admit from a scanned link, JSON output",
				Command:     "usher admit https://www.tedxbedayia.com/ticket/0f8fad5b-d9cb-469f-a165-70867728950e --json",
			},
		},
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one ticket argument, got %d", len(args))
			}
			raw := args[0]

			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				outcome, err := rt.gate.ScanManual(ctx, raw)
				if errors.Is(err, ticketref.ErrEmpty) {
					return cli.Validation("ticket reference is empty")
				}
				if err != nil {
					return credentialsError(err)
				}

				if done, err := params.EmitJSON(env.Stdout, newResponseResult(outcome.UUID, outcome.Response)); done {
					if err != nil {
						return err
					}
					return responseExit(outcome.Response)
				}
				writeVerdict(env.Stdout, outcome.UUID, outcome.Response)
				return responseExit(outcome.Response)
			})
		},
	}
}
