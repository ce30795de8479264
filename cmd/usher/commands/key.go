// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/session"
)

func keyCommand(env *Env) *cli.Command {
	return &cli.Command{
		Name:    "key",
		Summary: "Manage the event app key",
		Description: `Manage the app key that authorizes this device against the ticket API.

The key is kept in the secure store: age-encrypted on disk by default.
It is never printed in full.`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			keySetCommand(env),
			keyShowCommand(env),
			keyClearCommand(env),
		},
	}
}

type keySetParams struct {
	GlobalFlags
	FromStdin bool `flag:"from-stdin" desc:"read the key from the first line of stdin instead of prompting"`
}

func keySetCommand(env *Env) *cli.Command {
	var params keySetParams

	return &cli.Command{
		Name:    "set",
		Summary: "Set or replace the app key",
		Usage:   "usher key set [--from-stdin]",
		Examples: []cli.Example{
			{Description: "Prompt for the key without echo", Command: "usher key set"},
			{Description: "Read the key from a file", Command: "usher key set --from-stdin < event.key"},
		},
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			buffer, err := cli.ReadSecret(env.Stdin, env.Stderr, "App key: ", params.FromStdin)
			if err != nil {
				return err
			}
			defer buffer.Close()

			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				key := buffer.String()
				if err := rt.session.SetAppKey(ctx, key); err != nil {
					return cli.Internal("saving app key: %w", err)
				}
				fmt.Fprintf(env.Stdout, "App key saved (%s)\n", session.MaskAppKey(key))
				return nil
			})
		},
	}
}

type keyShowParams struct {
	GlobalFlags
	cli.JSONOutput
}

type keyShowResult struct {
	Configured bool   `json:"configured"`
	Key        string `json:"key,omitempty"`
}

func keyShowCommand(env *Env) *cli.Command {
	var params keyShowParams

	return &cli.Command{
		Name:       "show",
		Summary:    "Show the masked app key",
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				key, found, err := rt.session.AppKey(ctx)
				if err != nil {
					return cli.Internal("reading app key: %w", err)
				}
				result := keyShowResult{Configured: found}
				if found {
					result.Key = session.MaskAppKey(key)
				}

				if done, err := params.EmitJSON(env.Stdout, result); done {
					return err
				}
				if !found {
					return cli.NotFound("No App Key: configure one with \"usher key set\"")
				}
				fmt.Fprintln(env.Stdout, result.Key)
				return nil
			})
		},
	}
}

func keyClearCommand(env *Env) *cli.Command {
	var params struct{ GlobalFlags }

	return &cli.Command{
		Name:       "clear",
		Summary:    "Delete the app key from this device",
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				if err := rt.session.DeleteAppKey(ctx); err != nil {
					return cli.Internal("deleting app key: %w", err)
				}
				fmt.Fprintln(env.Stdout, "App key removed")
				return nil
			})
		},
	}
}
