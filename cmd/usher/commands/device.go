// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
)

func deviceCommand(env *Env) *cli.Command {
	return &cli.Command{
		Name:    "device",
		Summary: "Show or reset this device's identifier",
		Description: `The device identifier is a 6-character code generated on first use
and sent with every admission. The server uses it to tell ushers'
devices apart.`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			deviceShowCommand(env),
			deviceResetCommand(env),
		},
	}
}

type deviceParams struct {
	GlobalFlags
	cli.JSONOutput
}

type deviceResult struct {
	DeviceUID string `json:"device_uid"`
}

func deviceShowCommand(env *Env) *cli.Command {
	var params deviceParams

	return &cli.Command{
		Name:       "show",
		Summary:    "Print the device identifier, creating it if needed",
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				uid, err := rt.session.DeviceUID(ctx)
				if err != nil {
					return cli.Internal("reading device identifier: %w", err)
				}
				if done, err := params.EmitJSON(env.Stdout, deviceResult{DeviceUID: uid}); done {
					return err
				}
				fmt.Fprintln(env.Stdout, uid)
				return nil
			})
		},
	}
}

func deviceResetCommand(env *Env) *cli.Command {
	var params deviceParams

	return &cli.Command{
		Name:    "reset",
		Summary: "Discard the device identifier and generate a new one",
		Description: `Discard the device identifier and generate a new one.

The server attributes earlier scans to the old identifier. Only reset
when a device is being handed to a different usher.`,
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				if err := rt.session.ResetDeviceUID(ctx); err != nil {
					return cli.Internal("resetting device identifier: %w", err)
				}
				uid, err := rt.session.DeviceUID(ctx)
				if err != nil {
					return cli.Internal("generating device identifier: %w", err)
				}
				if done, err := params.EmitJSON(env.Stdout, deviceResult{DeviceUID: uid}); done {
					return err
				}
				fmt.Fprintln(env.Stdout, uid)
				return nil
			})
		},
	}
}
