// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/history"
)

func historyCommand(env *Env) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Summary: "Review this device's scan history",
		Description: `Review the admission attempts made from this device.

The history keeps the newest 50 attempts. It is a local record only:
the server is the authority on which tickets were admitted.`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			historyListCommand(env),
			historyStatsCommand(env),
			historyClearCommand(env),
		},
	}
}

type historyListParams struct {
	GlobalFlags
	cli.JSONOutput
	Limit int `flag:"limit,n" desc:"maximum records to show (0 for all)" default:"20"`
}

func historyListCommand(env *Env) *cli.Command {
	var params historyListParams

	return &cli.Command{
		Name:       "list",
		Summary:    "List recent scans, newest first",
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Limit < 0 {
				return cli.Validation("--limit must not be negative")
			}
			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				records := rt.history.List(ctx)
				if params.Limit > 0 && len(records) > params.Limit {
					records = records[:params.Limit]
				}

				if done, err := params.EmitJSON(env.Stdout, records); done {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(env.Stdout, "No scans recorded")
					return nil
				}

				now := rt.clock.Now()
				writer := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(writer, "WHEN\tRESULT\tNAME\tTICKET\tERROR")
				for _, record := range records {
					result := "admitted"
					if !record.Success {
						result = "rejected"
					}
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
						humanize.RelTime(record.Time(), now, "ago", "from now"),
						result, record.Name, record.UUID, record.Error)
				}
				return writer.Flush()
			})
		},
	}
}

type historyStatsParams struct {
	GlobalFlags
	cli.JSONOutput
	All bool `flag:"all" desc:"count every stored record, not just today's"`
}

func historyStatsCommand(env *Env) *cli.Command {
	var params historyStatsParams

	return &cli.Command{
		Name:       "stats",
		Summary:    "Count today's admitted and rejected scans",
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				var stats history.Stats
				label := "Today"
				if params.All {
					stats = rt.history.Stats(ctx, time.Time{})
					label = "Stored"
				} else {
					stats = rt.history.TodayStats(ctx)
				}

				if done, err := params.EmitJSON(env.Stdout, stats); done {
					return err
				}
				fmt.Fprintf(env.Stdout, "%s: %d scanned, %d admitted, %d rejected\n",
					label, stats.Total, stats.Admitted, stats.Rejected)
				return nil
			})
		},
	}
}

type historyClearParams struct {
	GlobalFlags
	Yes bool `flag:"yes,y" desc:"skip the confirmation prompt"`
}

func historyClearCommand(env *Env) *cli.Command {
	var params historyClearParams

	return &cli.Command{
		Name:       "clear",
		Summary:    "Delete the scan history from this device",
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if !params.Yes {
				confirmed, err := cli.Confirm(env.Stdin, env.Stderr, "Delete all scan history on this device?")
				if err != nil {
					return err
				}
				if !confirmed {
					return cli.Validation("history not cleared")
				}
			}
			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				rt.history.Clear(ctx)
				fmt.Fprintln(env.Stdout, "Scan history cleared")
				return nil
			})
		},
	}
}
