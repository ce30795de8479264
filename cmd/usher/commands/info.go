// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/admission"
)

type infoParams struct {
	GlobalFlags
	cli.JSONOutput
}

func infoCommand(env *Env) *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:       "info",
		Summary:    "Show the on-door price and payment methods",
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				info, err := rt.gate.Info(ctx)
				if err != nil {
					return infoError(err)
				}
				if done, err := params.EmitJSON(env.Stdout, info); done {
					return err
				}
				writeInfo(env.Stdout, info)
				return nil
			})
		},
	}
}

// infoError categorizes an on-door info failure.
func infoError(err error) error {
	var failure *admission.Failure
	if errors.As(err, &failure) && failure.Network {
		return cli.Transient("%s", failure.Message)
	}
	return cli.Internal("fetching on-door info: %w", err)
}

// formatPrice renders an EGP amount with thousands separators.
func formatPrice(amount float64) string {
	return humanize.Commaf(amount) + " EGP"
}

func writeInfo(w io.Writer, info *admission.OnDoorInfo) {
	fmt.Fprintf(w, "Price: %s\n", formatPrice(info.Prices))
	if len(info.PaymentMethods) == 0 {
		fmt.Fprintln(w, "No payment methods listed")
		return
	}
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "METHOD\tPAY TO")
	for _, method := range info.PaymentMethods {
		to := method.To
		if to == "" {
			to = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\n", method.Identifier, to)
	}
	writer.Flush()
}
