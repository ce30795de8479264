// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/admission"
	"github.com/tedxbedayia/usher/lib/gate"
)

type sellParams struct {
	GlobalFlags
	cli.JSONOutput
	Name    string `flag:"name"    desc:"buyer's full name (required)"`
	Email   string `flag:"email"   desc:"buyer's email (required)"`
	Phone   string `flag:"phone"   desc:"buyer's phone number (required)"`
	Payment string `flag:"payment" desc:"payment method: telda, instapay, cash, or one listed by 'usher info' (required)"`
	Sender  string `flag:"sender"  desc:"payer's Telda or InstaPay username (required unless --payment cash)"`
	Yes     bool   `flag:"yes,y"   desc:"skip the payment confirmation prompt"`
}

func sellCommand(env *Env) *cli.Command {
	var params sellParams

	return &cli.Command{
		Name:    "sell",
		Summary: "Sell an on-door ticket",
		Description: `Sell a walk-up ticket at the door.

The live price and payment methods are fetched first. Before the sale
is submitted you must confirm that you saw the payment (skip with
--yes). On success the buyer's ticket is created and emailed by the
server. Sales are not recorded in the scan history.`,
		Usage: "usher sell --name <name> --email <email> --phone <phone> --payment <method> [--sender <user>] [flags]",
		Examples: []cli.Example{
			{
				Description: "Cash sale",
				Command:     `usher sell --name "Jane Doe" --email jane@example.com --phone 01000000000 --payment cash`,
			},
			{
				Description: "InstaPay sale, already confirmed",
				Command:     `usher sell --name "Jane Doe" --email jane@example.com --phone 01000000000 --payment instapay --sender jane.d --yes`,
			},
		},
		HelpOutput: env.Stderr,
		Params:     func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			form := gate.SaleForm{
				Name:           params.Name,
				Email:          params.Email,
				Phone:          params.Phone,
				PaymentMethod:  params.Payment,
				SenderUsername: params.Sender,
			}

			return env.withRuntime(ctx, params.GlobalFlags, logger, func(ctx context.Context, rt *runtime) error {
				var price string
				info, err := rt.gate.Info(ctx)
				if err != nil {
					logger.Warn("on-door info unavailable, using default payment methods", "error", err)
				} else {
					price = formatPrice(info.Prices)
				}

				ticket, err := gate.ValidateSale(form, rt.gate.PaymentMethods())
				if err != nil {
					return saleValidationError(err)
				}

				if !params.Yes {
					writeSaleSummary(env, ticket, price, info)
					fmt.Fprintln(env.Stderr, gate.PaymentConfirmation)
					confirmed, err := cli.Confirm(env.Stdin, env.Stderr, "Confirm")
					if err != nil {
						return err
					}
					if !confirmed {
						return cli.Validation("sale not confirmed; nothing was sent")
					}
				}

				response, err := rt.gate.Sell(ctx, form)
				if err != nil {
					var validationError *gate.ValidationError
					if errors.As(err, &validationError) {
						return saleValidationError(err)
					}
					return credentialsError(err)
				}

				if done, err := params.EmitJSON(env.Stdout, newResponseResult("", response)); done {
					if err != nil {
						return err
					}
					return responseExit(response)
				}
				switch response := response.(type) {
				case *admission.Success:
					name := response.Applicant.FullName
					if name == "" {
						name = ticket.Name
					}
					fmt.Fprintf(env.Stdout, "Ticket created for %s\n", name)
				case *admission.Failure:
					label := "Sale rejected"
					if response.Network {
						label = "Sale not sent"
					}
					fmt.Fprintf(env.Stdout, "%s: %s\n", label, response.Message)
				}
				return responseExit(response)
			})
		},
	}
}

// saleValidationError maps a form field to the flag that sets it.
func saleValidationError(err error) error {
	var validationError *gate.ValidationError
	if !errors.As(err, &validationError) {
		return err
	}
	return cli.Validation("--%s %s", validationError.Field, validationError.Message)
}

func writeSaleSummary(env *Env, ticket admission.OnDoorTicket, price string, info *admission.OnDoorInfo) {
	fmt.Fprintf(env.Stderr, "Buyer:   %s <%s> %s\n", ticket.Name, ticket.Email, ticket.Phone)
	payment := ticket.PaymentMethod
	if ticket.SenderUsername != "" {
		payment += " from " + ticket.SenderUsername
	}
	if info != nil {
		for _, method := range info.PaymentMethods {
			if strings.EqualFold(method.Identifier, ticket.PaymentMethod) && method.To != "" {
				payment += " to " + method.To
			}
		}
	}
	fmt.Fprintf(env.Stderr, "Payment: %s\n", payment)
	if price != "" {
		fmt.Fprintf(env.Stderr, "Price:   %s\n", price)
	}
}
