// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tedxbedayia/usher/lib/admission"
)

// Payment method identifiers.
const (
	PaymentTelda    = "telda"
	PaymentInstapay = "instapay"
	PaymentCash     = "cash"
)

// DefaultPaymentMethods are accepted until OnDoorInfo has been fetched.
var DefaultPaymentMethods = []string{PaymentTelda, PaymentInstapay, PaymentCash}

// PaymentConfirmation is what the usher must affirm before a sale is
// submitted.
const PaymentConfirmation = "I CONFIRM I SAW THE PAYMENT BEING TRANSFERRED OR RECEIVED CASH"

// SaleForm is the on-door sale form as entered.
type SaleForm struct {
	Name           string
	Email          string
	Phone          string
	PaymentMethod  string
	SenderUsername string
}

// ValidationError names the first form field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RequiresSender reports whether method needs the payer's username.
// Every method except cash does.
func RequiresSender(method string) bool {
	return method != PaymentCash
}

// ValidateSale trims the form and checks it against methods (the
// accepted payment identifiers). It returns the ticket to submit, with
// the sender username dropped for cash.
func ValidateSale(form SaleForm, methods []string) (admission.OnDoorTicket, error) {
	ticket := admission.OnDoorTicket{
		Name:           strings.TrimSpace(form.Name),
		Email:          strings.TrimSpace(form.Email),
		Phone:          strings.TrimSpace(form.Phone),
		PaymentMethod:  strings.ToLower(strings.TrimSpace(form.PaymentMethod)),
		SenderUsername: strings.TrimSpace(form.SenderUsername),
	}

	if ticket.Name == "" {
		return admission.OnDoorTicket{}, &ValidationError{Field: "name", Message: "is required"}
	}
	if ticket.Email == "" {
		return admission.OnDoorTicket{}, &ValidationError{Field: "email", Message: "is required"}
	}
	if ticket.Phone == "" {
		return admission.OnDoorTicket{}, &ValidationError{Field: "phone", Message: "is required"}
	}
	if ticket.PaymentMethod == "" {
		return admission.OnDoorTicket{}, &ValidationError{Field: "payment", Message: "is required"}
	}
	if !slices.Contains(methods, ticket.PaymentMethod) {
		return admission.OnDoorTicket{}, &ValidationError{
			Field:   "payment",
			Message: fmt.Sprintf("must be one of %s", strings.Join(methods, ", ")),
		}
	}

	if RequiresSender(ticket.PaymentMethod) {
		if ticket.SenderUsername == "" {
			return admission.OnDoorTicket{}, &ValidationError{
				Field:   "sender",
				Message: fmt.Sprintf("is required for %s", ticket.PaymentMethod),
			}
		}
	} else {
		ticket.SenderUsername = ""
	}
	return ticket, nil
}

// PaymentMethods returns the identifiers Sell currently accepts.
func (g *Gate) PaymentMethods() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.methods) == 0 {
		return slices.Clone(DefaultPaymentMethods)
	}
	return slices.Clone(g.methods)
}

// Info fetches the on-door price and payment methods. On success the
// returned identifiers replace the defaults for Sell validation.
func (g *Gate) Info(ctx context.Context) (*admission.OnDoorInfo, error) {
	info, err := g.client.OnDoorInfo(ctx)
	if err != nil {
		return nil, err
	}

	methods := make([]string, 0, len(info.PaymentMethods))
	for _, method := range info.PaymentMethods {
		identifier := strings.ToLower(strings.TrimSpace(method.Identifier))
		if identifier != "" && !slices.Contains(methods, identifier) {
			methods = append(methods, identifier)
		}
	}
	if len(methods) > 0 {
		g.mu.Lock()
		g.methods = methods
		g.mu.Unlock()
	}
	return info, nil
}

// Sell validates form and submits the sale. Validation failures are
// *ValidationError and nothing is sent. Sales are not recorded in the
// scan history.
func (g *Gate) Sell(ctx context.Context, form SaleForm) (admission.Response, error) {
	ticket, err := ValidateSale(form, g.PaymentMethods())
	if err != nil {
		return nil, err
	}

	credentials, err := g.session.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	if !g.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer g.busy.Store(false)

	response := g.client.SellOnDoor(ctx, ticket, credentials.AppKey, credentials.DeviceUID)
	switch result := response.(type) {
	case *admission.Success:
		g.logger.Info("on-door ticket sold", "name", result.Applicant.FullName, "payment", ticket.PaymentMethod)
	case *admission.Failure:
		g.logger.Info("on-door sale rejected", "message", result.Message, "network", result.Network)
	}
	return response, nil
}
