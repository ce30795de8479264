// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package admission

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Operator-facing failure messages.
const (
	MessageTimeout         = "Request timed out. Please check your connection and try again."
	MessageNoConnection    = "No internet connection. Please check your network and try again."
	MessageUnknownError    = "Unknown error occurred"
	MessageInvalidResponse = "Invalid response from server"
)

// Response is the outcome of a ticket API call: *Success or *Failure.
type Response interface {
	response()
}

// Success is a 200 response carrying the applicant.
type Success struct {
	Applicant Applicant `json:"applicant"`
}

func (*Success) response() {}

// Failure is a rejected or failed call.
type Failure struct {
	// Message is shown to the usher verbatim.
	Message string `json:"error"`

	// Network is true when the server was not heard from.
	Network bool `json:"network,omitempty"`
}

func (*Failure) response() {}

// Error implements error so Failure can travel through error returns
// (OnDoorInfo, gate validation paths).
func (f *Failure) Error() string {
	return f.Message
}

// Applicant is the server's record of the ticket holder.
//
// FullName and AdmittedAt are decoded for display. Every field the
// server sent, including those two, is kept in the raw object and
// re-emitted unchanged by MarshalJSON.
type Applicant struct {
	FullName string

	// AdmittedAt is nil when the server sent null or omitted it.
	AdmittedAt *string

	raw json.RawMessage
}

// UnmarshalJSON decodes an applicant object. Anything other than a
// JSON object is an error.
func (a *Applicant) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("admission: applicant is not an object")
	}

	var known struct {
		FullName   string  `json:"full_name"`
		AdmittedAt *string `json:"admitted_at"`
	}
	if err := json.Unmarshal(trimmed, &known); err != nil {
		return fmt.Errorf("admission: decoding applicant: %w", err)
	}
	a.FullName = known.FullName
	a.AdmittedAt = known.AdmittedAt
	a.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// MarshalJSON re-emits the object the server sent. An Applicant built
// in code (no raw object) is encoded from its decoded fields.
func (a Applicant) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	return json.Marshal(struct {
		FullName   string  `json:"full_name"`
		AdmittedAt *string `json:"admitted_at"`
	}{a.FullName, a.AdmittedAt})
}

// Field returns the raw JSON value of a server field, or nil if the
// server did not send it.
func (a Applicant) Field(name string) json.RawMessage {
	if len(a.raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(a.raw, &fields); err != nil {
		return nil
	}
	return fields[name]
}

// Admitted reports whether the server recorded an admission time.
func (a Applicant) Admitted() bool {
	return a.AdmittedAt != nil && *a.AdmittedAt != ""
}

// OnDoorTicket is a walk-up sale.
type OnDoorTicket struct {
	Name          string
	Email         string
	Phone         string
	PaymentMethod string

	// SenderUsername is the payer's Telda or InstaPay handle. Omitted
	// from the request when empty.
	SenderUsername string
}

// onDoorRequest is the wire body for POST /on-door.
type onDoorRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PaymentMethod  string `json:"paymentMethod"`
	SenderUsername string `json:"senderUsername,omitempty"`
	Key            string `json:"key"`
	Device         string `json:"device"`
}

// OnDoorInfo is the live on-door price and accepted payment methods.
type OnDoorInfo struct {
	Prices         float64         `json:"prices"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

// PaymentMethod is one accepted way to pay at the door.
type PaymentMethod struct {
	// Identifier is the value sent as paymentMethod.
	Identifier string `json:"identifier"`

	// To is the account the payment goes to, shown to the buyer.
	To string `json:"to"`
}

// errorBody is a non-200 response body.
type errorBody struct {
	Error string `json:"error"`
}
