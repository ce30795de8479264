// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for the ticket API client.
//
// ReadResponse bounds body reads at MaxResponseSize so a misbehaving
// server cannot exhaust memory on a phone-class device.
//
// Classify sorts transport errors into timeouts, connectivity failures
// (no route to the server at all), and everything else, which is how
// the usher client decides which message to show the operator.
package netutil

import "io"

// MaxResponseSize bounds response body reads: 4 MB. Ticket API
// responses are a few hundred bytes.
const MaxResponseSize int64 = 4 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}
