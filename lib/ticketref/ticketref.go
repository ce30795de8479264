// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketref turns what a scanner or an usher typed into the
// ticket identifier the admission API expects.
//
// Ticket QR codes usually encode a URL whose last path segment is the
// ticket UUID (https://www.tedxbedayia.com/ticket/<uuid>); some encode
// the bare UUID. Both forms are accepted.
package ticketref

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrEmpty is returned when the payload contains no identifier.
var ErrEmpty = errors.New("ticketref: no ticket identifier in payload")

// Parse extracts the ticket identifier from raw.
//
// Surrounding whitespace is trimmed. If raw contains a slash, the last
// non-empty path segment is used, with any query string or fragment
// removed first. A value that parses as a UUID is returned in canonical
// lowercase hyphenated form; anything else is returned unchanged, since
// the server decides what is a valid ticket.
func Parse(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)

	if strings.Contains(candidate, "/") {
		if index := strings.IndexAny(candidate, "?#"); index >= 0 {
			candidate = candidate[:index]
		}
		candidate = strings.TrimRight(candidate, "/")
		if index := strings.LastIndex(candidate, "/"); index >= 0 {
			candidate = candidate[index+1:]
		}
		candidate = strings.TrimSpace(candidate)
	}

	if candidate == "" {
		return "", ErrEmpty
	}

	if parsed, err := uuid.Parse(candidate); err == nil {
		return parsed.String(), nil
	}
	return candidate, nil
}

// IsUUID reports whether id is a canonical UUID.
func IsUUID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}
