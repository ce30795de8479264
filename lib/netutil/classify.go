// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"syscall"
)

// ErrorKind is the coarse category of a transport failure.
type ErrorKind int

const (
	// KindOther is any transport failure that is neither a timeout nor
	// a connectivity failure (TLS errors, protocol errors, resets
	// mid-response).
	KindOther ErrorKind = iota

	// KindTimeout is a deadline expiry, either the caller's context
	// or a socket deadline.
	KindTimeout

	// KindConnectivity means the server could not be reached at all:
	// name resolution failed, the connection was refused, or there is
	// no route to the network.
	KindConnectivity
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnectivity:
		return "connectivity"
	default:
		return "other"
	}
}

// connectivityPhrases are substrings that identify connectivity
// failures reported by layers that do not expose a typed error.
var connectivityPhrases = []string{
	"network request failed",
	"network is unreachable",
	"no such host",
	"connection refused",
}

// Classify returns the kind of a transport error. A nil error is
// KindOther; callers should not classify successes.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindOther
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}
	var netError net.Error
	if errors.As(err, &netError) && netError.Timeout() {
		return KindTimeout
	}

	var dnsError *net.DNSError
	if errors.As(err, &dnsError) {
		return KindConnectivity
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ENETUNREACH, syscall.EHOSTUNREACH, syscall.ENETDOWN:
			return KindConnectivity
		}
	}

	lowered := strings.ToLower(err.Error())
	for _, phrase := range connectivityPhrases {
		if strings.Contains(lowered, phrase) {
			return KindConnectivity
		}
	}
	return KindOther
}
