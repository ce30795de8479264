// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// Process exit statuses.
const (
	ExitOK = 0

	// ExitFailure is an unexpected error or invalid input.
	ExitFailure = 1

	// ExitRejected is a business rejection from the ticket API: the
	// ticket is invalid or already used, or the sale was declined.
	// Retrying will not help.
	ExitRejected = 2

	// ExitNetwork is a timeout or connectivity failure. The request
	// can be retried.
	ExitNetwork = 3
)

// ExitError signals a non-zero exit code without printing an extra
// error message. The command is expected to have already written its
// own output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCode maps an error returned by Execute to a process exit
// status. The second result reports whether the error message still
// needs to be printed.
func ExitCode(err error) (int, bool) {
	if err == nil {
		return ExitOK, false
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code, false
	}
	var toolError *ToolError
	if errors.As(err, &toolError) && toolError.Category == CategoryTransient {
		return ExitNetwork, true
	}
	return ExitFailure, true
}
