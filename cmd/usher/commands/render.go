// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/admission"
)

// responseResult is the --json form of an admit or sale response.
type responseResult struct {
	UUID      string               `json:"uuid,omitempty"`
	Success   bool                 `json:"success"`
	Applicant *admission.Applicant `json:"applicant,omitempty"`
	Error     string               `json:"error,omitempty"`
	Network   bool                 `json:"network,omitempty"`
}

func newResponseResult(uuid string, response admission.Response) responseResult {
	result := responseResult{UUID: uuid}
	switch response := response.(type) {
	case *admission.Success:
		result.Success = true
		result.Applicant = &response.Applicant
	case *admission.Failure:
		result.Error = response.Message
		result.Network = response.Network
	}
	return result
}

// responseExit returns the ExitError for a non-success response, or
// nil for success.
func responseExit(response admission.Response) error {
	failure, ok := response.(*admission.Failure)
	if !ok {
		return nil
	}
	if failure.Network {
		return &cli.ExitError{Code: cli.ExitNetwork}
	}
	return &cli.ExitError{Code: cli.ExitRejected}
}

// writeVerdict prints the one-line verdict for an admission attempt.
// Line mode prints one of these per payload.
func writeVerdict(w io.Writer, uuid string, response admission.Response) {
	switch response := response.(type) {
	case *admission.Success:
		name := response.Applicant.FullName
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(w, "ADMITTED  %s  %s\n", uuid, name)
	case *admission.Failure:
		if response.Network {
			fmt.Fprintf(w, "RETRY     %s  %s\n", uuid, response.Message)
			return
		}
		fmt.Fprintf(w, "REJECTED  %s  %s\n", uuid, response.Message)
	}
}
