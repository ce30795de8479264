// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tedxbedayia/usher/lib/secret"
)

// IsTerminal reports whether r is a terminal.
func IsTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// ReadSecret reads a secret value. With fromStdin the first line of
// in is used; otherwise in must be a terminal and the user is prompted
// on out with echo disabled.
func ReadSecret(in io.Reader, out io.Writer, prompt string, fromStdin bool) (*secret.Buffer, error) {
	if fromStdin {
		buffer, err := secret.ReadLine(in)
		if err != nil {
			return nil, Validation("reading stdin: %w", err)
		}
		return buffer, nil
	}

	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return nil, Validation("no terminal available for an interactive prompt (use --from-stdin)")
	}

	fmt.Fprint(out, prompt)
	valueBytes, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return nil, Internal("reading input: %w", err)
	}

	trimmed := strings.TrimSpace(string(valueBytes))
	secret.Zero(valueBytes)
	if trimmed == "" {
		return nil, Validation("no value entered")
	}
	return secret.NewFromString(trimmed)
}

// Confirm prints question and reads one line from in. It returns
// true only for "y" or "yes" (any case).
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, Internal("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
