// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadSecretFromStdin(t *testing.T) {
	buffer, err := ReadSecret(strings.NewReader("  app-key-123  \nignored\n"), &bytes.Buffer{}, "App key: ", true)
	if err != nil {
		t.Fatalf("ReadSecret: %v", err)
	}
	defer buffer.Close()
	if buffer.String() != "app-key-123" {
		t.Errorf("secret = %q, want %q", buffer.String(), "app-key-123")
	}
}

func TestReadSecretFromStdinEmpty(t *testing.T) {
	_, err := ReadSecret(strings.NewReader("\n"), &bytes.Buffer{}, "App key: ", true)
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestReadSecretRequiresTerminal(t *testing.T) {
	_, err := ReadSecret(strings.NewReader("key\n"), &bytes.Buffer{}, "App key: ", false)
	if err == nil || !strings.Contains(err.Error(), "--from-stdin") {
		t.Fatalf("error = %v, want hint about --from-stdin", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, test := range tests {
		var output bytes.Buffer
		got, err := Confirm(strings.NewReader(test.input), &output, "Proceed?")
		if err != nil {
			t.Fatalf("Confirm(%q): %v", test.input, err)
		}
		if got != test.want {
			t.Errorf("Confirm(%q) = %v, want %v", test.input, got, test.want)
		}
		if !strings.Contains(output.String(), "Proceed? [y/N]") {
			t.Errorf("prompt = %q", output.String())
		}
	}
}
