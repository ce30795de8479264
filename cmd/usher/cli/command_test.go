// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name:       "usher",
		HelpOutput: &bytes.Buffer{},
		Subcommands: []*Command{
			{
				Name: "key",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "key show"
							receivedArgs = args
							return nil
						},
					},
				},
			},
			{
				Name: "admit",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "admit"
					receivedArgs = args
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"key", "show", "extra"}, nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "key show" {
		t.Errorf("dispatched to %q, want %q", called, "key show")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra" {
		t.Errorf("args = %v, want [extra]", receivedArgs)
	}

	if err := root.Execute(context.Background(), []string{"admit"}, nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "admit" {
		t.Errorf("dispatched to %q, want %q", called, "admit")
	}
}

func TestCommand_Execute_UnknownSubcommandSuggests(t *testing.T) {
	root := &Command{
		Name:       "usher",
		HelpOutput: &bytes.Buffer{},
		Subcommands: []*Command{
			{Name: "history", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			{Name: "admit", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"histroy"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "history"`) {
		t.Errorf("error = %q, want suggestion for history", err.Error())
	}
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
		t.Errorf("error category = %v, want validation", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	help := &bytes.Buffer{}
	root := &Command{
		Name:        "usher",
		HelpOutput:  help,
		Subcommands: []*Command{{Name: "scan", Summary: "Open the scan console"}},
	}

	err := root.Execute(context.Background(), nil, nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Fatalf("error = %v, want subcommand required", err)
	}
	if !strings.Contains(help.String(), "Open the scan console") {
		t.Errorf("help output missing subcommand summary:\n%s", help.String())
	}
}

type testParams struct {
	JSONOutput
	Limit int    `flag:"limit" desc:"maximum entries" default:"20"`
	Name  string `flag:"name,n" desc:"applicant name"`
}

func TestCommand_Execute_ParsesParams(t *testing.T) {
	var params testParams
	var receivedArgs []string

	command := &Command{
		Name:   "list",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			receivedArgs = args
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"--json", "-n", "Jane", "--limit=5", "positional"}, nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !params.OutputJSON {
		t.Error("OutputJSON = false, want true")
	}
	if params.Name != "Jane" {
		t.Errorf("Name = %q, want %q", params.Name, "Jane")
	}
	if params.Limit != 5 {
		t.Errorf("Limit = %d, want 5", params.Limit)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "positional" {
		t.Errorf("args = %v, want [positional]", receivedArgs)
	}
}

func TestCommand_Execute_DefaultsApply(t *testing.T) {
	var params testParams
	command := &Command{
		Name:   "list",
		Params: func() any { return &params },
		Run:    func(context.Context, []string, *slog.Logger) error { return nil },
	}
	if err := command.Execute(context.Background(), nil, nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if params.Limit != 20 {
		t.Errorf("Limit = %d, want default 20", params.Limit)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	var params testParams
	command := &Command{
		Name:   "list",
		Params: func() any { return &params },
		Run:    func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--limt", "3"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --limit?") {
		t.Errorf("error = %q, want --limit suggestion", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params testParams
	command := &Command{
		Name:        "list",
		Description: "List recent scans.",
		Params:      func() any { return &params },
		Examples:    []Example{{Description: "Show ten", Command: "usher history list --limit 10"}},
	}

	var output bytes.Buffer
	command.PrintHelp(&output)
	for _, want := range []string{"List recent scans.", "--limit", "--json", "usher history list --limit 10"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("help missing %q:\n%s", want, output.String())
		}
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	help := &bytes.Buffer{}
	ran := false
	command := &Command{
		Name:       "admit",
		Summary:    "Admit a ticket",
		HelpOutput: help,
		Run: func(context.Context, []string, *slog.Logger) error {
			ran = true
			return nil
		},
	}
	if err := command.Execute(context.Background(), []string{"--help"}, nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if ran {
		t.Error("Run called for --help")
	}
	if !strings.Contains(help.String(), "Admit a ticket") {
		t.Errorf("help output = %q", help.String())
	}
}
