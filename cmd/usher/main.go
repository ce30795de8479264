// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Command usher is the TEDxBedayia door check-in client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/cmd/usher/commands"
)

func main() {
	os.Exit(run())
}

func run() int {
	env := commands.DefaultEnv()
	logger := cli.NewCommandLogger(env.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := commands.Root(env).Execute(ctx, os.Args[1:], logger)
	code, shouldPrint := cli.ExitCode(err)
	if shouldPrint {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return code
}
