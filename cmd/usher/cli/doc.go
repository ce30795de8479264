// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the usher binary.
//
// A [Command] is a node in the command tree. Leaf commands declare
// their flags as a tagged params struct ([FlagsFromParams]) and
// implement Run. Errors returned by Run are either an [ExitError]
// (the command already wrote its output and wants a specific exit
// status) or a categorized [ToolError]; [ExitCode] maps both to the
// process exit status.
package cli
