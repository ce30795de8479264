// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateui is the terminal scan console.
//
// The console is a bubbletea program built around a single text input.
// A handheld scanner in keyboard mode types the QR payload and presses
// Enter; an usher can also type a ticket identifier by hand. Each
// submission goes through [gate.Gate.Scan] and the verdict is shown as
// a banner until the next scan or until Esc dismisses it. The header
// shows today's counts and the lower half lists recent scans.
//
// [Model] does not touch the terminal directly, so tests drive it by
// feeding messages to Update and inspecting View.
package gateui
