// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package gateui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the console key bindings. Printable keys always go to
// the input, so every binding here is a control key.
type KeyMap struct {
	Submit  key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "scan"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "dismiss"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
