// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package gateui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the console color palette, in lipgloss ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	HelpText         lipgloss.Color

	// Verdict banners. Foreground is drawn on the matching background.
	AdmittedBackground lipgloss.Color
	RejectedBackground lipgloss.Color
	NetworkBackground  lipgloss.Color
	BannerForeground   lipgloss.Color

	// History list markers.
	AdmittedMarker lipgloss.Color
	RejectedMarker lipgloss.Color

	NoticeForeground lipgloss.Color
}

// DefaultTheme targets 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	HelpText:         lipgloss.Color("241"),

	AdmittedBackground: lipgloss.Color("28"),  // green
	RejectedBackground: lipgloss.Color("160"), // red
	NetworkBackground:  lipgloss.Color("172"), // amber
	BannerForeground:   lipgloss.Color("231"),

	AdmittedMarker: lipgloss.Color("114"),
	RejectedMarker: lipgloss.Color("196"),

	NoticeForeground: lipgloss.Color("220"),
}

// NewRenderer returns a lipgloss renderer that writes for output with
// the given color profile. termenv.Ascii disables styling.
func NewRenderer(output io.Writer, profile termenv.Profile) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(output, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return renderer
}
