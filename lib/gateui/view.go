// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package gateui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/tedxbedayia/usher/lib/history"
)

const (
	defaultWidth = 80

	// nameColumnWidth is the width of the name column in the
	// recent-scans list.
	nameColumnWidth = 24

	// chromeRows is the number of rows View uses outside the
	// recent-scans list: header, blank, banner (3), blank, input,
	// blank, list heading, help.
	chromeRows = 10
)

// View implements tea.Model.
func (model Model) View() string {
	width := model.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		model.renderHeader(width),
		"",
		model.renderBanner(width),
		"",
		model.input.View(),
	}
	if model.notice != "" {
		sections = append(sections, model.renderer.NewStyle().
			Foreground(model.theme.NoticeForeground).
			Render(ansi.Truncate(model.notice, width, "…")))
	} else {
		sections = append(sections, "")
	}
	sections = append(sections, model.renderRecent(width)...)
	sections = append(sections, model.renderHelp(width))
	return strings.Join(sections, "\n")
}

func (model Model) renderHeader(width int) string {
	title := model.renderer.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground).
		Render(model.title)
	counts := fmt.Sprintf("today: %d scanned · %d admitted · %d rejected",
		model.stats.Total, model.stats.Admitted, model.stats.Rejected)
	counts = model.renderer.NewStyle().Foreground(model.theme.FaintText).Render(counts)

	gap := width - ansi.StringWidth(title) - ansi.StringWidth(counts)
	if gap < 2 {
		return ansi.Truncate(title+"  "+counts, width, "…")
	}
	return title + strings.Repeat(" ", gap) + counts
}

func (model Model) renderBanner(width int) string {
	style := model.renderer.NewStyle().
		Bold(true).
		Foreground(model.theme.BannerForeground).
		Padding(1, 2).
		Width(width)

	if model.busy {
		return style.Foreground(model.theme.FaintText).Render("Checking ticket…")
	}
	if model.verdict == nil {
		return style.Foreground(model.theme.FaintText).Render("Ready to scan")
	}

	var label, hint string
	switch model.verdict.kind {
	case verdictAdmitted:
		style = style.Background(model.theme.AdmittedBackground)
		label = "ADMITTED"
	case verdictRejected:
		style = style.Background(model.theme.RejectedBackground)
		label = "REJECTED"
	case verdictNetwork:
		style = style.Background(model.theme.NetworkBackground)
		label = "NOT CHECKED"
		hint = "  (retry: Esc, then scan again)"
	}

	// Padding takes 4 columns of the banner width.
	text := ansi.Truncate(label+"  "+model.verdict.detail+hint, width-4, "…")
	return style.Render(text)
}

func (model Model) renderRecent(width int) []string {
	heading := model.renderer.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Render("Recent scans")
	lines := []string{"", heading}

	limit := model.recentLimit
	if model.height > 0 {
		limit = min(limit, max(model.height-chromeRows, 1))
	}
	if len(model.records) == 0 {
		return append(lines, model.renderer.NewStyle().
			Foreground(model.theme.FaintText).
			Render("  no scans yet"))
	}

	now := model.clock.Now()
	for index, record := range model.records {
		if index >= limit {
			break
		}
		lines = append(lines, model.renderRecord(record, now, width))
	}
	return lines
}

func (model Model) renderRecord(record history.Record, now time.Time, width int) string {
	marker := model.renderer.NewStyle().Foreground(model.theme.AdmittedMarker).Render("✓")
	if !record.Success {
		marker = model.renderer.NewStyle().Foreground(model.theme.RejectedMarker).Render("✗")
	}

	name := ansi.Truncate(record.Name, nameColumnWidth, "…")
	name += strings.Repeat(" ", nameColumnWidth-ansi.StringWidth(name))

	shortID := record.UUID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	when := humanize.RelTime(record.Time(), now, "ago", "from now")

	line := fmt.Sprintf("  %s %s  %-8s  %s", marker, name, shortID, when)
	if record.Error != "" {
		line += "  " + record.Error
	}
	return ansi.Truncate(line, width, "…")
}

func (model Model) renderHelp(width int) string {
	help := fmt.Sprintf("%s %s · %s %s · %s %s",
		model.keys.Submit.Help().Key, model.keys.Submit.Help().Desc,
		model.keys.Dismiss.Help().Key, model.keys.Dismiss.Help().Desc,
		model.keys.Quit.Help().Key, model.keys.Quit.Help().Desc,
	)
	return model.renderer.NewStyle().
		Foreground(model.theme.HelpText).
		Render(ansi.Truncate(help, width, "…"))
}
