package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the terminal UI. All colors use
// lipgloss ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	Present lipgloss.Color
	Absent  lipgloss.Color
	Pending lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),
	HeaderForeground:   lipgloss.Color("105"),
	BorderColor:        lipgloss.Color("240"),
	HelpText:           lipgloss.Color("241"),
	Present:            lipgloss.Color("42"),
	Absent:             lipgloss.Color("203"),
	Pending:            lipgloss.Color("214"),
	Error:              lipgloss.Color("196"),
	Success:            lipgloss.Color("42"),
}

// styles are derived once from a Theme.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	faint    lipgloss.Style
	normal   lipgloss.Style
	selected lipgloss.Style
	navOn    lipgloss.Style
	navOff   lipgloss.Style
	help     lipgloss.Style
	err      lipgloss.Style
	success  lipgloss.Style
	present  lipgloss.Style
	absent   lipgloss.Style
	pending  lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	box      lipgloss.Style
	alert    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.HeaderForeground),
		subtitle: lipgloss.NewStyle().Foreground(t.FaintText),
		faint:    lipgloss.NewStyle().Foreground(t.FaintText),
		normal:   lipgloss.NewStyle().Foreground(t.NormalText),
		selected: lipgloss.NewStyle().Foreground(t.SelectedForeground).Background(t.SelectedBackground).Bold(true),
		navOn:    lipgloss.NewStyle().Bold(true).Foreground(t.SelectedForeground).Background(t.HeaderForeground).Padding(0, 1),
		navOff:   lipgloss.NewStyle().Foreground(t.FaintText).Padding(0, 1),
		help:     lipgloss.NewStyle().Foreground(t.HelpText),
		err:      lipgloss.NewStyle().Foreground(t.Error),
		success:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		present:  lipgloss.NewStyle().Bold(true).Foreground(t.Present),
		absent:   lipgloss.NewStyle().Bold(true).Foreground(t.Absent),
		pending:  lipgloss.NewStyle().Foreground(t.Pending),
		label:    lipgloss.NewStyle().Foreground(t.FaintText).Width(14),
		focused:  lipgloss.NewStyle().Foreground(t.HeaderForeground).Width(14),
		box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderColor).Padding(0, 1),
		alert:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Error).Padding(0, 1),
	}
}

// cell pads or truncates s to exactly width display columns.
func cell(s string, width int) string {
	if lipgloss.Width(s) > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
