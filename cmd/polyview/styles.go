package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	field lipgloss.Style
	value lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
}

// newStyles returns colored styles when out is a terminal and plain ones
// otherwise, so redirected output stays free of escape codes.
func newStyles(out *os.File) styles {
	if !term.IsTerminal(int(out.Fd())) {
		plain := lipgloss.NewStyle()
		return styles{title: plain, label: plain, field: plain, value: plain, ok: plain, err: plain}
	}
	return styles{
		title: titleStyle,
		label: labelStyle,
		field: fieldStyle,
		value: valueStyle,
		ok:    okStyle,
		err:   errorStyle,
	}
}
