package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatProfit marks a profit or loss value with an arrow. Values that are
// not numbers, or zero, are returned unchanged.
func FormatProfit(value string) string {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	if v > 0 {
		return value + " ▲"
	} else if v < 0 {
		return value + " ▼"
	}

	return value
}
