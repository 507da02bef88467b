package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: component ids, paths, service names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for created files and in-sync status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for out-of-sync and skipped status.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for removed diff lines.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for failed actions.
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (creating, installing, syncing).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome and descriptions.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleAdded styles inserted diff text.
	StyleAdded = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleRemoved styles deleted diff text.
	StyleRemoved = lipgloss.NewStyle().Foreground(ColorRed)
)

// File status constants.
const (
	StatusCreated   = "created"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
	StatusInSync    = "up to date"
	StatusOutOfSync = "out of sync"
	StatusCustom    = "custom"
	StatusMissing   = "missing"
)

// StatusStyle returns the lipgloss style for a status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated, StatusInSync:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusOutOfSync, StatusSkipped, StatusMissing:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusCustom:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth is the minimum width of the path column before the status suffix.
const minPathColumnWidth = 40

// FormatFileLine renders a file path with a right-aligned, color-coded status suffix.
func FormatFileLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}
	return "  " + StyleNoun.Render(path) + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatCount renders "<n> <noun>" styled by status, e.g. "3 up to date".
func FormatCount(n int, status string) string {
	return StatusStyle(status).Render(fmt.Sprintf("%d %s", n, status))
}
