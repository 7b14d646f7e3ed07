// Package ui provides terminal styling and message printing for roomrun.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Colors used by the harness's own messages.
var (
	Red     = lipgloss.Color("#EF4444")
	Amber   = lipgloss.Color("#F59E0B")
	Green   = lipgloss.Color("#22C55E")
	DimGray = lipgloss.Color("#9CA3AF")
)

// Text styles.
var (
	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// WarningStyle for warning messages
	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	// InfoStyle for informational messages
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))

	// DimStyle for less important text
	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// noColor disables all styling when set (flag or non-TTY stdout).
var noColor bool

// SetNoColor disables or re-enables colored output.
func SetNoColor(disabled bool) {
	noColor = disabled
}

// ColorEnabled reports whether styled output is active: colors are on
// only when stdout is a terminal and --no-color was not given.
func ColorEnabled() bool {
	return !noColor && IsTerminal()
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// RoleStyle builds the style used for a process's console label.
// The color value is a lipgloss color: an ANSI index ("12") or hex string.
func RoleStyle(color string) lipgloss.Style {
	if !ColorEnabled() {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
