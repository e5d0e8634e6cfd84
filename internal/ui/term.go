package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Found slots: green to make the answer pop
	colorSlot = color.New(color.FgGreen, color.Bold)

	// Warnings: authorization gaps, past-midnight endings
	colorWarn = color.New(color.FgYellow)

	// Positive state markers
	colorOK = color.New(color.FgGreen)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatSlot formats a found slot time.
func formatSlot(s string) string {
	return colorSlot.Sprint(s)
}

// formatWarn formats a warning line.
func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

// formatOK formats a positive state marker.
func formatOK(s string) string {
	return colorOK.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
