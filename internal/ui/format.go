package ui

import (
	"fmt"
	"strings"
	"time"
)

// printSlot prints a found slot with a separator rule sized to the
// terminal.
func printSlot(start, end time.Time) {
	rule := strings.Repeat("─", min(termWidth(), 48))
	fmt.Println(rule)
	fmt.Printf("Next common free slot: %s\n", formatSlot(formatRange(start, end)))
	fmt.Println(rule)
}

// formatRange formats a start/end pair as "Mon 2025-01-20 10:00-11:00".
func formatRange(start, end time.Time) string {
	return fmt.Sprintf("%s %s-%s",
		start.Format("Mon 2006-01-02"),
		start.Format("15:04"),
		end.Format("15:04"),
	)
}
