package view

import (
	"fmt"

	"github.com/javiermolinar/horario/internal/timetable"
)

// FormatRemaining formats the minutes left between clock and end,
// e.g. "12 min" or "1h05".
func FormatRemaining(clock, end string) string {
	minutes := timetable.Duration(clock, end)
	if minutes <= 0 {
		return "0 min"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

// FormatSpan formats a slot interval as "07:20-08:10".
func FormatSpan(start, end string) string {
	return start + "-" + end
}
