package view

import (
	"strings"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/timetable"
)

// BoardTitle joins weekday, clock and shift into the board heading.
func BoardTitle(day int, clock string, shift timetable.Shift) string {
	return strings.Join([]string{dateutil.WeekdayLabel(day), clock, shift.Label()}, " · ")
}

// TabLabels renders mode names as tabs, marking the active one.
func TabLabels(names []string, active int) []string {
	labels := make([]string, len(names))
	for i, name := range names {
		if i == active {
			labels[i] = "[" + name + "]"
			continue
		}
		labels[i] = " " + name + " "
	}
	return labels
}
