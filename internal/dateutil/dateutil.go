// Package dateutil provides weekday parsing and naming utilities.
package dateutil

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidWeekday is returned for unrecognized weekday input.
var ErrInvalidWeekday = errors.New("weekday must be a name (monday, segunda, ...) or a number 0-6 (0=sunday)")

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
	"domingo":   time.Sunday,
	"segunda":   time.Monday,
	"terca":     time.Tuesday,
	"terça":     time.Tuesday,
	"quarta":    time.Wednesday,
	"quinta":    time.Thursday,
	"sexta":     time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
}

// Display labels, indexed by time.Weekday.
var weekdayLabels = [7]string{
	"Domingo",
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
}

// ParseWeekday parses a weekday relative to now.
// Accepted inputs (case-insensitive):
//   - "" or "today": now's weekday
//   - "tomorrow": the day after now
//   - English or Portuguese names, with or without the "-feira" suffix
//   - a number 0-6 where 0 is Sunday
func ParseWeekday(s string, now time.Time) (time.Weekday, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	input = strings.TrimSuffix(input, "-feira")

	switch input {
	case "", "today", "hoje":
		return now.Weekday(), nil
	case "tomorrow", "amanha", "amanhã":
		return (now.Weekday() + 1) % 7, nil
	}

	if d, ok := weekdayMap[input]; ok {
		return d, nil
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 0 || n > 6 {
		return 0, ErrInvalidWeekday
	}
	return time.Weekday(n), nil
}

// WeekdayLabel returns the display label for day (0=Sunday).
// Out-of-range days yield an empty string.
func WeekdayLabel(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return weekdayLabels[day]
}

// IsWeekdayName reports whether name is a recognized weekday name.
func IsWeekdayName(name string) bool {
	_, ok := weekdayMap[strings.TrimSuffix(strings.ToLower(name), "-feira")]
	return ok
}

