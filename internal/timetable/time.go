package timetable

import "time"

// ClockLayout is the "HH:MM" layout used for every slot boundary.
const ClockLayout = "15:04"

// Clock formats t as a zero-padded "HH:MM" string.
// Zero padding keeps lexicographic order equal to chronological order.
func Clock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ValidateTime checks that s is a valid "HH:MM" time.
func ValidateTime(s string) error {
	if len(s) != 5 {
		return ErrInvalidTimeFormat
	}
	if _, err := time.Parse(ClockLayout, s); err != nil {
		return ErrInvalidTimeFormat
	}
	return nil
}

// ValidateDay checks that day is in 0..6.
func ValidateDay(day int) error {
	if day < 0 || day > 6 {
		return ErrInvalidDay
	}
	return nil
}

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// Duration returns the length of [start, end) in minutes, 0 if end <= start.
func Duration(start, end string) int {
	d := TimeToMinutes(end) - TimeToMinutes(start)
	if d < 0 {
		return 0
	}
	return d
}

