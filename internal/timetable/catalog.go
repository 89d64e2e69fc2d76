package timetable

import (
	"sort"
	"strings"
)

// Shift is one half of the school day.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
)

// ShiftBoundary is the first afternoon minute. It is a fixed business rule.
const ShiftBoundary = "12:30"

// Label returns the display label of the shift.
func (s Shift) Label() string {
	switch s {
	case ShiftMorning:
		return "Manhã"
	case ShiftAfternoon:
		return "Tarde"
	default:
		return string(s)
	}
}

// ParseShift parses a shift name (English or Portuguese, case-insensitive).
func ParseShift(s string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "manha", "manhã", "m":
		return ShiftMorning, nil
	case "afternoon", "tarde", "a", "t":
		return ShiftAfternoon, nil
	default:
		return "", ErrInvalidShift
	}
}

// Shifts returns both shifts in day order.
func Shifts() []Shift {
	return []Shift{ShiftMorning, ShiftAfternoon}
}

// Slot is a fixed time interval of a shift, either a period or a break.
type Slot struct {
	Start   string // "HH:MM"
	End     string // "HH:MM"
	Name    string
	IsBreak bool
}

// Column is a board column: a title and the case-insensitive substrings a
// class name must contain to be shown under it.
type Column struct {
	Title string   `json:"title"`
	Match []string `json:"match"`
}

var morningSlots = []Slot{
	{Start: "07:20", End: "08:10", Name: "1º Horário"},
	{Start: "08:10", End: "09:00", Name: "2º Horário"},
	{Start: "09:00", End: "09:20", Name: "Intervalo", IsBreak: true},
	{Start: "09:20", End: "10:10", Name: "3º Horário"},
	{Start: "10:10", End: "11:00", Name: "4º Horário"},
	{Start: "11:00", End: "12:00", Name: "5º Horário"},
}

var afternoonSlots = []Slot{
	{Start: "13:00", End: "13:50", Name: "1º Horário"},
	{Start: "13:50", End: "14:40", Name: "2º Horário"},
	{Start: "14:40", End: "15:30", Name: "3º Horário"},
	{Start: "15:30", End: "16:00", Name: "Intervalo", IsBreak: true},
	{Start: "16:00", End: "16:50", Name: "4º Horário"},
	{Start: "16:50", End: "17:40", Name: "5º Horário"},
	{Start: "17:40", End: "18:30", Name: "6º Horário"},
	{Start: "18:30", End: "19:20", Name: "7º Horário"},
	{Start: "19:20", End: "20:00", Name: "8º Horário"},
}

var morningClasses = []string{"6º EFAF", "7º EFAF", "8º EFAF", "9º EFAF"}

var afternoonClasses = []string{"1ª Série EM", "2ª Série EM", "3ª Série EM"}

var morningColumns = []Column{
	{Title: "6º EFAF", Match: []string{"6º efaf", "6º ano"}},
	{Title: "7º EFAF", Match: []string{"7º efaf", "7º ano"}},
	{Title: "8º EFAF", Match: []string{"8º efaf", "8º ano"}},
	{Title: "9º EFAF", Match: []string{"9º efaf", "9º ano"}},
}

var afternoonColumns = []Column{
	{Title: "1ª SÉRIE EM", Match: []string{"1ª série", "1ª em", "1a série"}},
	{Title: "2ª SÉRIE EM", Match: []string{"2ª série", "2ª em", "2a série"}},
	{Title: "3ª SÉRIE EM", Match: []string{"3ª série", "3ª em", "3a série"}},
}

// Slots returns a copy of the slot catalog for the shift.
func Slots(shift Shift) []Slot {
	switch shift {
	case ShiftMorning:
		return append([]Slot(nil), morningSlots...)
	case ShiftAfternoon:
		return append([]Slot(nil), afternoonSlots...)
	default:
		return nil
	}
}

// Classes returns the fixed class cohorts of the shift.
func Classes(shift Shift) []string {
	switch shift {
	case ShiftMorning:
		return append([]string(nil), morningClasses...)
	case ShiftAfternoon:
		return append([]string(nil), afternoonClasses...)
	default:
		return nil
	}
}

// Columns returns the board columns of the shift.
func Columns(shift Shift) []Column {
	switch shift {
	case ShiftMorning:
		return append([]Column(nil), morningColumns...)
	case ShiftAfternoon:
		return append([]Column(nil), afternoonColumns...)
	default:
		return nil
	}
}

// AllSlots returns the morning and afternoon catalogs concatenated.
func AllSlots() []Slot {
	return append(Slots(ShiftMorning), afternoonSlots...)
}

// ShiftOfClass returns the shift whose cohorts include className.
func ShiftOfClass(className string) (Shift, bool) {
	for _, shift := range Shifts() {
		for _, c := range Classes(shift) {
			if strings.EqualFold(c, className) {
				return shift, true
			}
		}
	}
	return "", false
}

// TriggerTimes returns the sorted union of every slot start and end.
func TriggerTimes() []string {
	seen := make(map[string]bool)
	var times []string
	for _, s := range AllSlots() {
		for _, t := range []string{s.Start, s.End} {
			if !seen[t] {
				seen[t] = true
				times = append(times, t)
			}
		}
	}
	sort.Strings(times)
	return times
}

// IsTriggerTime reports whether clock is a slot boundary.
func IsTriggerTime(clock string) bool {
	for _, s := range AllSlots() {
		if s.Start == clock || s.End == clock {
			return true
		}
	}
	return false
}

// IsBreakEnd reports whether a break slot ends at clock.
func IsBreakEnd(clock string) bool {
	for _, s := range AllSlots() {
		if s.IsBreak && s.End == clock {
			return true
		}
	}
	return false
}
