package timetable

import (
	"sort"
	"strings"
	"time"
)

// ShiftAt returns the shift displayed at clock: morning strictly before
// 12:30, afternoon from 12:30 on.
func ShiftAt(clock string) Shift {
	if clock < ShiftBoundary {
		return ShiftMorning
	}
	return ShiftAfternoon
}

// MatchesClass reports whether className, case-folded, contains any of the
// case-folded matcher substrings.
func MatchesClass(className string, matcher []string) bool {
	name := strings.ToLower(className)
	for _, m := range matcher {
		if m == "" {
			continue
		}
		if strings.Contains(name, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// Locate returns the entry live at (day, clock) for the class matcher.
// An entry is live when clock is in [StartTime, EndTime).
// When several entries qualify the earliest StartTime wins and ties keep
// collection order.
func Locate(entries []Entry, day int, clock string, matcher []string) (Entry, bool) {
	var (
		best  Entry
		found bool
	)
	for _, e := range entries {
		if e.DayOfWeek != day || !e.Contains(clock) {
			continue
		}
		if !MatchesClass(e.ClassName, matcher) {
			continue
		}
		if !found || e.StartTime < best.StartTime {
			best = e
			found = true
		}
	}
	return best, found
}

// BoardColumn is one board column resolved for an instant.
type BoardColumn struct {
	Title string
	Entry *Entry // nil when nothing is live for the column
}

// Board is the live view for one instant.
type Board struct {
	Day     int
	Clock   string
	Shift   Shift
	Columns []BoardColumn
}

// BoardAt resolves every column of the shift active at now.
func BoardAt(entries []Entry, now time.Time) Board {
	clock := Clock(now)
	day := int(now.Weekday())
	shift := ShiftAt(clock)

	columns := Columns(shift)
	board := Board{
		Day:     day,
		Clock:   clock,
		Shift:   shift,
		Columns: make([]BoardColumn, len(columns)),
	}
	for i, col := range columns {
		board.Columns[i] = BoardColumn{Title: col.Title}
		if e, ok := Locate(entries, day, clock, col.Match); ok {
			board.Columns[i].Entry = &e
		}
	}
	return board
}

// DayEntries returns the entries of one class on one day sorted by start time.
func DayEntries(entries []Entry, day int, className string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.DayOfWeek == day && e.ClassName == className {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}

// Cell returns the entry of a class at an exact day and start time.
func Cell(entries []Entry, day int, className, start string) (Entry, bool) {
	for _, e := range entries {
		if e.DayOfWeek == day && e.ClassName == className && e.StartTime == start {
			return e, true
		}
	}
	return Entry{}, false
}

func sortByStart(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})
}
