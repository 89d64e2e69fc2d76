package timetable

// FindConflict returns the first entry that already books teacher on day at
// start, ignoring breaks and the entry identified by excludeID.
// Teacher names compare exactly; an empty teacher never conflicts.
func FindConflict(entries []Entry, day int, start, teacher, excludeID string) (Entry, bool) {
	if teacher == "" {
		return Entry{}, false
	}
	for _, e := range entries {
		if e.DayOfWeek != day || e.StartTime != start {
			continue
		}
		if e.TeacherName != teacher || e.IsBreak || e.ID == excludeID {
			continue
		}
		return e, true
	}
	return Entry{}, false
}

// checkConflict wraps FindConflict into a *ConflictError.
func checkConflict(entries []Entry, target Entry, teacher string) error {
	c, ok := FindConflict(entries, target.DayOfWeek, target.StartTime, teacher, target.ID)
	if !ok {
		return nil
	}
	return &ConflictError{Conflict: Conflict{
		EntryID:          c.ID,
		ConflictingClass: c.ClassName,
		ConflictingTime:  c.StartTime,
		TeacherName:      teacher,
	}}
}

// DoubleBookings lists every pair of entries that book the same teacher on
// the same day and start time. It is used to audit imported or generated
// schedules, which bypass the edit path.
func DoubleBookings(entries []Entry) [][2]Entry {
	var pairs [][2]Entry
	for i := 0; i < len(entries); i++ {
		a := entries[i]
		if a.IsBreak || a.TeacherName == "" {
			continue
		}
		for j := i + 1; j < len(entries); j++ {
			b := entries[j]
			if b.IsBreak || b.TeacherName != a.TeacherName {
				continue
			}
			if a.DayOfWeek == b.DayOfWeek && a.StartTime == b.StartTime {
				pairs = append(pairs, [2]Entry{a, b})
			}
		}
	}
	return pairs
}
