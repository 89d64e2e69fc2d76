package timetable

import (
	"fmt"

	"github.com/google/uuid"
)

// newID generates entry identifiers. Tests may replace it.
var newID = uuid.NewString

// EditResult is the outcome of an accepted (or no-op) edit.
type EditResult struct {
	Entries    []Entry
	Applied    bool   // false when the target entry does not exist
	AutoFilled string // teacher inferred from the registry, if any
}

// ApplyEdit sets one field of the entry identified by id and returns the new
// collection. Entries are never mutated in place.
//
// A teacher edit with a non-empty value is rejected when the teacher is
// already booked elsewhere at the same day and start time. A subject edit
// first asks the registry for a unique teacher; when one is found it must pass
// the same check, and a conflict abandons the whole edit including the
// subject. Rejections return a *ConflictError and the input unchanged.
func ApplyEdit(entries []Entry, registry []Subject, id string, field Field, value string) (EditResult, error) {
	if field != FieldSubject && field != FieldTeacher {
		return EditResult{Entries: entries}, ErrUnknownField
	}

	idx := entryIndex(entries, id)
	if idx < 0 {
		return EditResult{Entries: entries}, nil
	}
	current := entries[idx]

	var autoTeacher string
	switch field {
	case FieldTeacher:
		if value != "" {
			if err := checkConflict(entries, current, value); err != nil {
				return EditResult{Entries: entries}, err
			}
		}
	case FieldSubject:
		if teacher, ok := ResolveAutoFill(value, registry); ok {
			if err := checkConflict(entries, current, teacher); err != nil {
				return EditResult{Entries: entries}, err
			}
			autoTeacher = teacher
		}
	}

	updated := cloneEntries(entries)
	switch field {
	case FieldTeacher:
		updated[idx].TeacherName = value
	case FieldSubject:
		updated[idx].Subject = value
		if autoTeacher != "" {
			updated[idx].TeacherName = autoTeacher
		}
	}

	return EditResult{Entries: updated, Applied: true, AutoFilled: autoTeacher}, nil
}

// InitializeDay appends one entry per catalog slot of shift for className on
// day. Break slots are pre-filled with the break markers; other slots start
// blank. It is rejected outright when the class already has any entry on that
// day.
func InitializeDay(entries []Entry, day int, className string, shift Shift) ([]Entry, error) {
	if err := ValidateDay(day); err != nil {
		return entries, err
	}
	if className == "" {
		return entries, fmt.Errorf("class: %w", ErrEmptyName)
	}
	slots := Slots(shift)
	if slots == nil {
		return entries, ErrInvalidShift
	}
	for _, e := range entries {
		if e.DayOfWeek == day && e.ClassName == className {
			return entries, fmt.Errorf("%w: %s on day %d", ErrAlreadyInitialized, className, day)
		}
	}

	updated := make([]Entry, 0, len(entries)+len(slots))
	updated = append(updated, entries...)
	for _, slot := range slots {
		e := Entry{
			ID:         newID(),
			DayOfWeek:  day,
			StartTime:  slot.Start,
			EndTime:    slot.End,
			PeriodName: slot.Name,
			ClassName:  className,
			IsBreak:    slot.IsBreak,
		}
		if slot.IsBreak {
			e.Subject = BreakSubject
			e.TeacherName = BreakTeacher
		}
		updated = append(updated, e)
	}
	return updated, nil
}

// ClearSlot resets subject and teacher of the entry identified by id.
// Unknown ids leave the collection unchanged. Clearing is idempotent.
func ClearSlot(entries []Entry, id string) []Entry {
	updated := cloneEntries(entries)
	if idx := entryIndex(updated, id); idx >= 0 {
		updated[idx].Subject = ""
		updated[idx].TeacherName = ""
	}
	return updated
}

// FindEntry returns the entry with the given id.
func FindEntry(entries []Entry, id string) (Entry, bool) {
	if idx := entryIndex(entries, id); idx >= 0 {
		return entries[idx], true
	}
	return Entry{}, false
}

func entryIndex(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
