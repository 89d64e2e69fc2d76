// Package timetable defines the school timetable domain: the slot catalog,
// schedule entries, the subject registry and the pure operations that keep
// teacher assignments consistent and resolve what is live right now.
package timetable

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidDay        = errors.New("day of week must be between 0 (sunday) and 6 (saturday)")
	ErrInvalidShift      = errors.New("shift must be 'morning' or 'afternoon'")
	ErrUnknownField      = errors.New("field must be 'subject' or 'teacherName'")
	ErrEmptyName         = errors.New("name cannot be empty")
)

// Domain errors.
var (
	ErrTeacherConflict    = errors.New("teacher already assigned at this time")
	ErrAlreadyInitialized = errors.New("class already has entries for this day")
	ErrSubjectExists      = errors.New("subject already registered")
	ErrSubjectNotFound    = errors.New("subject not found")
)

// Break entries created from the catalog carry these markers.
const (
	BreakSubject = "INTERVALO"
	BreakTeacher = "-"
)

// Entry is a concrete (day, class, slot) assignment.
// The JSON shape is the interchange format shared by every store.
type Entry struct {
	ID          string `json:"id"`
	DayOfWeek   int    `json:"dayOfWeek"` // 0=Sunday ... 6=Saturday
	StartTime   string `json:"startTime"` // "HH:MM"
	EndTime     string `json:"endTime"`   // "HH:MM"
	PeriodName  string `json:"periodName"`
	ClassName   string `json:"className"`
	Subject     string `json:"subject"`
	TeacherName string `json:"teacherName"`
	IsBreak     bool   `json:"isBreak"`
}

// IsEmpty reports whether the entry has neither subject nor teacher.
func (e Entry) IsEmpty() bool {
	return e.Subject == "" && e.TeacherName == ""
}

// Contains reports whether clock falls inside [StartTime, EndTime).
func (e Entry) Contains(clock string) bool {
	return clock >= e.StartTime && clock < e.EndTime
}

// Subject is a registry row: a subject and the teachers eligible to teach it.
type Subject struct {
	Subject  string   `json:"subject"`
	Teachers []string `json:"teachers"`
}

// Snapshot is the full state a store broadcasts on every change.
type Snapshot struct {
	Entries  []Entry   `json:"schedule"`
	Registry []Subject `json:"registry"`
}

// Field names an editable entry field.
type Field string

const (
	FieldSubject Field = "subject"
	FieldTeacher Field = "teacherName"
)

// ParseField parses a field name. "teacher" is accepted as a shorthand.
func ParseField(s string) (Field, error) {
	switch s {
	case "subject":
		return FieldSubject, nil
	case "teacherName", "teacher":
		return FieldTeacher, nil
	default:
		return "", ErrUnknownField
	}
}

// Conflict describes the entry that blocks a teacher assignment.
type Conflict struct {
	EntryID          string `json:"entryId"`
	ConflictingClass string `json:"conflictingClass"`
	ConflictingTime  string `json:"conflictingTime"`
	TeacherName      string `json:"teacherName"`
}

// ConflictError is returned when an edit would double-book a teacher.
type ConflictError struct {
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %q already teaches %s at %s",
		ErrTeacherConflict, e.Conflict.TeacherName, e.Conflict.ConflictingClass, e.Conflict.ConflictingTime)
}

// Is lets errors.Is match ErrTeacherConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrTeacherConflict
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// CloneRegistry returns a deep copy of the registry.
func CloneRegistry(registry []Subject) []Subject {
	out := make([]Subject, len(registry))
	for i, s := range registry {
		teachers := make([]string, len(s.Teachers))
		copy(teachers, s.Teachers)
		out[i] = Subject{Subject: s.Subject, Teachers: teachers}
	}
	return out
}
