package timetable

import (
	"fmt"
	"sort"
	"strings"
)

// AddSubject registers a new subject with no teachers. Names are trimmed and
// compared case-insensitively against existing subjects. The returned
// registry is sorted alphabetically.
func AddSubject(registry []Subject, name string) ([]Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return registry, fmt.Errorf("subject: %w", ErrEmptyName)
	}
	if subjectIndex(registry, name) >= 0 {
		return registry, fmt.Errorf("%w: %s", ErrSubjectExists, name)
	}

	updated := CloneRegistry(registry)
	updated = append(updated, Subject{Subject: name, Teachers: []string{}})
	sortSubjects(updated)
	return updated, nil
}

// RemoveSubject removes a subject and all its teachers.
// Removing an unknown subject leaves the registry unchanged.
func RemoveSubject(registry []Subject, name string) []Subject {
	updated := make([]Subject, 0, len(registry))
	for _, s := range CloneRegistry(registry) {
		if strings.EqualFold(s.Subject, strings.TrimSpace(name)) {
			continue
		}
		updated = append(updated, s)
	}
	return updated
}

// AddTeacher adds a teacher to a subject. Teacher names are de-duplicated
// exactly and kept sorted.
func AddTeacher(registry []Subject, subject, teacher string) ([]Subject, error) {
	teacher = strings.TrimSpace(teacher)
	if teacher == "" {
		return registry, fmt.Errorf("teacher: %w", ErrEmptyName)
	}
	idx := subjectIndex(registry, strings.TrimSpace(subject))
	if idx < 0 {
		return registry, fmt.Errorf("%w: %s", ErrSubjectNotFound, subject)
	}

	updated := CloneRegistry(registry)
	for _, t := range updated[idx].Teachers {
		if t == teacher {
			return updated, nil
		}
	}
	updated[idx].Teachers = append(updated[idx].Teachers, teacher)
	sort.Strings(updated[idx].Teachers)
	return updated, nil
}

// RemoveTeacher removes a teacher from a subject. The subject stays
// registered even when its last teacher is removed.
func RemoveTeacher(registry []Subject, subject, teacher string) ([]Subject, error) {
	idx := subjectIndex(registry, strings.TrimSpace(subject))
	if idx < 0 {
		return registry, fmt.Errorf("%w: %s", ErrSubjectNotFound, subject)
	}

	updated := CloneRegistry(registry)
	kept := make([]string, 0, len(updated[idx].Teachers))
	for _, t := range updated[idx].Teachers {
		if t != teacher {
			kept = append(kept, t)
		}
	}
	updated[idx].Teachers = kept
	return updated, nil
}

// NormalizeRegistry rebuilds registry through AddSubject and AddTeacher:
// names are trimmed, teachers de-duplicated and everything sorted. Subjects
// repeated case-insensitively and blank names are rejected.
func NormalizeRegistry(registry []Subject) ([]Subject, error) {
	out := []Subject{}
	for i, s := range registry {
		next, err := AddSubject(out, s.Subject)
		if err != nil {
			return nil, fmt.Errorf("registry row %d: %w", i+1, err)
		}
		out = next
		for _, t := range s.Teachers {
			if out, err = AddTeacher(out, s.Subject, t); err != nil {
				return nil, fmt.Errorf("registry row %d: %w", i+1, err)
			}
		}
	}
	return out, nil
}

// AllTeachers returns every registered teacher, de-duplicated and sorted.
func AllTeachers(registry []Subject) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range registry {
		for _, t := range s.Teachers {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out
}

// TeacherSuggestions returns the teachers of subject, or every teacher when
// the subject is not registered.
func TeacherSuggestions(registry []Subject, subject string) []string {
	if s, ok := findSubject(registry, subject); ok {
		return append([]string(nil), s.Teachers...)
	}
	return AllTeachers(registry)
}

// SubjectNames returns the registered subject names in registry order.
func SubjectNames(registry []Subject) []string {
	out := make([]string, len(registry))
	for i, s := range registry {
		out[i] = s.Subject
	}
	return out
}

func sortSubjects(registry []Subject) {
	sort.SliceStable(registry, func(i, j int) bool {
		a, b := strings.ToLower(registry[i].Subject), strings.ToLower(registry[j].Subject)
		if a != b {
			return a < b
		}
		return registry[i].Subject < registry[j].Subject
	})
}
