// Package input provides name suggestions for the editor's text inputs.
package input

import (
	"strings"

	"github.com/javiermolinar/horario/internal/timetable"
)

// MaxHints caps how many matches are listed under the input.
const MaxHints = 5

// MatchingNames returns names starting with input, ignoring case. An empty
// input matches nothing.
func MatchingNames(input string, names []string) []string {
	prefix := strings.ToLower(strings.TrimSpace(input))
	if prefix == "" {
		return nil
	}
	matches := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}

// Autocomplete returns the first name matching input.
func Autocomplete(input string, names []string) (string, bool) {
	matches := MatchingNames(input, names)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// Hints formats up to MaxHints matches for display.
func Hints(input string, names []string) string {
	matches := MatchingNames(input, names)
	if len(matches) > MaxHints {
		matches = append(matches[:MaxHints], "…")
	}
	return strings.Join(matches, "  ")
}

// SubjectNames lists registered subjects for the subject field.
func SubjectNames(registry []timetable.Subject) []string {
	return timetable.SubjectNames(registry)
}

// TeacherNames lists teachers for the teacher field: those registered for
// subject first, then everyone else.
func TeacherNames(registry []timetable.Subject, subject string) []string {
	preferred := timetable.TeacherSuggestions(registry, subject)
	seen := make(map[string]bool, len(preferred))
	out := make([]string, 0, len(preferred))
	for _, t := range preferred {
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range timetable.AllTeachers(registry) {
		if !seen[t] {
			out = append(out, t)
		}
	}
	return out
}
