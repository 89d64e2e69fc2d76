package timetable

import "strings"

// ResolveAutoFill infers the teacher for subject when the registry lists
// exactly one teacher for it. Subject lookup is case-insensitive.
// Unknown subjects and subjects with zero or several teachers yield false.
func ResolveAutoFill(subject string, registry []Subject) (string, bool) {
	s, ok := findSubject(registry, subject)
	if !ok || len(s.Teachers) != 1 {
		return "", false
	}
	return s.Teachers[0], true
}

func findSubject(registry []Subject, name string) (Subject, bool) {
	i := subjectIndex(registry, name)
	if i < 0 {
		return Subject{}, false
	}
	return registry[i], true
}

func subjectIndex(registry []Subject, name string) int {
	for i, s := range registry {
		if strings.EqualFold(s.Subject, name) {
			return i
		}
	}
	return -1
}
