package timetable

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolveAutoFill(t *testing.T) {
	registry := sampleRegistry()
	tests := []struct {
		name    string
		subject string
		want    string
		wantOK  bool
	}{
		{name: "unique teacher", subject: "Math", want: "Ana", wantOK: true},
		{name: "case insensitive", subject: "MATH", want: "Ana", wantOK: true},
		{name: "several teachers", subject: "Science"},
		{name: "no teachers", subject: "Art"},
		{name: "unknown", subject: "Latin"},
		{name: "empty", subject: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveAutoFill(tt.subject, registry)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveAutoFill(%q) = %q, %v; want %q, %v", tt.subject, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAddSubject(t *testing.T) {
	registry, err := AddSubject(nil, "  Math ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	registry, err = AddSubject(registry, "art")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	registry, err = AddSubject(registry, "Biology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"art", "Biology", "Math"}
	if got := SubjectNames(registry); !reflect.DeepEqual(got, want) {
		t.Errorf("subjects = %v, want %v", got, want)
	}
	for _, s := range registry {
		if s.Teachers == nil || len(s.Teachers) != 0 {
			t.Errorf("new subject %q should have an empty teacher list", s.Subject)
		}
	}
}

func TestAddSubject_Errors(t *testing.T) {
	registry := sampleRegistry()

	if _, err := AddSubject(registry, "MATH"); !errors.Is(err, ErrSubjectExists) {
		t.Errorf("expected ErrSubjectExists, got %v", err)
	}
	if _, err := AddSubject(registry, "   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if len(registry) != 3 {
		t.Error("rejected add changed the registry")
	}
}

func TestRemoveSubject(t *testing.T) {
	registry := sampleRegistry()

	got := RemoveSubject(registry, "science")
	if want := []string{"Math", "Art"}; !reflect.DeepEqual(SubjectNames(got), want) {
		t.Errorf("subjects = %v, want %v", SubjectNames(got), want)
	}
	if len(registry) != 3 {
		t.Error("input registry was mutated")
	}

	if got := RemoveSubject(registry, "Latin"); !reflect.DeepEqual(got, registry) {
		t.Error("removing unknown subject changed the registry")
	}
}

func TestAddTeacher(t *testing.T) {
	registry := sampleRegistry()

	got, err := AddTeacher(registry, "science", "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Alice", "Bruno", "Carla"}; !reflect.DeepEqual(got[1].Teachers, want) {
		t.Errorf("teachers = %v, want %v", got[1].Teachers, want)
	}
	if len(registry[1].Teachers) != 2 {
		t.Error("input registry was mutated")
	}

	again, err := AddTeacher(got, "Science", "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again[1].Teachers) != 3 {
		t.Errorf("duplicate teacher added: %v", again[1].Teachers)
	}
}

func TestAddTeacher_Errors(t *testing.T) {
	if _, err := AddTeacher(sampleRegistry(), "Latin", "Ana"); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("expected ErrSubjectNotFound, got %v", err)
	}
	if _, err := AddTeacher(sampleRegistry(), "Math", " "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestRemoveTeacher(t *testing.T) {
	got, err := RemoveTeacher(sampleRegistry(), "Math", "Ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Subject != "Math" || len(got[0].Teachers) != 0 {
		t.Errorf("subject should remain with no teachers: %+v", got[0])
	}

	if _, err := RemoveTeacher(sampleRegistry(), "Latin", "Ana"); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestAllTeachers(t *testing.T) {
	registry := append(sampleRegistry(), Subject{Subject: "Chemistry", Teachers: []string{"Carla", "Ana"}})
	want := []string{"Ana", "Bruno", "Carla"}
	if got := AllTeachers(registry); !reflect.DeepEqual(got, want) {
		t.Errorf("AllTeachers = %v, want %v", got, want)
	}
}

func TestTeacherSuggestions(t *testing.T) {
	registry := sampleRegistry()
	if got := TeacherSuggestions(registry, "science"); !reflect.DeepEqual(got, []string{"Bruno", "Carla"}) {
		t.Errorf("suggestions = %v", got)
	}
	if got := TeacherSuggestions(registry, "Latin"); !reflect.DeepEqual(got, []string{"Ana", "Bruno", "Carla"}) {
		t.Errorf("fallback suggestions = %v", got)
	}
}

func TestNormalizeRegistry(t *testing.T) {
	got, err := NormalizeRegistry([]Subject{
		{Subject: " Química ", Teachers: []string{"Carla", "Bruno", "Carla"}},
		{Subject: "Artes", Teachers: nil},
	})
	if err != nil {
		t.Fatalf("NormalizeRegistry: %v", err)
	}
	want := []Subject{
		{Subject: "Artes", Teachers: []string{}},
		{Subject: "Química", Teachers: []string{"Bruno", "Carla"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	tests := []struct {
		name     string
		registry []Subject
		want     error
	}{
		{"case-insensitive duplicate", []Subject{{Subject: "Math"}, {Subject: "math"}}, ErrSubjectExists},
		{"blank subject", []Subject{{Subject: "  "}}, ErrEmptyName},
		{"blank teacher", []Subject{{Subject: "Math", Teachers: []string{""}}}, ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeRegistry(tt.registry); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
