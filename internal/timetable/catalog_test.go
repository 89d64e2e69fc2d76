package timetable

import (
	"errors"
	"sort"
	"testing"
)

func TestSlots(t *testing.T) {
	morning := Slots(ShiftMorning)
	if len(morning) != 6 {
		t.Fatalf("morning slots = %d, want 6", len(morning))
	}
	afternoon := Slots(ShiftAfternoon)
	if len(afternoon) != 9 {
		t.Fatalf("afternoon slots = %d, want 9", len(afternoon))
	}
	if Slots("evening") != nil {
		t.Error("expected nil slots for unknown shift")
	}

	for _, shift := range Shifts() {
		slots := Slots(shift)
		breaks := 0
		for i, s := range slots {
			if s.Start >= s.End {
				t.Errorf("%s slot %d: start %s not before end %s", shift, i, s.Start, s.End)
			}
			if i > 0 && slots[i-1].End != s.Start {
				t.Errorf("%s slot %d: gap between %s and %s", shift, i, slots[i-1].End, s.Start)
			}
			if s.IsBreak {
				breaks++
			}
		}
		if breaks != 1 {
			t.Errorf("%s: %d breaks, want 1", shift, breaks)
		}
	}
}

func TestSlots_ReturnsCopy(t *testing.T) {
	slots := Slots(ShiftMorning)
	slots[0].Start = "00:00"
	if Slots(ShiftMorning)[0].Start != "07:20" {
		t.Error("mutating returned slots changed the catalog")
	}
}

func TestParseShift(t *testing.T) {
	tests := []struct {
		input string
		want  Shift
	}{
		{"morning", ShiftMorning},
		{"Manhã", ShiftMorning},
		{"manha", ShiftMorning},
		{"M", ShiftMorning},
		{"afternoon", ShiftAfternoon},
		{" tarde ", ShiftAfternoon},
		{"t", ShiftAfternoon},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseShift(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseShift(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseShift("noite"); !errors.Is(err, ErrInvalidShift) {
		t.Errorf("expected ErrInvalidShift, got %v", err)
	}
}

func TestShiftOfClass(t *testing.T) {
	if s, ok := ShiftOfClass("7º EFAF"); !ok || s != ShiftMorning {
		t.Errorf("ShiftOfClass(7º EFAF) = %q, %v", s, ok)
	}
	if s, ok := ShiftOfClass("2ª série em"); !ok || s != ShiftAfternoon {
		t.Errorf("ShiftOfClass(2ª série em) = %q, %v", s, ok)
	}
	if _, ok := ShiftOfClass("Turma X"); ok {
		t.Error("expected unknown class to have no shift")
	}
}

func TestTriggerTimes(t *testing.T) {
	times := TriggerTimes()
	if !sort.StringsAreSorted(times) {
		t.Errorf("trigger times not sorted: %v", times)
	}

	seen := make(map[string]bool)
	for _, tt := range times {
		if seen[tt] {
			t.Errorf("duplicate trigger time %s", tt)
		}
		seen[tt] = true
	}

	for _, want := range []string{"07:20", "09:00", "09:20", "12:00", "13:00", "15:30", "16:00", "20:00"} {
		if !seen[want] {
			t.Errorf("missing trigger time %s", want)
		}
	}
	if seen["12:30"] {
		t.Error("12:30 is not a slot boundary")
	}
}

func TestIsTriggerTime(t *testing.T) {
	if !IsTriggerTime("08:10") {
		t.Error("08:10 should be a trigger time")
	}
	if IsTriggerTime("08:11") {
		t.Error("08:11 should not be a trigger time")
	}
}

func TestIsBreakEnd(t *testing.T) {
	tests := []struct {
		clock string
		want  bool
	}{
		{"09:20", true},
		{"16:00", true},
		{"09:00", false},
		{"15:30", false},
		{"10:10", false},
	}
	for _, tt := range tests {
		if got := IsBreakEnd(tt.clock); got != tt.want {
			t.Errorf("IsBreakEnd(%s) = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestShiftLabel(t *testing.T) {
	if ShiftMorning.Label() != "Manhã" || ShiftAfternoon.Label() != "Tarde" {
		t.Errorf("unexpected labels %q %q", ShiftMorning.Label(), ShiftAfternoon.Label())
	}
}
