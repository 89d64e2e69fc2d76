package timetable

import (
	"testing"
	"time"
)

func TestShiftAt(t *testing.T) {
	tests := []struct {
		clock string
		want  Shift
	}{
		{"00:00", ShiftMorning},
		{"07:20", ShiftMorning},
		{"12:29", ShiftMorning},
		{"12:30", ShiftAfternoon},
		{"13:00", ShiftAfternoon},
		{"23:59", ShiftAfternoon},
	}
	for _, tt := range tests {
		if got := ShiftAt(tt.clock); got != tt.want {
			t.Errorf("ShiftAt(%s) = %s, want %s", tt.clock, got, tt.want)
		}
	}
}

func TestMatchesClass(t *testing.T) {
	tests := []struct {
		name    string
		class   string
		matcher []string
		want    bool
	}{
		{name: "exact", class: "6º EFAF", matcher: []string{"6º efaf"}, want: true},
		{name: "alias", class: "6º Ano A", matcher: []string{"6º efaf", "6º ano"}, want: true},
		{name: "other cohort", class: "7º EFAF", matcher: []string{"6º efaf"}, want: false},
		{name: "upper case series", class: "1ª SÉRIE EM", matcher: []string{"1ª série"}, want: true},
		{name: "empty matcher skipped", class: "anything", matcher: []string{""}, want: false},
		{name: "no matchers", class: "6º EFAF", matcher: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesClass(tt.class, tt.matcher); got != tt.want {
				t.Errorf("MatchesClass(%q, %v) = %v, want %v", tt.class, tt.matcher, got, tt.want)
			}
		})
	}
}

func TestLocate_HalfOpenInterval(t *testing.T) {
	entries := []Entry{
		{ID: "a", DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", ClassName: "6º EFAF", Subject: "Math"},
		{ID: "b", DayOfWeek: 1, StartTime: "08:10", EndTime: "09:00", ClassName: "6º EFAF", Subject: "History"},
	}
	matcher := []string{"6º efaf"}

	tests := []struct {
		clock  string
		wantID string
	}{
		{"07:19", ""},
		{"07:20", "a"},
		{"08:09", "a"},
		{"08:10", "b"},
		{"08:59", "b"},
		{"09:00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			got, ok := Locate(entries, 1, tt.clock, matcher)
			if tt.wantID == "" {
				if ok {
					t.Errorf("expected no entry, got %q", got.ID)
				}
				return
			}
			if !ok || got.ID != tt.wantID {
				t.Errorf("Locate at %s = %q (%v), want %q", tt.clock, got.ID, ok, tt.wantID)
			}
		})
	}
}

func TestLocate_WrongDay(t *testing.T) {
	entries := []Entry{
		{ID: "a", DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", ClassName: "6º EFAF"},
	}
	if _, ok := Locate(entries, 2, "07:30", []string{"6º efaf"}); ok {
		t.Error("expected no entry on another day")
	}
}

func TestLocate_TieBreak(t *testing.T) {
	entries := []Entry{
		{ID: "later", DayOfWeek: 1, StartTime: "07:30", EndTime: "08:10", ClassName: "6º EFAF"},
		{ID: "first", DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", ClassName: "6º Ano"},
		{ID: "second", DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", ClassName: "6º EFAF"},
	}
	got, ok := Locate(entries, 1, "07:45", []string{"6º efaf", "6º ano"})
	if !ok {
		t.Fatal("expected an entry")
	}
	if got.ID != "first" {
		t.Errorf("got %q, want earliest start in collection order %q", got.ID, "first")
	}
}

func TestBoardAt(t *testing.T) {
	entries := []Entry{
		{ID: "m6", DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", ClassName: "6º EFAF", Subject: "Math"},
		{ID: "m9", DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", ClassName: "9º EFAF", Subject: "Art"},
		{ID: "t1", DayOfWeek: 1, StartTime: "13:00", EndTime: "13:50", ClassName: "1ª Série EM", Subject: "Physics"},
	}

	// 2025-03-03 is a Monday.
	morning := BoardAt(entries, time.Date(2025, 3, 3, 7, 30, 0, 0, time.Local))
	if morning.Shift != ShiftMorning || morning.Day != 1 || morning.Clock != "07:30" {
		t.Fatalf("unexpected board header %+v", morning)
	}
	if len(morning.Columns) != 4 {
		t.Fatalf("morning columns = %d, want 4", len(morning.Columns))
	}
	if morning.Columns[0].Entry == nil || morning.Columns[0].Entry.ID != "m6" {
		t.Errorf("6º column = %+v, want m6", morning.Columns[0].Entry)
	}
	if morning.Columns[1].Entry != nil {
		t.Errorf("7º column should be empty, got %+v", morning.Columns[1].Entry)
	}
	if morning.Columns[3].Entry == nil || morning.Columns[3].Entry.ID != "m9" {
		t.Errorf("9º column = %+v, want m9", morning.Columns[3].Entry)
	}

	afternoon := BoardAt(entries, time.Date(2025, 3, 3, 13, 10, 0, 0, time.Local))
	if afternoon.Shift != ShiftAfternoon || len(afternoon.Columns) != 3 {
		t.Fatalf("unexpected afternoon board %+v", afternoon)
	}
	if afternoon.Columns[0].Entry == nil || afternoon.Columns[0].Entry.ID != "t1" {
		t.Errorf("1ª column = %+v, want t1", afternoon.Columns[0].Entry)
	}
}

func TestBoardAt_LunchGap(t *testing.T) {
	entries := []Entry{
		{ID: "m6", DayOfWeek: 1, StartTime: "11:00", EndTime: "12:00", ClassName: "6º EFAF"},
	}
	board := BoardAt(entries, time.Date(2025, 3, 3, 12, 15, 0, 0, time.Local))
	if board.Shift != ShiftMorning {
		t.Fatalf("shift = %s, want morning", board.Shift)
	}
	for _, col := range board.Columns {
		if col.Entry != nil {
			t.Errorf("column %s should be empty during lunch", col.Title)
		}
	}
}

func TestDayEntries(t *testing.T) {
	entries := []Entry{
		{ID: "c", DayOfWeek: 1, StartTime: "09:20", ClassName: "6º EFAF"},
		{ID: "x", DayOfWeek: 2, StartTime: "07:20", ClassName: "6º EFAF"},
		{ID: "a", DayOfWeek: 1, StartTime: "07:20", ClassName: "6º EFAF"},
		{ID: "y", DayOfWeek: 1, StartTime: "07:20", ClassName: "7º EFAF"},
		{ID: "b", DayOfWeek: 1, StartTime: "08:10", ClassName: "6º EFAF"},
	}
	got := DayEntries(entries, 1, "6º EFAF")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("entry %d = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestCell(t *testing.T) {
	entries := []Entry{
		{ID: "a", DayOfWeek: 1, StartTime: "07:20", ClassName: "6º EFAF"},
	}
	if e, ok := Cell(entries, 1, "6º EFAF", "07:20"); !ok || e.ID != "a" {
		t.Errorf("Cell = %+v, %v", e, ok)
	}
	if _, ok := Cell(entries, 1, "6º EFAF", "08:10"); ok {
		t.Error("expected no cell at 08:10")
	}
}

func TestBoardAt_EmptyAndSparseEntries(t *testing.T) {
	now := time.Date(2025, 3, 3, 7, 30, 0, 0, time.Local) // Monday

	if _, ok := Locate(nil, 1, "07:30", []string{"6º efaf"}); ok {
		t.Error("Locate on a nil collection found an entry")
	}

	sparse := []Entry{
		{},
		{DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10"},
		{DayOfWeek: 1, ClassName: "6º EFAF"},
	}
	for name, entries := range map[string][]Entry{"nil": nil, "sparse": sparse} {
		board := BoardAt(entries, now)
		if board.Shift != ShiftMorning || len(board.Columns) != len(Columns(ShiftMorning)) {
			t.Fatalf("%s: board = %+v", name, board)
		}
		for _, col := range board.Columns {
			if col.Entry != nil {
				t.Errorf("%s: column %s shows %+v", name, col.Title, *col.Entry)
			}
		}
	}
}
