package timetable

import (
	"errors"
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "zero padded", in: time.Date(2025, 3, 3, 7, 5, 0, 0, time.UTC), want: "07:05"},
		{name: "seconds dropped", in: time.Date(2025, 3, 3, 12, 29, 59, 0, time.UTC), want: "12:29"},
		{name: "evening", in: time.Date(2025, 3, 3, 19, 20, 0, 0, time.UTC), want: "19:20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clock(tt.in); got != tt.want {
				t.Errorf("Clock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateTime(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"07:20", false},
		{"00:00", false},
		{"23:59", false},
		{"7:20", true},
		{"24:00", true},
		{"12:60", true},
		{"", true},
		{"ab:cd", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateTime(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidTimeFormat) {
				t.Errorf("ValidateTime(%q) = %v, want ErrInvalidTimeFormat", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateTime(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestValidateDay(t *testing.T) {
	for day := 0; day <= 6; day++ {
		if err := ValidateDay(day); err != nil {
			t.Errorf("ValidateDay(%d) unexpected error: %v", day, err)
		}
	}
	for _, day := range []int{-1, 7, 100} {
		if err := ValidateDay(day); !errors.Is(err, ErrInvalidDay) {
			t.Errorf("ValidateDay(%d) = %v, want ErrInvalidDay", day, err)
		}
	}
}

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "first period", input: "07:20", want: 440},
		{name: "shift boundary", input: "12:30", want: 750},
		{name: "last bell", input: "20:00", want: 1200},
		{name: "invalid short", input: "9:00", want: 0},
		{name: "empty", input: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeToMinutes(tt.input); got != tt.want {
				t.Errorf("TimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	if got := Duration("07:20", "08:10"); got != 50 {
		t.Errorf("Duration = %d, want 50", got)
	}
	if got := Duration("09:00", "09:20"); got != 20 {
		t.Errorf("Duration = %d, want 20", got)
	}
	if got := Duration("10:00", "09:00"); got != 0 {
		t.Errorf("Duration = %d, want 0", got)
	}
}

