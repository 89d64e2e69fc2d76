package alert

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingRinger struct {
	mu    sync.Mutex
	rings []time.Duration
}

func (r *recordingRinger) Ring(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rings = append(r.rings, d)
	return nil
}

func at(hour, min, sec int) time.Time {
	// 2025-03-03 is a Monday.
	return time.Date(2025, 3, 3, hour, min, sec, 0, time.Local)
}

func TestDue(t *testing.T) {
	d := New(nil, Options{})

	tests := []struct {
		name     string
		now      time.Time
		want     bool
		duration time.Duration
	}{
		{name: "lesson start", now: at(7, 20, 0), want: true, duration: 2 * time.Second},
		{name: "break start", now: at(9, 0, 30), want: true, duration: 2 * time.Second},
		{name: "break end", now: at(9, 20, 59), want: true, duration: 4 * time.Second},
		{name: "afternoon break end", now: at(16, 0, 0), want: true, duration: 4 * time.Second},
		{name: "mid lesson", now: at(7, 21, 0), want: false},
		{name: "shift boundary is not a slot", now: at(12, 30, 0), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := d.Due(tt.now)
			if ok != tt.want {
				t.Fatalf("Due() ok = %v, want %v", ok, tt.want)
			}
			if ok && a.Duration != tt.duration {
				t.Errorf("duration = %s, want %s", a.Duration, tt.duration)
			}
		})
	}
}

func TestDue_SchoolDaysOnly(t *testing.T) {
	weekdays := func(d time.Weekday) bool { return d >= time.Monday && d <= time.Friday }
	d := New(nil, Options{SchoolDay: weekdays})

	if _, ok := d.Due(at(7, 20, 0)); !ok {
		t.Fatal("Monday should ring")
	}
	saturday := at(7, 20, 0).AddDate(0, 0, 5)
	if _, ok := d.Due(saturday); ok {
		t.Fatal("Saturday is not a school day")
	}
}

func TestFire_OncePerMinute(t *testing.T) {
	r := &recordingRinger{}
	d := New(r, Options{BellDuration: time.Second, BreakEndDuration: 3 * time.Second})
	ctx := context.Background()

	if _, ok := d.Fire(ctx, at(9, 20, 0)); !ok {
		t.Fatal("expected first fire to ring")
	}
	if _, ok := d.Fire(ctx, at(9, 20, 1)); ok {
		t.Error("second fire in the same minute should not ring")
	}
	if _, ok := d.Fire(ctx, at(10, 10, 0)); !ok {
		t.Error("next trigger should ring")
	}
	// Same clock on another weekday is a different key.
	if _, ok := d.Fire(ctx, at(10, 10, 0).AddDate(0, 0, 1)); !ok {
		t.Error("same clock on another day should ring")
	}

	want := []time.Duration{3 * time.Second, time.Second, time.Second}
	if len(r.rings) != len(want) {
		t.Fatalf("rings = %v, want %v", r.rings, want)
	}
	for i := range want {
		if r.rings[i] != want[i] {
			t.Errorf("ring %d = %s, want %s", i, r.rings[i], want[i])
		}
	}
}

func TestFire_PublishesEvent(t *testing.T) {
	d := New(nil, Options{})
	d.Fire(context.Background(), at(13, 0, 0))

	select {
	case a := <-d.Events():
		if a.Clock != "13:00" || a.Key != "1-13:00" {
			t.Errorf("unexpected alert %+v", a)
		}
	default:
		t.Fatal("expected an event")
	}
}

func TestSpecs(t *testing.T) {
	specs := Specs()
	if len(specs) == 0 {
		t.Fatal("expected specs")
	}
	if specs[0] != "20 07 * * *" {
		t.Errorf("first spec = %q, want %q", specs[0], "20 07 * * *")
	}
	for _, s := range specs {
		if len(strings.Fields(s)) != 5 {
			t.Errorf("spec %q is not a five field cron spec", s)
		}
	}
}

func TestStartStop(t *testing.T) {
	d := New(nil, Options{})
	if err := d.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	next, ok := d.Next()
	if !ok {
		t.Fatal("expected a next ring time")
	}
	if !next.After(time.Now()) {
		t.Errorf("next ring %v is not in the future", next)
	}
}

func TestBellRinger(t *testing.T) {
	var buf bytes.Buffer
	r := BellRinger{W: &buf, Interval: 10 * time.Millisecond}

	if err := r.Ring(context.Background(), 35*time.Millisecond); err != nil {
		t.Fatalf("Ring failed: %v", err)
	}
	if n := strings.Count(buf.String(), "\a"); n < 2 {
		t.Errorf("expected several bell characters, got %d", n)
	}
}

func TestBellRinger_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := BellRinger{W: &buf}.Ring(ctx, time.Hour)
	if err == nil {
		t.Error("expected context error")
	}
}
