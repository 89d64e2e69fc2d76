// Package alert rings the school bell at every slot boundary.
package alert

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/timetable"
)

// Default ring lengths.
const (
	DefaultBellDuration     = 2 * time.Second
	DefaultBreakEndDuration = 4 * time.Second
)

// Ringer plays the bell for d.
type Ringer interface {
	Ring(ctx context.Context, d time.Duration) error
}

// Alert is one bell event.
type Alert struct {
	Key      string // "<day>-<HH:MM>", unique per minute and weekday
	Clock    string
	Duration time.Duration
	BreakEnd bool
	At       time.Time
}

// Options configures a Driver.
type Options struct {
	BellDuration     time.Duration
	BreakEndDuration time.Duration
	Logger           *zap.Logger

	// SchoolDay limits ringing to the days it accepts. Nil rings every day.
	SchoolDay func(time.Weekday) bool
}

// Driver schedules one cron job per trigger time and rings through a Ringer.
type Driver struct {
	ringer   Ringer
	bell     time.Duration
	breakEnd time.Duration
	log      *zap.Logger
	open     func(time.Weekday) bool

	mu      sync.Mutex
	lastKey string

	cron   *cron.Cron
	events chan Alert
}

// New creates a driver. Zero durations fall back to the defaults.
func New(ringer Ringer, opts Options) *Driver {
	d := &Driver{
		ringer:   ringer,
		bell:     opts.BellDuration,
		breakEnd: opts.BreakEndDuration,
		log:      opts.Logger,
		open:     opts.SchoolDay,
		events:   make(chan Alert, 8),
	}
	if d.bell <= 0 {
		d.bell = DefaultBellDuration
	}
	if d.breakEnd <= 0 {
		d.breakEnd = DefaultBreakEndDuration
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	return d
}

// Due reports whether now falls on a trigger minute that has not rung yet,
// and the alert to ring.
func (d *Driver) Due(now time.Time) (Alert, bool) {
	clock := timetable.Clock(now)
	if !timetable.IsTriggerTime(clock) {
		return Alert{}, false
	}
	if d.open != nil && !d.open(now.Weekday()) {
		return Alert{}, false
	}

	a := Alert{
		Key:      strconv.Itoa(int(now.Weekday())) + "-" + clock,
		Clock:    clock,
		Duration: d.bell,
		At:       now,
	}
	if timetable.IsBreakEnd(clock) {
		a.BreakEnd = true
		a.Duration = d.breakEnd
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if a.Key == d.lastKey {
		return Alert{}, false
	}
	return a, true
}

// Fire rings when now is due. It returns the alert and whether it rang.
func (d *Driver) Fire(ctx context.Context, now time.Time) (Alert, bool) {
	a, ok := d.Due(now)
	if !ok {
		return Alert{}, false
	}

	d.mu.Lock()
	if a.Key == d.lastKey {
		d.mu.Unlock()
		return Alert{}, false
	}
	d.lastKey = a.Key
	d.mu.Unlock()

	d.log.Info("bell",
		zap.String("clock", a.Clock),
		zap.Duration("duration", a.Duration),
		zap.Bool("break_end", a.BreakEnd))

	select {
	case d.events <- a:
	default:
	}

	if d.ringer != nil {
		if err := d.ringer.Ring(ctx, a.Duration); err != nil {
			d.log.Warn("ringing bell", zap.Error(err))
		}
	}
	return a, true
}

// Events delivers every alert that rang. Alerts are dropped when nobody
// reads them.
func (d *Driver) Events() <-chan Alert {
	return d.events
}

// Specs returns the cron spec of every trigger time.
func Specs() []string {
	times := timetable.TriggerTimes()
	specs := make([]string, 0, len(times))
	for _, t := range times {
		specs = append(specs, fmt.Sprintf("%s %s * * *", t[3:5], t[0:2]))
	}
	return specs
}

// Start schedules the trigger jobs in the local time zone.
func (d *Driver) Start() error {
	c := cron.New()
	for _, spec := range Specs() {
		if _, err := c.AddFunc(spec, func() {
			d.Fire(context.Background(), time.Now())
		}); err != nil {
			return fmt.Errorf("scheduling %q: %w", spec, err)
		}
	}
	d.cron = c
	c.Start()
	d.log.Debug("alert driver started", zap.Int("jobs", len(c.Entries())))
	return nil
}

// Stop stops scheduling and waits for running jobs.
func (d *Driver) Stop() {
	if d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
}

// Next returns the next scheduled ring after now.
func (d *Driver) Next() (time.Time, bool) {
	if d.cron == nil {
		return time.Time{}, false
	}
	var next time.Time
	for _, e := range d.cron.Entries() {
		if next.IsZero() || (!e.Next.IsZero() && e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next, !next.IsZero()
}

// BellRinger writes the terminal bell character to w, once every Interval
// while the ring lasts.
type BellRinger struct {
	W        io.Writer
	Interval time.Duration
}

// Ring implements Ringer.
func (b BellRinger) Ring(ctx context.Context, d time.Duration) error {
	interval := b.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	deadline := time.NewTimer(d)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := io.WriteString(b.W, "\a"); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
		}
	}
}
