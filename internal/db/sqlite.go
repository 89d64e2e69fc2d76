// Package db provides the timetable stores: SQLite for persistence and an
// in-memory store for tests and ephemeral sessions.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/horario/internal/timetable"
)

// DefaultPollInterval is how often the SQLite store checks for writes made
// by other processes.
const DefaultPollInterval = time.Second

// SQLite implements timetable.Store using SQLite.
type SQLite struct {
	db   *sql.DB
	log  *zap.Logger
	hub  timetable.Hub
	poll time.Duration

	readOnly bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Option configures a SQLite store.
type Option func(*SQLite)

// WithLogger sets the logger used by the change watcher.
func WithLogger(log *zap.Logger) Option {
	return func(s *SQLite) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPollInterval sets the change watcher interval. A zero or negative
// interval disables the watcher.
func WithPollInterval(d time.Duration) Option {
	return func(s *SQLite) {
		s.poll = d
	}
}

// ReadOnly opens an existing database without migrating or watching it.
// Writes fail.
func ReadOnly() Option {
	return func(s *SQLite) {
		s.readOnly = true
		s.poll = 0
	}
}

// New opens the database at path, runs migrations and starts the change
// watcher.
func New(path string, opts ...Option) (*SQLite, error) {
	s := &SQLite{
		log:  zap.NewNop(),
		poll: DefaultPollInterval,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	source := dsn(path)
	if s.readOnly {
		source = "file:" + source + "&mode=ro"
	}
	db, err := sql.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	s.db = db

	if !s.readOnly {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	if s.poll > 0 {
		go s.watch()
	} else {
		close(s.done)
	}

	return s, nil
}

// dsn adds the connection pragmas every pooled connection needs.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// LoadSchedule returns every entry in collection order.
func (s *SQLite) LoadSchedule(ctx context.Context) ([]timetable.Entry, error) {
	query := `
		SELECT id, day_of_week, start_time, end_time, period_name,
		       class_name, subject, teacher_name, is_break
		FROM schedule_entries
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []timetable.Entry{}
	for rows.Next() {
		var e timetable.Entry
		err := rows.Scan(
			&e.ID,
			&e.DayOfWeek,
			&e.StartTime,
			&e.EndTime,
			&e.PeriodName,
			&e.ClassName,
			&e.Subject,
			&e.TeacherName,
			&e.IsBreak,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule: %w", err)
	}

	return entries, nil
}

// SaveSchedule replaces every entry in a single transaction and broadcasts
// the new snapshot.
func (s *SQLite) SaveSchedule(ctx context.Context, entries []timetable.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries`); err != nil {
		return fmt.Errorf("clearing schedule: %w", err)
	}

	query := `
		INSERT INTO schedule_entries (
			id, position, day_of_week, start_time, end_time, period_name,
			class_name, subject, teacher_name, is_break
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.ID,
			i,
			e.DayOfWeek,
			e.StartTime,
			e.EndTime,
			e.PeriodName,
			e.ClassName,
			e.Subject,
			e.TeacherName,
			e.IsBreak,
		)
		if err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.broadcast(ctx)
	return nil
}

// LoadRegistry returns every subject with its teachers in stored order.
func (s *SQLite) LoadRegistry(ctx context.Context) ([]timetable.Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM registry_subjects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying subjects: %w", err)
	}

	registry := []timetable.Subject{}
	index := make(map[string]int)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning subject: %w", err)
		}
		index[strings.ToLower(name)] = len(registry)
		registry = append(registry, timetable.Subject{Subject: name, Teachers: []string{}})
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("closing rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subjects: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT subject, name FROM registry_teachers ORDER BY subject, position`)
	if err != nil {
		return nil, fmt.Errorf("querying teachers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var subject, name string
		if err := rows.Scan(&subject, &name); err != nil {
			return nil, fmt.Errorf("scanning teacher: %w", err)
		}
		i, ok := index[strings.ToLower(subject)]
		if !ok {
			continue
		}
		registry[i].Teachers = append(registry[i].Teachers, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teachers: %w", err)
	}

	return registry, nil
}

// SaveRegistry replaces the whole registry in a single transaction and
// broadcasts the new snapshot.
func (s *SQLite) SaveRegistry(ctx context.Context, registry []timetable.Subject) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM registry_teachers`); err != nil {
		return fmt.Errorf("clearing teachers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM registry_subjects`); err != nil {
		return fmt.Errorf("clearing subjects: %w", err)
	}

	for i, subj := range registry {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO registry_subjects (name, position) VALUES (?, ?)`,
			subj.Subject, i)
		if err != nil {
			return fmt.Errorf("inserting subject %q: %w", subj.Subject, err)
		}
		for j, teacher := range subj.Teachers {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO registry_teachers (subject, name, position) VALUES (?, ?, ?)`,
				subj.Subject, teacher, j)
			if err != nil {
				return fmt.Errorf("inserting teacher %q: %w", teacher, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.broadcast(ctx)
	return nil
}

// Subscribe registers a snapshot subscriber.
func (s *SQLite) Subscribe() (<-chan timetable.Snapshot, func()) {
	return s.hub.Subscribe()
}

// Close stops the watcher, closes every subscription and releases database
// resources.
func (s *SQLite) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	s.hub.CloseAll()
	return s.db.Close()
}

func (s *SQLite) broadcast(ctx context.Context) {
	if s.hub.Subscribers() == 0 {
		return
	}
	snap, err := timetable.LoadSnapshot(ctx, s)
	if err != nil {
		s.log.Warn("loading snapshot for broadcast", zap.Error(err))
		return
	}
	s.hub.Publish(snap)
}
