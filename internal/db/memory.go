package db

import (
	"context"
	"sync"

	"github.com/javiermolinar/horario/internal/timetable"
)

// Memory is an in-process timetable.Store. It is used by tests and by
// sessions started without a database.
type Memory struct {
	mu       sync.RWMutex
	entries  []timetable.Entry
	registry []timetable.Subject
	hub      timetable.Hub
}

// NewMemory creates a memory store seeded with snap.
func NewMemory(snap timetable.Snapshot) *Memory {
	m := &Memory{}
	m.entries = append([]timetable.Entry{}, snap.Entries...)
	m.registry = timetable.CloneRegistry(snap.Registry)
	return m
}

// LoadSchedule returns a copy of the schedule.
func (m *Memory) LoadSchedule(ctx context.Context) ([]timetable.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]timetable.Entry{}, m.entries...), nil
}

// SaveSchedule replaces the schedule and broadcasts.
func (m *Memory) SaveSchedule(ctx context.Context, entries []timetable.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.entries = append([]timetable.Entry{}, entries...)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.hub.Publish(snap)
	return nil
}

// LoadRegistry returns a copy of the registry.
func (m *Memory) LoadRegistry(ctx context.Context) ([]timetable.Subject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return timetable.CloneRegistry(m.registry), nil
}

// SaveRegistry replaces the registry and broadcasts.
func (m *Memory) SaveRegistry(ctx context.Context, registry []timetable.Subject) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.registry = timetable.CloneRegistry(registry)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.hub.Publish(snap)
	return nil
}

// Subscribe registers a snapshot subscriber.
func (m *Memory) Subscribe() (<-chan timetable.Snapshot, func()) {
	return m.hub.Subscribe()
}

// Close closes every subscription.
func (m *Memory) Close() error {
	m.hub.CloseAll()
	return nil
}

func (m *Memory) snapshotLocked() timetable.Snapshot {
	return timetable.Snapshot{
		Entries:  append([]timetable.Entry{}, m.entries...),
		Registry: timetable.CloneRegistry(m.registry),
	}
}
