package timetable

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Service applies the pure timetable operations against a Store.
// Every mutation loads the current collections, computes the new ones and
// saves them back. Mutations are serialized within one process only.
type Service struct {
	store Store
	log   *zap.Logger
	mu    sync.Mutex
}

// NewService creates a service over store. A nil logger disables logging.
func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

// Snapshot loads the current schedule and registry.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	return LoadSnapshot(ctx, s.store)
}

// Edit sets subject or teacher on one entry. See ApplyEdit.
func (s *Service) Edit(ctx context.Context, id string, field Field, value string) (EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := LoadSnapshot(ctx, s.store)
	if err != nil {
		return EditResult{}, err
	}

	res, err := ApplyEdit(snap.Entries, snap.Registry, id, field, value)
	if err != nil {
		s.log.Info("edit rejected",
			zap.String("entry", id),
			zap.String("field", string(field)),
			zap.String("value", value),
			zap.Error(err))
		return res, err
	}
	if !res.Applied {
		s.log.Debug("edit ignored, entry not found", zap.String("entry", id))
		return res, nil
	}

	if err := s.store.SaveSchedule(ctx, res.Entries); err != nil {
		return res, fmt.Errorf("saving schedule: %w", err)
	}
	s.log.Info("entry edited",
		zap.String("entry", id),
		zap.String("field", string(field)),
		zap.String("value", value),
		zap.String("auto_filled", res.AutoFilled))
	return res, nil
}

// InitializeDay creates the catalog slots of shift for className on day.
func (s *Service) InitializeDay(ctx context.Context, day int, className string, shift Shift) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.LoadSchedule(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := InitializeDay(entries, day, className, shift)
	if err != nil {
		return entries, err
	}
	if err := s.store.SaveSchedule(ctx, updated); err != nil {
		return updated, fmt.Errorf("saving schedule: %w", err)
	}
	s.log.Info("day initialized",
		zap.Int("day", day),
		zap.String("class", className),
		zap.String("shift", string(shift)),
		zap.Int("entries", len(updated)-len(entries)))
	return updated, nil
}

// ClearSlot resets subject and teacher of one entry.
func (s *Service) ClearSlot(ctx context.Context, id string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.LoadSchedule(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := FindEntry(entries, id); !ok {
		s.log.Debug("clear ignored, entry not found", zap.String("entry", id))
		return entries, nil
	}
	updated := ClearSlot(entries, id)
	if err := s.store.SaveSchedule(ctx, updated); err != nil {
		return updated, fmt.Errorf("saving schedule: %w", err)
	}
	s.log.Info("slot cleared", zap.String("entry", id))
	return updated, nil
}

// AddSubject registers a subject.
func (s *Service) AddSubject(ctx context.Context, name string) ([]Subject, error) {
	return s.mutateRegistry(ctx, "subject added", func(r []Subject) ([]Subject, error) {
		return AddSubject(r, name)
	}, zap.String("subject", name))
}

// RemoveSubject removes a subject and its teachers.
func (s *Service) RemoveSubject(ctx context.Context, name string) ([]Subject, error) {
	return s.mutateRegistry(ctx, "subject removed", func(r []Subject) ([]Subject, error) {
		return RemoveSubject(r, name), nil
	}, zap.String("subject", name))
}

// AddTeacher adds a teacher to a subject.
func (s *Service) AddTeacher(ctx context.Context, subject, teacher string) ([]Subject, error) {
	return s.mutateRegistry(ctx, "teacher added", func(r []Subject) ([]Subject, error) {
		return AddTeacher(r, subject, teacher)
	}, zap.String("subject", subject), zap.String("teacher", teacher))
}

// RemoveTeacher removes a teacher from a subject.
func (s *Service) RemoveTeacher(ctx context.Context, subject, teacher string) ([]Subject, error) {
	return s.mutateRegistry(ctx, "teacher removed", func(r []Subject) ([]Subject, error) {
		return RemoveTeacher(r, subject, teacher)
	}, zap.String("subject", subject), zap.String("teacher", teacher))
}

// ReplaceSchedule overwrites the whole schedule. It bypasses the conflict
// check; callers importing external data should audit with DoubleBookings.
func (s *Service) ReplaceSchedule(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveSchedule(ctx, entries); err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	s.log.Info("schedule replaced", zap.Int("entries", len(entries)))
	return nil
}

// ReplaceRegistry overwrites the whole registry after running it through
// NormalizeRegistry. An invalid registry leaves the store untouched.
func (s *Service) ReplaceRegistry(ctx context.Context, registry []Subject) error {
	registry, err := NormalizeRegistry(registry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveRegistry(ctx, registry); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	s.log.Info("registry replaced", zap.Int("subjects", len(registry)))
	return nil
}

func (s *Service) mutateRegistry(ctx context.Context, msg string, fn func([]Subject) ([]Subject, error), fields ...zap.Field) ([]Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry, err := s.store.LoadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := fn(registry)
	if err != nil {
		return registry, err
	}
	if err := s.store.SaveRegistry(ctx, updated); err != nil {
		return updated, fmt.Errorf("saving registry: %w", err)
	}
	s.log.Info(msg, fields...)
	return updated, nil
}
