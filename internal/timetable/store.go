package timetable

import (
	"context"
	"sync"
)

// Store persists the schedule and registry collections.
// Collections are always replaced wholesale.
type Store interface {
	// LoadSchedule returns every schedule entry.
	LoadSchedule(ctx context.Context) ([]Entry, error)

	// SaveSchedule replaces the whole schedule.
	SaveSchedule(ctx context.Context, entries []Entry) error

	// LoadRegistry returns every registry subject.
	LoadRegistry(ctx context.Context) ([]Subject, error)

	// SaveRegistry replaces the whole registry.
	SaveRegistry(ctx context.Context, registry []Subject) error

	// Subscribe returns a channel receiving a full snapshot after every
	// successful save, including saves made by other processes when the
	// backend can detect them. Delivery is last-write-wins: a slow
	// subscriber only sees the newest snapshot. The returned func cancels
	// the subscription and closes the channel.
	Subscribe() (<-chan Snapshot, func())

	// Close releases any resources held by the store.
	Close() error
}

// Hub fans snapshots out to subscribers. Stores embed it to implement
// Subscribe.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Snapshot
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() (<-chan Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]chan Snapshot)
	}
	id := h.nextID
	h.nextID++
	ch := make(chan Snapshot, 1)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers snap to every subscriber without blocking. A pending,
// unread snapshot is replaced by the newer one.
func (h *Hub) Publish(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the stale snapshot and retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// CloseAll cancels every subscription.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// LoadSnapshot loads both collections from store.
func LoadSnapshot(ctx context.Context, store Store) (Snapshot, error) {
	entries, err := store.LoadSchedule(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	registry, err := store.LoadRegistry(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Entries: entries, Registry: registry}, nil
}
