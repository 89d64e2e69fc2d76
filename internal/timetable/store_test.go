package timetable

import (
	"testing"
	"time"
)

func TestHub_PublishLastWriteWins(t *testing.T) {
	var h Hub
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(Snapshot{Entries: []Entry{{ID: "1"}}})
	h.Publish(Snapshot{Entries: []Entry{{ID: "2"}}})
	h.Publish(Snapshot{Entries: []Entry{{ID: "3"}}})

	select {
	case snap := <-ch:
		if len(snap.Entries) != 1 || snap.Entries[0].ID != "3" {
			t.Errorf("got %+v, want newest snapshot", snap.Entries)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	select {
	case snap := <-ch:
		t.Errorf("unexpected extra snapshot %+v", snap)
	default:
	}
}

func TestHub_FanOut(t *testing.T) {
	var h Hub
	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelA()
	defer cancelB()

	if h.Subscribers() != 2 {
		t.Fatalf("subscribers = %d, want 2", h.Subscribers())
	}

	h.Publish(Snapshot{Registry: []Subject{{Subject: "Math"}}})

	for name, ch := range map[string]<-chan Snapshot{"a": a, "b": b} {
		select {
		case snap := <-ch:
			if len(snap.Registry) != 1 {
				t.Errorf("%s: unexpected snapshot %+v", name, snap)
			}
		case <-time.After(time.Second):
			t.Errorf("%s: no snapshot delivered", name)
		}
	}
}

func TestHub_Cancel(t *testing.T) {
	var h Hub
	ch, cancel := h.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}
	if h.Subscribers() != 0 {
		t.Errorf("subscribers = %d, want 0", h.Subscribers())
	}

	// Publishing with no subscribers must not block or panic.
	h.Publish(Snapshot{})
}

func TestHub_CloseAll(t *testing.T) {
	var h Hub
	ch, cancel := h.Subscribe()
	h.CloseAll()

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}
	cancel()
}
