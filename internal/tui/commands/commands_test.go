package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/javiermolinar/horario/internal/alert"
	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/db"
	"github.com/javiermolinar/horario/internal/timetable"
)

func newService(t *testing.T, snap timetable.Snapshot) (*timetable.Service, *db.Memory) {
	t.Helper()
	store := db.NewMemory(snap)
	t.Cleanup(func() { _ = store.Close() })
	return timetable.NewService(store, nil), store
}

func TestLoadSnapshotReturnsSnapshotMsg(t *testing.T) {
	svc, _ := newService(t, timetable.Snapshot{
		Registry: []timetable.Subject{{Subject: "Física", Teachers: []string{"Ana"}}},
	})

	msg := LoadSnapshot(svc)()
	snap, ok := msg.(SnapshotMsg)
	if !ok {
		t.Fatalf("expected SnapshotMsg, got %T", msg)
	}
	if snap.Broadcast {
		t.Fatalf("initial load should not be marked as a broadcast")
	}
	if len(snap.Snapshot.Registry) != 1 || snap.Snapshot.Registry[0].Subject != "Física" {
		t.Fatalf("registry = %+v", snap.Snapshot.Registry)
	}
}

func TestWaitForSnapshot(t *testing.T) {
	if WaitForSnapshot(nil) != nil {
		t.Fatalf("nil channel should yield nil command")
	}

	ch := make(chan timetable.Snapshot, 1)
	ch <- timetable.Snapshot{Entries: []timetable.Entry{{ID: "a"}}}
	msg := WaitForSnapshot(ch)()
	snap, ok := msg.(SnapshotMsg)
	if !ok || len(snap.Snapshot.Entries) != 1 || !snap.Broadcast {
		t.Fatalf("got %#v", msg)
	}

	close(ch)
	if _, ok := WaitForSnapshot(ch)().(SubscriptionClosedMsg); !ok {
		t.Fatalf("closed channel should yield SubscriptionClosedMsg")
	}
}

func TestWaitForAlert(t *testing.T) {
	if WaitForAlert(nil) != nil {
		t.Fatalf("nil channel should yield nil command")
	}
	ch := make(chan alert.Alert, 1)
	ch <- alert.Alert{Clock: "07:20"}
	msg, ok := WaitForAlert(ch)().(AlertMsg)
	if !ok || msg.Alert.Clock != "07:20" {
		t.Fatalf("got %#v", msg)
	}
}

func TestInitializeAndEdit(t *testing.T) {
	svc, _ := newService(t, timetable.Snapshot{
		Registry: []timetable.Subject{{Subject: "Física", Teachers: []string{"Ana"}}},
	})

	msg := InitializeDay(svc, 1, "6º EFAF", timetable.ShiftMorning)()
	created, ok := msg.(EntriesMsg)
	if !ok {
		t.Fatalf("expected EntriesMsg, got %#v", msg)
	}
	first, _ := timetable.Cell(created.Entries, 1, "6º EFAF", "07:20")

	msg = Edit(svc, first.ID, timetable.FieldSubject, "física")()
	done, ok := msg.(EditDoneMsg)
	if !ok {
		t.Fatalf("expected EditDoneMsg, got %#v", msg)
	}
	if done.Result.AutoFilled != "Ana" || !done.Result.Applied {
		t.Fatalf("result = %+v", done.Result)
	}

	msg = InitializeDay(svc, 1, "6º EFAF", timetable.ShiftMorning)()
	errMsg, ok := msg.(ErrMsg)
	if !ok || !errors.Is(errMsg.Err, timetable.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %#v", msg)
	}

	msg = ClearSlot(svc, first.ID)()
	cleared, ok := msg.(EntriesMsg)
	if !ok {
		t.Fatalf("expected EntriesMsg, got %#v", msg)
	}
	e, _ := timetable.FindEntry(cleared.Entries, first.ID)
	if !e.IsEmpty() {
		t.Fatalf("entry not cleared: %+v", e)
	}
}

func TestRegistryCommands(t *testing.T) {
	svc, store := newService(t, timetable.Snapshot{})

	steps := []struct {
		name string
		run  func() any
		want int
	}{
		{"add subject", func() any { return AddSubject(svc, "Química")() }, 1},
		{"add teacher", func() any { return AddTeacher(svc, "Química", "Bruno")() }, 1},
		{"remove teacher", func() any { return RemoveTeacher(svc, "Química", "Bruno")() }, 1},
		{"remove subject", func() any { return RemoveSubject(svc, "Química")() }, 0},
	}
	for _, step := range steps {
		msg, ok := step.run().(RegistryMsg)
		if !ok {
			t.Fatalf("%s: expected RegistryMsg", step.name)
		}
		if len(msg.Registry) != step.want {
			t.Fatalf("%s: registry = %+v", step.name, msg.Registry)
		}
		if msg.Status == "" {
			t.Fatalf("%s: missing status", step.name)
		}
	}

	registry, _ := store.LoadRegistry(context.Background())
	if len(registry) != 0 {
		t.Fatalf("stored registry = %+v", registry)
	}

	if _, ok := AddTeacher(svc, "Artes", "Caio")().(ErrMsg); !ok {
		t.Fatalf("adding a teacher to an unknown subject should fail")
	}
}

func TestCheckPIN(t *testing.T) {
	hash, err := auth.HashPIN("4321")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	gate := auth.NewGate(hash)

	if msg := CheckPIN(gate, "4321")().(PINResultMsg); msg.Err != nil {
		t.Fatalf("correct PIN rejected: %v", msg.Err)
	}
	if msg := CheckPIN(gate, "0000")().(PINResultMsg); !errors.Is(msg.Err, auth.ErrInvalidPIN) {
		t.Fatalf("wrong PIN: %v", msg.Err)
	}
	if msg := CheckPIN(nil, "")().(PINResultMsg); !errors.Is(msg.Err, auth.ErrNoPIN) {
		t.Fatalf("nil gate: %v", msg.Err)
	}
}
