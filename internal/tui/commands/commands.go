// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/alert"
	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/timetable"
)

// SnapshotMsg carries a full schedule and registry, either from the initial
// load or from a store broadcast.
type SnapshotMsg struct {
	Snapshot  timetable.Snapshot
	Broadcast bool // true when it came from the store subscription
}

// SubscriptionClosedMsg is sent when the store stops broadcasting.
type SubscriptionClosedMsg struct{}

// TickMsg drives the board clock.
type TickMsg time.Time

// AlertMsg is sent when the bell rings.
type AlertMsg struct {
	Alert alert.Alert
}

// EditDoneMsg is sent after a subject or teacher edit.
type EditDoneMsg struct {
	ID     string
	Field  timetable.Field
	Result timetable.EditResult
}

// EntriesMsg carries the schedule after an initialize or clear.
type EntriesMsg struct {
	Entries []timetable.Entry
	Status  string
}

// RegistryMsg carries the registry after a registry mutation.
type RegistryMsg struct {
	Registry []timetable.Subject
	Status   string
}

// PINResultMsg reports the outcome of a PIN check.
type PINResultMsg struct {
	Err error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadSnapshot reads the schedule and registry.
func LoadSnapshot(svc *timetable.Service) tea.Cmd {
	return func() tea.Msg {
		snap, err := svc.Snapshot(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// WaitForSnapshot blocks until the store broadcasts the next snapshot.
func WaitForSnapshot(ch <-chan timetable.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return SubscriptionClosedMsg{}
		}
		return SnapshotMsg{Snapshot: snap, Broadcast: true}
	}
}

// Tick fires a TickMsg after d.
func Tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WaitForAlert blocks until the alert driver rings.
func WaitForAlert(ch <-chan alert.Alert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlertMsg{Alert: a}
	}
}

// Edit sets a subject or teacher on an entry.
func Edit(svc *timetable.Service, id string, field timetable.Field, value string) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Edit(context.Background(), id, field, value)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EditDoneMsg{ID: id, Field: field, Result: res}
	}
}

// InitializeDay creates the catalog slots for a class on a day.
func InitializeDay(svc *timetable.Service, day int, className string, shift timetable.Shift) tea.Cmd {
	return func() tea.Msg {
		entries, err := svc.InitializeDay(context.Background(), day, className, shift)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EntriesMsg{Entries: entries, Status: "Dia inicializado: " + className}
	}
}

// ClearSlot empties an entry.
func ClearSlot(svc *timetable.Service, id string) tea.Cmd {
	return func() tea.Msg {
		entries, err := svc.ClearSlot(context.Background(), id)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EntriesMsg{Entries: entries, Status: "Horário limpo"}
	}
}

// AddSubject registers a subject.
func AddSubject(svc *timetable.Service, name string) tea.Cmd {
	return registryCmd("Disciplina adicionada: "+name, func(ctx context.Context) ([]timetable.Subject, error) {
		return svc.AddSubject(ctx, name)
	})
}

// RemoveSubject deletes a subject.
func RemoveSubject(svc *timetable.Service, name string) tea.Cmd {
	return registryCmd("Disciplina removida: "+name, func(ctx context.Context) ([]timetable.Subject, error) {
		return svc.RemoveSubject(ctx, name)
	})
}

// AddTeacher adds a teacher to a subject.
func AddTeacher(svc *timetable.Service, subject, teacher string) tea.Cmd {
	return registryCmd("Professor adicionado: "+teacher, func(ctx context.Context) ([]timetable.Subject, error) {
		return svc.AddTeacher(ctx, subject, teacher)
	})
}

// RemoveTeacher removes a teacher from a subject.
func RemoveTeacher(svc *timetable.Service, subject, teacher string) tea.Cmd {
	return registryCmd("Professor removido: "+teacher, func(ctx context.Context) ([]timetable.Subject, error) {
		return svc.RemoveTeacher(ctx, subject, teacher)
	})
}

func registryCmd(status string, fn func(context.Context) ([]timetable.Subject, error)) tea.Cmd {
	return func() tea.Msg {
		registry, err := fn(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return RegistryMsg{Registry: registry, Status: status}
	}
}

// CheckPIN verifies pin against gate off the update loop.
func CheckPIN(gate *auth.Gate, pin string) tea.Cmd {
	return func() tea.Msg {
		return PINResultMsg{Err: gate.Check(pin)}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text, status string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Msg: status}
	}
}

// ClearStatusAfter returns a command that clears the status after a delay.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
