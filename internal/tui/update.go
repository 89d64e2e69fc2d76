package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/alert"
	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case commands.SnapshotMsg:
		m.entries = msg.Snapshot.Entries
		m.registry = msg.Snapshot.Registry
		m.loaded = true
		m.clampCursor()
		if msg.Broadcast {
			return m, commands.WaitForSnapshot(m.snapshots)
		}
		return m, nil

	case commands.SubscriptionClosedMsg:
		m.snapshots = nil
		return m, nil

	case commands.TickMsg:
		m.clock = time.Time(msg)
		if m.banner != "" && !m.clock.Before(m.bannerUntil) {
			m.banner = ""
		}
		return m, commands.Tick(tickInterval)

	case commands.AlertMsg:
		a := msg.Alert
		m.banner = bannerText(a)
		m.bannerUntil = a.At.Add(a.Duration + bannerLinger)
		return m, commands.WaitForAlert(m.alerts)

	case commands.EditDoneMsg:
		m.entries = msg.Result.Entries
		if !msg.Result.Applied {
			cmd := m.setError("Horário não encontrado")
			return m, cmd
		}
		status := "Salvo"
		if msg.Result.AutoFilled != "" {
			status = "Salvo · professor: " + msg.Result.AutoFilled
		}
		cmd := m.setStatus(status)
		return m, cmd

	case commands.EntriesMsg:
		m.entries = msg.Entries
		cmd := m.setStatus(msg.Status)
		return m, cmd

	case commands.RegistryMsg:
		m.registry = msg.Registry
		m.clampCursor()
		cmd := m.setStatus(msg.Status)
		return m, cmd

	case commands.PINResultMsg:
		return m.handlePINResult(msg.Err)

	case commands.ErrMsg:
		cmd := m.setError(errorText(msg.Err))
		return m, cmd

	case commands.StatusMsg:
		cmd := m.setStatus(msg.Msg)
		return m, cmd

	case commands.ClearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handlePINResult(err error) (tea.Model, tea.Cmd) {
	m.checking = false
	switch {
	case err == nil, errors.Is(err, auth.ErrNoPIN):
		m.unlocked = true
		m.closePIN()
		m.mode = ModeAdmin
		cmd := m.setStatus("Edição liberada")
		return m, cmd
	case errors.Is(err, auth.ErrInvalidPIN):
		m.pinErr = "PIN incorreto"
	default:
		m.pinErr = err.Error()
	}
	m.pinInput.Reset()
	return m, nil
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.status = msg
	m.statusErr = false
	return commands.ClearStatusAfter(statusTimeout)
}

func (m *Model) setError(msg string) tea.Cmd {
	m.status = msg
	m.statusErr = true
	return commands.ClearStatusAfter(statusTimeout)
}

// errorText renders errors for the status line. Conflicts name the class
// and time that already hold the teacher.
func errorText(err error) string {
	var ce *timetable.ConflictError
	if errors.As(err, &ce) {
		return fmt.Sprintf("Conflito: %s já leciona no %s às %s",
			ce.Conflict.TeacherName, ce.Conflict.ConflictingClass, ce.Conflict.ConflictingTime)
	}
	switch {
	case errors.Is(err, timetable.ErrAlreadyInitialized):
		return "Dia já inicializado para esta turma"
	case errors.Is(err, timetable.ErrSubjectExists):
		return "Disciplina já cadastrada"
	case errors.Is(err, timetable.ErrSubjectNotFound):
		return "Disciplina não encontrada"
	case errors.Is(err, timetable.ErrEmptyName):
		return "Nome não pode ser vazio"
	}
	return "Erro: " + err.Error()
}

func bannerText(a alert.Alert) string {
	if a.BreakEnd {
		return "SINAL · fim do intervalo · " + a.Clock
	}
	return "SINAL · " + a.Clock
}
